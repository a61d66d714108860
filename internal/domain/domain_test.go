package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllSizes_DeclarationOrder(t *testing.T) {
	assert.Equal(t, []Size{SizeSmall, SizeMedium, SizeLarge}, AllSizes())
	assert.Equal(t, []string{"small", "medium", "large"}, SizeNames())
}

func TestAllColors_DeclarationOrder(t *testing.T) {
	assert.Equal(t, []Color{ColorRed, ColorBlue, ColorYellow, ColorWhite, ColorBlack}, AllColors())
	assert.Equal(t, []string{"red", "blue", "yellow", "white", "black"}, ColorNames())
}

func TestAllSizes_ReturnsFreshSlice(t *testing.T) {
	s := AllSizes()
	s[0] = SizeLarge
	assert.Equal(t, SizeSmall, AllSizes()[0])

	c := AllColors()
	c[0] = ColorBlack
	assert.Equal(t, ColorRed, AllColors()[0])
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    Size
		wantErr bool
	}{
		{in: "small", want: SizeSmall},
		{in: "MEDIUM", want: SizeMedium},
		{in: " Large ", want: SizeLarge},
		{in: "xl", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSize(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{in: "red", want: ColorRed},
		{in: "Blue", want: ColorBlue},
		{in: "YELLOW", want: ColorYellow},
		{in: "white", want: ColorWhite},
		{in: "black", want: ColorBlack},
		{in: "green", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestZeroValuesAreInvalid(t *testing.T) {
	var s Size
	var c Color
	assert.False(t, s.IsValid())
	assert.False(t, c.IsValid())
	assert.Equal(t, "Size(0)", s.String())
	assert.Equal(t, "Color(0)", c.String())

	_, err := s.MarshalText()
	assert.Error(t, err)
	_, err = c.MarshalText()
	assert.Error(t, err)
}

func TestShirt_JSON(t *testing.T) {
	id := uuid.MustParse("6f1c2d3e-4b5a-4c6d-8e7f-001122334455")
	shirt := NewShirt(id, "Oxford", SizeMedium, ColorBlue)

	b, err := json.Marshal(shirt)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"6f1c2d3e-4b5a-4c6d-8e7f-001122334455","name":"Oxford","size":"medium","color":"blue"}`, string(b))

	var decoded Shirt
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, shirt, decoded)
}

func TestSearchOptions_UnmarshalRejectsUnknownValues(t *testing.T) {
	var opts SearchOptions
	err := json.Unmarshal([]byte(`{"sizes":["small","huge"]}`), &opts)
	assert.Error(t, err)
}

func TestSearchResults_CountLookups(t *testing.T) {
	r := &SearchResults{
		SizeCounts:  []SizeCount{{Size: SizeSmall, Count: 2}, {Size: SizeLarge, Count: 1}},
		ColorCounts: []ColorCount{{Color: ColorRed, Count: 3}},
	}
	assert.Equal(t, 2, r.SizeCount(SizeSmall))
	assert.Equal(t, 0, r.SizeCount(SizeMedium))
	assert.Equal(t, 3, r.ColorCount(ColorRed))
	assert.Equal(t, 0, r.ColorCount(ColorBlack))
}

func TestFacetUniverse(t *testing.T) {
	u := FacetUniverse()
	assert.Equal(t, AllSizes(), u.Sizes)
	assert.Equal(t, AllColors(), u.Colors)
}
