package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/shirtsearch/internal/domain"
	apperrors "github.com/utafrali/shirtsearch/pkg/errors"
	"github.com/utafrali/shirtsearch/pkg/httpclient"
	"github.com/utafrali/shirtsearch/pkg/logger"
)

const (
	idA = "0b7e4b62-53a4-4f0e-9d3c-5a1e2f6c7d01"
	idB = "0b7e4b62-53a4-4f0e-9d3c-5a1e2f6c7d02"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestValidate(t *testing.T) {
	shirts, err := Validate([]Record{
		{ID: idA, Name: "Red - Small", Size: "small", Color: "red"},
		{ID: idB, Name: "Blue - Large", Size: "LARGE", Color: "Blue"},
	})
	require.NoError(t, err)
	require.Len(t, shirts, 2)

	assert.Equal(t, uuid.MustParse(idA), shirts[0].ID)
	assert.Equal(t, domain.SizeSmall, shirts[0].Size)
	assert.Equal(t, domain.ColorRed, shirts[0].Color)
	assert.Equal(t, domain.SizeLarge, shirts[1].Size)
	assert.Equal(t, domain.ColorBlue, shirts[1].Color)
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		wantMsg string
	}{
		{
			name:    "malformed id",
			records: []Record{{ID: "nope", Size: "small", Color: "red"}},
			wantMsg: `shirt 0: invalid id "nope"`,
		},
		{
			name:    "nil id",
			records: []Record{{ID: uuid.Nil.String(), Size: "small", Color: "red"}},
			wantMsg: "shirt 0: invalid id",
		},
		{
			name: "duplicate id",
			records: []Record{
				{ID: idA, Size: "small", Color: "red"},
				{ID: idA, Size: "large", Color: "blue"},
			},
			wantMsg: "shirt 1: duplicate id",
		},
		{
			name:    "unknown size",
			records: []Record{{ID: idA, Size: "xxl", Color: "red"}},
			wantMsg: `shirt 0: unknown size "xxl"`,
		},
		{
			name:    "unknown color",
			records: []Record{{ID: idA, Size: "small", Color: "green"}},
			wantMsg: `shirt 0: unknown color "green"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shirts, err := Validate(tt.records)
			assert.Nil(t, shirts)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestRecordFromShirt(t *testing.T) {
	s := domain.NewShirt(uuid.MustParse(idA), "Tee", domain.SizeMedium, domain.ColorWhite)
	rec := RecordFromShirt(s)
	assert.Equal(t, Record{ID: idA, Name: "Tee", Size: "medium", Color: "white"}, rec)

	back, err := Validate([]Record{rec})
	require.NoError(t, err)
	assert.Equal(t, []domain.Shirt{s}, back)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		data   string
	}{
		{name: "json list", format: FormatJSON, data: `[{"id":"` + idA + `","name":"a","size":"small","color":"red"}]`},
		{name: "json object", format: FormatJSON, data: ` {"shirts":[{"id":"` + idA + `","name":"a","size":"small","color":"red"}]}`},
		{name: "yaml list", format: FormatYAML, data: "- id: " + idA + "\n  name: a\n  size: small\n  color: red\n"},
		{name: "yaml object", format: FormatYAML, data: "shirts:\n  - id: " + idA + "\n    name: a\n    size: small\n    color: red\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode([]byte(tt.data), tt.format)
			require.NoError(t, err)
			assert.Equal(t, []Record{{ID: idA, Name: "a", Size: "small", Color: "red"}}, doc.Shirts)
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode([]byte(`{`), FormatJSON)
	assert.Error(t, err)

	_, err = Decode([]byte("just a string"), FormatYAML)
	assert.ErrorContains(t, err, "expected a list or a mapping")

	_, err = Decode([]byte("[]"), Format("toml"))
	assert.ErrorContains(t, err, "unsupported catalog format")
}

func TestDecode_EmptyYAML(t *testing.T) {
	doc, err := Decode(nil, FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, doc.Shirts)
}

func TestFileSource_YAML(t *testing.T) {
	path := writeFile(t, "catalog.yaml", `
shirts:
  - id: `+idA+`
    name: Red - Small
    size: small
    color: red
  - id: `+idB+`
    name: Black - Medium
    size: medium
    color: black
`)
	src := NewFileSource(path)
	assert.Equal(t, path, src.Path())

	shirts, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, shirts, 2)
	assert.Equal(t, "Black - Medium", shirts[1].Name)
	assert.Equal(t, domain.ColorBlack, shirts[1].Color)
}

func TestFileSource_JSON(t *testing.T) {
	path := writeFile(t, "catalog.JSON", `[{"id":"`+idA+`","name":"x","size":"large","color":"yellow"}]`)

	shirts, err := NewFileSource(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, shirts, 1)
	assert.Equal(t, domain.ColorYellow, shirts[0].Color)
}

func TestFileSource_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := NewFileSource(filepath.Join(t.TempDir(), "absent.yaml")).Load(context.Background())
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeFile(t, "catalog.csv", "id,name")
		_, err := NewFileSource(path).Load(context.Background())
		assert.ErrorContains(t, err, "unsupported extension")
	})

	t.Run("invalid record", func(t *testing.T) {
		path := writeFile(t, "catalog.yml", "- id: "+idA+"\n  size: tiny\n  color: red\n")
		_, err := NewFileSource(path).Load(context.Background())
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
		assert.ErrorContains(t, err, path)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewFileSource("whatever.yaml").Load(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func testClientConfig() httpclient.Config {
	cfg := httpclient.DefaultConfig()
	cfg.Timeout = 2 * time.Second
	cfg.MaxRetries = 0
	cfg.RetryWaitMin = time.Millisecond
	cfg.RetryWaitMax = time.Millisecond
	return cfg
}

func TestHTTPSource_Load(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": Document{Shirts: []Record{
				{ID: idA, Name: "a", Size: "small", Color: "red"},
				{ID: idB, Name: "b", Size: "medium", Color: "white"},
			}},
		})
	}))
	defer srv.Close()

	shirts, err := NewHTTPSource(srv.URL, testClientConfig(), logger.Discard()).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, shirts, 2)
	assert.Equal(t, domain.ColorWhite, shirts[1].Color)
}

func TestHTTPSource_MapsClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"catalog"}}`))
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, testClientConfig(), logger.Discard()).Load(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestHTTPSource_ServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, testClientConfig(), logger.Discard()).Load(context.Background())
	assert.ErrorContains(t, err, "server error 500")
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPSource_InvalidPayload(t *testing.T) {
	for name, body := range map[string]string{
		"missing data":   `{"error":null}`,
		"malformed json": `{"data":`,
		"invalid record": `{"data":{"shirts":[{"id":"bad","size":"small","color":"red"}]}}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			shirts, err := NewHTTPSource(srv.URL, testClientConfig(), logger.Discard()).Load(context.Background())
			assert.Nil(t, shirts)
			assert.Error(t, err)
		})
	}
}
