package domain

import (
	"fmt"
	"strings"
)

// Color is a closed enumeration of garment colors. The zero value is invalid.
type Color uint8

const (
	ColorRed Color = iota + 1
	ColorBlue
	ColorYellow
	ColorWhite
	ColorBlack
)

var colorNames = map[Color]string{
	ColorRed:    "red",
	ColorBlue:   "blue",
	ColorYellow: "yellow",
	ColorWhite:  "white",
	ColorBlack:  "black",
}

// AllColors returns every color in declaration order, as a fresh slice.
func AllColors() []Color {
	return []Color{ColorRed, ColorBlue, ColorYellow, ColorWhite, ColorBlack}
}

// ParseColor maps a case-insensitive name to a Color.
func ParseColor(s string) (Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for color, n := range colorNames {
		if n == name {
			return color, nil
		}
	}
	return 0, fmt.Errorf("unknown color %q", s)
}

// IsValid reports whether c is a member of the color universe.
func (c Color) IsValid() bool {
	_, ok := colorNames[c]
	return ok
}

func (c Color) String() string {
	if n, ok := colorNames[c]; ok {
		return n
	}
	return fmt.Sprintf("Color(%d)", uint8(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	if !c.IsValid() {
		return nil, fmt.Errorf("invalid color %d", uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	v, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ColorNames returns the names of AllColors, in the same order.
func ColorNames() []string {
	colors := AllColors()
	names := make([]string, len(colors))
	for i, c := range colors {
		names[i] = c.String()
	}
	return names
}
