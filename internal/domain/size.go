package domain

import (
	"fmt"
	"strings"
)

// Size is a closed enumeration of garment sizes. The zero value is invalid.
type Size uint8

const (
	SizeSmall Size = iota + 1
	SizeMedium
	SizeLarge
)

var sizeNames = map[Size]string{
	SizeSmall:  "small",
	SizeMedium: "medium",
	SizeLarge:  "large",
}

// AllSizes returns every size in declaration order. The slice is fresh on
// every call, so callers may modify it.
func AllSizes() []Size {
	return []Size{SizeSmall, SizeMedium, SizeLarge}
}

// ParseSize maps a case-insensitive name to a Size.
func ParseSize(s string) (Size, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for size, n := range sizeNames {
		if n == name {
			return size, nil
		}
	}
	return 0, fmt.Errorf("unknown size %q", s)
}

// IsValid reports whether s is a member of the size universe.
func (s Size) IsValid() bool {
	_, ok := sizeNames[s]
	return ok
}

func (s Size) String() string {
	if n, ok := sizeNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Size(%d)", uint8(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Size) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid size %d", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Size) UnmarshalText(text []byte) error {
	v, err := ParseSize(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// SizeNames returns the names of AllSizes, in the same order.
func SizeNames() []string {
	sizes := AllSizes()
	names := make([]string, len(sizes))
	for i, s := range sizes {
		names[i] = s.String()
	}
	return names
}
