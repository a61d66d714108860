package domain

import (
	"github.com/google/uuid"
)

// Shirt is one catalog item. It is a value type and is never modified once
// it has been placed in a catalog.
type Shirt struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Size  Size      `json:"size"`
	Color Color     `json:"color"`
}

// NewShirt builds a Shirt. It does not validate size or color; catalog
// sources do that before a catalog is published.
func NewShirt(id uuid.UUID, name string, size Size, color Color) Shirt {
	return Shirt{ID: id, Name: name, Size: size, Color: color}
}
