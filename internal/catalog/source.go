// Package catalog loads shirt catalogs from files, remote services and
// events, and checks them before they reach a search engine.
package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/utafrali/shirtsearch/internal/domain"
	apperrors "github.com/utafrali/shirtsearch/pkg/errors"
)

// Source produces a complete catalog snapshot.
type Source interface {
	Load(ctx context.Context) ([]domain.Shirt, error)
}

// Record is the wire form of a shirt in catalog documents and events. Fields
// are plain strings so every input format shares one validation path.
type Record struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Size  string `json:"size" yaml:"size"`
	Color string `json:"color" yaml:"color"`
}

// Document is the object form of a catalog: {"shirts": [...]}.
type Document struct {
	Shirts []Record `json:"shirts" yaml:"shirts"`
}

// RecordFromShirt converts a shirt to its wire form.
func RecordFromShirt(s domain.Shirt) Record {
	return Record{
		ID:    s.ID.String(),
		Name:  s.Name,
		Size:  s.Size.String(),
		Color: s.Color.String(),
	}
}

// Validate converts records to shirts. Every id must be a unique, non-nil
// UUID and every size and color a member of its universe. The first
// offending record is reported as an invalid argument carrying its index.
func Validate(records []Record) ([]domain.Shirt, error) {
	shirts := make([]domain.Shirt, 0, len(records))
	seen := make(map[uuid.UUID]int, len(records))

	for i, rec := range records {
		id, err := uuid.Parse(rec.ID)
		if err != nil || id == uuid.Nil {
			return nil, apperrors.InvalidArgumentf("shirt %d: invalid id %q", i, rec.ID)
		}
		if prev, dup := seen[id]; dup {
			return nil, apperrors.InvalidArgumentf("shirt %d: duplicate id %s (first seen at %d)", i, id, prev)
		}
		seen[id] = i

		size, err := domain.ParseSize(rec.Size)
		if err != nil {
			return nil, apperrors.InvalidArgumentf("shirt %d: %v", i, err)
		}
		color, err := domain.ParseColor(rec.Color)
		if err != nil {
			return nil, apperrors.InvalidArgumentf("shirt %d: %v", i, err)
		}

		shirts = append(shirts, domain.NewShirt(id, rec.Name, size, color))
	}

	return shirts, nil
}

// ValidateDocument is Validate over doc.Shirts, wrapping errors with where
// the document came from.
func ValidateDocument(doc *Document, origin string) ([]domain.Shirt, error) {
	shirts, err := Validate(doc.Shirts)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", origin, err)
	}
	return shirts, nil
}
