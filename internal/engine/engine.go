package engine

import (
	"context"

	"github.com/utafrali/shirtsearch/internal/domain"
)

// SearchEngine answers faceted searches over one catalog snapshot.
// Implementations are read-only after construction and must be safe for
// concurrent use.
type SearchEngine interface {
	// Search returns the shirts matching opts together with size and color
	// counts over the matches. A nil opts is an invalid argument.
	Search(ctx context.Context, opts *domain.SearchOptions) (*domain.SearchResults, error)

	// Len reports the number of shirts in the catalog snapshot.
	Len() int
}
