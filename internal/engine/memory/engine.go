package memory

import (
	"context"

	apperrors "github.com/utafrali/shirtsearch/pkg/errors"

	"github.com/utafrali/shirtsearch/internal/domain"
)

// Engine is an in-memory implementation of the SearchEngine interface over a
// fixed catalog. It holds no locks: the catalog is copied on construction and
// never written again, so concurrent searches only read shared state.
type Engine struct {
	shirts []domain.Shirt
	sizes  []domain.Size
	colors []domain.Color
}

// New creates an engine over a private copy of catalog.
func New(catalog []domain.Shirt) *Engine {
	shirts := make([]domain.Shirt, len(catalog))
	copy(shirts, catalog)

	return &Engine{
		shirts: shirts,
		sizes:  domain.AllSizes(),
		colors: domain.AllColors(),
	}
}

// Len returns the number of shirts in the catalog.
func (e *Engine) Len() int {
	return len(e.shirts)
}

// Search filters the catalog in a single pass. A shirt matches when its size
// is in opts.Sizes (or opts.Sizes is empty) and its color is in opts.Colors
// (or opts.Colors is empty). Matches keep catalog order. Counts cover every
// size and color of the universe in declaration order, zero where nothing
// matched.
func (e *Engine) Search(_ context.Context, opts *domain.SearchOptions) (*domain.SearchResults, error) {
	if opts == nil {
		return nil, apperrors.InvalidArgument("search options must not be nil")
	}

	wantSizes := sizeSet(opts.Sizes)
	wantColors := colorSet(opts.Colors)

	matched := make([]domain.Shirt, 0)
	sizeCounts := make(map[domain.Size]int, len(e.sizes))
	colorCounts := make(map[domain.Color]int, len(e.colors))

	for _, s := range e.shirts {
		if !e.matches(s, wantSizes, wantColors) {
			continue
		}
		matched = append(matched, s)
		sizeCounts[s.Size]++
		colorCounts[s.Color]++
	}

	result := &domain.SearchResults{
		Shirts:      matched,
		SizeCounts:  make([]domain.SizeCount, 0, len(e.sizes)),
		ColorCounts: make([]domain.ColorCount, 0, len(e.colors)),
	}
	for _, size := range e.sizes {
		result.SizeCounts = append(result.SizeCounts, domain.SizeCount{Size: size, Count: sizeCounts[size]})
	}
	for _, color := range e.colors {
		result.ColorCounts = append(result.ColorCounts, domain.ColorCount{Color: color, Count: colorCounts[color]})
	}

	return result, nil
}

// matches checks whether a shirt passes both facet filters. A nil set means
// the dimension is unrestricted.
func (e *Engine) matches(s domain.Shirt, sizes map[domain.Size]struct{}, colors map[domain.Color]struct{}) bool {
	if sizes != nil {
		if _, ok := sizes[s.Size]; !ok {
			return false
		}
	}
	if colors != nil {
		if _, ok := colors[s.Color]; !ok {
			return false
		}
	}
	return true
}

func sizeSet(sizes []domain.Size) map[domain.Size]struct{} {
	if len(sizes) == 0 {
		return nil
	}
	set := make(map[domain.Size]struct{}, len(sizes))
	for _, s := range sizes {
		set[s] = struct{}{}
	}
	return set
}

func colorSet(colors []domain.Color) map[domain.Color]struct{} {
	if len(colors) == 0 {
		return nil
	}
	set := make(map[domain.Color]struct{}, len(colors))
	for _, c := range colors {
		set[c] = struct{}{}
	}
	return set
}
