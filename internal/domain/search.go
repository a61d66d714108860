package domain

// SearchOptions are the facet filters for one search. An empty Sizes or
// Colors slice places no restriction on that dimension. Duplicates are
// allowed and have no effect.
type SearchOptions struct {
	Sizes  []Size  `json:"sizes"`
	Colors []Color `json:"colors"`
}

// SizeCount is the number of matching shirts of one size.
type SizeCount struct {
	Size  Size `json:"size"`
	Count int  `json:"count"`
}

// ColorCount is the number of matching shirts of one color.
type ColorCount struct {
	Color Color `json:"color"`
	Count int   `json:"count"`
}

// SearchResults holds the matching shirts in catalog order plus one count per
// member of each facet universe, zero where nothing matched.
type SearchResults struct {
	Shirts      []Shirt      `json:"shirts"`
	SizeCounts  []SizeCount  `json:"size_counts"`
	ColorCounts []ColorCount `json:"color_counts"`
}

// SizeCount returns the count recorded for s, or 0.
func (r *SearchResults) SizeCount(s Size) int {
	for _, sc := range r.SizeCounts {
		if sc.Size == s {
			return sc.Count
		}
	}
	return 0
}

// ColorCount returns the count recorded for c, or 0.
func (r *SearchResults) ColorCount(c Color) int {
	for _, cc := range r.ColorCounts {
		if cc.Color == c {
			return cc.Count
		}
	}
	return 0
}

// Universe lists every facet value a client can filter on.
type Universe struct {
	Sizes  []Size  `json:"sizes"`
	Colors []Color `json:"colors"`
}

// FacetUniverse returns the full size and color universes.
func FacetUniverse() Universe {
	return Universe{Sizes: AllSizes(), Colors: AllColors()}
}
