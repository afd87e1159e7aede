package domain

// Catalog sort keys. Unknown values fall back to SortNewest.
const (
	SortPriceLow   = "price-low"
	SortPriceHigh  = "price-high"
	SortDiscount   = "discount"
	SortPopularity = "popularity"
	SortNewest     = "newest"
)

// CatalogFilter is the single predicate a fan-out query applies to
// every resolved shard.
type CatalogFilter struct {
	Category string
	Search   string
	Gender   string
	// InStock is a tri-state equality filter; nil means "don't care".
	InStock  *bool
	MinPrice *float64
	MaxPrice *float64
	// RelatedTo anchors the query to an existing product: same
	// category, price within ±20% of the anchor and, when the anchor
	// lists colors, at least one shared color.
	RelatedTo string
	// IDs restricts the query to an explicit id set (hydration path).
	// When set, results come back in the order of this slice.
	IDs []string
	// ExcludeIDs removes ids already shown (supplement queries).
	ExcludeIDs []string
}

type CatalogQuery struct {
	Filter   CatalogFilter
	Sort     string
	Page     int
	PageSize int
}

// CatalogPage is the public result shape of a catalog list query.
type CatalogPage struct {
	Items      []Product `json:"items"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
}
