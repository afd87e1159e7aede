package catalog

import (
	"encoding/json"
	"strings"

	"shopSphere/domain"
)

const relatedPriceBand = 0.20

// relatedFilter rewrites a relatedTo query into the anchor-derived
// predicate: same category with an inclusive price band of ±20%
// around the anchor. Color overlap cannot run in SQL against the
// JSON column and is applied afterwards by filterRelated.
func relatedFilter(f domain.CatalogFilter, anchor *domain.Product) domain.CatalogFilter {
	minPrice := anchor.Price * (1 - relatedPriceBand)
	maxPrice := anchor.Price * (1 + relatedPriceBand)

	f.Category = anchor.Category
	f.MinPrice = &minPrice
	f.MaxPrice = &maxPrice

	return f
}

// filterRelated drops the anchor itself and, when the anchor lists
// colors, everything without at least one shared color.
func filterRelated(items []domain.Product, anchor *domain.Product) []domain.Product {
	anchorColors := decodeColors(anchor.Colors)

	out := items[:0]
	for _, p := range items {
		if p.ID == anchor.ID {
			continue
		}
		if len(anchorColors) > 0 && !colorsOverlap(anchorColors, decodeColors(p.Colors)) {
			continue
		}
		out = append(out, p)
	}

	return out
}

func decodeColors(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}

	var colors []string
	if err := json.Unmarshal(raw, &colors); err != nil {
		return nil
	}

	return colors
}

func colorsOverlap(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, c := range a {
		set[strings.ToLower(c)] = struct{}{}
	}

	for _, c := range b {
		if _, ok := set[strings.ToLower(c)]; ok {
			return true
		}
	}

	return false
}
