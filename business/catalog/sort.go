package catalog

import (
	"sort"
	"time"

	"shopSphere/domain"
	"shopSphere/pkg/ident"
)

// sortProducts orders the merged list in memory. Every comparison
// falls back to the id so the total order is deterministic and page
// boundaries stay stable across requests.
func sortProducts(items []domain.Product, key string) {
	switch key {
	case domain.SortPriceLow:
		sort.Slice(items, func(i, j int) bool {
			if items[i].Price != items[j].Price {
				return items[i].Price < items[j].Price
			}
			return items[i].ID < items[j].ID
		})
	case domain.SortPriceHigh:
		sort.Slice(items, func(i, j int) bool {
			if items[i].Price != items[j].Price {
				return items[i].Price > items[j].Price
			}
			return items[i].ID < items[j].ID
		})
	case domain.SortDiscount:
		sort.Slice(items, func(i, j int) bool {
			if items[i].Discount != items[j].Discount {
				return items[i].Discount > items[j].Discount
			}
			return items[i].ID < items[j].ID
		})
	case domain.SortPopularity:
		sort.Slice(items, func(i, j int) bool {
			si, sj := items[i].PopularityScore(), items[j].PopularityScore()
			if si != sj {
				return si > sj
			}
			return items[i].ID < items[j].ID
		})
	default: // newest
		sort.Slice(items, func(i, j int) bool {
			ti, tj := createdTime(items[i]), createdTime(items[j])
			if !ti.Equal(tj) {
				return ti.After(tj)
			}
			return items[i].ID > items[j].ID
		})
	}
}

// createdTime prefers the stored timestamp and falls back to the
// clock bits embedded in the id.
func createdTime(p domain.Product) time.Time {
	if !p.CreatedAt.IsZero() {
		return p.CreatedAt
	}

	return ident.CreatedAt(p.ID)
}

// orderByIDs rearranges items to follow the caller-supplied id order
// (hydration path). Unknown ids sort last by id.
func orderByIDs(items []domain.Product, ids []string) {
	rank := make(map[string]int, len(ids))
	for i, id := range ids {
		rank[id] = i
	}

	sort.Slice(items, func(i, j int) bool {
		ri, iOK := rank[items[i].ID]
		rj, jOK := rank[items[j].ID]
		if iOK && jOK {
			return ri < rj
		}
		if iOK != jOK {
			return iOK
		}
		return items[i].ID < items[j].ID
	})
}
