package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"shopSphere/domain"
)

const (
	listKeyPrefix   = "catalog:list:"
	detailKeyPrefix = "catalog:product:"
)

// listCacheKey builds a canonical, order-independent key from the
// full query tuple: non-empty fields as k=v pairs, sorted by key.
// Two requests that differ only in parameter order or letter case of
// case-insensitive fields share one entry.
func listCacheKey(q domain.CatalogQuery) string {
	parts := map[string]string{
		"page":  strconv.Itoa(q.Page),
		"limit": strconv.Itoa(q.PageSize),
		"sort":  q.Sort,
	}

	f := q.Filter
	if f.Category != "" {
		parts["category"] = domain.NormalizeCategory(f.Category)
	}
	if f.Search != "" {
		parts["search"] = strings.ToLower(strings.TrimSpace(f.Search))
	}
	if f.Gender != "" {
		parts["gender"] = strings.ToLower(f.Gender)
	}
	if f.InStock != nil {
		parts["inStock"] = strconv.FormatBool(*f.InStock)
	}
	if f.MinPrice != nil {
		parts["minPrice"] = strconv.FormatFloat(*f.MinPrice, 'f', -1, 64)
	}
	if f.MaxPrice != nil {
		parts["maxPrice"] = strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64)
	}
	if f.RelatedTo != "" {
		parts["relatedTo"] = f.RelatedTo
	}

	keys := make([]string, 0, len(parts))
	for k := range parts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, parts[k]))
	}

	return listKeyPrefix + strings.Join(pairs, "|")
}

func detailCacheKey(id string) string {
	return detailKeyPrefix + id
}
