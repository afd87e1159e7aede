package domain

// DefaultShard is the overflow partition. It may hold products of any
// category and is always appended as the last fan-out target.
const DefaultShard = "products"

// ShardForCategory derives the canonical home partition name for a
// category.
func ShardForCategory(category string) string {
	normalized := NormalizeCategory(category)
	if normalized == "" {
		return DefaultShard
	}

	return DefaultShard + "_" + normalized
}

// ShardCandidates lists the partition names a category may live
// under: the canonical name plus its plural and singular-stripped
// variants. The default partition is not included; resolvers append
// it separately.
func ShardCandidates(category string) []string {
	normalized := NormalizeCategory(category)
	if normalized == "" {
		return nil
	}

	stripped := SingularCategory(normalized)

	seen := make(map[string]struct{}, 3)
	var out []string
	for _, variant := range []string{normalized, normalized + "s", stripped} {
		if variant == "" {
			continue
		}
		name := DefaultShard + "_" + variant
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	return out
}
