package domain

import "strings"

// NormalizeCategory canonicalizes a category string for shard naming
// and key derivation: lower-cased with everything outside [a-z0-9]
// stripped.
func NormalizeCategory(category string) string {
	var b strings.Builder

	for _, r := range strings.ToLower(strings.TrimSpace(category)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// SingularCategory strips a trailing "s" from an already normalized
// category, so "jeans" and "jean" compare equal.
func SingularCategory(normalized string) string {
	return strings.TrimSuffix(normalized, "s")
}

// CategoryMatches compares two raw category strings under the
// singular/plural, case-insensitive rule.
func CategoryMatches(a, b string) bool {
	return SingularCategory(NormalizeCategory(a)) == SingularCategory(NormalizeCategory(b))
}
