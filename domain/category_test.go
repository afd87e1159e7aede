//go:build !integration

package domain

import (
	"slices"
	"testing"
)

func TestNormalizeCategory(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Jeans", "jeans"},
		{"  T-Shirts ", "tshirts"},
		{"Home & Living", "homeliving"},
		{"ACCESSORIES", "accessories"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := NormalizeCategory(tc.in); got != tc.want {
			t.Errorf("NormalizeCategory(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCategoryMatches(t *testing.T) {
	if !CategoryMatches("Jeans", "jean") {
		t.Error("singular and plural forms must match")
	}
	if !CategoryMatches("T-Shirts", "tshirt") {
		t.Error("punctuation must not break the match")
	}
	if CategoryMatches("Jeans", "Shoes") {
		t.Error("distinct categories must not match")
	}
}

func TestShardForCategory(t *testing.T) {
	if got := ShardForCategory("Jeans"); got != "products_jeans" {
		t.Errorf("ShardForCategory(Jeans) = %q", got)
	}
	if got := ShardForCategory(""); got != DefaultShard {
		t.Errorf("ShardForCategory(empty) = %q, want the default shard", got)
	}
}

func TestShardCandidates(t *testing.T) {
	got := ShardCandidates("Jean")
	want := []string{"products_jean", "products_jeans"}
	if !slices.Equal(got, want) {
		t.Errorf("ShardCandidates(Jean) = %v, want %v", got, want)
	}

	if slices.Contains(ShardCandidates("Shirt"), DefaultShard) {
		t.Error("candidates must not include the default shard")
	}

	if ShardCandidates("") != nil {
		t.Error("empty category has no candidate shards")
	}
}
