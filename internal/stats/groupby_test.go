package stats

import "testing"

// TestGroupByPreservesFirstSeenOrder ensures keys surface in encounter order
// and items stay in input order within each bucket.
func TestGroupByPreservesFirstSeenOrder(t *testing.T) {
	items := []string{"beta", "alpha", "beta", "gamma", "alpha"}

	groups := groupBy(items, func(s string) string { return s })
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	if groups[0].Key != "beta" || groups[1].Key != "alpha" || groups[2].Key != "gamma" {
		t.Fatalf("unexpected key order: %s, %s, %s", groups[0].Key, groups[1].Key, groups[2].Key)
	}
	if len(groups[0].Items) != 2 || len(groups[1].Items) != 2 || len(groups[2].Items) != 1 {
		t.Fatalf("unexpected bucket sizes: %d, %d, %d", len(groups[0].Items), len(groups[1].Items), len(groups[2].Items))
	}
}

// TestGroupByDerivedKey ensures grouping by a computed key buckets correctly.
func TestGroupByDerivedKey(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6}

	groups := groupBy(items, func(n int) int { return n % 2 })
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Key != 1 {
		t.Fatalf("expected odd group first (1 seen first), got key %d", groups[0].Key)
	}
	if len(groups[0].Items) != 3 || len(groups[1].Items) != 3 {
		t.Fatalf("unexpected bucket sizes: %d, %d", len(groups[0].Items), len(groups[1].Items))
	}
}

// TestGroupByEmpty ensures empty input yields no groups.
func TestGroupByEmpty(t *testing.T) {
	if groups := groupBy(nil, func(s string) string { return s }); len(groups) != 0 {
		t.Fatalf("expected no groups, got %d", len(groups))
	}
}
