package stats

// group is one bucket produced by groupBy
type group[K comparable, T any] struct {
	Key   K
	Items []T
}

// groupBy buckets items by key while preserving the order in which keys are
// first seen. Several aggregations here depend on that order: rollup levels
// and ranking tie-breaks are defined by input encounter order, not by key
// sort order.
func groupBy[K comparable, T any](items []T, key func(T) K) []group[K, T] {
	index := make(map[K]int, len(items))
	var groups []group[K, T]
	for _, it := range items {
		k := key(it)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, group[K, T]{Key: k})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}
