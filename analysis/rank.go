package analysis

import "sort"

// Rank sorts entities by total count descending, in place. The sort is
// stable: ties keep their index order, so repeated runs over unchanged input
// produce byte-identical artifacts.
func Rank(entities []*EntityStats) {
	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].TotalCount > entities[j].TotalCount
	})
}
