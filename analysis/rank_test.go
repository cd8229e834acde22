package analysis

import "testing"

func TestRank_StableOnTies(t *testing.T) {
	t.Parallel()

	entities := []*EntityStats{
		{Title: "A", TotalCount: 5},
		{Title: "B", TotalCount: 5},
		{Title: "C", TotalCount: 3},
	}
	Rank(entities)

	want := []string{"A", "B", "C"}
	for i, title := range want {
		if entities[i].Title != title {
			t.Fatalf("entities[%d]=%q, want %q", i, entities[i].Title, title)
		}
	}
}

func TestRank_Descending(t *testing.T) {
	t.Parallel()

	entities := []*EntityStats{
		{Title: "low", TotalCount: 1},
		{Title: "high", TotalCount: 100},
		{Title: "mid", TotalCount: 10},
	}
	Rank(entities)

	want := []string{"high", "mid", "low"}
	for i, title := range want {
		if entities[i].Title != title {
			t.Fatalf("entities[%d]=%q, want %q", i, entities[i].Title, title)
		}
	}
}
