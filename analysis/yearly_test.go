package analysis

import (
	"testing"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

func TestObservedYears(t *testing.T) {
	t.Parallel()

	a := newEntityStats("a")
	yearStatsFor(a.CountPerYear, "2022").Count = 1
	yearStatsFor(a.CountPerYear, "2019").Count = 1
	b := newEntityStats("b")
	yearStatsFor(b.CountPerYear, "2022").Count = 1
	yearStatsFor(b.CountPerYear, "2021").Count = 1

	years := observedYears([]*EntityStats{a, b})
	want := []string{"2019", "2021", "2022"}
	if len(years) != len(want) {
		t.Fatalf("years=%v, want %v", years, want)
	}
	for i := range want {
		if years[i] != want[i] {
			t.Fatalf("years[%d]=%q, want %q", i, years[i], want[i])
		}
	}
}

func TestTopReaction(t *testing.T) {
	t.Parallel()

	es := newEntityStats("a")
	ys := yearStatsFor(es.CountPerYear, "2022")
	ys.Count = 10
	ys.ReactionPerParticipant = orderedmap.New[string, *CountMap]()
	given := orderedmap.New[string, int]()
	given.Set("total_count", 7)
	given.Set("love", 4)
	given.Set("laugh", 3)
	ys.ReactionPerParticipant.Set("Alice", given)

	kind, count := topReaction([]*EntityStats{es}, "Alice", "2022")
	if kind != "love" || count != 4 {
		t.Fatalf("topReaction=%q/%d, want love/4", kind, count)
	}

	// The synthetic total never wins.
	if kind, _ := topReaction([]*EntityStats{es}, "Alice", "2022"); kind == "total_count" {
		t.Fatalf("total_count must be excluded")
	}

	if kind, count := topReaction([]*EntityStats{es}, "", "2022"); kind != "" || count != 0 {
		t.Fatalf("expected no reaction without an owner")
	}
}
