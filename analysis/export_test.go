package analysis

import (
	"bytes"
	"strings"
	"testing"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

func TestFormatListenDuration(t *testing.T) {
	t.Parallel()

	cases := []struct {
		ms   int64
		want string
	}{
		{0, "00:00:00"},
		{3661000, "01:01:01"},
		{86400000, "1 days - 00:00:00"},
		{90061000, "1 days - 01:01:01"},
		{2*86400000 + 59000, "2 days - 00:00:59"},
	}
	for _, tc := range cases {
		if got := formatListenDuration(tc.ms); got != tc.want {
			t.Fatalf("formatListenDuration(%d)=%q, want %q", tc.ms, got, tc.want)
		}
	}
}

func TestPairsByCountDesc(t *testing.T) {
	t.Parallel()

	m := orderedmap.New[string, int]()
	m.Set("a", 2)
	m.Set("b", 5)
	m.Set("c", 5)
	m.Set("d", 1)

	pairs := pairsByCountDesc(m)
	want := []string{"b", "c", "a", "d"}
	for i, key := range want {
		if pairs[i].key != key {
			t.Fatalf("pairs[%d]=%q, want %q", i, pairs[i].key, key)
		}
	}
}

func TestQualifyingTitles_StrictThreshold(t *testing.T) {
	t.Parallel()

	entities := []*EntityStats{
		{Title: "big", TotalCount: 51},
		{Title: "edge", TotalCount: 50},
		{Title: "small", TotalCount: 3},
	}
	titles := qualifyingTitles(entities, 50)
	if len(titles) != 1 || titles[0] != "big" {
		t.Fatalf("titles=%v, want [big]", titles)
	}
}

func TestWriteConversationSummary_Compact(t *testing.T) {
	t.Parallel()

	es := newEntityStats("Alpha")
	es.TotalCount = 3
	es.ReactionCount = 1
	es.CountPerParticipant = orderedmap.New[string, int]()
	es.CountPerParticipant.Set("Alice", 2)
	es.CountPerParticipant.Set("Bob", 1)
	es.ReactionPerParticipant = orderedmap.New[string, *CountMap]()
	bob := orderedmap.New[string, int]()
	bob.Set("total_count", 1)
	bob.Set("love", 1)
	es.ReactionPerParticipant.Set("Bob", bob)

	var buf bytes.Buffer
	writeConversationSummary(&buf, es)

	want := "3 messages - Alpha (1 reactions)\n" +
		"  2 messages - Alice (0 reactions)\n" +
		"  1 messages - Bob (1 reactions)\n"
	if buf.String() != want {
		t.Fatalf("summary=%q, want %q", buf.String(), want)
	}
}

func TestWriteConversationSummary_ExpandedBreakdown(t *testing.T) {
	t.Parallel()

	es := newEntityStats("Alpha")
	es.TotalCount = 10
	es.ReactionCount = 5
	es.CountPerParticipant = orderedmap.New[string, int]()
	es.CountPerParticipant.Set("Alice", 10)
	es.ReactionPerParticipant = orderedmap.New[string, *CountMap]()
	alice := orderedmap.New[string, int]()
	alice.Set("total_count", 5)
	alice.Set("love", 3)
	alice.Set("laugh", 2)
	es.ReactionPerParticipant.Set("Alice", alice)

	var buf bytes.Buffer
	writeConversationSummary(&buf, es)
	out := buf.String()

	if !strings.Contains(out, "  10 messages - Alice\n") {
		t.Fatalf("missing expanded participant header in %q", out)
	}
	if !strings.Contains(out, "    Total reaction count 5\n") {
		t.Fatalf("missing total reaction line in %q", out)
	}
	if !strings.Contains(out, "    love 3\n") || !strings.Contains(out, "    laugh 2\n") {
		t.Fatalf("missing per kind lines in %q", out)
	}
}
