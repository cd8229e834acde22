package analysis

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// CountMap is an insertion-ordered string counter. Insertion order is the
// order keys were first seen while walking records, which keeps JSON
// artifacts and tie-breaks deterministic across runs.
type CountMap = orderedmap.OrderedMap[string, int]

// AggregateStats is the analysis cache payload: the composite version it was
// computed under plus one EntityStats per entity, in index order.
type AggregateStats struct {
	Version  string         `json:"version"`
	Entities []*EntityStats `json:"entities"`
}

// EntityStats holds every derived counter for one entity. Fields that do not
// apply to a content type stay nil and are omitted from the cache file.
// Counters are only ever rebuilt from records, never hand-edited.
type EntityStats struct {
	Title        string   `json:"title"`
	Participants []string `json:"participants,omitempty"`

	TotalCount       int   `json:"total_count"`
	ReactionCount    int   `json:"reaction_count,omitempty"`
	ListenDurationMS int64 `json:"listen_duration_ms,omitempty"`

	CountPerParticipant *CountMap `json:"count_per_participant,omitempty"`

	// ReactionPerParticipant maps participant -> reaction kind -> count,
	// with a synthetic "total_count" key equal to the sum of the others.
	ReactionPerParticipant *orderedmap.OrderedMap[string, *CountMap] `json:"reaction_per_participant,omitempty"`

	// CountPerDay is keyed by "YYYY-MM-DD", CountPerHour by "h00".."h23".
	CountPerDay               *CountMap                                 `json:"count_per_day"`
	CountPerDayPerParticipant *orderedmap.OrderedMap[string, *CountMap] `json:"count_per_day_per_participant,omitempty"`
	CountPerHour              *CountMap                                 `json:"count_per_hour"`

	// CountPerYear is keyed by "YYYY".
	CountPerYear *orderedmap.OrderedMap[string, *YearStats] `json:"count_per_year,omitempty"`
}

// YearStats is the year-scoped mirror of an entity's counters.
type YearStats struct {
	Count                  int                                       `json:"count"`
	CountPerParticipant    *CountMap                                 `json:"count_per_participant,omitempty"`
	ReactionPerParticipant *orderedmap.OrderedMap[string, *CountMap] `json:"reaction_per_participant,omitempty"`
}

func newEntityStats(title string) *EntityStats {
	return &EntityStats{
		Title:        title,
		CountPerDay:  orderedmap.New[string, int](),
		CountPerHour: orderedmap.New[string, int](),
		CountPerYear: orderedmap.New[string, *YearStats](),
	}
}

// bump adds delta to m[key], creating the key at the tail on first touch.
func bump(m *CountMap, key string, delta int) {
	v, _ := m.Get(key)
	m.Set(key, v+delta)
}

func nestedCounts(m *orderedmap.OrderedMap[string, *CountMap], key string) *CountMap {
	if inner, ok := m.Get(key); ok {
		return inner
	}
	inner := orderedmap.New[string, int]()
	m.Set(key, inner)
	return inner
}

func yearStatsFor(m *orderedmap.OrderedMap[string, *YearStats], year string) *YearStats {
	if ys, ok := m.Get(year); ok {
		return ys
	}
	ys := &YearStats{}
	m.Set(year, ys)
	return ys
}
