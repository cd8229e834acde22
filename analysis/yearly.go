package analysis

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"rewind/fileutils"
)

// observedYears lists every year any entity has activity in, ascending.
func observedYears(entities []*EntityStats) []string {
	seen := make(map[string]struct{})
	for _, es := range entities {
		for p := es.CountPerYear.Oldest(); p != nil; p = p.Next() {
			seen[p.Key] = struct{}{}
		}
	}
	years := make([]string, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Strings(years)
	return years
}

// exportYearly writes the messages-only yearly artifacts: the per-person
// message and reaction rollups across all conversations, and one ranked
// conversation table per observed year.
func exportYearly(cfg Config, entities []*EntityStats, outputDir string) error {
	years := observedYears(entities)
	if len(years) == 0 {
		return nil
	}

	messagesPerYear := orderedmap.New[string, *CountMap]()
	reactionsPerYear := orderedmap.New[string, *orderedmap.OrderedMap[string, *CountMap]]()

	for _, year := range years {
		perPerson := nestedCounts(messagesPerYear, year)
		perReactor := orderedmap.New[string, *CountMap]()
		reactionsPerYear.Set(year, perReactor)

		for _, es := range entities {
			ys, ok := es.CountPerYear.Get(year)
			if !ok {
				continue
			}
			if ys.CountPerParticipant != nil {
				for p := ys.CountPerParticipant.Oldest(); p != nil; p = p.Next() {
					bump(perPerson, p.Key, p.Value)
				}
			}
			if ys.ReactionPerParticipant != nil {
				for rp := ys.ReactionPerParticipant.Oldest(); rp != nil; rp = rp.Next() {
					kinds := nestedCounts(perReactor, rp.Key)
					for k := rp.Value.Oldest(); k != nil; k = k.Next() {
						bump(kinds, k.Key, k.Value)
					}
				}
			}
		}
	}

	if err := fileutils.WriteJSON(filepath.Join(outputDir, "message_per_person_per_year.json"), messagesPerYear, false); err != nil {
		return err
	}
	cfg.Log.Info().Str("artifact", "message_per_person_per_year.json").Msg("exported")

	if err := fileutils.WriteJSON(filepath.Join(outputDir, "reaction_per_person_per_year.json"), reactionsPerYear, false); err != nil {
		return err
	}
	cfg.Log.Info().Str("artifact", "reaction_per_person_per_year.json").Msg("exported")

	for _, year := range years {
		if err := exportYearCount(cfg, entities, year, outputDir); err != nil {
			return err
		}
	}
	return nil
}

// exportYearCount writes message_{year}.csv: the conversations active that
// year ranked by that year's message count.
func exportYearCount(cfg Config, entities []*EntityStats, year, outputDir string) error {
	type yearCount struct {
		title string
		count int
	}
	var counts []yearCount
	for _, es := range entities {
		if ys, ok := es.CountPerYear.Get(year); ok && ys.Count > 0 {
			counts = append(counts, yearCount{title: es.Title, count: ys.Count})
		}
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].count > counts[j].count })

	rows := make([][]any, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []any{c.title, c.count})
	}

	var table bytes.Buffer
	if err := WriteTable(&table, []string{"conversation_name", "message_count"}, rows, Delimiter); err != nil {
		return err
	}
	return writeArtifact(cfg, outputDir, fmt.Sprintf("message_%s.csv", year), table.Bytes())
}

// writeRewind prints the yearly rewind for the most recent observed year:
// a short owner-centric summary of that year's activity. The owner is only a
// heuristic guess, and is labelled as such.
func writeRewind(cfg Config, entities []*EntityStats) error {
	out := cfg.Rewind
	if out == nil {
		out = io.Discard
	}

	years := observedYears(entities)
	if len(years) == 0 {
		return nil
	}
	year := years[len(years)-1]
	owner := InferOwner(entities)

	total := 0
	sent := 0
	active := 0
	type yearCount struct {
		title string
		count int
	}
	var tops []yearCount
	for _, es := range entities {
		ys, ok := es.CountPerYear.Get(year)
		if !ok || ys.Count == 0 {
			continue
		}
		active++
		total += ys.Count
		if ys.CountPerParticipant != nil {
			n, _ := ys.CountPerParticipant.Get(owner)
			sent += n
		}
		tops = append(tops, yearCount{title: es.Title, count: ys.Count})
	}
	sort.SliceStable(tops, func(i, j int) bool { return tops[i].count > tops[j].count })
	if len(tops) > 5 {
		tops = tops[:5]
	}

	fmt.Fprintf(out, "==== %s rewind ====\n", year)
	if owner != "" {
		fmt.Fprintf(out, "Owner guess: %s\n", owner)
	}
	fmt.Fprintf(out, "%d messages across %d conversations\n", total, active)
	if owner != "" {
		fmt.Fprintf(out, "You sent %d messages\n", sent)
	}
	fmt.Fprintln(out, "Top conversations:")
	for i, top := range tops {
		fmt.Fprintf(out, "  %d. %d messages - %s\n", i+1, top.count, top.title)
	}
	if kind, count := topReaction(entities, owner, year); kind != "" {
		fmt.Fprintf(out, "Most used reaction: %s (%d times)\n", kind, count)
	}
	return nil
}

// topReaction finds the reaction kind the owner used the most during year.
func topReaction(entities []*EntityStats, owner, year string) (string, int) {
	if owner == "" {
		return "", 0
	}
	kinds := orderedmap.New[string, int]()
	for _, es := range entities {
		ys, ok := es.CountPerYear.Get(year)
		if !ok || ys.ReactionPerParticipant == nil {
			continue
		}
		given, ok := ys.ReactionPerParticipant.Get(owner)
		if !ok {
			continue
		}
		for k := given.Oldest(); k != nil; k = k.Next() {
			if k.Key == "total_count" {
				continue
			}
			bump(kinds, k.Key, k.Value)
		}
	}

	best := ""
	bestCount := 0
	for p := kinds.Oldest(); p != nil; p = p.Next() {
		if p.Value > bestCount {
			best = p.Key
			bestCount = p.Value
		}
	}
	return best, bestCount
}
