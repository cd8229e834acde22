package analysis

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"rewind/fileutils"
)

// profile carries the per-content-type labels and thresholds of the export
// artifacts.
type profile struct {
	prefix       string // artifact filename prefix: "message", "listen", "view"
	unit         string // human unit in the text summary
	rowLabel     string // first header cell of the per-hour table
	countHeaders []string

	// minCount excludes low-activity entities from the month/hour/weekday
	// breakdowns (never from the top-level counts) to keep wide tables
	// readable.
	minCount int
}

func (c Config) profile() profile {
	switch c.Type {
	case Music:
		return profile{
			prefix:       "listen",
			unit:         "listens",
			rowLabel:     "Artist name",
			countHeaders: []string{"name", "listen_count", "listen_duration"},
			minCount:     10,
		}
	case Videos:
		return profile{
			prefix:       "view",
			unit:         "views",
			rowLabel:     "Channel name",
			countHeaders: []string{"channel_name", "view_count"},
			minCount:     50,
		}
	default:
		return profile{
			prefix:       "message",
			unit:         "messages",
			rowLabel:     "Thread name",
			countHeaders: []string{"conversation_name", "message_count"},
			minCount:     50,
		}
	}
}

func writeArtifact(cfg Config, outputDir, name string, data []byte) error {
	if err := fileutils.WriteFileAtomic(filepath.Join(outputDir, name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	cfg.Log.Info().Str("artifact", name).Msg("exported")
	return nil
}

type kv struct {
	key   string
	value int
}

// pairsByCountDesc returns m's pairs sorted by count descending, ties in
// insertion order.
func pairsByCountDesc(m *CountMap) []kv {
	pairs := make([]kv, 0, m.Len())
	for p := m.Oldest(); p != nil; p = p.Next() {
		pairs = append(pairs, kv{key: p.Key, value: p.Value})
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].value > pairs[j].value })
	return pairs
}

// qualifyingTitles lists the titles of ranked entities strictly above the
// breakdown threshold, in rank order.
func qualifyingTitles(entities []*EntityStats, minCount int) []string {
	var titles []string
	for _, es := range entities {
		if es.TotalCount > minCount {
			titles = append(titles, es.Title)
		}
	}
	return titles
}

// exportCount writes the ranked per-entity totals: the text summary and the
// two-or-three column count table.
func exportCount(cfg Config, entities []*EntityStats, outputDir string) error {
	prof := cfg.profile()

	var txt bytes.Buffer
	rows := make([][]any, 0, len(entities))
	for _, es := range entities {
		switch cfg.Type {
		case Messages:
			writeConversationSummary(&txt, es)
			rows = append(rows, []any{es.Title, es.TotalCount})
		case Music:
			duration := formatListenDuration(es.ListenDurationMS)
			fmt.Fprintf(&txt, "%d %s - %s - %s\n", es.TotalCount, prof.unit, es.Title, duration)
			rows = append(rows, []any{es.Title, es.TotalCount, duration})
		default:
			fmt.Fprintf(&txt, "%d %s - %s\n", es.TotalCount, prof.unit, es.Title)
			rows = append(rows, []any{es.Title, es.TotalCount})
		}
	}
	if err := writeArtifact(cfg, outputDir, prof.prefix+"_count.txt", txt.Bytes()); err != nil {
		return err
	}

	var table bytes.Buffer
	if err := WriteTable(&table, prof.countHeaders, rows, Delimiter); err != nil {
		return err
	}
	return writeArtifact(cfg, outputDir, prof.prefix+"_count.csv", table.Bytes())
}

// writeConversationSummary emits one conversation of the messages text
// summary: the headline, then each participant by message count. A
// participant whose reaction mapping has more than two keys gets the expanded
// multi-line breakdown, everyone else the compact inline form.
func writeConversationSummary(buf *bytes.Buffer, es *EntityStats) {
	fmt.Fprintf(buf, "%d messages - %s (%d reactions)\n", es.TotalCount, es.Title, es.ReactionCount)

	for _, participant := range pairsByCountDesc(es.CountPerParticipant) {
		reactions, ok := es.ReactionPerParticipant.Get(participant.key)
		if ok && reactions.Len() > 2 {
			fmt.Fprintf(buf, "  %d messages - %s\n", participant.value, participant.key)
			for _, reaction := range pairsByCountDesc(reactions) {
				if reaction.key == "total_count" {
					fmt.Fprintf(buf, "    Total reaction count %d\n", reaction.value)
				} else {
					fmt.Fprintf(buf, "    %s %d\n", reaction.key, reaction.value)
				}
			}
			continue
		}

		total := 0
		if ok {
			total, _ = reactions.Get("total_count")
		}
		fmt.Fprintf(buf, "  %d messages - %s (%d reactions)\n", participant.value, participant.key, total)
	}
}

// formatListenDuration renders a play duration as [N days - ]HH:MM:SS.
func formatListenDuration(ms int64) string {
	secs := ms / 1000
	days := secs / 86400
	rem := secs % 86400
	clock := fmt.Sprintf("%02d:%02d:%02d", rem/3600, rem%3600/60, rem%60)
	if days > 0 {
		return fmt.Sprintf("%d days - %s", days, clock)
	}
	return clock
}

// exportPerMonth writes the monthly series: the sparse mapping as JSON and
// the gap-filled table with one column per qualifying entity.
func exportPerMonth(cfg Config, entities []*EntityStats, outputDir string) error {
	prof := cfg.profile()

	monthly := orderedmap.New[string, *CountMap]()
	for _, es := range entities {
		for p := es.CountPerDay.Oldest(); p != nil; p = p.Next() {
			bump(nestedCounts(monthly, p.Key[:7]), es.Title, p.Value)
		}
	}

	if err := fileutils.WriteJSON(filepath.Join(outputDir, prof.prefix+"_per_month.json"), monthly, false); err != nil {
		return err
	}
	cfg.Log.Info().Str("artifact", prof.prefix+"_per_month.json").Msg("exported")

	titles := qualifyingTitles(entities, prof.minCount)
	cfg.Log.Info().Int("kept", len(titles)).Msg("entities kept for the per month table")

	months, err := ExpandMonths(monthly)
	if err != nil {
		return err
	}

	headers := make([]string, 0, len(titles)+1)
	headers = append(headers, "Date")
	for _, title := range titles {
		headers = append(headers, Sanitize(title, Delimiter))
	}

	rows := make([][]any, 0, len(months))
	for _, month := range months {
		row := make([]any, 0, len(titles)+1)
		row = append(row, month.Month)
		for _, title := range titles {
			count, _ := month.Values.Get(title)
			row = append(row, count)
		}
		rows = append(rows, row)
	}

	var table bytes.Buffer
	if err := WriteTable(&table, headers, rows, Delimiter); err != nil {
		return err
	}
	return writeArtifact(cfg, outputDir, prof.prefix+"_per_month.csv", table.Bytes())
}

// exportPerHour writes one row per qualifying entity, one column per hour.
func exportPerHour(cfg Config, entities []*EntityStats, outputDir string) error {
	prof := cfg.profile()

	headers := make([]string, 0, 25)
	headers = append(headers, prof.rowLabel)
	for h := 0; h < 24; h++ {
		headers = append(headers, fmt.Sprintf("%d", h))
	}

	var rows [][]any
	for _, es := range entities {
		if es.TotalCount <= prof.minCount {
			continue
		}
		row := make([]any, 0, 25)
		row = append(row, es.Title)
		for h := 0; h < 24; h++ {
			count, _ := es.CountPerHour.Get(fmt.Sprintf("h%02d", h))
			row = append(row, count)
		}
		rows = append(rows, row)
	}

	var table bytes.Buffer
	if err := WriteTable(&table, headers, rows, Delimiter); err != nil {
		return err
	}
	return writeArtifact(cfg, outputDir, prof.prefix+"_per_hour.csv", table.Bytes())
}

var weekdayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// exportPerDayOfWeek buckets every per-day count into the 7 fixed weekday
// buckets and writes them as JSON and as the same table shape as the monthly
// export, with weekday names as row labels.
func exportPerDayOfWeek(cfg Config, entities []*EntityStats, outputDir string) error {
	prof := cfg.profile()

	var weekdays [7]*CountMap
	for i := range weekdays {
		weekdays[i] = orderedmap.New[string, int]()
	}
	for _, es := range entities {
		for p := es.CountPerDay.Oldest(); p != nil; p = p.Next() {
			day, err := time.Parse("2006-01-02", p.Key)
			if err != nil {
				return fmt.Errorf("per day of week: bad day key %q: %w", p.Key, err)
			}
			bump(weekdays[int(day.Weekday())], es.Title, p.Value)
		}
	}

	if err := fileutils.WriteJSON(filepath.Join(outputDir, prof.prefix+"_per_day_of_week.json"), weekdays[:], false); err != nil {
		return err
	}
	cfg.Log.Info().Str("artifact", prof.prefix+"_per_day_of_week.json").Msg("exported")

	titles := qualifyingTitles(entities, prof.minCount)

	headers := make([]string, 0, len(titles)+1)
	headers = append(headers, "Date")
	for _, title := range titles {
		headers = append(headers, Sanitize(title, Delimiter))
	}

	rows := make([][]any, 0, 7)
	for i, bucket := range weekdays {
		row := make([]any, 0, len(titles)+1)
		row = append(row, weekdayNames[i])
		for _, title := range titles {
			count, _ := bucket.Get(title)
			row = append(row, count)
		}
		rows = append(rows, row)
	}

	var table bytes.Buffer
	if err := WriteTable(&table, headers, rows, Delimiter); err != nil {
		return err
	}
	return writeArtifact(cfg, outputDir, prof.prefix+"_per_day_of_week.csv", table.Bytes())
}
