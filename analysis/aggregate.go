package analysis

import (
	"context"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Aggregate walks every entity of idx once and accumulates the full set of
// derived counters. Entities are processed in index order and records in file
// order; that order is what downstream stable sorts preserve on ties.
//
// A missing or malformed detail file aborts the whole run with a LoadError:
// an entity silently missing from the payload would be indistinguishable from
// an entity with zero activity.
func Aggregate(ctx context.Context, cfg Config, idx *Index, outputDir string) (*AggregateStats, error) {
	stats := &AggregateStats{Version: cfg.CompositeVersion()}

	for _, ref := range idx.Entities {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var es *EntityStats
		var err error
		switch cfg.Type {
		case Music:
			es, err = aggregateArtist(ref, outputDir)
		case Videos:
			es, err = aggregateChannel(ref, outputDir)
		default:
			es, err = aggregateConversation(ref, outputDir)
		}
		if err != nil {
			return nil, err
		}
		stats.Entities = append(stats.Entities, es)
	}

	cfg.Log.Info().Int("entities", len(stats.Entities)).Msg("aggregation done")
	return stats, nil
}

// timeBuckets slices the day, hour and year keys out of one ISO rendering of
// the timestamp so every bucket agrees on its boundary regardless of locale.
func timeBuckets(t time.Time) (day, hour, year string) {
	iso := t.Format(time.RFC3339)
	return iso[:10], "h" + iso[11:13], iso[:4]
}

func aggregateConversation(ref EntityRef, outputDir string) (*EntityStats, error) {
	d, err := ref.LoadConversation(outputDir)
	if err != nil {
		return nil, err
	}

	es := newEntityStats(d.DisplayName)
	es.Participants = d.Participants
	es.CountPerParticipant = orderedmap.New[string, int]()
	es.ReactionPerParticipant = orderedmap.New[string, *CountMap]()
	es.CountPerDayPerParticipant = orderedmap.New[string, *CountMap]()

	for _, msg := range d.Records {
		day, hour, year := timeBuckets(msg.Timestamp)

		es.TotalCount++
		bump(es.CountPerParticipant, msg.Sender, 1)
		bump(es.CountPerDay, day, 1)
		bump(es.CountPerHour, hour, 1)
		bump(nestedCounts(es.CountPerDayPerParticipant, day), msg.Sender, 1)

		ys := yearStatsFor(es.CountPerYear, year)
		ys.Count++
		if ys.CountPerParticipant == nil {
			ys.CountPerParticipant = orderedmap.New[string, int]()
		}
		bump(ys.CountPerParticipant, msg.Sender, 1)

		for _, r := range msg.Reactions {
			es.ReactionCount++
			rm := nestedCounts(es.ReactionPerParticipant, r.Sender)
			bump(rm, "total_count", 1)
			bump(rm, r.Kind, 1)

			if ys.ReactionPerParticipant == nil {
				ys.ReactionPerParticipant = orderedmap.New[string, *CountMap]()
			}
			yrm := nestedCounts(ys.ReactionPerParticipant, r.Sender)
			bump(yrm, "total_count", 1)
			bump(yrm, r.Kind, 1)
		}
	}
	return es, nil
}

func aggregateArtist(ref EntityRef, outputDir string) (*EntityStats, error) {
	d, err := ref.LoadArtist(outputDir)
	if err != nil {
		return nil, err
	}

	es := newEntityStats(d.DisplayName)
	for _, listen := range d.Records {
		day, hour, year := timeBuckets(listen.Timestamp)
		es.TotalCount++
		es.ListenDurationMS += listen.PlayDurationMS
		bump(es.CountPerDay, day, 1)
		bump(es.CountPerHour, hour, 1)
		yearStatsFor(es.CountPerYear, year).Count++
	}
	return es, nil
}

func aggregateChannel(ref EntityRef, outputDir string) (*EntityStats, error) {
	d, err := ref.LoadChannel(outputDir)
	if err != nil {
		return nil, err
	}

	es := newEntityStats(d.DisplayName)
	for _, view := range d.Records {
		day, hour, year := timeBuckets(view.Timestamp)
		es.TotalCount++
		bump(es.CountPerDay, day, 1)
		bump(es.CountPerHour, hour, 1)
		yearStatsFor(es.CountPerYear, year).Count++
	}
	return es, nil
}
