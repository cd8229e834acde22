// Package analysis is the aggregation and reporting engine: it turns a
// normalized index of entities (conversations, artists, channels) and their
// detail files into time-bucketed statistics, keeps a version-gated cache of
// them, and renders the ranked results into the tabular, JSON and text
// artifacts.
package analysis

import (
	"context"
	"path/filepath"
)

// Analyse runs the engine end to end for one content type: cache lookup
// (unless forced), aggregation and cache save on a miss, ranking, and every
// export artifact for the type. The returned payload has its entities ranked.
//
// The run is all-or-nothing: any load or export failure aborts it, and
// re-running recomputes everything deterministically from the source records.
func Analyse(ctx context.Context, cfg Config, idx *Index, outputDir string) (*AggregateStats, error) {
	cachePath := filepath.Join(outputDir, cfg.CachePath())

	var stats *AggregateStats
	if cfg.Force {
		cfg.Log.Info().Msg("force requested, skipping cache lookup")
	} else {
		stats, _ = LoadCachedStats(cfg, cachePath)
	}

	if stats == nil {
		var err error
		stats, err = Aggregate(ctx, cfg, idx, outputDir)
		if err != nil {
			return nil, err
		}
		if err := SaveStats(stats, cachePath); err != nil {
			return nil, err
		}
	}

	Rank(stats.Entities)

	if err := exportCount(cfg, stats.Entities, outputDir); err != nil {
		return nil, err
	}
	if err := exportPerMonth(cfg, stats.Entities, outputDir); err != nil {
		return nil, err
	}
	if err := exportPerHour(cfg, stats.Entities, outputDir); err != nil {
		return nil, err
	}
	if err := exportPerDayOfWeek(cfg, stats.Entities, outputDir); err != nil {
		return nil, err
	}

	if cfg.Type == Messages {
		if err := exportYearly(cfg, stats.Entities, outputDir); err != nil {
			return nil, err
		}
		if err := writeRewind(cfg, stats.Entities); err != nil {
			return nil, err
		}
	}
	return stats, nil
}
