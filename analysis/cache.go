package analysis

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"rewind/fileutils"
)

// LoadCachedStats reads the analysis cache at path and returns it when it is
// usable. Every other condition is a cache miss, never an error: a missing
// file, content that is not a JSON object, or a version field that is not
// exactly the expected composite. A mismatch discards the whole cache; there
// is no partial-validity repair.
func LoadCachedStats(cfg Config, path string) (*AggregateStats, bool) {
	b, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			cfg.Log.Info().Err(err).Str("path", path).Msg("cache unreadable, recomputing")
		}
		return nil, false
	}

	var stats AggregateStats
	if err := json.Unmarshal(b, &stats); err != nil {
		cfg.Log.Info().Err(err).Str("path", path).Msg("cache malformed, recomputing")
		return nil, false
	}
	if stats.Version != cfg.CompositeVersion() {
		cfg.Log.Info().
			Str("found", stats.Version).
			Str("need", cfg.CompositeVersion()).
			Msg("cache version mismatch, recomputing")
		return nil, false
	}

	cfg.Log.Info().Int("entities", len(stats.Entities)).Msg("found a viable cache, reusing it")
	return &stats, true
}

// SaveStats overwrites the cache file unconditionally. Callers save after
// every successful aggregation so the next run can hit the cache.
func SaveStats(stats *AggregateStats, path string) error {
	return fileutils.WriteJSON(path, stats, false)
}
