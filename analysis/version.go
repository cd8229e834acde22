package analysis

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// BaseVersion is the engine's schema version. Bumping it invalidates every
// index and analysis cache on the next run; that is the only migration
// mechanism (there is no partial schema migration).
const BaseVersion = "0.0.6"

// Delimiter separates fields in the tabular output artifacts.
const Delimiter = ";"

// ContentType selects which kind of export the engine is processing.
type ContentType string

const (
	Messages ContentType = "messages"
	Music    ContentType = "music"
	Videos   ContentType = "videos"
)

// Config is the single engine configuration value passed explicitly into the
// cache store and the aggregator. There is no module-level version state.
type Config struct {
	// BaseVersion defaults to the package constant when empty.
	BaseVersion string
	Type        ContentType

	// Force skips the cache lookup and recomputes even when a valid cache
	// exists (the CLI -force flag).
	Force bool

	Log zerolog.Logger

	// Rewind receives the yearly rewind text for the messages type.
	// Defaults to io.Discard when nil.
	Rewind io.Writer
}

func (c Config) baseVersion() string {
	if c.BaseVersion == "" {
		return BaseVersion
	}
	return c.BaseVersion
}

// CompositeVersion is the "{base}-{type}" string gating index and cache
// validity for this content type.
func (c Config) CompositeVersion() string {
	return fmt.Sprintf("%s-%s", c.baseVersion(), c.Type)
}

// CachePath is the analysis cache filename for this content type, relative
// to the output directory.
func (c Config) CachePath() string {
	switch c.Type {
	case Music:
		return "music_analysed_cache.json"
	case Videos:
		return "view_analysed_cache.json"
	default:
		return "message_analysed_cache.json"
	}
}
