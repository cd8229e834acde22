// Package ingest converts raw platform exports (chat archives, play-activity
// CSV, watch history) into the engine's normalized layout: an index.json plus
// one detail file per entity, all tagged with the composite version the
// analysis engine will check.
package ingest

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"rewind/analysis"
	"rewind/fileutils"
)

// writeIndex ranks refs by primary count descending, writes index.json into
// outputDir and returns the in-memory index.
func writeIndex(cfg analysis.Config, outputDir string, refs []analysis.EntityRef) (*analysis.Index, error) {
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].PrimaryCount > refs[j].PrimaryCount
	})

	idx := &analysis.Index{Version: cfg.CompositeVersion(), Entities: refs}
	path := filepath.Join(outputDir, analysis.IndexPath)
	if err := fileutils.WriteJSON(path, idx, false); err != nil {
		return nil, err
	}
	cfg.Log.Info().Str("path", path).Int("entities", len(refs)).Msg("saved index")
	return idx, nil
}

// sanitizeFilename reduces a display name or identifier to a safe filename
// component. Everything outside letters, digits, '-', '_' and '.' becomes
// '_'; leading/trailing separators are trimmed.
func sanitizeFilename(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "._-")
	if out == "" {
		return "entity"
	}
	return out
}

// filenamer allocates detail filenames within one parse run. Distinct display
// names can sanitize to the same string ("A/B" and "A_B"); without a run-wide
// allocator the second entity would overwrite the first one's file.
type filenamer struct {
	used map[string]int
}

func newFilenamer() *filenamer {
	return &filenamer{used: make(map[string]int)}
}

// path returns dir/<sanitized name>.json, suffixing a counter when another
// entity already claimed the same sanitized name.
func (f *filenamer) path(dir, name string) string {
	base := sanitizeFilename(name)
	n := f.used[base]
	f.used[base] = n + 1
	if n > 0 {
		base = fmt.Sprintf("%s_%d", base, n+1)
	}
	return filepath.Join(dir, base+".json")
}
