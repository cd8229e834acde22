package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"rewind/analysis"
	"rewind/fileutils"
)

// ParseAppleMusic reads the Apple-Music-Play-Activity.csv export and writes
// the normalized index and artist detail files into outputDir. Play durations
// are stored as absolute values because old Apple Music data reports them
// negated.
func ParseAppleMusic(ctx context.Context, cfg analysis.Config, activityPath, outputDir string) (*analysis.Index, error) {
	f, err := os.Open(activityPath)
	if err != nil {
		return nil, fmt.Errorf("ParseAppleMusic: open %s: %w", activityPath, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("ParseAppleMusic: read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, required := range []string{"Artist Name", "Song Name", "Event Received Timestamp"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("ParseAppleMusic: missing column %q in %s", required, activityPath)
		}
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	details := orderedmap.New[string, *analysis.ArtistDetail]()
	rows := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ParseAppleMusic: read row: %w", err)
		}
		rows++

		artist := field(row, "Artist Name")
		detail, ok := details.Get(artist)
		if !ok {
			detail = &analysis.ArtistDetail{DisplayName: artist}
			details.Set(artist, detail)
		}

		ts, err := time.Parse(time.RFC3339, field(row, "Event Received Timestamp"))
		if err != nil {
			return nil, fmt.Errorf("ParseAppleMusic: bad timestamp %q: %w", field(row, "Event Received Timestamp"), err)
		}

		itemDuration, _ := strconv.ParseInt(field(row, "Media Duration In Milliseconds"), 10, 64)
		playDuration, _ := strconv.ParseInt(field(row, "Play Duration Milliseconds"), 10, 64)
		if playDuration < 0 {
			playDuration = -playDuration
		}

		detail.Records = append(detail.Records, analysis.Listen{
			ItemName:       field(row, "Song Name"),
			ContainerName:  field(row, "Container Name"),
			Timestamp:      ts,
			ItemDurationMS: itemDuration,
			PlayDurationMS: playDuration,
		})
	}
	cfg.Log.Info().Int("plays", rows).Int("artists", details.Len()).Msg("parsed play activity")

	var refs []analysis.EntityRef
	names := newFilenamer()
	for p := details.Oldest(); p != nil; p = p.Next() {
		relPath := names.path("artists", p.Key)
		if err := fileutils.WriteJSON(filepath.Join(outputDir, relPath), p.Value, false); err != nil {
			return nil, err
		}
		refs = append(refs, analysis.EntityRef{
			DisplayName:  p.Value.DisplayName,
			RelativePath: relPath,
			PrimaryCount: len(p.Value.Records),
		})
	}

	return writeIndex(cfg, outputDir, refs)
}
