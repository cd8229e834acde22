package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"rewind/analysis"
	"rewind/fileutils"
)

type ytEntry struct {
	Title     string `json:"title"`
	TitleURL  string `json:"titleUrl"`
	Time      string `json:"time"`
	Subtitles []struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"subtitles"`
}

// ParseYouTube reads the takeout's watch-history.json and writes the
// normalized index and channel detail files into outputDir. Entries without
// channel subtitles are private/deleted videos and are skipped.
func ParseYouTube(ctx context.Context, cfg analysis.Config, historyPath, outputDir string) (*analysis.Index, error) {
	raw, err := os.ReadFile(historyPath)
	if err != nil {
		return nil, fmt.Errorf("ParseYouTube: read %s: %w", historyPath, err)
	}
	var entries []ytEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("ParseYouTube: parse %s: %w", historyPath, err)
	}
	cfg.Log.Info().Int("views", len(entries)).Msg("parsed watch history")

	details := orderedmap.New[string, *analysis.ChannelDetail]()
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(entry.Subtitles) == 0 || entry.Subtitles[0].URL == "" {
			continue
		}

		channelURL := entry.Subtitles[0].URL
		detail, ok := details.Get(channelURL)
		if !ok {
			detail = &analysis.ChannelDetail{
				DisplayName: entry.Subtitles[0].Name,
				ChannelURL:  channelURL,
			}
			details.Set(channelURL, detail)
		}

		ts, err := time.Parse(time.RFC3339, entry.Time)
		if err != nil {
			return nil, fmt.Errorf("ParseYouTube: bad timestamp %q: %w", entry.Time, err)
		}
		detail.Records = append(detail.Records, analysis.View{
			ItemTitle: entry.Title,
			ItemURL:   entry.TitleURL,
			Timestamp: ts,
		})
	}

	var refs []analysis.EntityRef
	names := newFilenamer()
	for p := details.Oldest(); p != nil; p = p.Next() {
		// The channel id is the last URL path segment (ex: UCMjoAtEf57gvCk5N69SuKtQ).
		segments := strings.Split(p.Key, "/")
		relPath := names.path("channels", segments[len(segments)-1])
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
