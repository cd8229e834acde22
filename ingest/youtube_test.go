package ingest

import (
	"context"
	"path/filepath"
	"testing"

	"rewind/analysis"
)

func TestParseYouTube(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	path := filepath.Join(t.TempDir(), "watch-history.json")
	writeFixture(t, path, `[
		{"title": "Watched Video One", "titleUrl": "https://youtube.com/watch?v=one",
		 "time": "2023-01-10T20:00:00Z",
		 "subtitles": [{"name": "Some Channel", "url": "https://youtube.com/channel/UCabc123"}]},
		{"title": "Watched a video that has been removed",
		 "time": "2023-01-11T20:00:00Z"},
		{"title": "Watched Video Two", "titleUrl": "https://youtube.com/watch?v=two",
		 "time": "2023-01-12T21:00:00Z",
		 "subtitles": [{"name": "Some Channel", "url": "https://youtube.com/channel/UCabc123"}]}
	]`)

	idx, err := ParseYouTube(context.Background(), testConfig(analysis.Videos), path, out)
	if err != nil {
		t.Fatalf("ParseYouTube: %v", err)
	}
	if len(idx.Entities) != 1 {
		t.Fatalf("entities=%d, want 1 (private videos are skipped)", len(idx.Entities))
	}
	ref := idx.Entities[0]
	if ref.DisplayName != "Some Channel" || ref.PrimaryCount != 2 {
		t.Fatalf("ref=%+v, want Some Channel with 2 views", ref)
	}
	if ref.RelativePath != filepath.Join("channels", "UCabc123.json") {
		t.Fatalf("RelativePath=%q, want channels/UCabc123.json", ref.RelativePath)
	}

	detail, err := ref.LoadChannel(out)
	if err != nil {
		t.Fatalf("LoadChannel: %v", err)
	}
	if detail.ChannelURL != "https://youtube.com/channel/UCabc123" {
		t.Fatalf("ChannelURL=%q", detail.ChannelURL)
	}
	if len(detail.Records) != 2 || detail.Records[0].ItemTitle != "Watched Video One" {
		t.Fatalf("records=%+v, want two views", detail.Records)
	}
}

func TestParseYouTube_BadTimestamp(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "watch-history.json")
	writeFixture(t, path, `[
		{"title": "x", "titleUrl": "u", "time": "not-a-time",
		 "subtitles": [{"name": "c", "url": "https://youtube.com/channel/UC1"}]}
	]`)
	_, err := ParseYouTube(context.Background(), testConfig(analysis.Videos), path, t.TempDir())
	if err == nil {
		t.Fatalf("expected error for a malformed timestamp")
	}
}
