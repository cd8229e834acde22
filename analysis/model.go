package analysis

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// IndexPath is the index filename, relative to the output directory.
const IndexPath = "index.json"

// Index is the root artifact a parser writes: the composite version it was
// produced under plus one EntityRef per conversation/artist/channel.
type Index struct {
	Version  string      `json:"version"`
	Entities []EntityRef `json:"entities"`
}

// EntityRef points at one entity's detail file. PrimaryCount is advisory
// (used to order the on-disk index); the aggregator recomputes the
// authoritative counts from the detail records.
type EntityRef struct {
	DisplayName  string `json:"display_name"`
	RelativePath string `json:"relative_path"`
	PrimaryCount int    `json:"primary_count"`
}

// ConversationDetail is the detail file for one conversation.
type ConversationDetail struct {
	DisplayName  string    `json:"display_name"`
	Participants []string  `json:"participants"`
	Records      []Message `json:"records"`
}

// ArtistDetail is the detail file for one artist.
type ArtistDetail struct {
	DisplayName string   `json:"display_name"`
	Records     []Listen `json:"records"`
}

// ChannelDetail is the detail file for one channel.
type ChannelDetail struct {
	DisplayName string `json:"display_name"`
	ChannelURL  string `json:"channel_url,omitempty"`
	Records     []View `json:"records"`
}

// Message is one chat message.
type Message struct {
	Sender    string     `json:"sender"`
	Timestamp time.Time  `json:"timestamp"`
	Content   string     `json:"content,omitempty"`
	Reactions []Reaction `json:"reactions,omitempty"`
}

// Reaction is one reaction attached to a message.
type Reaction struct {
	Sender string `json:"sender"`
	Kind   string `json:"kind"`
}

// Listen is one play of a song. PlayDurationMS is already the absolute value
// of the raw export field (old Apple Music data reports negated durations).
type Listen struct {
	ItemName       string    `json:"item_name"`
	ContainerName  string    `json:"container_name,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	ItemDurationMS int64     `json:"item_duration_ms"`
	PlayDurationMS int64     `json:"play_duration_ms"`
}

// View is one watched video.
type View struct {
	ItemTitle string    `json:"item_title"`
	ItemURL   string    `json:"item_url"`
	Timestamp time.Time `json:"timestamp"`
}

// LoadIndex reads and decodes the index file inside outputDir.
func LoadIndex(outputDir string) (*Index, error) {
	path := filepath.Join(outputDir, IndexPath)
	var idx Index
	if err := readJSONFile(path, &idx); err != nil {
		return nil, err
	}
	return &idx, nil
}

// ReadValidIndex returns the existing index for this output directory when it
// exists and carries the expected composite version. Any other condition
// (missing file, parse failure, version mismatch) means the caller must
// re-parse the source export.
func ReadValidIndex(cfg Config, outputDir string) (*Index, bool) {
	idx, err := LoadIndex(outputDir)
	if err != nil {
		return nil, false
	}
	if idx.Version != cfg.CompositeVersion() {
		cfg.Log.Info().
			Str("found", idx.Version).
			Str("need", cfg.CompositeVersion()).
			Msg("index version mismatch, reparsing")
		return nil, false
	}
	cfg.Log.Info().Int("entities", len(idx.Entities)).Msg("found a viable index, reusing it")
	return idx, true
}

// LoadConversation loads the conversation detail file behind ref.
func (ref EntityRef) LoadConversation(outputDir string) (*ConversationDetail, error) {
	var d ConversationDetail
	if err := readJSONFile(filepath.Join(outputDir, ref.RelativePath), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadArtist loads the artist detail file behind ref.
func (ref EntityRef) LoadArtist(outputDir string) (*ArtistDetail, error) {
	var d ArtistDetail
	if err := readJSONFile(filepath.Join(outputDir, ref.RelativePath), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadChannel loads the channel detail file behind ref.
func (ref EntityRef) LoadChannel(outputDir string) (*ChannelDetail, error) {
	var d ChannelDetail
	if err := readJSONFile(filepath.Join(outputDir, ref.RelativePath), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func readJSONFile(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return &LoadError{Path: path, Err: err}
	}
	if err := json.Unmarshal(b, v); err != nil {
		return &LoadError{Path: path, Err: err}
	}
	return nil
}
