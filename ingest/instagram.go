package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"rewind/analysis"
	"rewind/fileutils"
)

type igConversation struct {
	Participants []string    `json:"participants"`
	Conversation []igMessage `json:"conversation"`
}

type igMessage struct {
	Sender    string `json:"sender"`
	CreatedAt string `json:"created_at"`
	Text      string `json:"text"`
	Likes     []struct {
		Username string `json:"username"`
	} `json:"likes"`
}

// ParseInstagram reads the export's messages.json and writes the normalized
// index and detail files into outputDir. Conversations are named by their
// sorted participants joined with "-"; the export can split one conversation
// across several entries, which are merged. Likes become reactions of kind
// "like".
func ParseInstagram(ctx context.Context, cfg analysis.Config, messagesPath, outputDir string) (*analysis.Index, error) {
	raw, err := os.ReadFile(messagesPath)
	if err != nil {
		return nil, fmt.Errorf("ParseInstagram: read %s: %w", messagesPath, err)
	}
	var conversations []igConversation
	if err := json.Unmarshal(raw, &conversations); err != nil {
		return nil, fmt.Errorf("ParseInstagram: parse %s: %w", messagesPath, err)
	}
	cfg.Log.Info().Int("conversations", len(conversations)).Msg("parsed messages file")

	details := orderedmap.New[string, *analysis.ConversationDetail]()
	for _, conv := range conversations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		names := append([]string(nil), conv.Participants...)
		sort.Strings(names)
		name := strings.Join(names, "-")

		detail, ok := details.Get(name)
		if !ok {
			detail = &analysis.ConversationDetail{
				DisplayName:  name,
				Participants: conv.Participants,
			}
			details.Set(name, detail)
		}

		for _, m := range conv.Conversation {
			ts, err := time.Parse(time.RFC3339, m.CreatedAt)
			if err != nil {
				return nil, fmt.Errorf("ParseInstagram: bad timestamp %q: %w", m.CreatedAt, err)
			}
			msg := analysis.Message{
				Sender:    m.Sender,
				Timestamp: ts,
				Content:   m.Text,
			}
			for _, like := range m.Likes {
				msg.Reactions = append(msg.Reactions, analysis.Reaction{
					Sender: like.Username,
					Kind:   "like",
				})
			}
			detail.Records = append(detail.Records, msg)
		}
	}

	var refs []analysis.EntityRef
	names := newFilenamer()
	for p := details.Oldest(); p != nil; p = p.Next() {
		relPath := names.path("conversations", p.Key)
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
