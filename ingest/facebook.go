package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"rewind/analysis"
	"rewind/fileutils"
)

type fbConversation struct {
	Title        string `json:"title"`
	Participants []struct {
		Name string `json:"name"`
	} `json:"participants"`
	Messages []fbMessage `json:"messages"`
}

type fbMessage struct {
	SenderName  string `json:"sender_name"`
	TimestampMS int64  `json:"timestamp_ms"`
	Content     string `json:"content"`
	Reactions   []struct {
		Reaction string `json:"reaction"`
		Actor    string `json:"actor"`
	} `json:"reactions"`
}

// ParseFacebook walks the archive's inbox directory (one subdirectory per
// conversation, holding one or more message_N.json files), repairs the
// export's unicode escapes, and writes the normalized index and detail files
// into outputDir.
func ParseFacebook(ctx context.Context, cfg analysis.Config, inboxPath, outputDir string) (*analysis.Index, error) {
	children, err := os.ReadDir(inboxPath)
	if err != nil {
		return nil, fmt.Errorf("ParseFacebook: read inbox: %w", err)
	}
	cfg.Log.Info().Int("conversations", len(children)).Msg("loading conversations")

	var refs []analysis.EntityRef
	names := newFilenamer()
	for _, child := range children {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !child.IsDir() {
			continue
		}

		detail, err := parseFacebookConversation(filepath.Join(inboxPath, child.Name()), cfg)
		if err != nil {
			return nil, err
		}

		relPath := names.path("conversations", child.Name())
		if err := fileutils.WriteJSON(filepath.Join(outputDir, relPath), detail, false); err != nil {
			return nil, err
		}
		refs = append(refs, analysis.EntityRef{
			DisplayName:  detail.DisplayName,
			RelativePath: relPath,
			PrimaryCount: len(detail.Records),
		})
	}

	return writeIndex(cfg, outputDir, refs)
}

func parseFacebookConversation(dir string, cfg analysis.Config) (*analysis.ConversationDetail, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ParseFacebook: read conversation dir: %w", err)
	}

	detail := &analysis.ConversationDetail{}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		path := filepath.Join(dir, f.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("ParseFacebook: read %s: %w", path, err)
		}

		var conv fbConversation
		if err := json.Unmarshal(FixUnicodeEscapes(raw), &conv); err != nil {
			// Some files break under the escape repair; fall back to the raw
			// content before giving up.
			cfg.Log.Warn().Str("path", path).Msg("cannot read with fixed encoding, using raw content")
			if err := json.Unmarshal(raw, &conv); err != nil {
				return nil, fmt.Errorf("ParseFacebook: parse %s: %w", path, err)
			}
		}

		if detail.DisplayName == "" {
			detail.DisplayName = conv.Title
		}
		if detail.Participants == nil {
			for _, p := range conv.Participants {
				detail.Participants = append(detail.Participants, p.Name)
			}
		}
		for _, m := range conv.Messages {
			msg := analysis.Message{
				Sender:    m.SenderName,
				Timestamp: time.UnixMilli(m.TimestampMS),
				Content:   m.Content,
			}
			for _, r := range m.Reactions {
				msg.Reactions = append(msg.Reactions, analysis.Reaction{
					Sender: r.Actor,
					Kind:   r.Reaction,
				})
			}
			detail.Records = append(detail.Records, msg)
		}
	}
	return detail, nil
}
