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

const twitterDMPrefix = "window.YTD.direct_messages.part0 = "

type twConversationWrapper struct {
	DMConversation struct {
		ConversationID string    `json:"conversationId"`
		Messages       []twEvent `json:"messages"`
	} `json:"dmConversation"`
}

type twEvent struct {
	MessageCreate        *twMessage  `json:"messageCreate"`
	WelcomeMessageCreate *twMessage  `json:"welcomeMessageCreate"`
	ReactionCreate       *twReaction `json:"reactionCreate"`
}

type twMessage struct {
	ID        string `json:"id"`
	SenderID  string `json:"senderId"`
	CreatedAt string `json:"createdAt"`
	Text      string `json:"text"`
}

type twReaction struct {
	SenderID    string `json:"senderId"`
	EventID     string `json:"eventId"`
	ReactionKey string `json:"reactionKey"`
}

// ParseTwitterDMs reads the archive's direct-messages.js and writes the
// normalized index and detail files into outputDir. Conversations are keyed
// by conversationId (participants are its "-"-separated halves); events come
// newest first and are reversed so reactions can attach to the message whose
// id they reference.
func ParseTwitterDMs(ctx context.Context, cfg analysis.Config, dmsPath, outputDir string) (*analysis.Index, error) {
	raw, err := os.ReadFile(dmsPath)
	if err != nil {
		return nil, fmt.Errorf("ParseTwitterDMs: read %s: %w", dmsPath, err)
	}
	content := string(raw)
	if !strings.HasPrefix(content, twitterDMPrefix) {
		return nil, fmt.Errorf("ParseTwitterDMs: invalid direct-messages.js file at %s", dmsPath)
	}

	var wrappers []twConversationWrapper
	if err := json.Unmarshal([]byte(content[len(twitterDMPrefix):]), &wrappers); err != nil {
		return nil, fmt.Errorf("ParseTwitterDMs: parse %s: %w", dmsPath, err)
	}
	cfg.Log.Info().Int("conversations", len(wrappers)).Msg("parsed direct messages file")

	type twDetail struct {
		detail *analysis.ConversationDetail
		ids    []string // message id per record, for reaction lookup
	}
	details := orderedmap.New[string, *twDetail]()

	for _, w := range wrappers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		conv := w.DMConversation

		td, ok := details.Get(conv.ConversationID)
		if !ok {
			td = &twDetail{detail: &analysis.ConversationDetail{
				DisplayName:  conv.ConversationID,
				Participants: strings.Split(conv.ConversationID, "-"),
			}}
			details.Set(conv.ConversationID, td)
		}

		for i := len(conv.Messages) - 1; i >= 0; i-- {
			event := conv.Messages[i]
			msg := event.MessageCreate
			if msg == nil {
				msg = event.WelcomeMessageCreate
			}
			switch {
			case msg != nil:
				ts, err := time.Parse(time.RFC3339, msg.CreatedAt)
				if err != nil {
					return nil, fmt.Errorf("ParseTwitterDMs: bad timestamp %q: %w", msg.CreatedAt, err)
				}
				td.detail.Records = append(td.detail.Records, analysis.Message{
					Sender:    msg.SenderID,
					Timestamp: ts,
					Content:   msg.Text,
				})
				td.ids = append(td.ids, msg.ID)
			case event.ReactionCreate != nil:
				r := event.ReactionCreate
				for j, id := range td.ids {
					if id == r.EventID {
						td.detail.Records[j].Reactions = append(td.detail.Records[j].Reactions, analysis.Reaction{
							Sender: r.SenderID,
							Kind:   r.ReactionKey,
						})
						break
					}
				}
			default:
				cfg.Log.Warn().Str("conversation", conv.ConversationID).Msg("unknown message event type, skipping")
			}
		}
	}

	var refs []analysis.EntityRef
	names := newFilenamer()
	for p := details.Oldest(); p != nil; p = p.Next() {
		relPath := names.path("conversations", p.Key)
		if err := fileutils.WriteJSON(filepath.Join(outputDir, relPath), p.Value.detail, false); err != nil {
			return nil, err
		}
		refs = append(refs, analysis.EntityRef{
			DisplayName:  p.Value.detail.DisplayName,
			RelativePath: relPath,
			PrimaryCount: len(p.Value.detail.Records),
		})
	}

	return writeIndex(cfg, outputDir, refs)
}
