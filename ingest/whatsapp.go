package ingest

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"rewind/analysis"
	"rewind/fileutils"
)

const whatsappDirPrefix = "WhatsApp Chat - "

// [25/12/2019 21:30:05] Sender Name: message text
var whatsappLine = regexp.MustCompile(`^\[([0-9/: ]{19})\] (.+?):(.+)`)

// ParseWhatsApp scans inputDir for "WhatsApp Chat - <name>" directories, each
// holding a _chat.txt transcript, and writes the normalized index and detail
// files into outputDir. Lines that do not open a new message continue the
// previous one.
func ParseWhatsApp(ctx context.Context, cfg analysis.Config, inputDir, outputDir string) (*analysis.Index, error) {
	children, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("ParseWhatsApp: read input dir: %w", err)
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

		chatPath := filepath.Join(inputDir, child.Name(), "_chat.txt")
		if !fileutils.Exists(chatPath) {
			cfg.Log.Warn().Str("path", chatPath).Msg("found no conversation transcript")
			continue
		}

		name := strings.TrimPrefix(child.Name(), whatsappDirPrefix)
		detail, err := parseWhatsAppChat(name, chatPath)
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

func parseWhatsAppChat(name, chatPath string) (*analysis.ConversationDetail, error) {
	f, err := os.Open(chatPath)
	if err != nil {
		return nil, fmt.Errorf("ParseWhatsApp: open %s: %w", chatPath, err)
	}
	defer f.Close()

	detail := &analysis.ConversationDetail{DisplayName: name}
	seen := make(map[string]struct{})

	var current *analysis.Message
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		match := whatsappLine.FindStringSubmatch(line)
		if match == nil {
			if current != nil {
				current.Content += "\n" + line
			}
			continue
		}

		if current != nil {
			detail.Records = append(detail.Records, *current)
		}

		ts, err := time.Parse("02/01/2006 15:04:05", match[1])
		if err != nil {
			return nil, fmt.Errorf("ParseWhatsApp: bad timestamp %q in %s: %w", match[1], chatPath, err)
		}
		sender := match[2]
		if _, ok := seen[sender]; !ok {
			seen[sender] = struct{}{}
			detail.Participants = append(detail.Participants, sender)
		}
		current = &analysis.Message{
			Sender:    sender,
			Timestamp: ts,
			Content:   strings.TrimSpace(match[3]),
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ParseWhatsApp: scan %s: %w", chatPath, err)
	}
	if current != nil {
		detail.Records = append(detail.Records, *current)
	}
	return detail, nil
}
