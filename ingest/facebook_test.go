package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"rewind/analysis"
)

func writeFixture(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestParseFacebook(t *testing.T) {
	t.Parallel()

	inbox := t.TempDir()
	out := t.TempDir()
	// The content carries the export's literal \u00XX mojibake; the escape is
	// built from escaped bytes so it survives any editor or encoding pass.
	writeFixture(t, filepath.Join(inbox, "alicesmith_abc123", "message_1.json"), `{
		"title": "Alice Smith",
		"participants": [{"name": "Alice Smith"}, {"name": "Me Myself"}],
		"messages": [
			{"sender_name": "Alice Smith", "timestamp_ms": 1642241400000,
			 "content": "Caf`+"\\u00c3\\u00a9"+`?",
			 "reactions": [{"reaction": "love", "actor": "Me Myself"}]},
			{"sender_name": "Me Myself", "timestamp_ms": 1642241460000, "content": "Sure"}
		]
	}`)

	cfg := testConfig(analysis.Messages)
	idx, err := ParseFacebook(context.Background(), cfg, inbox, out)
	if err != nil {
		t.Fatalf("ParseFacebook: %v", err)
	}
	if len(idx.Entities) != 1 {
		t.Fatalf("entities=%d, want 1", len(idx.Entities))
	}
	ref := idx.Entities[0]
	if ref.DisplayName != "Alice Smith" || ref.PrimaryCount != 2 {
		t.Fatalf("ref=%+v, want Alice Smith with 2 records", ref)
	}

	detail, err := ref.LoadConversation(out)
	if err != nil {
		t.Fatalf("LoadConversation: %v", err)
	}
	if len(detail.Participants) != 2 {
		t.Fatalf("participants=%v, want 2", detail.Participants)
	}
	if len(detail.Records) != 2 {
		t.Fatalf("records=%d, want 2", len(detail.Records))
	}
	first := detail.Records[0]
	if want := "Caf\xc3\xa9?"; first.Content != want {
		t.Fatalf("Content=%q, want %q", first.Content, want)
	}
	if first.Timestamp.UTC().Format("2006-01-02") != "2022-01-15" {
		t.Fatalf("Timestamp=%v, want a 2022-01-15 date", first.Timestamp)
	}
	if len(first.Reactions) != 1 || first.Reactions[0].Kind != "love" || first.Reactions[0].Sender != "Me Myself" {
		t.Fatalf("Reactions=%+v, want one love from Me Myself", first.Reactions)
	}
}

func TestParseFacebook_MergesMessageFiles(t *testing.T) {
	t.Parallel()

	inbox := t.TempDir()
	out := t.TempDir()
	dir := filepath.Join(inbox, "bob_def456")
	writeFixture(t, filepath.Join(dir, "message_1.json"), `{
		"title": "Bob",
		"participants": [{"name": "Bob"}, {"name": "Me"}],
		"messages": [{"sender_name": "Bob", "timestamp_ms": 1600000000000, "content": "one"}]
	}`)
	writeFixture(t, filepath.Join(dir, "message_2.json"), `{
		"title": "Bob",
		"participants": [{"name": "Bob"}, {"name": "Me"}],
		"messages": [{"sender_name": "Me", "timestamp_ms": 1600000060000, "content": "two"}]
	}`)

	idx, err := ParseFacebook(context.Background(), testConfig(analysis.Messages), inbox, out)
	if err != nil {
		t.Fatalf("ParseFacebook: %v", err)
	}
	if len(idx.Entities) != 1 || idx.Entities[0].PrimaryCount != 2 {
		t.Fatalf("index=%+v, want one conversation with 2 records", idx.Entities)
	}
}

func TestParseFacebook_MissingInbox(t *testing.T) {
	t.Parallel()

	_, err := ParseFacebook(context.Background(), testConfig(analysis.Messages),
		filepath.Join(t.TempDir(), "nope"), t.TempDir())
	if err == nil {
		t.Fatalf("expected error for a missing inbox")
	}
}
