package analysis

import (
	"path/filepath"
	"testing"

	"rewind/fileutils"
)

func TestReadValidIndex(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := testConfig(Messages)

	idx := &Index{
		Version: cfg.CompositeVersion(),
		Entities: []EntityRef{
			{DisplayName: "Alpha", RelativePath: "conversations/alpha.json", PrimaryCount: 3},
		},
	}
	if err := fileutils.WriteJSON(filepath.Join(dir, IndexPath), idx, false); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	got, ok := ReadValidIndex(cfg, dir)
	if !ok {
		t.Fatalf("expected a valid index")
	}
	if len(got.Entities) != 1 || got.Entities[0].DisplayName != "Alpha" {
		t.Fatalf("entities=%+v, want Alpha", got.Entities)
	}
}

func TestReadValidIndex_VersionMismatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	idx := &Index{Version: "0.0.1-messages"}
	if err := fileutils.WriteJSON(filepath.Join(dir, IndexPath), idx, false); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if _, ok := ReadValidIndex(testConfig(Messages), dir); ok {
		t.Fatalf("expected a stale index to be rejected")
	}
}

func TestReadValidIndex_Missing(t *testing.T) {
	t.Parallel()

	if _, ok := ReadValidIndex(testConfig(Messages), t.TempDir()); ok {
		t.Fatalf("expected a miss for an empty directory")
	}
}

func TestLoadError_Unwrap(t *testing.T) {
	t.Parallel()

	_, err := LoadIndex(t.TempDir())
	if err == nil {
		t.Fatalf("expected error for a missing index")
	}
	le, ok := err.(*LoadError)
	if !ok {
		t.Fatalf("error=%T, want *LoadError", err)
	}
	if le.Unwrap() == nil {
		t.Fatalf("expected a wrapped cause")
	}
}
