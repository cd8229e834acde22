package analysis

import "testing"

func TestArtifactSchemas(t *testing.T) {
	t.Parallel()

	schemas := ArtifactSchemas()
	for _, name := range []string{"index", "conversation", "artist", "channel"} {
		schema, ok := schemas[name]
		if !ok {
			t.Fatalf("missing schema %q", name)
		}
		if schema == nil {
			t.Fatalf("schema %q is nil", name)
		}
	}
	if len(schemas) != 4 {
		t.Fatalf("schemas=%d, want 4", len(schemas))
	}
}
