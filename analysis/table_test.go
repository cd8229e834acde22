package analysis

import (
	"bytes"
	"errors"
	"testing"
)

func TestSanitize(t *testing.T) {
	t.Parallel()

	if got := Sanitize("Jo;Ann", ";"); got != "Jo:Ann" {
		t.Fatalf("Sanitize=%q, want %q", got, "Jo:Ann")
	}
	if got := Sanitize("plain", ";"); got != "plain" {
		t.Fatalf("Sanitize=%q, want %q", got, "plain")
	}
}

func TestWriteTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := WriteTable(&buf, []string{"name", "count"}, [][]any{
		{"a;b", 3},
		{"c", int64(7)},
	}, ";")
	if err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	want := "name;count\na:b;3\nc;7\n"
	if buf.String() != want {
		t.Fatalf("table=%q, want %q", buf.String(), want)
	}
}

func TestWriteTable_UnsupportedType(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := WriteTable(&buf, []string{"x"}, [][]any{{3.14}}, ";")
	if err == nil {
		t.Fatalf("expected error for float cell")
	}
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("error=%T, want *FormatError", err)
	}
}
