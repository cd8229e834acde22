package analysis

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Sanitize makes a free-text field safe for the tabular format by replacing
// every delimiter occurrence with ":". The format has no quoting or escaping;
// this keeps the column count intact instead.
func Sanitize(field, delim string) string {
	return strings.ReplaceAll(field, delim, ":")
}

// WriteTable renders a header row and one row per record, fields joined by
// delim. String cells are sanitized; numeric cells are rendered verbatim.
// Any other cell type is a FormatError.
func WriteTable(w io.Writer, headers []string, rows [][]any, delim string) error {
	if _, err := fmt.Fprintln(w, strings.Join(headers, delim)); err != nil {
		return err
	}
	for _, row := range rows {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			s, err := renderCell(cell, delim)
			if err != nil {
				return err
			}
			cells = append(cells, s)
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, delim)); err != nil {
			return err
		}
	}
	return nil
}

func renderCell(v any, delim string) (string, error) {
	switch c := v.(type) {
	case string:
		return Sanitize(c, delim), nil
	case int:
		return strconv.Itoa(c), nil
	case int64:
		return strconv.FormatInt(c, 10), nil
	default:
		return "", &FormatError{Value: v}
	}
}
