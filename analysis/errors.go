package analysis

import "fmt"

// LoadError is a fatal failure to load the index or an entity detail file.
// A broken index implies a broken prior write, so there is no per-entity
// skip-and-continue: the whole run aborts.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// FormatError is a fatal exporter failure: a value of a type the tabular
// writer does not recognize was passed as a cell.
type FormatError struct {
	Value any
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unsupported export value of type %T", e.Value)
}
