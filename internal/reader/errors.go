package reader

import "fmt"

// MalformedQueryFileError is raised for SQL text with no preceding
// `--! name` directive, or a duplicate query name within one module -
// spec.md §7 "ReadQueries".
type MalformedQueryFileError struct {
	File   string
	Reason string
}

func (e *MalformedQueryFileError) Error() string {
	return fmt.Sprintf("reader: %s: %s", e.File, e.Reason)
}
