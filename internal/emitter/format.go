package emitter

import (
	"fmt"

	"golang.org/x/tools/imports"
)

// Format runs gofmt plus goimports cleanup over the emitter's assembled
// source text, the same final pretty-printing step the teacher's
// generator pipeline applies before writing output to disk.
func Format(src string) (string, error) {
	out, err := imports.Process("generated.go", []byte(src), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: false,
	})
	if err != nil {
		return "", fmt.Errorf("fontana: format generated source: %w", err)
	}

	return string(out), nil
}
