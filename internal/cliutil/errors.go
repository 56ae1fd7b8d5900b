// Package cliutil holds small helpers shared across fontana's packages that
// don't deserve their own home: error wrapping chief among them.
package cliutil

import "fmt"

// WrapError annotates err with the operation being attempted, the same
// "op: err" chaining used throughout the teacher's util.WrapError calls.
// Returns nil unchanged so call sites can do `return WrapError("x", err)`
// without an extra nil check.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%s: %w", op, err)
}
