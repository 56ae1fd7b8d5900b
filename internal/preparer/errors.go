package preparer

import "fmt"

// PrepareFailedError wraps a database-reported failure to PREPARE a query's
// SQL, naming the offending query and module (spec.md §4.2/§7).
type PrepareFailedError struct {
	Module string
	Query  string
	Err    error
}

func (e *PrepareFailedError) Error() string {
	return fmt.Sprintf("preparer: module %q query %q: prepare failed: %v", e.Module, e.Query, e.Err)
}

func (e *PrepareFailedError) Unwrap() error { return e.Err }

// ParamArityMismatchError fires when the database reports a different
// number of parameters than the query file's declared parameter-name list
// (spec.md §4.2 step 1).
type ParamArityMismatchError struct {
	Module   string
	Query    string
	Declared int
	Actual   int
}

func (e *ParamArityMismatchError) Error() string {
	return fmt.Sprintf(
		"preparer: module %q query %q: declared %d parameter names but database reports %d",
		e.Module, e.Query, e.Declared, e.Actual,
	)
}
