// Package reader implements the query-file reader: it walks a queries/
// directory and turns each ".sql" file into a Module - a name plus an
// ordered list of (query name, SQL text, declaration-order parameter
// names) triples, with named `:param` placeholders already rewritten to
// positional `$1..$N` (spec.md §2 step 1, §6 "Query file syntax"). This is
// documented as an external collaborator in spec.md §1, but its exact
// input grammar is part of the external interface (§6), so fontana ships
// a reference implementation rather than leaving query ingestion
// unimplemented.
package reader

// Query is one `--! name` block: its rewritten SQL, the parameter names in
// first-appearance order, and any directive-supplied row/params shape name
// override (`--: RowName`, `--? ParamName`).
type Query struct {
	Name       string
	SQL        string
	ParamNames []string

	RowNameHint   string
	ParamNameHint string

	// HasResult is true when the statement's parse tree is a SELECT (or a
	// DML statement carrying RETURNING) - spec.md §4.3 "a void query (no
	// result columns)" vs a row-returning query.
	HasResult bool
}

// Module is one input file's worth of related queries, in file-declaration
// order - becomes one submodule in the emitted `queries` namespace
// (spec.md §3 PreparedModule, §GLOSSARY "Module").
type Module struct {
	Name    string
	Queries []Query
}
