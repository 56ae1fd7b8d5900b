// Package preparer implements the query preparer (spec.md §4.2): for each
// module's (name, sql) pairs it asks the database to PREPARE the statement,
// maps the returned parameter/column OIDs through the type registrar, and
// deduplicates row/param shapes within the module.
package preparer

import (
	"github.com/fontana-sql/fontana/internal/registrar"
)

// TypeRef is a resolved reference into the registrar's catalog - every
// typeRef inside a prepared structure resolves to exactly one
// TypeDescriptor, the invariant spec.md §3 requires.
type TypeRef = *registrar.TypeDescriptor

// PreparedParam is one positional parameter, named per the query file's
// declaration-order parameter list (spec.md §3 PreparedParam).
type PreparedParam struct {
	Name string
	Type TypeRef
}

// PreparedQuery is one query's fully resolved shape (spec.md §3
// PreparedQuery). RowName is empty for a statement that returns no columns
// (a "void" query in spec.md §4.3 terms).
type PreparedQuery struct {
	Name  string
	SQL   string
	Params []PreparedParam

	RowName       string // key into PreparedModule.Rows, "" if void
	ColumnIndexMap []int // canonical row-field index -> physical column index

	ParamsName string // key into PreparedModule.Params
}

// RowField is one column of a PreparedRow (spec.md §3).
type RowField struct {
	Name       string
	Type       TypeRef
	IsNullable bool
}

// PreparedRow is a deduplicated result-row shape shared by every query in
// the module whose result columns match it up to permutation (spec.md §3
// invariant).
type PreparedRow struct {
	Name   string
	Fields []RowField
	IsCopy bool // every field copy and no field is nullable-over-non-copy
}

// PreparedParams is a deduplicated parameter shape shared by every query
// whose parameter list matches it (spec.md §3 PreparedParams).
type PreparedParams struct {
	Name    string
	Fields  []PreparedParam
	Queries []int // indices into PreparedModule.QueryOrder sharing this shape
}

// PreparedModule is one input module's prepared queries plus its
// deduplicated row/param shape tables, in first-insertion order for
// deterministic emission (spec.md §3 PreparedModule).
type PreparedModule struct {
	Name string

	QueryOrder []string
	Queries    map[string]*PreparedQuery

	RowOrder []string
	Rows     map[string]*PreparedRow

	ParamsOrder []string
	Params      map[string]*PreparedParams
}

func newPreparedModule(name string) *PreparedModule {
	return &PreparedModule{
		Name:    name,
		Queries: make(map[string]*PreparedQuery),
		Rows:    make(map[string]*PreparedRow),
		Params:  make(map[string]*PreparedParams),
	}
}
