package preparer

import (
	"context"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fontana-sql/fontana/internal/reader"
	"github.com/fontana-sql/fontana/internal/registrar"
)

// Preparer is the slice of *pgx.Conn the preparer needs: Prepare, to issue
// the literal PREPARE spec.md §4.2 step 1 and §6 call for.
type Preparer interface {
	registrar.Querier
	Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error)
}

// Prepare runs spec.md §4.2 over one module: for each query it issues
// PREPARE, maps the returned parameter/column OIDs through reg, builds a
// candidate row/params shape, and dedupes row/param shapes across the
// module's queries before returning the fully populated PreparedModule.
func Prepare(ctx context.Context, conn Preparer, reg *registrar.Registrar, mod reader.Module) (*PreparedModule, error) {
	out := newPreparedModule(mod.Name)

	var rowCandidates []candidateRow

	var paramCandidates []candidateParams

	pq := make([]*PreparedQuery, len(mod.Queries))

	for idx, q := range mod.Queries {
		stmtName := mod.Name + "_" + q.Name

		desc, err := conn.Prepare(ctx, stmtName, q.SQL)
		if err != nil {
			return nil, &PrepareFailedError{Module: mod.Name, Query: q.Name, Err: err}
		}

		if len(desc.ParamOIDs) != len(q.ParamNames) {
			return nil, &ParamArityMismatchError{
				Module: mod.Name, Query: q.Name,
				Declared: len(q.ParamNames), Actual: len(desc.ParamOIDs),
			}
		}

		params := make([]PreparedParam, len(q.ParamNames))

		for i, name := range q.ParamNames {
			t, err := reg.GetOrRegisterByOID(ctx, desc.ParamOIDs[i])
			if err != nil {
				return nil, err
			}

			params[i] = PreparedParam{Name: name, Type: t}
		}

		pqry := &PreparedQuery{Name: q.Name, SQL: q.SQL, Params: params}

		if q.HasResult && len(desc.Fields) > 0 {
			fields := make([]RowField, len(desc.Fields))
			nullable := nullabilityGuess(ctx, conn, q.SQL, desc.Fields)

			for i, f := range desc.Fields {
				t, err := reg.GetOrRegisterByOID(ctx, f.DataTypeOID)
				if err != nil {
					return nil, err
				}

				fields[i] = RowField{Name: string(f.Name), Type: t, IsNullable: nullable[i]}
			}

			rowName := q.Name
			if q.RowNameHint != "" {
				rowName = q.RowNameHint
			}

			rowCandidates = append(rowCandidates, candidateRow{queryName: rowName, queryIdx: idx, fields: fields})
		}

		paramName := q.Name
		if q.ParamNameHint != "" {
			paramName = q.ParamNameHint
		}

		if len(params) > 0 {
			paramCandidates = append(paramCandidates, candidateParams{queryName: paramName, queryIdx: idx, fields: params})
		}

		pq[idx] = pqry
	}

	rows, rowAssign := groupRows(rowCandidates)
	for name, r := range rows {
		out.Rows[name] = r
	}

	paramsShapes, paramAssign := groupParams(paramCandidates)
	for name, p := range paramsShapes {
		out.Params[name] = p
	}

	out.RowOrder = sortedKeysByFirstUse(rowAssign, len(mod.Queries))
	out.ParamsOrder = sortedValuesByFirstUse(paramAssign, len(mod.Queries))

	for idx, q := range mod.Queries {
		pqry := pq[idx]

		if assign, ok := rowAssign[idx]; ok {
			pqry.RowName = assign.name
			pqry.ColumnIndexMap = assign.idx
		}

		if name, ok := paramAssign[idx]; ok {
			pqry.ParamsName = name
		}

		out.QueryOrder = append(out.QueryOrder, q.Name)
		out.Queries[q.Name] = pqry
	}

	return out, nil
}

func sortedKeysByFirstUse(assign map[int]struct {
	name string
	idx  []int
}, numQueries int) []string {
	var order []string

	seen := make(map[string]bool)

	for i := 0; i < numQueries; i++ {
		a, ok := assign[i]
		if !ok || seen[a.name] {
			continue
		}

		seen[a.name] = true
		order = append(order, a.name)
	}

	return order
}

func sortedValuesByFirstUse(assign map[int]string, numQueries int) []string {
	var order []string

	seen := make(map[string]bool)

	for i := 0; i < numQueries; i++ {
		name, ok := assign[i]
		if !ok || seen[name] {
			continue
		}

		seen[name] = true
		order = append(order, name)
	}

	return order
}

// fromRegexp extracts a single source table name from a simple
// "FROM <table>" or "INTO <table>" clause, best-effort only.
var fromRegexp = regexp.MustCompile(`(?i)\b(?:FROM|INTO)\s+"?([a-zA-Z_][a-zA-Z0-9_]*)"?`)

// multiSourceRegexp spots a second source table: a JOIN, or a comma right
// after a FROM table (and its optional alias).
var multiSourceRegexp = regexp.MustCompile(`(?i)\bJOIN\b|\bFROM\s+"?[a-zA-Z_][a-zA-Z0-9_]*"?(?:\s+(?:AS\s+)?[a-zA-Z_][a-zA-Z0-9_]*)?\s*,`)

// nullabilityGuess implements spec.md §4.2 step 1's "nullability comes from
// the database's plan annotation; if unavailable, conservatively true".
// PostgreSQL's wire-protocol Describe message (what pgx's Prepare surfaces
// as pgconn.FieldDescription) carries no nullability bit, so fontana
// falls back to a best-effort heuristic: when the query's FROM/INTO clause
// names exactly one source table, look up each result column's
// pg_attribute.attnotnull directly; every column that can't be matched to
// a source table column defaults to nullable, the conservative default
// spec.md §9's Open Questions calls for.
func nullabilityGuess(ctx context.Context, conn registrar.Querier, sql string, fields []pgconn.FieldDescription) []bool {
	out := make([]bool, len(fields))
	for i := range out {
		out[i] = true
	}

	matches := fromRegexp.FindAllStringSubmatch(sql, -1)
	if len(matches) != 1 || multiSourceRegexp.MatchString(sql) {
		return out
	}

	table := matches[0][1]

	rows, err := conn.Query(ctx, queryColumnNotNull, table)
	if err != nil {
		return out
	}
	defer rows.Close()

	notNull := make(map[string]bool)

	for rows.Next() {
		var name string

		var attnotnull bool
		if err := rows.Scan(&name, &attnotnull); err != nil {
			continue
		}

		notNull[name] = attnotnull
	}

	for i, f := range fields {
		if nn, ok := notNull[strings.ToLower(string(f.Name))]; ok {
			out[i] = !nn
		}
	}

	return out
}

const queryColumnNotNull = `
	SELECT a.attname, a.attnotnull
	FROM pg_catalog.pg_attribute a
	JOIN pg_catalog.pg_class c ON c.oid = a.attrelid
	WHERE c.relname = $1 AND a.attnum > 0 AND NOT a.attisdropped`
