package emitter

import (
	"fmt"
	"strings"

	"github.com/fontana-sql/fontana/internal/preparer"
	"github.com/fontana-sql/fontana/internal/registrar"
)

// emitQueries writes one Go function per query in mod, in QueryOrder.
// A row-returning query returns a RowQuery builder; a void query (no
// result columns - an INSERT/UPDATE/DELETE with no RETURNING) runs
// immediately and returns only an error, per spec.md §4.3's "one
// strongly typed function per query".
func emitQueries(mod *preparer.PreparedModule, opts Options) string {
	var b strings.Builder

	for _, name := range mod.QueryOrder {
		q := mod.Queries[name]
		fnName := registrar.UpperCamel(mod.Name) + registrar.UpperCamel(q.Name)

		constName := "sql" + fnName
		fmt.Fprintf(&b, "const %s = %s\n\n", constName, goQuote(q.SQL))

		paramDecl, argsExpr := paramSignature(q)

		if q.RowName == "" {
			emitVoidQuery(&b, fnName, constName, paramDecl, argsExpr, opts)
			continue
		}

		emitRowQuery(&b, fnName, constName, paramDecl, argsExpr, q, mod.Rows[q.RowName].IsCopy, opts)
	}

	return b.String()
}

// paramSignature returns the function's parameter declaration (after the
// leading client handle) and the []any{...} expression passed as query
// arguments, in the query's own positional $1.. order. Parameters are
// addressed by field name on the shared Params struct, so declaration
// order inside that struct never needs to match this query's $N order.
func paramSignature(q *preparer.PreparedQuery) (decl, argsExpr string) {
	if q.ParamsName == "" {
		return "", "nil"
	}

	var args []string

	for _, p := range q.Params {
		args = append(args, "p."+registrar.EscapeIdent(registrar.UpperCamel(p.Name)))
	}

	return ", p " + q.ParamsName, "[]any{" + strings.Join(args, ", ") + "}"
}

func emitVoidQuery(b *strings.Builder, fnName, constName, paramDecl, argsExpr string, opts Options) {
	fmt.Fprintf(b, "// %s runs the %q query and discards any result.\n", fnName, fnName)
	fmt.Fprintf(b, "func %s(ctx context.Context, conn %s%s) error {\n", fnName, opts.ClientType(), paramDecl)
	fmt.Fprintf(b, "\t_, err := conn.Exec(ctx, %s, %s...)\n\n", constName, argsExpr)
	fmt.Fprintf(b, "\treturn err\n}\n\n")
}

func emitRowQuery(b *strings.Builder, fnName, constName, paramDecl, argsExpr string, q *preparer.PreparedQuery, rowIsCopy bool, opts Options) {
	row := q.RowName

	borrowed := row
	mapper := "func(v " + row + ") " + row + " { return v }"

	if !rowIsCopy {
		borrowed = row + "Borrowed"
		mapper = "func(v " + borrowed + ") " + row + " { return v.Owned() }"
	}

	fmt.Fprintf(b, "// %s runs the %q query, returning a builder with One/Opt/All/Iter/\n", fnName, fnName)
	fmt.Fprintf(b, "// Stream execution modes.\n")
	fmt.Fprintf(b, "func %s(conn %s%s) RowQuery[%s, %s] {\n", fnName, opts.ClientType(), paramDecl, borrowed, row)
	fmt.Fprintf(b, "\treturn RowQuery[%s, %s]{\n", borrowed, row)
	fmt.Fprintf(b, "\t\texec: func(ctx context.Context, sql string, args []any) (pgx.Rows, error) { return conn.Query(ctx, sql, args...) },\n")
	fmt.Fprintf(b, "\t\tsql:  %s,\n", constName)
	fmt.Fprintf(b, "\t\targs: %s,\n", argsExpr)
	fmt.Fprintf(b, "\t\tindexes: %s,\n", goIntSlice(q.ColumnIndexMap))
	fmt.Fprintf(b, "\t\tscan: scan%s,\n", row)
	fmt.Fprintf(b, "\t\tmapper: %s,\n", mapper)
	fmt.Fprintf(b, "\t}\n}\n\n")
}

func goIntSlice(ints []int) string {
	parts := make([]string, len(ints))
	for i, n := range ints {
		parts[i] = fmt.Sprintf("%d", n)
	}

	return "[]int{" + strings.Join(parts, ", ") + "}"
}

// goQuote renders s as a Go raw or interpreted string literal, whichever
// round-trips safely - SQL text routinely contains both backticks (rare)
// and double quotes (common, identifier quoting), so the emitter picks
// per-string rather than always reaching for %q's escape-heavy output.
func goQuote(s string) string {
	if !strings.ContainsAny(s, "`") {
		return "`" + s + "`"
	}

	return fmt.Sprintf("%q", s)
}
