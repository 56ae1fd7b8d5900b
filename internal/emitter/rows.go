package emitter

import (
	"fmt"
	"strings"

	"github.com/fontana-sql/fontana/internal/preparer"
	"github.com/fontana-sql/fontana/internal/registrar"
)

// rowFieldGoType is a row column's Go field type: a bare Borrowed/Owned
// type, or its pointer form when the column may be NULL - scanning into
// &field where field is itself a pointer type is pgx's documented way of
// letting a column come back nil without a panic.
func rowFieldGoType(f preparer.RowField, owned bool) string {
	var base string
	if owned {
		base = goTypeName(f.Type)
	} else {
		base = goBorrowedTypeName(f.Type)
	}

	if f.IsNullable {
		return "*" + base
	}

	return base
}

// emitRowShapes writes one struct and one scan function (plus a Borrowed
// variant when the shape isn't a Copy shape) per deduplicated row shape
// in a module, in RowOrder so a later shape never forward-references one
// emitted after it.
func emitRowShapes(mod *preparer.PreparedModule) string {
	var b strings.Builder

	for _, name := range mod.RowOrder {
		row := mod.Rows[name]
		emitRowShape(&b, name, row)
	}

	return b.String()
}

func emitRowShape(b *strings.Builder, name string, row *preparer.PreparedRow) {
	fmt.Fprintf(b, "// %s is the result row shape shared by every query whose columns match\n", name)
	fmt.Fprintf(b, "// it up to reordering.\n")
	fmt.Fprintf(b, "type %s struct {\n", name)

	for _, f := range row.Fields {
		fmt.Fprintf(b, "\t%s %s\n", registrar.EscapeIdent(registrar.UpperCamel(f.Name)), rowFieldGoType(f, true))
	}

	fmt.Fprintf(b, "}\n\n")

	scanTarget := name

	if !row.IsCopy {
		borrowedName := name + "Borrowed"
		scanTarget = borrowedName

		fmt.Fprintf(b, "// %s is the zero-copy view of %s; it must not outlive the\n", borrowedName, name)
		fmt.Fprintf(b, "// pgx.Rows buffer it was scanned from.\n")
		fmt.Fprintf(b, "type %s struct {\n", borrowedName)

		for _, f := range row.Fields {
			fmt.Fprintf(b, "\t%s %s\n", registrar.EscapeIdent(registrar.UpperCamel(f.Name)), rowFieldGoType(f, false))
		}

		fmt.Fprintf(b, "}\n\n")

		fmt.Fprintf(b, "// Owned copies %s into a value independent of the row buffer.\n", borrowedName)
		fmt.Fprintf(b, "func (v %s) Owned() %s {\n", borrowedName, name)
		fmt.Fprintf(b, "\treturn %s{\n", name)

		for _, f := range row.Fields {
			fname := registrar.EscapeIdent(registrar.UpperCamel(f.Name))
			fmt.Fprintf(b, "\t\t%s: %s,\n", fname, convertRowField(f, "v."+fname))
		}

		fmt.Fprintf(b, "\t}\n}\n\n")
	}

	emitRowScanFunc(b, name, scanTarget, row)
}

// convertRowField projects one scanned Borrowed field expression into its
// Owned form, threading through the NULL-pointer wrapper when present.
func convertRowField(f preparer.RowField, expr string) string {
	if f.Type.IsCopy {
		return expr
	}

	owned := goTypeName(f.Type)

	convert := func(inner string) string {
		switch f.Type.Kind {
		case registrar.KindComposite, registrar.KindDomain:
			return inner + ".Owned()"
		default:
			return owned + "(" + inner + ")"
		}
	}

	if !f.IsNullable {
		return convert(expr)
	}

	return fmt.Sprintf("nullableOwned(%s, func(b %s) %s { return %s })", expr, goBorrowedTypeName(f.Type), owned, convert("b"))
}

// emitRowScanFunc writes the function RowQuery.scan plugs in: it scans
// the physical columns (in whatever order this call's index map names)
// into canonically-ordered locals, then assembles the row's Borrowed (or
// Owned, for a Copy shape) value.
func emitRowScanFunc(b *strings.Builder, rowName, scanTarget string, row *preparer.PreparedRow) {
	fnName := "scan" + rowName

	fmt.Fprintf(b, "func %s(rows pgx.Rows, indexes []int) (%s, error) {\n", fnName, scanTarget)

	for i, f := range row.Fields {
		fmt.Fprintf(b, "\tvar c%d %s\n", i, rowFieldGoType(f, false))
	}

	fmt.Fprintf(b, "\n\tdest := make([]any, len(indexes))\n")
	fmt.Fprintf(b, "\tptrs := []any{")

	for i := range row.Fields {
		if i > 0 {
			b.WriteString(", ")
		}

		fmt.Fprintf(b, "&c%d", i)
	}

	fmt.Fprintf(b, "}\n\n")
	fmt.Fprintf(b, "\tfor canonical, physical := range indexes {\n\t\tdest[physical] = ptrs[canonical]\n\t}\n\n")
	fmt.Fprintf(b, "\tif err := rows.Scan(dest...); err != nil {\n\t\tvar zero %s\n\n\t\treturn zero, err\n\t}\n\n", scanTarget)

	fmt.Fprintf(b, "\treturn %s{\n", scanTarget)

	for i, f := range row.Fields {
		fmt.Fprintf(b, "\t\t%s: c%d,\n", registrar.EscapeIdent(registrar.UpperCamel(f.Name)), i)
	}

	fmt.Fprintf(b, "\t}, nil\n}\n\n")
}

// emitParamsShapes writes one struct per deduplicated parameter shape.
func emitParamsShapes(mod *preparer.PreparedModule) string {
	var b strings.Builder

	for _, name := range mod.ParamsOrder {
		p := mod.Params[name]

		fmt.Fprintf(&b, "// %s is the bound-parameter shape shared by every query whose\n", name)
		fmt.Fprintf(&b, "// parameters match it up to reordering.\n")
		fmt.Fprintf(&b, "type %s struct {\n", name)

		for _, f := range p.Fields {
			fmt.Fprintf(&b, "\t%s %s\n", registrar.EscapeIdent(registrar.UpperCamel(f.Name)), goParamsTypeName(f.Type))
		}

		fmt.Fprintf(&b, "}\n\n")
	}

	return b.String()
}
