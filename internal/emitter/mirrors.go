package emitter

import (
	"fmt"
	"strings"

	"github.com/fontana-sql/fontana/internal/registrar"
)

// emitMirrors writes the Go type mirror for every non-scalar, non-array
// type the registrar accumulated, in dependency order (spec.md §4.1) so a
// composite's field types are always already declared above it.
func emitMirrors(types []*registrar.TypeDescriptor) string {
	var b strings.Builder

	for _, t := range types {
		switch t.Kind {
		case registrar.KindEnum:
			emitEnum(&b, t)
		case registrar.KindDomain:
			emitDomain(&b, t)
		case registrar.KindComposite:
			emitComposite(&b, t)
		}
	}

	return b.String()
}

func emitEnum(b *strings.Builder, t *registrar.TypeDescriptor) {
	fmt.Fprintf(b, "// %s mirrors the %s enum.\n", t.OwnedName, t.QualifiedPGName())
	fmt.Fprintf(b, "type %s string\n\n", t.OwnedName)
	fmt.Fprintf(b, "const (\n")

	for _, v := range t.Variants {
		fmt.Fprintf(b, "\t%s%s %s = %q\n", t.OwnedName, registrar.UpperCamel(v), t.OwnedName, v)
	}

	fmt.Fprintf(b, ")\n\n")
}

func emitDomain(b *strings.Builder, t *registrar.TypeDescriptor) {
	fmt.Fprintf(b, "// %s mirrors the %s domain over %s.\n", t.OwnedName, t.QualifiedPGName(), t.Inner.QualifiedPGName())
	fmt.Fprintf(b, "type %s %s\n\n", t.OwnedName, goTypeName(t.Inner))

	if !t.IsCopy {
		fmt.Fprintf(b, "// %sBorrowed is the zero-copy view of %s; it must not outlive\n", t.OwnedName, t.OwnedName)
		fmt.Fprintf(b, "// the pgx.Rows buffer it was scanned from.\n")
		fmt.Fprintf(b, "type %sBorrowed %s\n\n", t.OwnedName, goBorrowedTypeName(t.Inner))
	}

	if t.NeedsParamsVariant() {
		fmt.Fprintf(b, "// %sParams is %s's bound-parameter mirror (spec.md scenario F): a plain\n", t.OwnedName, t.OwnedName)
		fmt.Fprintf(b, "// defined type over its base type, which pgx's kind-based fallback codec\n")
		fmt.Fprintf(b, "// encodes directly - no custom ToSql method is needed for a domain over a\n")
		fmt.Fprintf(b, "// scalar base type.\n")
		fmt.Fprintf(b, "type %sParams %s\n\n", t.OwnedName, goParamsTypeName(t.Inner))
	}
}

func emitComposite(b *strings.Builder, t *registrar.TypeDescriptor) {
	fmt.Fprintf(b, "// %s mirrors the %s composite type.\n", t.OwnedName, t.QualifiedPGName())
	fmt.Fprintf(b, "type %s struct {\n", t.OwnedName)

	for _, f := range t.Fields {
		fmt.Fprintf(b, "\t%s %s\n", registrar.EscapeIdent(registrar.UpperCamel(f.Name)), goTypeName(f.Type))
	}

	fmt.Fprintf(b, "}\n\n")

	if t.IsCopy {
		emitCompositeCodecMethods(b, t, t.OwnedName)
		return
	}

	fmt.Fprintf(b, "// %sBorrowed is the zero-copy view of %s; it must not outlive\n", t.OwnedName, t.OwnedName)
	fmt.Fprintf(b, "// the pgx.Rows buffer it was scanned from.\n")
	fmt.Fprintf(b, "type %sBorrowed struct {\n", t.OwnedName)

	for _, f := range t.Fields {
		fmt.Fprintf(b, "\t%s %s\n", registrar.EscapeIdent(registrar.UpperCamel(f.Name)), goBorrowedTypeName(f.Type))
	}

	fmt.Fprintf(b, "}\n\n")

	fmt.Fprintf(b, "// Owned copies %sBorrowed into a value independent of the row buffer.\n", t.OwnedName)
	fmt.Fprintf(b, "func (v %sBorrowed) Owned() %s {\n", t.OwnedName, t.OwnedName)
	fmt.Fprintf(b, "\treturn %s{\n", t.OwnedName)

	for _, f := range t.Fields {
		fname := registrar.EscapeIdent(registrar.UpperCamel(f.Name))
		if f.Type.IsCopy {
			fmt.Fprintf(b, "\t\t%s: v.%s,\n", fname, fname)
		} else if f.Type.Kind == registrar.KindComposite || f.Type.Kind == registrar.KindDomain {
			fmt.Fprintf(b, "\t\t%s: v.%s.Owned(),\n", fname, fname)
		} else {
			fmt.Fprintf(b, "\t\t%s: %s(v.%s),\n", fname, goTypeName(f.Type), fname)
		}
	}

	fmt.Fprintf(b, "\t}\n}\n\n")

	emitCompositeCodecMethods(b, t, t.OwnedName+"Borrowed")

	if t.NeedsParamsVariant() {
		emitCompositeParamsMirror(b, t)
	}
}

// emitCompositeParamsMirror writes {OwnedName}Params (spec.md scenario D):
// a composite's Owned struct is not itself usable as a bound query
// parameter once it's non-Copy, because the pgx CompositeIndexGetter
// methods (Index/IndexGetNull) are only ever generated on the Borrowed
// mirror - and Borrowed aliases a pgx.Rows buffer a caller can't
// construct by hand to build a parameter value. Params holds the same
// fields as Owned (by directly encodable value, recursing into a
// nested composite/domain's own Params variant where one is needed) and
// carries only the encode-direction methods; it is never scanned out of
// a row, so it needs no ScanNull/ScanIndex.
func emitCompositeParamsMirror(b *strings.Builder, t *registrar.TypeDescriptor) {
	recv := t.OwnedName + "Params"

	fmt.Fprintf(b, "// %s is %s's bound-parameter mirror; pass it (not %s) as a query\n", recv, t.OwnedName, t.OwnedName)
	fmt.Fprintf(b, "// argument for a %s-typed parameter.\n", t.QualifiedPGName())
	fmt.Fprintf(b, "type %s struct {\n", recv)

	for _, f := range t.Fields {
		fmt.Fprintf(b, "\t%s %s\n", registrar.EscapeIdent(registrar.UpperCamel(f.Name)), goParamsTypeName(f.Type))
	}

	fmt.Fprintf(b, "}\n\n")

	short := strings.ToLower(t.OwnedName[:1])

	fmt.Fprintf(b, "func (%s %s) IndexGetNull(index int) bool {\n\treturn false\n}\n\n", short, recv)
	fmt.Fprintf(b, "func (%s %s) Index(index int) any {\n\tswitch index {\n", short, recv)

	for i, f := range t.Fields {
		fname := registrar.EscapeIdent(registrar.UpperCamel(f.Name))
		fmt.Fprintf(b, "\tcase %d:\n\t\treturn %s.%s\n", i, short, fname)
	}

	fmt.Fprintf(b, "\t}\n\n\treturn nil\n}\n\n")
}

// emitCompositeCodecMethods implements pgx's pgtype.CompositeIndexScanner
// and pgtype.CompositeIndexGetter interfaces, the documented mechanism for
// binding a user struct to a PostgreSQL composite type's binary codec
// (pgtype.CompositeCodec) without hand-rolling the wire format.
func emitCompositeCodecMethods(b *strings.Builder, t *registrar.TypeDescriptor, recv string) {
	short := strings.ToLower(t.OwnedName[:1])

	fmt.Fprintf(b, "func (v *%s) ScanNull(index int) error {\n", recv)
	fmt.Fprintf(b, "\treturn fmt.Errorf(\"fontana: %s.%%s cannot be NULL\", compositeFieldName_%s(index))\n}\n\n", t.OwnedName, t.OwnedName)

	fmt.Fprintf(b, "func (%s *%s) ScanIndex(index int, src any) error {\n", short, recv)
	fmt.Fprintf(b, "\tswitch index {\n")

	for i, f := range t.Fields {
		fname := registrar.EscapeIdent(registrar.UpperCamel(f.Name))
		ftype := goBorrowedTypeName(f.Type)

		if f.Type.IsCopy {
			fmt.Fprintf(b, "\tcase %d:\n\t\tv, ok := src.(%s)\n\t\tif !ok {\n\t\t\treturn fmt.Errorf(\"fontana: %s.%s: unexpected type %%T\", src)\n\t\t}\n\t\t%s.%s = v\n", i, ftype, t.OwnedName, f.Name, short, fname)
		} else {
			fmt.Fprintf(b, "\tcase %d:\n\t\tv, ok := src.(%s)\n\t\tif !ok {\n\t\t\treturn fmt.Errorf(\"fontana: %s.%s: unexpected type %%T\", src)\n\t\t}\n\t\t%s.%s = %s(v)\n", i, rawScanType(f.Type), t.OwnedName, f.Name, short, fname, ftype)
		}
	}

	fmt.Fprintf(b, "\t}\n\n\treturn nil\n}\n\n")

	fmt.Fprintf(b, "func (%s %s) IndexGetNull(index int) bool {\n\treturn false\n}\n\n", short, recv)

	fmt.Fprintf(b, "func (%s %s) Index(index int) any {\n\tswitch index {\n", short, recv)

	for i, f := range t.Fields {
		fname := registrar.EscapeIdent(registrar.UpperCamel(f.Name))
		fmt.Fprintf(b, "\tcase %d:\n\t\treturn %s.%s\n", i, short, fname)
	}

	fmt.Fprintf(b, "\t}\n\n\treturn nil\n}\n\n")

	fmt.Fprintf(b, "func compositeFieldName_%s(index int) string {\n\tnames := []string{", t.OwnedName)

	for i, f := range t.Fields {
		if i > 0 {
			b.WriteString(", ")
		}

		fmt.Fprintf(b, "%q", f.Name)
	}

	fmt.Fprintf(b, "}\n\tif index < 0 || index >= len(names) {\n\t\treturn \"?\"\n\t}\n\n\treturn names[index]\n}\n\n")
}

// rawScanType is the concrete type pgx's CompositeCodec hands ScanIndex
// for a non-Copy field: its Borrowed scalar form, or the Borrowed composite
// value type for nested composites.
func rawScanType(t *registrar.TypeDescriptor) string {
	if t.Kind == registrar.KindComposite && !t.IsCopy {
		return goBorrowedTypeName(t)
	}

	if t.Kind == registrar.KindDomain {
		return rawScanType(t.Inner)
	}

	return goBorrowedTypeName(t)
}
