package emitter

import "github.com/fontana-sql/fontana/internal/registrar"

// goTypeName and goBorrowedTypeName are the emitter's own name resolvers,
// deliberately bypassing TypeDescriptor.GoOwned()/GoBorrowed(): those
// methods assume a multi-package "types" tree (PathFromQueriesPackage),
// but spec.md commits the emitter to a single target source file - the
// same way the original generator nests Rust `mod` blocks inside one
// file rather than splitting files. A single Go package has no in-file
// sub-namespace, so every Domain/Composite/Enum type is emitted flat
// under its already-disambiguated OwnedName instead.
func goTypeName(t *registrar.TypeDescriptor) string {
	switch t.Kind {
	case registrar.KindScalar:
		return t.GoOwned()
	case registrar.KindArray:
		return "[]" + goTypeName(t.Elem)
	default:
		return t.OwnedName
	}
}

func goBorrowedTypeName(t *registrar.TypeDescriptor) string {
	if t.IsCopy {
		return goTypeName(t)
	}

	switch t.Kind {
	case registrar.KindScalar:
		return t.GoBorrowed()
	case registrar.KindArray:
		return "[]" + goBorrowedTypeName(t.Elem)
	case registrar.KindEnum:
		return t.OwnedName
	default:
		return t.OwnedName + "Borrowed"
	}
}

// goParamsTypeName is the Go type a query-parameter field is declared
// with. A Copy composite/domain, a scalar, or an array of either binds
// straight through pgx's existing encode path on its Owned type. A
// non-Copy composite/domain's Owned type does not: its pgx composite
// codec methods (Index/IndexGetNull) are only ever emitted on the
// Borrowed mirror (see emitCompositeCodecMethods), and the Borrowed
// mirror itself aliases a pgx.Rows buffer a caller can't construct by
// hand - so that type needs its own {Name}Params mirror purely for the
// encode direction (spec.md §4.3 Domain/Composite scenarios D and F).
func goParamsTypeName(t *registrar.TypeDescriptor) string {
	switch t.Kind {
	case registrar.KindArray:
		return "[]" + goParamsTypeName(t.Elem)
	case registrar.KindDomain, registrar.KindComposite:
		if t.NeedsParamsVariant() {
			return t.OwnedName + "Params"
		}

		return goTypeName(t)
	default:
		return goTypeName(t)
	}
}

// pgQualifiedName is the name the emitter passes to (*pgx.Conn).LoadType
// at runtime to resolve a non-scalar type's live OID and wire codec.
func pgQualifiedName(t *registrar.TypeDescriptor) string {
	if t.Schema == "" || t.Schema == registrar.DefaultSchema {
		return t.Name
	}

	return t.Schema + "." + t.Name
}
