// Package registrar implements the type registrar: it walks PostgreSQL's
// type graph (scalars, arrays, domains, composites, enums) and produces a
// canonical, deduplicated catalog of target Go type descriptors.
package registrar

// Kind tags the four supported non-scalar PostgreSQL type shapes plus the
// scalar case itself. Dispatch throughout the registrar and emitter is by
// tag, not by subtype - mirrors the teacher's pattern of tagged change
// types in internal/differ (ChangeType) rather than an interface hierarchy.
type Kind int

const (
	KindScalar Kind = iota
	KindArray
	KindDomain
	KindComposite
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindArray:
		return "array"
	case KindDomain:
		return "domain"
	case KindComposite:
		return "composite"
	case KindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Field is one named, typed member of a composite type, in PostgreSQL
// declaration order. Names are preserved verbatim from pg_attribute; only
// the Go-facing identifier (computed by the naming package) is escaped.
type Field struct {
	Name string
	Type *TypeDescriptor
}

// TypeDescriptor is the registrar's unit of output: one canonical record per
// (schema, name) PostgreSQL type, memoized for the lifetime of a Registrar.
type TypeDescriptor struct {
	// pg identity
	OID    uint32
	Schema string
	Name   string
	Kind   Kind

	// kind-specific payloads
	Elem     *TypeDescriptor // Array: element type
	Inner    *TypeDescriptor // Domain: underlying type
	Fields   []Field         // Composite: ordered fields
	Variants []string        // Enum: ordered variant labels

	// target names
	OwnedName            string // Go identifier for the owned type, e.g. "Addr"
	PathFromTypesPackage  string // reference when used from within the types tree
	PathFromQueriesPackage string // reference when used from a queries submodule

	// properties
	IsCopy   bool // owned value may be returned/passed by value with no aliasing hazard
	IsParams bool // the owned value is already a valid bound-parameter type as-is

	// scalar-only wire mapping (unset for non-scalars)
	goOwned    string
	goBorrowed string
}

// GoOwned returns the Go type used for the owned representation.
func (t *TypeDescriptor) GoOwned() string {
	switch t.Kind {
	case KindScalar:
		return t.goOwned
	case KindArray:
		return "[]" + t.Elem.GoOwned()
	case KindDomain, KindComposite, KindEnum:
		return t.PathFromQueriesPackage
	default:
		return "any"
	}
}

// GoBorrowed returns the Go type used for the zero-copy read view, tied to
// lifetime 'a in the spec - in Go this is simply a value that must not
// outlive the pgx.Rows buffer it was scanned from; there is no borrow
// checker to enforce it, so generated doc comments say so explicitly.
func (t *TypeDescriptor) GoBorrowed() string {
	if t.IsCopy {
		return t.GoOwned()
	}

	switch t.Kind {
	case KindScalar:
		return t.goBorrowed
	case KindArray:
		return "[]" + t.Elem.GoBorrowed()
	case KindDomain, KindComposite:
		return t.PathFromQueriesPackage + "Borrowed"
	case KindEnum:
		return t.PathFromQueriesPackage
	default:
		return "any"
	}
}

// NeedsParamsVariant is true when a distinct {Name}Params view must be
// emitted because the Owned type cannot itself be bound as a query
// parameter: a non-Copy composite/domain's pgx encode methods are only
// ever generated on its Borrowed mirror, and that mirror aliases a
// pgx.Rows buffer a caller can't construct by hand to build a parameter
// value (spec.md §4.3 scenarios D and F).
func (t *TypeDescriptor) NeedsParamsVariant() bool {
	return !t.IsParams
}

// QualifiedPGName is the dotted schema.name used in accepts()-style checks
// and in diagnostic error messages.
func (t *TypeDescriptor) QualifiedPGName() string {
	if t.Schema == "" {
		return t.Name
	}

	return t.Schema + "." + t.Name
}
