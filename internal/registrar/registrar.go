package registrar

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fontana-sql/fontana/internal/cliutil"
)

// Querier is the slice of *pgx.Conn / *pgxpool.Pool the registrar needs; a
// narrow interface keeps tests free to stub it, the same shrink-to-fit
// style as the teacher's pkg/database.Pool wrapping a *pgxpool.Pool.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Registrar is the type registrar (spec.md §4.1): created empty, grown
// monotonically while preparer.Prepare walks each module's queries, and
// read-only once the emitter starts. insertionOrder records registration
// order; Types iterates the dependency graph's topological order instead
// (ties broken alphabetically), which is deterministic regardless of map
// iteration order.
type Registrar struct {
	q Querier

	byKey          map[string]*TypeDescriptor // key = schema.name
	byOID          map[uint32]*TypeDescriptor
	insertionOrder []*TypeDescriptor
	deps           *depGraph

	// names already assigned an OwnedName, to disambiguate cross-schema
	// collisions by schema-prefixing the second and later claimant, per
	// spec.md §4.1 "Naming".
	claimedNames map[string]string // OwnedName -> key of first claimant
}

func New(q Querier) *Registrar {
	return &Registrar{
		q:            q,
		byKey:        make(map[string]*TypeDescriptor),
		byOID:        make(map[uint32]*TypeDescriptor),
		deps:         newDepGraph(),
		claimedNames: make(map[string]string),
	}
}

// Types returns every registered descriptor in dependency order (see
// depGraph.order): a field/element/inner type always precedes the
// composite/array/domain referencing it, which is exactly the order the
// emitter needs to emit valid forward-reference-free Go source.
func (r *Registrar) Types() ([]*TypeDescriptor, error) {
	order, err := r.deps.order()
	if err != nil {
		return nil, err
	}

	out := make([]*TypeDescriptor, 0, len(order))
	for _, key := range order {
		out = append(out, r.byKey[key])
	}

	return out, nil
}

// GetOrRegisterByOID resolves a PostgreSQL OID into a *TypeDescriptor,
// recursing into array elements, domain inner types, and composite fields.
// Idempotent: a second call with the same OID returns the cached entry.
func (r *Registrar) GetOrRegisterByOID(ctx context.Context, oid uint32) (*TypeDescriptor, error) {
	if d, ok := r.byOID[oid]; ok {
		return d, nil
	}

	row := pgTypeRow{}
	if err := r.fetchPGType(ctx, oid, &row); err != nil {
		return nil, cliutil.WrapError(fmt.Sprintf("resolve type oid %d", oid), err)
	}

	key := row.schema + "." + row.name
	if d, ok := r.byKey[key]; ok {
		r.byOID[oid] = d
		return d, nil
	}

	return r.register(ctx, row)
}

type pgTypeRow struct {
	oid         uint32
	name        string
	schema      string
	typtype     string
	typcategory string
	typelem     uint32
	typbasetype uint32
	typrelid    uint32
}

const queryPGType = `
	SELECT t.oid, t.typname, n.nspname, t.typtype, t.typcategory,
	       t.typelem, t.typbasetype, t.typrelid
	FROM pg_catalog.pg_type t
	JOIN pg_catalog.pg_namespace n ON n.oid = t.typnamespace
	WHERE t.oid = $1`

func (r *Registrar) fetchPGType(ctx context.Context, oid uint32, out *pgTypeRow) error {
	rows, err := r.q.Query(ctx, queryPGType, oid)
	if err != nil {
		return cliutil.WrapError("query pg_type", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return fmt.Errorf("registrar: oid %d not found in pg_type", oid)
	}

	if err := rows.Scan(&out.oid, &out.name, &out.schema, &out.typtype,
		&out.typcategory, &out.typelem, &out.typbasetype, &out.typrelid); err != nil {
		return cliutil.WrapError("scan pg_type row", err)
	}

	return rows.Err()
}

const queryCompositeFields = `
	SELECT a.attname, a.atttypid
	FROM pg_catalog.pg_attribute a
	WHERE a.attrelid = $1 AND a.attnum > 0 AND NOT a.attisdropped
	ORDER BY a.attnum`

const queryEnumVariants = `
	SELECT enumlabel
	FROM pg_catalog.pg_enum
	WHERE enumtypid = $1
	ORDER BY enumsortorder`

func (r *Registrar) register(ctx context.Context, row pgTypeRow) (*TypeDescriptor, error) {
	key := row.schema + "." + row.name

	d := &TypeDescriptor{
		OID:    row.oid,
		Schema: row.schema,
		Name:   row.name,
	}

	r.byKey[key] = d
	r.byOID[row.oid] = d
	r.insertionOrder = append(r.insertionOrder, d)
	r.deps.addNode(key)

	if row.typtype != "b" {
		r.assignTargetNames(d)
	}

	switch {
	case row.typcategory == "A" && row.typelem != 0:
		d.Kind = KindArray

		elem, err := r.GetOrRegisterByOID(ctx, row.typelem)
		if err != nil {
			return nil, err
		}

		d.Elem = elem
		d.IsCopy = false
		d.IsParams = elem.IsParams

		if err := r.deps.addEdge(key, elem.Schema+"."+elem.Name); err != nil {
			return nil, err
		}

	case row.typtype == "d":
		d.Kind = KindDomain

		inner, err := r.GetOrRegisterByOID(ctx, row.typbasetype)
		if err != nil {
			return nil, err
		}

		d.Inner = inner
		d.IsCopy = inner.IsCopy
		// A domain's Borrowed mirror is only parameter-bindable as-is when
		// it collapses to the Owned type (IsCopy); a non-Copy domain's
		// Owned value still needs its own Params mirror even when Inner is
		// a plain scalar (spec.md §4.3 scenario F: a bytea domain is
		// non-Copy and gets a HashParams mirror despite having no nested
		// composite/domain of its own).
		d.IsParams = d.IsCopy

		if err := r.deps.addEdge(key, inner.Schema+"."+inner.Name); err != nil {
			return nil, err
		}

	case row.typtype == "c":
		d.Kind = KindComposite

		fieldRows, err := r.q.Query(ctx, queryCompositeFields, row.typrelid)
		if err != nil {
			return nil, cliutil.WrapError("query composite fields", err)
		}
		defer fieldRows.Close()

		allCopy := true

		for fieldRows.Next() {
			var fname string

			var ftypeOID uint32
			if err := fieldRows.Scan(&fname, &ftypeOID); err != nil {
				return nil, cliutil.WrapError("scan composite field", err)
			}

			ftype, err := r.GetOrRegisterByOID(ctx, ftypeOID)
			if err != nil {
				return nil, err
			}

			d.Fields = append(d.Fields, Field{Name: fname, Type: ftype})
			allCopy = allCopy && ftype.IsCopy

			if err := r.deps.addEdge(key, ftype.Schema+"."+ftype.Name); err != nil {
				return nil, err
			}
		}

		if err := fieldRows.Err(); err != nil {
			return nil, cliutil.WrapError("iterate composite fields", err)
		}

		d.IsCopy = allCopy
		// Same reasoning as the domain case above: a non-Copy composite's
		// Owned struct lacks the pgx encode methods (those only ever land
		// on the Borrowed mirror), so it needs its own Params mirror
		// whenever it isn't Copy - not only when a field nests another
		// non-params-capable type (spec.md §4.3 scenario D).
		d.IsParams = d.IsCopy

	case row.typtype == "e":
		d.Kind = KindEnum

		variantRows, err := r.q.Query(ctx, queryEnumVariants, row.oid)
		if err != nil {
			return nil, cliutil.WrapError("query enum variants", err)
		}
		defer variantRows.Close()

		for variantRows.Next() {
			var label string
			if err := variantRows.Scan(&label); err != nil {
				return nil, cliutil.WrapError("scan enum variant", err)
			}

			d.Variants = append(d.Variants, label)
		}

		if err := variantRows.Err(); err != nil {
			return nil, cliutil.WrapError("iterate enum variants", err)
		}

		d.IsCopy = true
		d.IsParams = true

	case row.typtype == "b":
		mapping, ok := lookupScalar(row.name)
		if !ok {
			return nil, &UnsupportedTypeError{OID: row.oid, Name: row.name}
		}

		d.Kind = KindScalar
		d.goOwned = mapping.owned
		d.goBorrowed = mapping.borrowed
		d.IsCopy = mapping.isCopy
		d.IsParams = true

	default:
		return nil, &UnsupportedTypeError{OID: row.oid, Name: row.name}
	}

	return d, nil
}

// assignTargetNames computes OwnedName/PathFromTypesPackage/
// PathFromQueriesPackage for a freshly registered non-scalar type,
// disambiguating cross-schema collisions by schema-prefixing the second
// claimant (spec.md §4.1 "Naming: Collisions across schemas are
// disambiguated by the schema prefix").
func (r *Registrar) assignTargetNames(d *TypeDescriptor) {
	owned := UpperCamel(d.Name)

	key := d.Schema + "." + d.Name
	if firstKey, taken := r.claimedNames[owned]; taken && firstKey != key {
		owned = UpperCamel(d.Schema) + owned
	} else {
		r.claimedNames[owned] = key
	}

	d.OwnedName = owned

	pkg := SchemaPackage(d.Schema)
	if pkg == "" {
		d.PathFromTypesPackage = owned
		d.PathFromQueriesPackage = "types." + owned
	} else {
		d.PathFromTypesPackage = pkg + "." + owned
		d.PathFromQueriesPackage = "types." + pkg + "." + owned
	}
}
