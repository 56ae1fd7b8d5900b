package emitter

import (
	"fmt"
	"strings"

	"github.com/fontana-sql/fontana/internal/registrar"
)

// emitRegisterTypes writes the RegisterTypes function every generated
// client must call once, right after connecting, before any query that
// touches a composite/domain/enum type runs. Composite/enum/domain OIDs
// are per-database, so fontana never bakes in a literal OID; instead it
// uses (*pgx.Conn).LoadType, pgx's documented mechanism for resolving a
// user-defined type's live OID and wire codec by name at runtime.
func emitRegisterTypes(types []*registrar.TypeDescriptor) string {
	var names []string

	for _, t := range types {
		switch t.Kind {
		case registrar.KindComposite, registrar.KindEnum:
			names = append(names, pgQualifiedName(t))
		case registrar.KindDomain:
			// Domains decode through their base type's codec; LoadType
			// handles the typbasetype indirection, so the domain name
			// itself still needs registering for composites that embed it.
			names = append(names, pgQualifiedName(t))
		}
	}

	var b strings.Builder

	b.WriteString("// RegisterTypes loads every composite, domain, and enum type this package\n")
	b.WriteString("// uses from conn and registers their wire codecs on conn's type map. Call it\n")
	b.WriteString("// once per connection (and once per pooled connection's AfterConnect hook)\n")
	b.WriteString("// before running any query that touches one of those types.\n")
	b.WriteString("func RegisterTypes(ctx context.Context, conn *pgx.Conn) error {\n")

	if len(names) == 0 {
		b.WriteString("\treturn nil\n}\n\n")
		return b.String()
	}

	b.WriteString("\tnames := []string{\n")

	for _, n := range names {
		fmt.Fprintf(&b, "\t\t%q,\n", n)
	}

	b.WriteString("\t}\n\n")
	b.WriteString("\tfor _, name := range names {\n")
	b.WriteString("\t\tt, err := conn.LoadType(ctx, name)\n")
	b.WriteString("\t\tif err != nil {\n")
	b.WriteString("\t\t\treturn fmt.Errorf(\"fontana: load type %s: %w\", name, err)\n")
	b.WriteString("\t\t}\n\n")
	b.WriteString("\t\tconn.TypeMap().RegisterType(t)\n")
	b.WriteString("\t}\n\n")
	b.WriteString("\treturn nil\n}\n\n")

	b.WriteString("// RegisterTypesPool runs RegisterTypes against one connection acquired from\n")
	b.WriteString("// pool, the shape needed for a pgxpool.Config.AfterConnect hook so every\n")
	b.WriteString("// pooled connection gets the same type registrations.\n")
	b.WriteString("func RegisterTypesPool(ctx context.Context, conn *pgx.Conn) error {\n")
	b.WriteString("\treturn RegisterTypes(ctx, conn)\n}\n\n")

	return b.String()
}
