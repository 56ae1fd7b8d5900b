package registrar

// scalarMapping is the fixed table of well-known PostgreSQL scalar types to
// (owned, borrowed) Go types, keyed by pg_type.typname. Spec.md §4.1 lists
// this table in full; borrowed == owned for every Copy scalar (ints,
// floats, bools, UUID, timestamps, dates - anything with no variable-length
// payload). Textual/bytea/JSON types borrow a slice over the row buffer.
type scalarMapping struct {
	owned    string
	borrowed string
	isCopy   bool
}

var pgScalars = map[string]scalarMapping{
	"bool":        {"bool", "bool", true},
	"int2":        {"int16", "int16", true},
	"int4":        {"int32", "int32", true},
	"int8":        {"int64", "int64", true},
	"float4":      {"float32", "float32", true},
	"float8":      {"float64", "float64", true},
	"text":        {"string", "string", false},
	"varchar":     {"string", "string", false},
	"bpchar":      {"string", "string", false},
	"name":        {"string", "string", false},
	"bytea":       {"[]byte", "[]byte", false},
	"uuid":        {"uuid.UUID", "uuid.UUID", true},
	"timestamp":   {"time.Time", "time.Time", true},
	"timestamptz": {"time.Time", "time.Time", true},
	"date":        {"time.Time", "time.Time", true},
	"time":        {"time.Duration", "time.Duration", true},
	"timetz":      {"time.Duration", "time.Duration", true},
	"interval":    {"time.Duration", "time.Duration", true},
	"numeric":     {"decimal.Decimal", "decimal.Decimal", true},
	"json":        {"json.RawMessage", "json.RawMessage", false},
	"jsonb":       {"json.RawMessage", "json.RawMessage", false},
	"inet":        {"netip.Prefix", "netip.Prefix", true},
	"oid":         {"uint32", "uint32", true},
}

// scalarImports maps each owned/borrowed Go type above to the import path
// it needs, so the emitter's preamble only imports what a given module
// actually uses (spec.md §4.3 "a preamble (imports selected per ... mode)").
var scalarImports = map[string]string{
	"uuid.UUID":       "github.com/google/uuid",
	"time.Time":       "time",
	"time.Duration":   "time",
	"decimal.Decimal": "github.com/shopspring/decimal",
	"json.RawMessage": "encoding/json",
	"netip.Prefix":    "net/netip",
}

func lookupScalar(typName string) (scalarMapping, bool) {
	m, ok := pgScalars[typName]
	return m, ok
}

// ImportForGoType returns the import path a scalar Go type (as returned by
// TypeDescriptor.GoOwned/GoBorrowed) needs, for the emitter's preamble.
func ImportForGoType(goType string) (string, bool) {
	p, ok := scalarImports[goType]
	return p, ok
}
