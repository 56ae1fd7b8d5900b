// Package emitter implements the code emitter (spec.md §4.3): it walks the
// registrar's accumulated types and the prepared modules and synthesizes a
// single, self-contained Go source file - user type mirrors, binary
// composite/domain codecs, one function per query, and a generic
// RowQuery[...] builder offering One/Opt/All/Iter/Stream execution.
package emitter

// Options configures one Emit call. Sync selects the client-handle mode a
// generated query function binds against: *pgx.Conn (exclusive, caller
// serializes access) when true, *pgxpool.Pool (interior synchronization,
// safe to share) when false - see SPEC_FULL.md REDESIGN FLAGS §3 for why
// this is the Go-idiomatic stand-in for the original sync/async duality.
type Options struct {
	Sync bool

	// PackageName is the package clause of the emitted file, usually the
	// caller's chosen destination package (e.g. "db").
	PackageName string
}

// ClientType returns the Go type generated functions bind their database
// handle parameter to.
func (o Options) ClientType() string {
	if o.Sync {
		return "*pgx.Conn"
	}

	return "*pgxpool.Pool"
}
