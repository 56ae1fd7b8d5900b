package emitter_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fontana-sql/fontana/internal/emitter"
	"github.com/fontana-sql/fontana/internal/preparer"
	"github.com/fontana-sql/fontana/internal/reader"
	"github.com/fontana-sql/fontana/internal/registrar"
	"github.com/fontana-sql/fontana/internal/testutils"
)

func TestMain(m *testing.M) {
	testutils.SharedTestMain(m)
}

// TestEmit_ProducesFormattedSourceForACompositeBackedQuery exercises the
// full registrar -> preparer -> emitter pipeline against a real schema and
// checks the output is valid enough to survive goimports (Format itself
// parses the source) and names the expected declarations.
func TestEmit_ProducesFormattedSourceForACompositeBackedQuery(t *testing.T) {
	t.Parallel()

	conn := testutils.Connect(t)
	ctx := context.Background()

	_, err := conn.Exec(ctx, `
		DROP TABLE IF EXISTS fontana_emit_users;
		CREATE TABLE fontana_emit_users (
			id serial PRIMARY KEY,
			email text NOT NULL,
			nickname text
		);
	`)
	require.NoError(t, err)

	t.Cleanup(func() { _, _ = conn.Exec(context.Background(), "DROP TABLE IF EXISTS fontana_emit_users") })

	reg := registrar.New(conn)

	mod := reader.Module{
		Name: "users",
		Queries: []reader.Query{
			{
				Name:       "FindByEmail",
				SQL:        "SELECT id, email, nickname FROM fontana_emit_users WHERE email = $1",
				ParamNames: []string{"email"},
				HasResult:  true,
			},
			{
				Name:       "Touch",
				SQL:        "UPDATE fontana_emit_users SET nickname = $1 WHERE id = $2",
				ParamNames: []string{"nickname", "id"},
				HasResult:  false,
			},
		},
	}

	pm, err := preparer.Prepare(ctx, conn, reg, mod)
	require.NoError(t, err)

	out, err := emitter.Emit(reg, []*preparer.PreparedModule{pm}, emitter.Options{Sync: false, PackageName: "db"})
	require.NoError(t, err)

	assert.Contains(t, out, "package db")
	assert.Contains(t, out, "Code generated by fontana. DO NOT EDIT.")
	assert.Contains(t, out, "func UsersFindByEmail(")
	assert.Contains(t, out, "func UsersTouch(")
	assert.Contains(t, out, "RegisterTypes(ctx context.Context, conn *pgx.Conn) error")
}

// TestEmit_ParamsMirrorForNonCopyCompositeAndDomainParameters exercises the
// pipeline against a query whose parameters are a non-Copy composite and a
// non-Copy domain, and checks the generated source carries the {Name}Params
// mirrors (spec.md §4.3 scenarios D and F) rather than binding the Owned
// types directly - the Owned struct's pgx encode methods only ever land on
// the Borrowed mirror, so without a Params mirror the generated code would
// not compile against pgx's CompositeIndexGetter interface.
func TestEmit_ParamsMirrorForNonCopyCompositeAndDomainParameters(t *testing.T) {
	t.Parallel()

	conn := testutils.Connect(t)
	ctx := context.Background()

	_, err := conn.Exec(ctx, `
		DROP TABLE IF EXISTS fontana_emit_accounts;
		DROP DOMAIN IF EXISTS fontana_emit_hash;
		DROP TYPE IF EXISTS fontana_emit_addr;

		CREATE TYPE fontana_emit_addr AS (street text, zip int);
		CREATE DOMAIN fontana_emit_hash AS bytea;

		CREATE TABLE fontana_emit_accounts (
			id serial PRIMARY KEY,
			addr fontana_emit_addr NOT NULL,
			hash fontana_emit_hash NOT NULL
		);
	`)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = conn.Exec(context.Background(), `
			DROP TABLE IF EXISTS fontana_emit_accounts;
			DROP DOMAIN IF EXISTS fontana_emit_hash;
			DROP TYPE IF EXISTS fontana_emit_addr;
		`)
	})

	reg := registrar.New(conn)

	mod := reader.Module{
		Name: "accounts",
		Queries: []reader.Query{
			{
				Name:       "Create",
				SQL:        "INSERT INTO fontana_emit_accounts (addr, hash) VALUES ($1, $2)",
				ParamNames: []string{"addr", "hash"},
				HasResult:  false,
			},
			{
				Name:       "FindByID",
				SQL:        "SELECT id, addr, hash FROM fontana_emit_accounts WHERE id = $1",
				ParamNames: []string{"id"},
				HasResult:  true,
			},
		},
	}

	pm, err := preparer.Prepare(ctx, conn, reg, mod)
	require.NoError(t, err)

	out, err := emitter.Emit(reg, []*preparer.PreparedModule{pm}, emitter.Options{Sync: false, PackageName: "db"})
	require.NoError(t, err)

	assert.Contains(t, out, "type FontanaEmitAddrParams struct")
	assert.Contains(t, out, "func (f FontanaEmitAddrParams) Index(index int) any")
	assert.Contains(t, out, "func (f FontanaEmitAddrParams) IndexGetNull(index int) bool")
	assert.Contains(t, out, "type FontanaEmitHashParams []byte")
	assert.Contains(t, out, "Addr FontanaEmitAddrParams")
	assert.Contains(t, out, "Hash FontanaEmitHashParams")
	assert.Contains(t, out, "func AccountsCreate(")
	assert.Contains(t, out, "func AccountsFindByID(")
}

func TestEmit_SyncModeBindsToPgxConn(t *testing.T) {
	t.Parallel()

	conn := testutils.Connect(t)
	ctx := context.Background()

	reg := registrar.New(conn)

	mod := reader.Module{
		Name: "misc",
		Queries: []reader.Query{
			{Name: "Ping", SQL: "SELECT 1", HasResult: true},
		},
	}

	pm, err := preparer.Prepare(ctx, conn, reg, mod)
	require.NoError(t, err)

	out, err := emitter.Emit(reg, []*preparer.PreparedModule{pm}, emitter.Options{Sync: true, PackageName: "db"})
	require.NoError(t, err)

	assert.Contains(t, out, "func MiscPing(conn *pgx.Conn)")
	assert.NotContains(t, out, "pgxpool")
}
