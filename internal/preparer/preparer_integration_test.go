package preparer_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fontana-sql/fontana/internal/preparer"
	"github.com/fontana-sql/fontana/internal/reader"
	"github.com/fontana-sql/fontana/internal/registrar"
	"github.com/fontana-sql/fontana/internal/testutils"
)

func TestMain(m *testing.M) {
	testutils.SharedTestMain(m)
}

func setupUsersTable(t *testing.T, conn *pgx.Conn) {
	t.Helper()

	ctx := context.Background()
	_, err := conn.Exec(ctx, `
		DROP TABLE IF EXISTS fontana_test_users;
		CREATE TABLE fontana_test_users (
			id serial PRIMARY KEY,
			email text NOT NULL,
			nickname text
		);
	`)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = conn.Exec(context.Background(), "DROP TABLE IF EXISTS fontana_test_users")
	})
}

func TestPrepare_RowAndParamShapesAndNullability(t *testing.T) {
	t.Parallel()

	conn := testutils.Connect(t)
	setupUsersTable(t, conn)

	reg := registrar.New(conn)
	ctx := context.Background()

	mod := reader.Module{
		Name: "users",
		Queries: []reader.Query{
			{
				Name:       "FindByEmail",
				SQL:        "SELECT id, email, nickname FROM fontana_test_users WHERE email = $1",
				ParamNames: []string{"email"},
				HasResult:  true,
			},
		},
	}

	pm, err := preparer.Prepare(ctx, conn, reg, mod)
	require.NoError(t, err)

	q := pm.Queries["FindByEmail"]
	require.NotNil(t, q)
	require.NotEmpty(t, q.RowName)

	row := pm.Rows[q.RowName]
	require.NotNil(t, row)
	require.Len(t, row.Fields, 3)

	byName := make(map[string]preparer.RowField, len(row.Fields))
	for _, f := range row.Fields {
		byName[f.Name] = f
	}

	assert.False(t, byName["email"].IsNullable, "email is declared NOT NULL")
	assert.True(t, byName["nickname"].IsNullable, "nickname has no NOT NULL constraint")

	require.Len(t, q.Params, 1)
	assert.Equal(t, "email", q.Params[0].Name)
}

func TestPrepare_SharesRowShapeAcrossPermutedQueries(t *testing.T) {
	t.Parallel()

	conn := testutils.Connect(t)
	setupUsersTable(t, conn)

	reg := registrar.New(conn)
	ctx := context.Background()

	mod := reader.Module{
		Name: "users",
		Queries: []reader.Query{
			{Name: "ByID", SQL: "SELECT id, email FROM fontana_test_users WHERE id = $1", ParamNames: []string{"id"}, HasResult: true},
			{Name: "ByEmail", SQL: "SELECT email, id FROM fontana_test_users WHERE email = $1", ParamNames: []string{"email"}, HasResult: true},
		},
	}

	pm, err := preparer.Prepare(ctx, conn, reg, mod)
	require.NoError(t, err)

	qByID := pm.Queries["ByID"]
	qByEmail := pm.Queries["ByEmail"]

	assert.Equal(t, qByID.RowName, qByEmail.RowName, "permuted columns share one row shape")
	assert.NotEqual(t, qByID.ColumnIndexMap, qByEmail.ColumnIndexMap)
}

func TestPrepare_VoidQueryHasNoRowName(t *testing.T) {
	t.Parallel()

	conn := testutils.Connect(t)
	setupUsersTable(t, conn)

	reg := registrar.New(conn)
	ctx := context.Background()

	mod := reader.Module{
		Name: "users",
		Queries: []reader.Query{
			{Name: "Touch", SQL: "UPDATE fontana_test_users SET nickname = $1 WHERE id = $2", ParamNames: []string{"nickname", "id"}, HasResult: false},
		},
	}

	pm, err := preparer.Prepare(ctx, conn, reg, mod)
	require.NoError(t, err)
	assert.Empty(t, pm.Queries["Touch"].RowName)
}

func TestPrepare_ParamArityMismatch(t *testing.T) {
	t.Parallel()

	conn := testutils.Connect(t)
	setupUsersTable(t, conn)

	reg := registrar.New(conn)
	ctx := context.Background()

	mod := reader.Module{
		Name: "users",
		Queries: []reader.Query{
			{Name: "Bad", SQL: "SELECT id FROM fontana_test_users WHERE email = $1", ParamNames: []string{"a", "b"}, HasResult: true},
		},
	}

	_, err := preparer.Prepare(ctx, conn, reg, mod)
	require.Error(t, err)

	var mismatch *preparer.ParamArityMismatchError
	require.ErrorAs(t, err, &mismatch)
}
