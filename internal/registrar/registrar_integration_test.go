package registrar_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fontana-sql/fontana/internal/registrar"
	"github.com/fontana-sql/fontana/internal/testutils"
)

func TestMain(m *testing.M) {
	testutils.SharedTestMain(m)
}

func TestRegistrar_GetOrRegisterByOID_Scalar(t *testing.T) {
	t.Parallel()

	conn := testutils.Connect(t)
	reg := registrar.New(conn)
	ctx := context.Background()

	var oid uint32
	require.NoError(t, conn.QueryRow(ctx, "SELECT 'int4'::regtype::oid").Scan(&oid))

	d, err := reg.GetOrRegisterByOID(ctx, oid)
	require.NoError(t, err)
	assert.Equal(t, registrar.KindScalar, d.Kind)
	assert.Equal(t, "int32", d.GoOwned())
	assert.True(t, d.IsCopy)
}

func TestRegistrar_GetOrRegisterByOID_IsIdempotent(t *testing.T) {
	t.Parallel()

	conn := testutils.Connect(t)
	reg := registrar.New(conn)
	ctx := context.Background()

	var oid uint32
	require.NoError(t, conn.QueryRow(ctx, "SELECT 'text'::regtype::oid").Scan(&oid))

	first, err := reg.GetOrRegisterByOID(ctx, oid)
	require.NoError(t, err)

	second, err := reg.GetOrRegisterByOID(ctx, oid)
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestRegistrar_Composite(t *testing.T) {
	t.Parallel()

	conn := testutils.Connect(t)
	ctx := context.Background()

	_, err := conn.Exec(ctx, `
		DROP TYPE IF EXISTS fontana_test_addr CASCADE;
		CREATE TYPE fontana_test_addr AS (street text, zip int4);
	`)
	require.NoError(t, err)

	t.Cleanup(func() { _, _ = conn.Exec(context.Background(), "DROP TYPE IF EXISTS fontana_test_addr CASCADE") })

	reg := registrar.New(conn)

	var oid uint32
	require.NoError(t, conn.QueryRow(ctx, "SELECT 'fontana_test_addr'::regtype::oid").Scan(&oid))

	d, err := reg.GetOrRegisterByOID(ctx, oid)
	require.NoError(t, err)
	assert.Equal(t, registrar.KindComposite, d.Kind)
	require.Len(t, d.Fields, 2)
	assert.Equal(t, "street", d.Fields[0].Name)
	assert.Equal(t, "zip", d.Fields[1].Name)
	assert.False(t, d.IsCopy, "a text field makes the composite non-Copy")

	types, err := reg.Types()
	require.NoError(t, err)

	// the int4/text field types must precede the composite that references them.
	var compositeIdx, fieldIdx int

	for i, td := range types {
		if td == d {
			compositeIdx = i
		}

		if td.Kind == registrar.KindScalar && td.Name == "text" {
			fieldIdx = i
		}
	}

	assert.Less(t, fieldIdx, compositeIdx)
}

func TestRegistrar_Enum(t *testing.T) {
	t.Parallel()

	conn := testutils.Connect(t)
	ctx := context.Background()

	_, err := conn.Exec(ctx, `
		DROP TYPE IF EXISTS fontana_test_mood CASCADE;
		CREATE TYPE fontana_test_mood AS ENUM ('sad', 'ok', 'happy');
	`)
	require.NoError(t, err)

	t.Cleanup(func() { _, _ = conn.Exec(context.Background(), "DROP TYPE IF EXISTS fontana_test_mood CASCADE") })

	reg := registrar.New(conn)

	var oid uint32
	require.NoError(t, conn.QueryRow(ctx, "SELECT 'fontana_test_mood'::regtype::oid").Scan(&oid))

	d, err := reg.GetOrRegisterByOID(ctx, oid)
	require.NoError(t, err)
	assert.Equal(t, registrar.KindEnum, d.Kind)
	assert.Equal(t, []string{"sad", "ok", "happy"}, d.Variants)
	assert.True(t, d.IsCopy)
}

func TestRegistrar_UnsupportedTypeIsReported(t *testing.T) {
	t.Parallel()

	conn := testutils.Connect(t)
	reg := registrar.New(conn)
	ctx := context.Background()

	var oid uint32
	require.NoError(t, conn.QueryRow(ctx, "SELECT 'point'::regtype::oid").Scan(&oid))

	_, err := reg.GetOrRegisterByOID(ctx, oid)
	require.Error(t, err)

	var unsupported *registrar.UnsupportedTypeError
	require.ErrorAs(t, err, &unsupported)
}
