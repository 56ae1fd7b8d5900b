package reader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fontana-sql/fontana/internal/reader"
)

func TestReadFile_SplitsBlocksAndRewritesPlaceholders(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "users.sql")

	contents := `--! FindByEmail
--: User
SELECT id, email FROM users WHERE email = :email;

--! InsertUser
INSERT INTO users (email, display_name) VALUES (:email, :name) RETURNING id;
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	mod, err := reader.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "users", mod.Name)
	require.Len(t, mod.Queries, 2)

	find := mod.Queries[0]
	assert.Equal(t, "FindByEmail", find.Name)
	assert.Equal(t, "User", find.RowNameHint)
	assert.Equal(t, []string{"email"}, find.ParamNames)
	assert.Contains(t, find.SQL, "$1")
	assert.True(t, find.HasResult)

	insert := mod.Queries[1]
	assert.Equal(t, "InsertUser", insert.Name)
	assert.Equal(t, []string{"email", "name"}, insert.ParamNames)
	assert.Contains(t, insert.SQL, "$1")
	assert.Contains(t, insert.SQL, "$2")
	assert.True(t, insert.HasResult, "RETURNING clause makes an INSERT a row-returning query")
}

func TestReadFile_RepeatedPlaceholderReusesIndex(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "q.sql")

	require.NoError(t, os.WriteFile(path, []byte(`--! Touch
UPDATE widgets SET updated_at = now() WHERE id = :id OR parent_id = :id;
`), 0o644))

	mod, err := reader.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, mod.Queries, 1)

	q := mod.Queries[0]
	assert.Equal(t, []string{"id"}, q.ParamNames)
	assert.Contains(t, q.SQL, "$1 OR parent_id = $1")
	assert.False(t, q.HasResult)
}

func TestReadFile_CastDoesNotBecomeAPlaceholder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "q.sql")

	require.NoError(t, os.WriteFile(path, []byte(`--! Cast
SELECT :val::int;
`), 0o644))

	mod, err := reader.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, mod.Queries, 1)

	assert.Equal(t, []string{"val"}, mod.Queries[0].ParamNames)
	assert.Contains(t, mod.Queries[0].SQL, "$1::int")
}

func TestReadFile_BodyWithoutDirectiveIsMalformed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.sql")

	require.NoError(t, os.WriteFile(path, []byte("SELECT 1;\n"), 0o644))

	_, err := reader.ReadFile(path)
	require.Error(t, err)

	var malformed *reader.MalformedQueryFileError
	require.ErrorAs(t, err, &malformed)
}

func TestReadFile_DuplicateQueryNameIsMalformed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "dupe.sql")

	require.NoError(t, os.WriteFile(path, []byte(`--! Get
SELECT 1;
--! Get
SELECT 2;
`), 0o644))

	_, err := reader.ReadFile(path)
	require.Error(t, err)

	var malformed *reader.MalformedQueryFileError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, malformed.Reason, "duplicate")
}

func TestReadDir_OrdersModulesByFileName(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "zebra.sql"), []byte("--! One\nSELECT 1;\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alpha.sql"), []byte("--! One\nSELECT 1;\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignore.txt"), []byte("not sql"), 0o644))

	modules, err := reader.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, modules, 2)
	assert.Equal(t, "alpha", modules[0].Name)
	assert.Equal(t, "zebra", modules[1].Name)
}
