package emitter //nolint:testpackage // exercises the unexported name resolvers directly

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fontana-sql/fontana/internal/registrar"
)

func TestGoTypeName_ScalarArrayAndMirror(t *testing.T) {
	t.Parallel()

	scalar := &registrar.TypeDescriptor{Kind: registrar.KindScalar, Name: "text"}
	assert.Equal(t, scalar.GoOwned(), goTypeName(scalar))

	arr := &registrar.TypeDescriptor{Kind: registrar.KindArray, Elem: scalar}
	assert.Equal(t, "[]"+scalar.GoOwned(), goTypeName(arr))

	composite := &registrar.TypeDescriptor{Kind: registrar.KindComposite, OwnedName: "Addr"}
	assert.Equal(t, "Addr", goTypeName(composite))
}

func TestGoBorrowedTypeName_CopyCollapsesToOwned(t *testing.T) {
	t.Parallel()

	enum := &registrar.TypeDescriptor{Kind: registrar.KindEnum, OwnedName: "Mood", IsCopy: true}
	assert.Equal(t, "Mood", goBorrowedTypeName(enum))
}

func TestGoBorrowedTypeName_NonCopyCompositeGetsBorrowedSuffix(t *testing.T) {
	t.Parallel()

	composite := &registrar.TypeDescriptor{Kind: registrar.KindComposite, OwnedName: "Addr", IsCopy: false}
	assert.Equal(t, "AddrBorrowed", goBorrowedTypeName(composite))
}

func TestGoBorrowedTypeName_NonCopyEnumHasNoBorrowedSuffix(t *testing.T) {
	t.Parallel()

	// Enums decode as text on the wire; there is no separate Borrowed mirror.
	enum := &registrar.TypeDescriptor{Kind: registrar.KindEnum, OwnedName: "Mood", IsCopy: false}
	assert.Equal(t, "Mood", goBorrowedTypeName(enum))
}

func TestPgQualifiedName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "mood", pgQualifiedName(&registrar.TypeDescriptor{Name: "mood"}))
	assert.Equal(t, "public", registrar.DefaultSchema)
	assert.Equal(t, "mood", pgQualifiedName(&registrar.TypeDescriptor{Schema: "public", Name: "mood"}))
	assert.Equal(t, "billing.invoice", pgQualifiedName(&registrar.TypeDescriptor{Schema: "billing", Name: "invoice"}))
}
