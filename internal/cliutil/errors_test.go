package cliutil_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fontana-sql/fontana/internal/cliutil"
)

func TestWrapError_NilPassesThrough(t *testing.T) {
	t.Parallel()

	assert.NoError(t, cliutil.WrapError("op", nil))
}

func TestWrapError_WrapsAndUnwraps(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	wrapped := cliutil.WrapError("connect", cause)

	require := assert.New(t)
	require.ErrorContains(wrapped, "connect")
	require.ErrorContains(wrapped, "boom")
	require.True(errors.Is(wrapped, cause))
}
