//go:build !(cgo && rustcore)

package rustcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreerr "github.com/mrz1836/corecall/pkg/errors"
)

func TestNewWithoutNativeCore(t *testing.T) {
	t.Parallel()

	native, err := New()
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, err, coreerr.ErrUnknownCore)
	assert.Nil(t, native)
	assert.False(t, Available)
}
