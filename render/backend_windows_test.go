//go:build windows

package render

import (
	"errors"
	"image"
	"testing"

	"practicetool/d3d11"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackendSetupFailureLatches(t *testing.T) {
	b := NewBackend()
	calls := 0
	missing := errors.New("d3dcompiler_47.dll not found")
	b.setup = func(d3d11.SwapChain) error {
		calls++
		return missing
	}

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	err := b.Draw(d3d11.SwapChain{}, img, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, missing)

	for i := 0; i < 3; i++ {
		assert.NoError(t, b.Draw(d3d11.SwapChain{}, img, true))
	}
	assert.Equal(t, 1, calls)
	assert.True(t, b.device.IsNil())
}
