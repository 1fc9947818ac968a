//go:build !windows

package game_state

import (
	"errors"

	"practicetool/process"
)

// NativeCaller cannot call game code outside Windows
type NativeCaller struct{}

func (NativeCaller) Call(fn process.ProcessMemoryAddress, args ...uintptr) (uintptr, error) {
	if fn == 0 {
		return 0, ErrNoFunction
	}
	return 0, errors.New("native calls need windows")
}
