//go:build windows

package game_state

import (
	"syscall"

	"practicetool/process"
)

// NativeCaller calls into the game on the current thread with the x64 calling convention
type NativeCaller struct{}

func (NativeCaller) Call(fn process.ProcessMemoryAddress, args ...uintptr) (uintptr, error) {
	if fn == 0 {
		return 0, ErrNoFunction
	}
	r, _, _ := syscall.SyscallN(uintptr(fn), args...)
	return r, nil
}
