//go:build windows

package hook

import (
	"sync/atomic"
	"syscall"
	"unsafe"

	"practicetool/input"
	"practicetool/process"

	"golang.org/x/sys/windows"
)

var (
	activeXInput     atomic.Pointer[XInput]
	xinputTrampoline = windows.NewCallback(xinputInterceptor)
)

// XInput replaces the game's import of XInputGetState so the game sees an idle pad while the
// radial menu is open. Our own sampler calls the DLL directly and is not affected.
type XInput struct {
	Hooks *Hooks
	patch *SlotPatch
}

// NewXInput finds the import in the image at base. Games that poll through another path simply
// keep receiving input; the caller treats the error as a warning.
func NewXInput(h *Hooks, w SlotWriter, mem process.Memory, base process.ProcessMemoryAddress) (*XInput, error) {
	at, err := FindImport(mem, base, "xinput", "XInputGetState")
	if err != nil {
		return nil, err
	}
	x := &XInput{Hooks: h}
	x.patch = NewSlotPatch("XInputGetState", w, at, xinputTrampoline)
	activeXInput.Store(x)
	return x, nil
}

func (x *XInput) Patch() Patch { return x.patch }

func xinputInterceptor(user, state uintptr) uintptr {
	x := activeXInput.Load()
	active := x.Hooks.Enter()
	defer x.Hooks.Exit()

	ret, _, _ := syscall.SyscallN(x.patch.Original(), user, state)
	if active && ret == uintptr(windows.ERROR_SUCCESS) && state != 0 {
		st := (*input.GamepadState)(unsafe.Pointer(state))
		*st = maskGamepad(*st)
	}
	return ret
}
