//go:build windows

package hook

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"practicetool/process"

	"golang.org/x/sys/windows"
)

// ProtectedSlots writes slots inside our own process. Vtables and import tables sit in
// read-only pages, so each write lifts the protection around one atomic pointer store.
type ProtectedSlots struct {
	Mem process.Memory
}

func (s ProtectedSlots) ReadSlot(addr process.ProcessMemoryAddress) (uintptr, error) {
	return process.Read[uintptr](s.Mem, addr)
}

func (s ProtectedSlots) WriteSlot(addr process.ProcessMemoryAddress, v uintptr) error {
	if addr%8 != 0 {
		return fmt.Errorf("slot %s: %w", addr.ToString(), process.ErrInvalidPointer)
	}
	size := unsafe.Sizeof(uintptr(0))

	var old uint32
	if err := windows.VirtualProtect(uintptr(addr), size, windows.PAGE_READWRITE, &old); err != nil {
		return fmt.Errorf("VirtualProtect(%s): %w", addr.ToString(), err)
	}
	atomic.StoreUintptr((*uintptr)(unsafe.Pointer(uintptr(addr))), v)

	var ignored uint32
	if err := windows.VirtualProtect(uintptr(addr), size, old, &ignored); err != nil {
		return fmt.Errorf("VirtualProtect(%s) restore: %w", addr.ToString(), err)
	}
	return nil
}
