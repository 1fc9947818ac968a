//go:build windows

package process_windows

import (
	"fmt"
	"unsafe"

	"practicetool/process"

	"golang.org/x/sys/windows"
)

// Alloc commits size bytes of read/write memory inside the process
func (p *WindowsProcess) Alloc(size process.ProcessMemorySize) (process.ProcessMemoryAddress, error) {
	handle := p.Handle()
	if handle == 0 {
		return 0, process.ErrProcessNotOpen
	}

	ret, _, err := procVirtualAllocEx.Call(
		uintptr(handle),
		0,
		uintptr(size),
		uintptr(windows.MEM_COMMIT|windows.MEM_RESERVE),
		uintptr(windows.PAGE_READWRITE),
	)
	if ret == 0 {
		return 0, fmt.Errorf("VirtualAllocEx(%d bytes) failed: %w", size, err)
	}
	return process.ProcessMemoryAddress(ret), nil
}

// Free releases an allocation made by Alloc
func (p *WindowsProcess) Free(addr process.ProcessMemoryAddress) error {
	handle := p.Handle()
	if handle == 0 {
		return process.ErrProcessNotOpen
	}

	ret, _, err := procVirtualFreeEx.Call(uintptr(handle), uintptr(addr), 0, uintptr(windows.MEM_RELEASE))
	if ret == 0 {
		return fmt.Errorf("VirtualFreeEx(0x%x) failed: %w", addr, err)
	}
	return nil
}

// RunThread starts a thread at start with one argument, waits for it and returns its exit code
func (p *WindowsProcess) RunThread(start, arg uintptr) (uint32, error) {
	handle := p.Handle()
	if handle == 0 {
		return 0, process.ErrProcessNotOpen
	}

	thread, _, err := procCreateRemoteThread.Call(uintptr(handle), 0, 0, start, arg, 0, 0)
	if thread == 0 {
		return 0, fmt.Errorf("CreateRemoteThread(0x%x) failed: %w", start, err)
	}
	defer windows.CloseHandle(windows.Handle(thread))

	if _, err := windows.WaitForSingleObject(windows.Handle(thread), windows.INFINITE); err != nil {
		return 0, fmt.Errorf("WaitForSingleObject failed: %w", err)
	}

	var exitCode uint32
	ret, _, err := procGetExitCodeThread.Call(thread, uintptr(unsafe.Pointer(&exitCode)))
	if ret == 0 {
		return 0, fmt.Errorf("GetExitCodeThread failed: %w", err)
	}
	return exitCode, nil
}
