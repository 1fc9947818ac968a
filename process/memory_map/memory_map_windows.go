//go:build windows

package memory_map

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	memImage  = 0x1000000
	memMapped = 0x40000
)

// Read walks the committed regions of a process with VirtualQueryEx
func Read(pid int) ([]MemoryMapItem, error) {
	if pid == int(windows.GetCurrentProcessId()) {
		return ReadHandle(windows.CurrentProcess())
	}

	h, err := windows.OpenProcess(windows.PROCESS_QUERY_INFORMATION, false, uint32(pid))
	if err != nil {
		return nil, fmt.Errorf("OpenProcess(%d): %w", pid, err)
	}
	defer windows.CloseHandle(h)

	return ReadHandle(h)
}

// ReadHandle walks the committed regions of an already open process handle. VirtualQueryEx
// visits regions in address order, so the result is sorted.
func ReadHandle(h windows.Handle) ([]MemoryMapItem, error) {
	var (
		memoryMap []MemoryMapItem
		mbi       windows.MemoryBasicInformation
		addr      uintptr
	)

	for {
		err := windows.VirtualQueryEx(h, addr, &mbi, unsafe.Sizeof(mbi))
		if err != nil {
			// ERROR_INVALID_PARAMETER marks the end of the user address space
			break
		}

		if mbi.State == windows.MEM_COMMIT {
			memoryMap = append(memoryMap, MemoryMapItem{
				Address: uint64(mbi.BaseAddress),
				Size:    uint(mbi.RegionSize),
				Perms:   protectToPerms(mbi.Protect, mbi.Type),
			})
		}

		next := mbi.BaseAddress + mbi.RegionSize
		if next <= addr {
			break
		}
		addr = next
	}

	if len(memoryMap) == 0 {
		return nil, fmt.Errorf("VirtualQueryEx returned no committed regions")
	}
	return memoryMap, nil
}

// protectToPerms renders a PAGE_* protection in the /proc/maps style used everywhere else
func protectToPerms(protect, typ uint32) string {
	perms := []byte("---p")
	if typ == memImage || typ == memMapped {
		perms[3] = 's'
	}
	if protect&(windows.PAGE_GUARD|windows.PAGE_NOACCESS) != 0 {
		return string(perms)
	}

	switch protect &^ (windows.PAGE_NOCACHE | windows.PAGE_WRITECOMBINE) {
	case windows.PAGE_READONLY:
		perms[0] = 'r'
	case windows.PAGE_READWRITE, windows.PAGE_WRITECOPY:
		perms[0], perms[1] = 'r', 'w'
	case windows.PAGE_EXECUTE:
		perms[2] = 'x'
	case windows.PAGE_EXECUTE_READ:
		perms[0], perms[2] = 'r', 'x'
	case windows.PAGE_EXECUTE_READWRITE, windows.PAGE_EXECUTE_WRITECOPY:
		perms[0], perms[1], perms[2] = 'r', 'w', 'x'
	}
	return string(perms)
}
