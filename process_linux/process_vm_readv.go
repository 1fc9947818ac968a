//go:build linux

package process_linux

import (
	"fmt"
	"unsafe"

	"practicetool/process"

	"golang.org/x/sys/unix"
)

// process_vm_readv copies bytesToRead bytes at remoteAddr of pid into a fresh buffer.
// An unmapped remote page yields EFAULT rather than a signal.
func process_vm_readv(pid process.ProcessID, remoteAddr process.ProcessMemoryAddress, bytesToRead process.ProcessMemorySize) ([]byte, error) {
	localBuf := make([]byte, bytesToRead)

	localIov := unix.Iovec{
		Base: &localBuf[0],
		Len:  uint64(bytesToRead),
	}

	remoteIov := unix.RemoteIovec{
		Base: uintptr(remoteAddr),
		Len:  int(bytesToRead),
	}

	n, _, errno := unix.Syscall6(
		unix.SYS_PROCESS_VM_READV,
		uintptr(pid),
		uintptr(unsafe.Pointer(&localIov)),
		uintptr(1),
		uintptr(unsafe.Pointer(&remoteIov)),
		uintptr(1),
		uintptr(0),
	)

	if errno != 0 {
		return nil, fmt.Errorf("process_vm_readv failed: %w", errno)
	}

	if int(n) != int(bytesToRead) {
		return nil, fmt.Errorf("partial read: %d of %d bytes", n, bytesToRead)
	}

	return localBuf, nil
}

// ReadMemory reads memory from the process at the specified address.
// The map is not consulted: the kernel reports unmapped ranges, so a stale map cannot cause a miss.
func (p *LinuxProcess) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}

	pid := p.GetPID()
	if pid == 0 {
		return nil, process.ErrProcessNotOpen
	}

	data, err := process_vm_readv(pid, addr, size)
	if err != nil {
		return nil, fmt.Errorf("read 0x%x+%d: %w", addr, size, err)
	}

	return data, nil
}
