//go:build linux

package process_linux

import (
	"fmt"
	"unsafe"

	"practicetool/process"

	"golang.org/x/sys/unix"
)

// process_vm_writev uses the process_vm_writev syscall to write memory to another process
func process_vm_writev(pid process.ProcessID, localBuf []byte, remoteAddr process.ProcessMemoryAddress) (int, error) {
	localIov := unix.Iovec{
		Base: &localBuf[0],
		Len:  uint64(len(localBuf)),
	}

	remoteIov := unix.RemoteIovec{
		Base: uintptr(remoteAddr),
		Len:  len(localBuf),
	}

	n, _, errno := unix.Syscall6(
		unix.SYS_PROCESS_VM_WRITEV,
		uintptr(pid),
		uintptr(unsafe.Pointer(&localIov)),
		uintptr(1),
		uintptr(unsafe.Pointer(&remoteIov)),
		uintptr(1),
		uintptr(0),
	)

	if errno != 0 {
		return 0, fmt.Errorf("process_vm_writev failed: %w", errno)
	}

	return int(n), nil
}

// WriteMemory writes data to the process memory at the specified address.
// Like the Windows backend it never changes protections, so read-only pages fail with EFAULT.
func (p *LinuxProcess) WriteMemory(addr process.ProcessMemoryAddress, data []byte) error {
	if len(data) == 0 {
		return nil
	}

	pid := p.GetPID()
	if pid == 0 {
		return process.ErrProcessNotOpen
	}

	// the caller may reuse data while the syscall runs
	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	written, err := process_vm_writev(pid, dataCopy, addr)
	if err != nil {
		return fmt.Errorf("write 0x%x+%d: %w", addr, len(data), err)
	}

	if written != len(data) {
		return fmt.Errorf("only wrote %d of %d bytes", written, len(data))
	}

	return nil
}
