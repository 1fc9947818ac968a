//go:build windows

// Package process_windows reads and writes process memory through the Win32 debug APIs.
// The same type serves the overlay (its own process, via the pseudo handle) and the
// injector (a foreign process opened by pid).
package process_windows

import (
	"fmt"
	"sync"

	"practicetool/logging"
	"practicetool/process"
	"practicetool/process/memory_map"

	"golang.org/x/sys/windows"
)

var (
	modkernel32            = windows.NewLazySystemDLL("kernel32.dll")
	procVirtualAllocEx     = modkernel32.NewProc("VirtualAllocEx")
	procVirtualFreeEx      = modkernel32.NewProc("VirtualFreeEx")
	procCreateRemoteThread = modkernel32.NewProc("CreateRemoteThread")
	procGetExitCodeThread  = modkernel32.NewProc("GetExitCodeThread")
)

const (
	PROCESS_ALL_ACCESS        = 0x1F0FFF
	PROCESS_VM_READ           = 0x0010
	PROCESS_QUERY_INFORMATION = 0x0400
)

// WindowsProcess implements the process.Process interface for Windows systems
type WindowsProcess struct {
	pid    process.ProcessID
	handle windows.Handle
	self   bool
	log    *logging.Logger
	mm     []memory_map.MemoryMapItem
	mu     sync.Mutex
}

var _ process.Process = (*WindowsProcess)(nil)
var _ process.ModuleLister = (*WindowsProcess)(nil)

// New creates a new WindowsProcess instance
func New() *WindowsProcess {
	return &WindowsProcess{
		log: logging.NewFailed("process-not-open"),
	}
}

// NewWithPID creates a new WindowsProcess instance and opens it with the given PID
func NewWithPID(pid process.ProcessID) (*WindowsProcess, error) {
	p := New()
	err := p.Open(pid)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Self opens the current process through its pseudo handle. Reads and writes of an
// unmapped or protected page fail with an error instead of faulting.
func Self() *WindowsProcess {
	p := &WindowsProcess{
		pid:    process.ProcessID(windows.GetCurrentProcessId()),
		handle: windows.CurrentProcess(),
		self:   true,
		log:    logging.New("process-self"),
	}
	return p
}

func (p *WindowsProcess) Open(pid process.ProcessID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	handle, err := windows.OpenProcess(PROCESS_ALL_ACCESS, false, uint32(pid))
	if err != nil {
		return fmt.Errorf("OpenProcess(%d) failed: %w", pid, err)
	}

	p.pid = pid
	p.handle = handle
	p.self = false
	p.log = logging.New(fmt.Sprintf("process-%d", pid))

	p.log.Infoln("Process opened")
	return nil
}

func (p *WindowsProcess) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.handle != 0 && !p.self {
		if err := windows.CloseHandle(p.handle); err != nil {
			return fmt.Errorf("CloseHandle failed: %w", err)
		}
	}
	p.handle = 0

	p.pid = 0
	p.mm = nil
	p.log = logging.NewFailed("process-not-open")
	p.log.Debugln("Process closed")

	return nil
}

func (p *WindowsProcess) GetPID() process.ProcessID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pid
}

// Handle exposes the raw handle for callers that need other Win32 APIs
func (p *WindowsProcess) Handle() windows.Handle {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.handle
}

func (p *WindowsProcess) UpdateMemoryMap() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.updateMemoryMapInternal()
}

func (p *WindowsProcess) updateMemoryMapInternal() error {
	if p.handle == 0 {
		return process.ErrProcessNotOpen
	}

	mm, err := memory_map.ReadHandle(p.handle)
	if err != nil {
		return err
	}
	p.mm = mm
	p.log.Debugf("memory map: %d committed regions", len(mm))
	return nil
}

// IsValidAddress checks the cached memory map; an empty map is refreshed first
func (p *WindowsProcess) IsValidAddress(addr process.ProcessMemoryAddress) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mm == nil {
		if err := p.updateMemoryMapInternal(); err != nil {
			return false
		}
	}
	item := memory_map.Find(p.mm, uint64(addr))
	return item != nil && item.IsReadable()
}

func (p *WindowsProcess) GetMemoryMap() ([]memory_map.MemoryMapItem, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handle == 0 {
		return nil, process.ErrProcessNotOpen
	}
	if p.mm == nil {
		if err := p.updateMemoryMapInternal(); err != nil {
			return nil, err
		}
	}
	result := make([]memory_map.MemoryMapItem, len(p.mm))
	copy(result, p.mm)
	return result, nil
}

func (p *WindowsProcess) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}

	p.mu.Lock()
	handle := p.handle
	p.mu.Unlock()

	if handle == 0 {
		return nil, process.ErrProcessNotOpen
	}

	buf := make([]byte, size)
	var bytesRead uintptr
	err := windows.ReadProcessMemory(handle, uintptr(addr), &buf[0], uintptr(size), &bytesRead)
	if err != nil {
		return nil, fmt.Errorf("ReadProcessMemory(0x%x, %d) failed: %w", addr, size, err)
	}

	if bytesRead != uintptr(size) {
		return nil, fmt.Errorf("read incomplete: expected %d, got %d", size, bytesRead)
	}

	return buf, nil
}

// WriteMemory never changes page protection; writes to read-only pages fail
func (p *WindowsProcess) WriteMemory(addr process.ProcessMemoryAddress, data []byte) error {
	if len(data) == 0 {
		return nil
	}

	p.mu.Lock()
	handle := p.handle
	p.mu.Unlock()

	if handle == 0 {
		return process.ErrProcessNotOpen
	}

	var written uintptr
	err := windows.WriteProcessMemory(handle, uintptr(addr), &data[0], uintptr(len(data)), &written)
	if err != nil {
		return fmt.Errorf("WriteProcessMemory(0x%x, %d) failed: %w", addr, len(data), err)
	}
	if written != uintptr(len(data)) {
		return fmt.Errorf("write incomplete: expected %d, got %d", len(data), written)
	}
	return nil
}

// Scan searches every readable committed region
func (p *WindowsProcess) Scan(aob process.AOB) ([]process.ProcessMemoryAddress, error) {
	return p.scan(aob, false)
}

func (p *WindowsProcess) ScanFirst(aob process.AOB) (process.ProcessMemoryAddress, error) {
	results, err := p.scan(aob, true)
	if err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, fmt.Errorf("%s: %w", aob.String(), process.ErrPatternNotFound)
	}
	return results[0], nil
}

func (p *WindowsProcess) scan(aob process.AOB, firstOnly bool) ([]process.ProcessMemoryAddress, error) {
	if err := p.UpdateMemoryMap(); err != nil {
		return nil, err
	}
	mm, err := p.GetMemoryMap()
	if err != nil {
		return nil, err
	}

	var results []process.ProcessMemoryAddress
	for _, item := range mm {
		if !item.IsReadable() {
			continue
		}
		found, err := process.ScanRange(p, process.ProcessMemoryAddress(item.Address), process.ProcessMemorySize(item.Size), aob, firstOnly)
		if err != nil {
			return nil, err
		}
		results = append(results, found...)
		if firstOnly && len(results) > 0 {
			return results[:1], nil
		}
	}
	return results, nil
}
