//go:build linux

// Package process_linux reads and writes process memory with process_vm_readv/writev.
// Self() targets the calling process, which gives the same fault-free copy primitive the
// Windows backend gets from ReadProcessMemory on its own pseudo handle.
package process_linux

import (
	"fmt"
	"os"
	"sync"

	"practicetool/logging"
	"practicetool/process"
	"practicetool/process/memory_map"
)

// LinuxProcess implements the process.Process interface for Linux systems
type LinuxProcess struct {
	pid process.ProcessID
	log *logging.Logger
	mm  []memory_map.MemoryMapItem
	mu  sync.Mutex
}

var _ process.Process = (*LinuxProcess)(nil)
var _ process.ModuleLister = (*LinuxProcess)(nil)

// New creates a new LinuxProcess instance
func New() *LinuxProcess {
	return &LinuxProcess{
		log: logging.NewFailed("process-not-open"),
	}
}

// NewWithPID creates a new LinuxProcess instance and opens it with the given PID
func NewWithPID(pid process.ProcessID) (*LinuxProcess, error) {
	p := New()
	err := p.Open(pid)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Self opens the calling process
func Self() (*LinuxProcess, error) {
	return NewWithPID(process.ProcessID(os.Getpid()))
}

func (p *LinuxProcess) Open(pid process.ProcessID) error {
	// Check if process exists
	procPath := fmt.Sprintf("/proc/%d", pid)
	if _, err := os.Stat(procPath); os.IsNotExist(err) {
		return fmt.Errorf("process with PID %d does not exist", pid)
	}

	p.mu.Lock()
	p.pid = pid
	p.log = logging.New(fmt.Sprintf("process-%d", pid))
	p.mu.Unlock()

	// Initialize memory map - call without holding the lock to avoid deadlock
	if err := p.UpdateMemoryMap(); err != nil {
		return fmt.Errorf("failed to initialize memory map: %w", err)
	}

	p.log.Debugln("Process opened")

	return nil
}

func (p *LinuxProcess) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pid = 0
	p.mm = nil
	p.log = logging.NewFailed("process-not-open")

	return nil
}

// GetPID returns the process ID
func (p *LinuxProcess) GetPID() process.ProcessID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pid
}

func (p *LinuxProcess) UpdateMemoryMap() error {
	p.mu.Lock()
	pid := p.pid
	p.mu.Unlock()
	if pid == 0 {
		return process.ErrProcessNotOpen
	}

	mm, err := memory_map.Read(int(pid))
	if err != nil {
		return fmt.Errorf("failed to read memory map: %w", err)
	}

	p.mu.Lock()
	p.mm = mm
	p.mu.Unlock()
	return nil
}

func (p *LinuxProcess) IsValidAddress(addr process.ProcessMemoryAddress) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.isValidAddressInternal(addr)
}

// Internal helper function that assumes the mutex is already locked
func (p *LinuxProcess) isValidAddressInternal(addr process.ProcessMemoryAddress) bool {
	if addr <= 0x10000 {
		return false
	}

	if item := memory_map.Find(p.mm, uint64(addr)); item != nil {
		return item.IsReadable()
	}

	return false
}

func (p *LinuxProcess) GetMemoryMap() ([]memory_map.MemoryMapItem, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pid == 0 {
		return nil, process.ErrProcessNotOpen
	}

	// Make a copy of the memory map to prevent external modification
	result := make([]memory_map.MemoryMapItem, len(p.mm))
	copy(result, p.mm)

	return result, nil
}
