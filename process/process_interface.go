package process

import (
	"practicetool/process/memory_map"
)

// BASEADDRESS is the preferred image base of a 64-bit executable.
var BASEADDRESS = ProcessMemoryAddress(0x140000000)

// Memory is the fault-free copy primitive every higher layer is built on.
// ReadMemory must return an error, never crash, when any byte of the range is unreadable.
type Memory interface {
	// ReadMemory reads memory at the specified address
	ReadMemory(addr ProcessMemoryAddress, size ProcessMemorySize) ([]byte, error)

	// WriteMemory writes data at the specified address
	WriteMemory(addr ProcessMemoryAddress, data []byte) error

	// IsValidAddress checks if the given memory address is plausibly readable
	IsValidAddress(addr ProcessMemoryAddress) bool
}

// Process is the interface that defines operations for interacting with a system process
type Process interface {
	Memory

	// Open opens a process with the given PID for memory operations
	Open(pid ProcessID) error

	// Close closes the process and releases resources
	Close() error

	// GetPID returns the process ID
	GetPID() ProcessID

	// UpdateMemoryMap refreshes the memory map for the process
	UpdateMemoryMap() error

	// GetMemoryMap returns a copy of the current memory map
	GetMemoryMap() ([]memory_map.MemoryMapItem, error)

	// Memory scanning operations
	MemoryScanner
}

// MemoryScanner defines operations for searching patterns in process memory
type MemoryScanner interface {
	// Scan searches for a pattern in every readable region
	Scan(aob AOB) ([]ProcessMemoryAddress, error)

	// ScanFirst searches for the first occurrence of a pattern
	ScanFirst(aob AOB) (ProcessMemoryAddress, error)
}

// ModuleLister resolves loaded images by name
type ModuleLister interface {
	// FindModule returns the loaded module with the given file name; "" means the main image
	FindModule(name string) (Module, error)
}
