// Package process provides the interfaces and types shared by every memory backend
package process

import "errors"

var (
	// ErrAddressNotMapped is returned when a memory address is not found within any mapped region of a process.
	ErrAddressNotMapped = errors.New("address not mapped")

	// ErrProcessNotOpen is returned when an operation requiring an open process is attempted
	// before the process has been successfully opened or after it has been closed.
	ErrProcessNotOpen = errors.New("process not open")

	ErrInvalidPointer = errors.New("invalid pointer read")

	// ErrNullPointer is returned when a pointer hop reads zero.
	ErrNullPointer = errors.New("null pointer")

	ErrPatternNotFound = errors.New("pattern not found")
)

// PointerSize is the width of a host pointer. The host is a 64-bit executable.
const PointerSize = 8

// PageSize is the granularity used by range scans.
const PageSize = 0x1000
