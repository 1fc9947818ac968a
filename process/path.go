package process

import (
	"encoding/binary"
	"fmt"
	"unsafe"
)

// ResolvePath walks every offset but the last as a pointer hop and returns the final address.
func ResolvePath(mem Memory, base ProcessMemoryAddress, offsets ...ProcessMemorySize) (ProcessMemoryAddress, error) {
	currentAddr := base

	for i := 0; i < len(offsets)-1; i++ {
		ptrAddr := currentAddr.Add(offsets[i])

		ptrVal, err := ReadPOINTER(mem, ptrAddr)
		if err != nil {
			return 0, fmt.Errorf("failed to read pointer at offset %d (addr 0x%x): %w", i, ptrAddr, err)
		}

		if ptrVal == 0 {
			return 0, fmt.Errorf("pointer at offset %d (addr 0x%x): %w", i, ptrAddr, ErrNullPointer)
		}

		if ptrVal%PointerSize != 0 {
			return 0, fmt.Errorf("pointer at offset %d (addr 0x%x) is misaligned (0x%x): %w", i, ptrAddr, ptrVal, ErrInvalidPointer)
		}

		currentAddr = ptrVal
	}

	finalOffset := ProcessMemorySize(0)
	if len(offsets) > 0 {
		finalOffset = offsets[len(offsets)-1]
	}

	return currentAddr.Add(finalOffset), nil
}

// ReadPOINTER reads a 64-bit pointer value from the specified address
func ReadPOINTER(mem Memory, addr ProcessMemoryAddress) (ProcessMemoryAddress, error) {
	data, err := mem.ReadMemory(addr, PointerSize)
	if err != nil {
		return 0, err
	}
	if len(data) < PointerSize {
		return 0, ErrInvalidPointer
	}
	return ProcessMemoryAddress(binary.LittleEndian.Uint64(data)), nil
}

// Read is a helper to read a single value of type T from memory
func Read[T any](mem Memory, addr ProcessMemoryAddress) (T, error) {
	var t T
	size := ProcessMemorySize(unsafe.Sizeof(t))
	if size == 0 {
		return t, nil
	}

	data, err := mem.ReadMemory(addr, size)
	if err != nil {
		return t, err
	}

	copyTo(&t, data)
	return t, nil
}

// Write copies the in-memory representation of v to addr
func Write[T any](mem Memory, addr ProcessMemoryAddress, v T) error {
	size := int(unsafe.Sizeof(v))
	if size == 0 {
		return nil
	}
	src := unsafe.Slice((*byte)(unsafe.Pointer(&v)), size)
	buf := make([]byte, size)
	copy(buf, src)
	return mem.WriteMemory(addr, buf)
}

// copyTo copies bytes to *T
func copyTo[T any](dst *T, src []byte) {
	size := int(unsafe.Sizeof(*dst))
	if len(src) < size {
		return // Should not happen if ReadMemory succeeded with correct size
	}

	// Create a byte slice view of dst
	dstBytes := unsafe.Slice((*byte)(unsafe.Pointer(dst)), size)
	copy(dstBytes, src)
}
