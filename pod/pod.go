// Package pod moves plain-old-data values between Go and raw memory using their in-memory layout.
// T must not contain pointers or Go-managed references.
package pod

import (
	"errors"
	"fmt"
	"reflect"
	"unsafe"

	"practicetool/process"
)

var ErrNotPOD = errors.New("type contains pointers; not POD-safe")

func SizeOf[T any]() process.ProcessMemorySize {
	var t T
	return process.ProcessMemorySize(unsafe.Sizeof(t))
}

// FromBytes copies the first sizeof(T) bytes of data into a new T.
func FromBytes[T any](data []byte) (T, error) {
	var tmp T

	if hasPointers[T]() {
		return tmp, fmt.Errorf("%T: %w", tmp, ErrNotPOD)
	}

	size := int(unsafe.Sizeof(tmp))
	if len(data) < size {
		return tmp, fmt.Errorf("buffer too small for %T: %d < %d", tmp, len(data), size)
	}

	dst := unsafe.Slice((*byte)(unsafe.Pointer(&tmp)), size)
	copy(dst, data[:size])
	return tmp, nil
}

// ToBytes serializes v into a raw byte slice using the in-memory layout.
func ToBytes[T any](v T) []byte {
	size := int(unsafe.Sizeof(v))
	if size == 0 {
		return []byte{}
	}
	src := unsafe.Slice((*byte)(unsafe.Pointer(&v)), size)
	out := make([]byte, size)
	copy(out, src)
	return out
}

func ReadT[T any](mem process.Memory, addr process.ProcessMemoryAddress) (T, error) {
	size := SizeOf[T]()
	if size == 0 {
		return *new(T), errors.New("ReadT: size of T is zero")
	}

	data, err := mem.ReadMemory(addr, size)
	if err != nil {
		return *new(T), err
	}
	return FromBytes[T](data)
}

func WriteT[T any](mem process.Memory, addr process.ProcessMemoryAddress, v T) error {
	if hasPointers[T]() {
		return fmt.Errorf("%T: %w", v, ErrNotPOD)
	}
	return mem.WriteMemory(addr, ToBytes(v))
}

func ReadSliceT[T any](mem process.Memory, addr process.ProcessMemoryAddress, count int) ([]T, error) {
	if count < 0 {
		return nil, errors.New("ReadSliceT: count must be positive")
	}

	size := SizeOf[T]()
	if size == 0 || count == 0 {
		return []T{}, nil
	}

	// Read the entire range at once
	data, err := mem.ReadMemory(addr, size*process.ProcessMemorySize(count))
	if err != nil {
		return nil, err
	}

	result := make([]T, count)
	elementSize := int(size)
	for i := range count {
		element, err := FromBytes[T](data[i*elementSize:])
		if err != nil {
			return nil, fmt.Errorf("ReadSliceT: failed to parse element %d: %w", i, err)
		}
		result[i] = element
	}

	return result, nil
}

// hasPointers reports whether T (recursively) contains any pointer-like fields.
func hasPointers[T any]() bool {
	var t T
	return typeHasPointers(reflect.TypeOf(t))
}

func typeHasPointers(rt reflect.Type) bool {
	if rt == nil {
		return true
	}
	switch rt.Kind() {
	case reflect.Ptr, reflect.UnsafePointer, reflect.Interface, reflect.Func, reflect.Map, reflect.Slice, reflect.String, reflect.Chan:
		return true
	case reflect.Array:
		return typeHasPointers(rt.Elem())
	case reflect.Struct:
		for i := 0; i < rt.NumField(); i++ {
			if typeHasPointers(rt.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		// bool, ints, uints, floats, complex, etc.
		return false
	}
}
