// Package chain resolves pointer chains into typed cells of the host process.
//
// A chain (base, o0, o1, ..., on-1) addresses *(...*(*(base+o0)+o1)...)+on-1: every offset but
// the last is followed by a pointer read. A zero, misaligned or unreadable intermediate leaves
// the chain unresolved. Nothing here synchronises with the host, so values are advisory.
package chain

import (
	"fmt"
	"strings"

	"practicetool/pod"
	"practicetool/process"
)

// PointerChain is an immutable descriptor of a typed cell
type PointerChain[T any] struct {
	mem     process.Memory
	base    process.ProcessMemoryAddress
	offsets []process.ProcessMemorySize
}

func New[T any](mem process.Memory, base process.ProcessMemoryAddress, offsets ...process.ProcessMemorySize) PointerChain[T] {
	return PointerChain[T]{
		mem:     mem,
		base:    base,
		offsets: append([]process.ProcessMemorySize(nil), offsets...),
	}
}

// Retype points a chain at a cell of another type, reusing base and offsets
func Retype[U, T any](c PointerChain[T]) PointerChain[U] {
	return PointerChain[U]{mem: c.mem, base: c.base, offsets: c.offsets}
}

func (c PointerChain[T]) Base() process.ProcessMemoryAddress { return c.base }

func (c PointerChain[T]) Offsets() []process.ProcessMemorySize {
	return append([]process.ProcessMemorySize(nil), c.offsets...)
}

// IsZero reports whether the chain was never configured
func (c PointerChain[T]) IsZero() bool {
	return c.mem == nil || c.base == 0
}

// Resolve walks the chain and returns the cell address
func (c PointerChain[T]) Resolve() (process.ProcessMemoryAddress, bool) {
	if c.IsZero() {
		return 0, false
	}
	addr, err := process.ResolvePath(c.mem, c.base, c.offsets...)
	if err != nil {
		return 0, false
	}
	return addr, true
}

// Read copies sizeof(T) bytes out of the cell
func (c PointerChain[T]) Read() (T, bool) {
	var zero T
	addr, ok := c.Resolve()
	if !ok {
		return zero, false
	}
	v, err := pod.ReadT[T](c.mem, addr)
	if err != nil {
		return zero, false
	}
	return v, true
}

// Write copies v into the cell. It reports false and writes nothing when the chain is unresolved.
func (c PointerChain[T]) Write(v T) bool {
	addr, ok := c.Resolve()
	if !ok {
		return false
	}
	return pod.WriteT(c.mem, addr, v) == nil
}

// Describe renders every hop for trace logs, stopping at the first failure
func (c PointerChain[T]) Describe() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s", c.base.ToString())
	if c.IsZero() {
		sb.WriteString(" (unset)")
		return sb.String()
	}

	addr := c.base
	for i, off := range c.offsets {
		at := addr.Add(off)
		if i == len(c.offsets)-1 {
			fmt.Fprintf(&sb, " +%#x = %s", uint(off), at.ToString())
			break
		}
		ptr, err := process.ReadPOINTER(c.mem, at)
		switch {
		case err != nil:
			fmt.Fprintf(&sb, " +%#x [%s] unreadable", uint(off), at.ToString())
			return sb.String()
		case ptr == 0:
			fmt.Fprintf(&sb, " +%#x [%s] -> null", uint(off), at.ToString())
			return sb.String()
		}
		fmt.Fprintf(&sb, " +%#x [%s] -> %s", uint(off), at.ToString(), ptr.ToString())
		addr = ptr
	}
	return sb.String()
}
