// Package search walks the pointer graph below a static root looking for cells that hold a known
// value. Every hit is reported as the offsets of a chain that reaches the cell from the root,
// which is how new entries of the game_state catalogue are found.
package search

import (
	"bytes"
	"fmt"
	"strings"

	"practicetool/chain"
	"practicetool/pod"
	"practicetool/process"
)

type Searcher struct {
	MaxStructSize process.ProcessMemorySize
	MaxDepth      int
	Alignment     process.ProcessMemorySize
	MaxResults    int
}

// Option is a function that configures a Searcher
type Option func(*Searcher)

func WithMaxStructSize(size process.ProcessMemorySize) Option {
	return func(s *Searcher) {
		s.MaxStructSize = size
	}
}

// WithMaxDepth bounds the number of pointers followed
func WithMaxDepth(depth int) Option {
	return func(s *Searcher) {
		s.MaxDepth = depth
	}
}

func WithAlignment(align process.ProcessMemorySize) Option {
	return func(s *Searcher) {
		s.Alignment = align
	}
}

func WithMaxResults(n int) Option {
	return func(s *Searcher) {
		s.MaxResults = n
	}
}

// Result is one path to a matching cell
type Result struct {
	Path []process.ProcessMemorySize
	Addr process.ProcessMemoryAddress
}

func (r Result) String() string {
	parts := make([]string, len(r.Path))
	for i, off := range r.Path {
		parts[i] = fmt.Sprintf("%#x", uint(off))
	}
	return fmt.Sprintf("[%s] -> %s", strings.Join(parts, ", "), r.Addr.ToString())
}

// Chain turns r into a typed chain rooted at root
func Chain[T any](mem process.Memory, root process.ProcessMemoryAddress, r Result) chain.PointerChain[T] {
	return chain.New[T](mem, root, r.Path...)
}

// For finds cells equal to want. Paths are explored depth first in offset order, and a struct
// reached twice is only scanned the first time.
func For[T comparable](mem process.Memory, root process.ProcessMemoryAddress, want T, options ...Option) ([]Result, error) {
	s := &Searcher{
		MaxStructSize: 0x200,
		MaxDepth:      3,
		Alignment:     4,
		MaxResults:    64,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.Alignment == 0 || s.MaxStructSize == 0 {
		return nil, fmt.Errorf("search: alignment and struct size must be positive")
	}

	needle := pod.ToBytes(want)
	visited := make(map[process.ProcessMemoryAddress]bool)
	var results []Result

	var walk func(addr process.ProcessMemoryAddress, depth int, path []process.ProcessMemorySize)
	walk = func(addr process.ProcessMemoryAddress, depth int, path []process.ProcessMemorySize) {
		if visited[addr] || len(results) >= s.MaxResults {
			return
		}
		visited[addr] = true

		data, err := mem.ReadMemory(addr, s.MaxStructSize)
		if err != nil {
			return
		}

		for off := process.ProcessMemorySize(0); off < s.MaxStructSize; off += s.Alignment {
			if len(results) >= s.MaxResults {
				return
			}
			next := append(path[:len(path):len(path)], off)

			if int(off)+len(needle) <= len(data) && bytes.Equal(data[off:int(off)+len(needle)], needle) {
				results = append(results, Result{Path: next, Addr: addr.Add(off)})
			}

			if depth >= s.MaxDepth || off%process.PointerSize != 0 || int(off)+process.PointerSize > len(data) {
				continue
			}
			ptr, err := pod.FromBytes[process.ProcessMemoryAddress](data[off : int(off)+process.PointerSize])
			if err != nil || ptr == 0 || ptr%process.PointerSize != 0 || !mem.IsValidAddress(ptr) {
				continue
			}
			walk(ptr, depth+1, next)
		}
	}
	walk(root, 0, nil)
	return results, nil
}
