// Package memory_map describes the address space of a process as /proc/<pid>/maps style regions.
// The Windows backend renders VirtualQueryEx results in the same form so every consumer checks
// permissions one way.
package memory_map

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// MemoryMapItem is one region of the address space
type MemoryMapItem struct {
	Address uint64 // The starting address of the memory region
	Size    uint   // The size of the memory region in bytes
	Perms   string // Permissions (e.g., "r-xp" for read, execute, private)
	Path    string `json:",omitempty"` // Backing file, when the backend reports one
}

func (mmItem MemoryMapItem) String() string {
	s := fmt.Sprintf("%012x-%012x %s", mmItem.Address, mmItem.End(), mmItem.Perms)
	if mmItem.Path != "" {
		s += " " + mmItem.Path
	}
	return s
}

func (mmItem MemoryMapItem) IsReadable() bool {
	return len(mmItem.Perms) > 0 && mmItem.Perms[0] == 'r'
}

func (mmItem MemoryMapItem) IsWritable() bool {
	return len(mmItem.Perms) > 1 && mmItem.Perms[1] == 'w'
}

func (mmItem MemoryMapItem) IsExecutable() bool {
	return len(mmItem.Perms) > 2 && mmItem.Perms[2] == 'x'
}

// End is one past the last byte of the region
func (mmItem MemoryMapItem) End() uint64 {
	return mmItem.Address + uint64(mmItem.Size)
}

func (mmItem MemoryMapItem) Contains(addr uint64) bool {
	return addr >= mmItem.Address && addr < mmItem.End()
}

// Sort orders regions by address, which Find relies on
func Sort(mm []MemoryMapItem) {
	sort.Slice(mm, func(i, j int) bool { return mm[i].Address < mm[j].Address })
}

// Find returns the region containing addr, or nil. mm must be sorted.
func Find(mm []MemoryMapItem, addr uint64) *MemoryMapItem {
	i := sort.Search(len(mm), func(i int) bool {
		return mm[i].End() > addr
	})
	if i < len(mm) && mm[i].Address <= addr {
		return &mm[i]
	}
	return nil
}

// Parse reads the /proc/<pid>/maps format. Malformed lines are skipped.
func Parse(r io.Reader) ([]MemoryMapItem, error) {
	var mm []MemoryMapItem
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}

		// 00400000-0040b000
		from, to, ok := strings.Cut(fields[0], "-")
		if !ok {
			continue
		}
		start, err := strconv.ParseUint(from, 16, 64)
		if err != nil {
			continue
		}
		end, err := strconv.ParseUint(to, 16, 64)
		if err != nil || end < start {
			continue
		}

		item := MemoryMapItem{
			Address: start,
			Size:    uint(end - start),
			Perms:   fields[1],
		}
		if len(fields) >= 6 {
			item.Path = strings.Join(fields[5:], " ")
		}
		mm = append(mm, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	Sort(mm)
	return mm, nil
}
