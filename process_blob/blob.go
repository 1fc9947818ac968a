// Package process_blob backs process.Memory with plain byte slices.
// It serves as a snapshot of a live image for offline scans and as the host fake in tests.
package process_blob

import (
	"fmt"
	"sort"
	"sync"

	"practicetool/process"
	"practicetool/process/memory_map"
)

type region struct {
	base     process.ProcessMemoryAddress
	data     []byte
	readOnly bool
}

func (r *region) end() process.ProcessMemoryAddress {
	return r.base.Add(process.ProcessMemorySize(len(r.data)))
}

// ProcessBlob is a sparse address space made of non-overlapping regions.
type ProcessBlob struct {
	mu      sync.RWMutex
	regions []*region
}

var _ process.Memory = (*ProcessBlob)(nil)
var _ process.MemoryScanner = (*ProcessBlob)(nil)

// NewProcessBlob creates a blob with a single writable region holding data at baseAddress.
func NewProcessBlob(baseAddress process.ProcessMemoryAddress, data []byte) *ProcessBlob {
	p := &ProcessBlob{}
	p.regions = append(p.regions, &region{base: baseAddress, data: data})
	return p
}

// Map adds a zero-filled region of the given size. It fails when the region overlaps an existing one.
func (p *ProcessBlob) Map(base process.ProcessMemoryAddress, size process.ProcessMemorySize) error {
	return p.MapData(base, make([]byte, size), false)
}

// MapData adds a region backed by data.
func (p *ProcessBlob) MapData(base process.ProcessMemoryAddress, data []byte, readOnly bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	nr := &region{base: base, data: data, readOnly: readOnly}
	for _, r := range p.regions {
		if nr.base < r.end() && r.base < nr.end() {
			return fmt.Errorf("region 0x%x+%#x overlaps 0x%x+%#x", base, len(data), r.base, len(r.data))
		}
	}
	p.regions = append(p.regions, nr)
	sort.Slice(p.regions, func(i, j int) bool { return p.regions[i].base < p.regions[j].base })
	return nil
}

// Unmap removes the region starting at base.
func (p *ProcessBlob) Unmap(base process.ProcessMemoryAddress) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, r := range p.regions {
		if r.base == base {
			p.regions = append(p.regions[:i], p.regions[i+1:]...)
			return
		}
	}
}

// Data returns the backing slice of the region starting at base.
func (p *ProcessBlob) Data(base process.ProcessMemoryAddress) []byte {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, r := range p.regions {
		if r.base == base {
			return r.data
		}
	}
	return nil
}

// find returns the region fully containing [addr, addr+size).
func (p *ProcessBlob) find(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) (*region, error) {
	i := sort.Search(len(p.regions), func(i int) bool {
		return p.regions[i].end() > addr
	})
	if i == len(p.regions) || p.regions[i].base > addr {
		return nil, fmt.Errorf("0x%x: %w", addr, process.ErrAddressNotMapped)
	}
	r := p.regions[i]
	if addr.Add(size) > r.end() || addr.Add(size) < addr {
		return nil, fmt.Errorf("0x%x+%#x crosses the end of region 0x%x: %w", addr, uint(size), r.base, process.ErrAddressNotMapped)
	}
	return r, nil
}

// ReadMemory returns a copy of the requested range.
func (p *ProcessBlob) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	r, err := p.find(addr, size)
	if err != nil {
		return nil, err
	}
	offset := addr - r.base
	out := make([]byte, size)
	copy(out, r.data[offset:uint64(offset)+uint64(size)])
	return out, nil
}

func (p *ProcessBlob) WriteMemory(addr process.ProcessMemoryAddress, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	r, err := p.find(addr, process.ProcessMemorySize(len(data)))
	if err != nil {
		return err
	}
	if r.readOnly {
		return fmt.Errorf("write to read-only region 0x%x", r.base)
	}
	copy(r.data[addr-r.base:], data)
	return nil
}

func (p *ProcessBlob) IsValidAddress(addr process.ProcessMemoryAddress) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, err := p.find(addr, 1)
	return err == nil
}

// GetMemoryMap describes the regions in address order.
func (p *ProcessBlob) GetMemoryMap() ([]memory_map.MemoryMapItem, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]memory_map.MemoryMapItem, 0, len(p.regions))
	for _, r := range p.regions {
		perms := "rw-p"
		if r.readOnly {
			perms = "r--p"
		}
		out = append(out, memory_map.MemoryMapItem{Address: uint64(r.base), Size: uint(len(r.data)), Perms: perms})
	}
	return out, nil
}

// Scan searches every region for the pattern.
func (p *ProcessBlob) Scan(aob process.AOB) ([]process.ProcessMemoryAddress, error) {
	mm, _ := p.GetMemoryMap()

	var results []process.ProcessMemoryAddress
	for _, item := range mm {
		found, err := process.ScanRange(p, process.ProcessMemoryAddress(item.Address), process.ProcessMemorySize(item.Size), aob, false)
		if err != nil {
			return nil, err
		}
		results = append(results, found...)
	}
	return results, nil
}

func (p *ProcessBlob) ScanFirst(aob process.AOB) (process.ProcessMemoryAddress, error) {
	results, err := p.Scan(aob)
	if err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, fmt.Errorf("%s: %w", aob.String(), process.ErrPatternNotFound)
	}
	return results[0], nil
}
