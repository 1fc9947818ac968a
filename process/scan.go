package process

import (
	"encoding/binary"
	"fmt"
)

// ScanRange searches [base, base+size) for the pattern one page at a time.
// Unreadable pages are skipped. Consecutive chunks overlap by len(pattern)-1 bytes
// so matches straddling a page boundary are still found.
func ScanRange(mem Memory, base ProcessMemoryAddress, size ProcessMemorySize, aob AOB, firstOnly bool) ([]ProcessMemoryAddress, error) {
	if !aob.IsValid() {
		return nil, fmt.Errorf("mask length (%d) doesn't match pattern length (%d)", len(aob.Mask), len(aob.Pattern))
	}

	var results []ProcessMemoryAddress
	overlap := ProcessMemorySize(aob.Len() - 1)
	end := base.Add(size)

	for chunk := base; chunk < end; chunk = chunk.Add(PageSize) {
		want := ProcessMemorySize(PageSize) + overlap
		if remaining := ProcessMemorySize(end - chunk); want > remaining {
			want = remaining
		}

		data, err := mem.ReadMemory(chunk, want)
		if err != nil {
			// the trailing overlap may run into an unmapped page
			data, err = mem.ReadMemory(chunk, min(ProcessMemorySize(PageSize), want))
			if err != nil {
				continue
			}
		}

		for _, off := range findPatternMatches(data, aob.Pattern, aob.Mask) {
			if off >= PageSize {
				continue // belongs to the next chunk
			}
			results = append(results, chunk.Add(ProcessMemorySize(off)))
			if firstOnly {
				return results, nil
			}
		}
	}

	return results, nil
}

// ScanFirstRange returns the first match of the pattern inside the range
func ScanFirstRange(mem Memory, base ProcessMemoryAddress, size ProcessMemorySize, aob AOB) (ProcessMemoryAddress, error) {
	results, err := ScanRange(mem, base, size, aob, true)
	if err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, fmt.Errorf("%s: %w", aob.String(), ErrPatternNotFound)
	}
	return results[0], nil
}

// RIPRelative decodes the absolute target of a RIP-relative instruction at addr:
// target = addr + instrLen + int32(*(addr + dispOffset)).
func RIPRelative(mem Memory, addr ProcessMemoryAddress, dispOffset, instrLen int) (ProcessMemoryAddress, error) {
	data, err := mem.ReadMemory(addr.Add(ProcessMemorySize(dispOffset)), 4)
	if err != nil {
		return 0, fmt.Errorf("read displacement at 0x%x: %w", addr, err)
	}
	disp := int32(binary.LittleEndian.Uint32(data))
	return ProcessMemoryAddress(int64(addr) + int64(instrLen) + int64(disp)), nil
}

// findPatternMatches finds all occurrences of the pattern in the data
// Returns the offsets where matches were found
func findPatternMatches(data, pattern, mask []byte) []uint {
	if len(data) < len(pattern) {
		return nil
	}

	var matches []uint
	for i := 0; i <= len(data)-len(pattern); i++ {
		found := true
		for j := range pattern {
			if mask[j] == 0xFF && data[i+j] != pattern[j] {
				found = false
				break
			}
		}
		if found {
			matches = append(matches, uint(i))
		}
	}
	return matches
}
