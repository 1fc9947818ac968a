//go:build linux

package process_linux

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"practicetool/process"
)

// Scan searches for the given pattern in every readable region
func (p *LinuxProcess) Scan(aob process.AOB) ([]process.ProcessMemoryAddress, error) {
	return p.ScanParallel(aob, 1)
}

// ScanParallel searches for the given pattern in parallel
// maxdop controls the maximum degree of parallelism
func (p *LinuxProcess) ScanParallel(aob process.AOB, maxdop uint) ([]process.ProcessMemoryAddress, error) {
	if !aob.IsValid() {
		return nil, fmt.Errorf("mask length (%d) doesn't match pattern length (%d)", len(aob.Mask), len(aob.Pattern))
	}

	memMap, err := p.GetMemoryMap()
	if err != nil {
		return nil, fmt.Errorf("failed to get memory map: %w", err)
	}

	if maxdop == 0 {
		maxdop = 1
	}
	// Limit maxdop to number of CPUs if it's too large
	if numCPU := uint(runtime.NumCPU()); maxdop > numCPU {
		maxdop = numCPU
	}

	sem := make(chan struct{}, maxdop)
	var wg sync.WaitGroup

	var resultsMutex sync.Mutex
	var results []process.ProcessMemoryAddress

	for _, region := range memMap {
		if !region.IsReadable() || region.Path == "[vvar]" {
			continue
		}

		wg.Add(1)
		sem <- struct{}{}

		go func(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) {
			defer func() {
				<-sem
				wg.Done()
			}()

			matches, err := process.ScanRange(p, addr, size, aob, false)
			if err != nil || len(matches) == 0 {
				return
			}

			resultsMutex.Lock()
			results = append(results, matches...)
			resultsMutex.Unlock()
		}(process.ProcessMemoryAddress(region.Address), process.ProcessMemorySize(region.Size))
	}

	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i] < results[j] })
	p.log.Debugln("scan complete, found", len(results), "matches")
	return results, nil
}

// ScanFirst returns the lowest matching address
func (p *LinuxProcess) ScanFirst(aob process.AOB) (process.ProcessMemoryAddress, error) {
	results, err := p.Scan(aob)
	if err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, fmt.Errorf("%s: %w", aob.String(), process.ErrPatternNotFound)
	}
	return results[0], nil
}
