//go:build linux

package process_linux

import (
	"fmt"
	"path/filepath"
	"strings"

	"practicetool/process"
)

// FindModule returns the span of file-backed mappings whose file name matches name.
// An empty name selects the lowest mapped file, which is the main executable for native
// binaries. Under Wine the image is a plain file mapping and is found by name.
func (p *LinuxProcess) FindModule(name string) (process.Module, error) {
	mm, err := p.GetMemoryMap()
	if err != nil {
		return process.Module{}, err
	}

	var mod process.Module
	for _, item := range mm {
		if item.Path == "" || strings.HasPrefix(item.Path, "[") {
			continue
		}
		base := filepath.Base(item.Path)
		if name == "" && mod.Path == "" {
			name = base
		}
		if !strings.EqualFold(base, name) {
			continue
		}

		if mod.Path == "" {
			mod = process.Module{
				Name: base,
				Path: item.Path,
				Base: process.ProcessMemoryAddress(item.Address),
			}
		}
		mod.Size = process.ProcessMemorySize(item.End() - uint64(mod.Base))
	}

	if mod.Path == "" {
		return process.Module{}, fmt.Errorf("module %q not mapped in process %d", name, p.GetPID())
	}
	return mod, nil
}
