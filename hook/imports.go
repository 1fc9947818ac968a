package hook

import (
	"errors"
	"fmt"
	"strings"

	"practicetool/process"
)

var ErrImportNotFound = errors.New("import not found")

const (
	dosLfanew          = 0x3C
	ntImportDirectory  = 0x18 + 0x78 // optional header + data directory entry 1, PE32+
	importDescSize     = 20
	ordinalFlag        = uint64(1) << 63
	maxImportNameBytes = 256
)

// importDescriptor is IMAGE_IMPORT_DESCRIPTOR
type importDescriptor struct {
	OriginalFirstThunk uint32
	TimeDateStamp      uint32
	ForwarderChain     uint32
	Name               uint32
	FirstThunk         uint32
}

// FindImport locates the import address table slot through which the module at base calls
// symbol of the first imported DLL whose name starts with dllPrefix (case-insensitive). Patching
// that slot redirects every call the module makes.
func FindImport(mem process.Memory, base process.ProcessMemoryAddress, dllPrefix, symbol string) (process.ProcessMemoryAddress, error) {
	lfanew, err := process.Read[uint32](mem, base.Add(dosLfanew))
	if err != nil {
		return 0, fmt.Errorf("read e_lfanew: %w", err)
	}
	nt := base.Add(process.ProcessMemorySize(lfanew))
	if sig, err := process.Read[uint32](mem, nt); err != nil || sig != 0x4550 {
		return 0, fmt.Errorf("no PE header at %s", nt.ToString())
	}
	dirRVA, err := process.Read[uint32](mem, nt.Add(ntImportDirectory))
	if err != nil {
		return 0, fmt.Errorf("read import directory: %w", err)
	}
	if dirRVA == 0 {
		return 0, ErrImportNotFound
	}

	for desc := base.Add(process.ProcessMemorySize(dirRVA)); ; desc = desc.Add(importDescSize) {
		d, err := process.Read[importDescriptor](mem, desc)
		if err != nil {
			return 0, fmt.Errorf("read import descriptor: %w", err)
		}
		if d.Name == 0 && d.FirstThunk == 0 {
			return 0, fmt.Errorf("%s!%s: %w", dllPrefix, symbol, ErrImportNotFound)
		}

		dll, err := readCString(mem, base.Add(process.ProcessMemorySize(d.Name)))
		if err != nil {
			return 0, err
		}
		if !strings.HasPrefix(strings.ToLower(dll), strings.ToLower(dllPrefix)) {
			continue
		}

		names := d.OriginalFirstThunk
		if names == 0 {
			names = d.FirstThunk
		}
		for i := process.ProcessMemorySize(0); ; i++ {
			thunk, err := process.Read[uint64](mem, base.Add(process.ProcessMemorySize(names)+i*8))
			if err != nil {
				return 0, fmt.Errorf("read thunk: %w", err)
			}
			if thunk == 0 {
				break
			}
			if thunk&ordinalFlag != 0 {
				continue
			}
			// IMAGE_IMPORT_BY_NAME: hint, then the name
			name, err := readCString(mem, base.Add(process.ProcessMemorySize(thunk&0xFFFFFFFF)+2))
			if err != nil {
				return 0, err
			}
			if name == symbol {
				return base.Add(process.ProcessMemorySize(d.FirstThunk) + i*8), nil
			}
		}
	}
}

func readCString(mem process.Memory, addr process.ProcessMemoryAddress) (string, error) {
	var sb strings.Builder
	for i := process.ProcessMemorySize(0); i < maxImportNameBytes; i++ {
		b, err := mem.ReadMemory(addr.Add(i), 1)
		if err != nil {
			return "", fmt.Errorf("read string at %s: %w", addr.ToString(), err)
		}
		if b[0] == 0 {
			return sb.String(), nil
		}
		sb.WriteByte(b[0])
	}
	return sb.String(), nil
}
