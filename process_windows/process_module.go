//go:build windows

package process_windows

import (
	"fmt"
	"path/filepath"
	"strings"
	"unsafe"

	"practicetool/process"

	"golang.org/x/sys/windows"
)

// Modules lists the images loaded in the process with a toolhelp snapshot
func (p *WindowsProcess) Modules() ([]process.Module, error) {
	pid := p.GetPID()
	if pid == 0 {
		return nil, process.ErrProcessNotOpen
	}

	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPMODULE|windows.TH32CS_SNAPMODULE32, uint32(pid))
	if err != nil {
		return nil, fmt.Errorf("CreateToolhelp32Snapshot(%d): %w", pid, err)
	}
	defer windows.CloseHandle(snap)

	var entry windows.ModuleEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	var modules []process.Module
	for err = windows.Module32First(snap, &entry); err == nil; err = windows.Module32Next(snap, &entry) {
		modules = append(modules, process.Module{
			Name: windows.UTF16ToString(entry.Module[:]),
			Path: windows.UTF16ToString(entry.ExePath[:]),
			Base: process.ProcessMemoryAddress(entry.ModBaseAddr),
			Size: process.ProcessMemorySize(entry.ModBaseSize),
		})
	}
	if len(modules) == 0 {
		return nil, fmt.Errorf("Module32First(%d): %w", pid, err)
	}
	return modules, nil
}

// FindModule returns the module whose file name matches name case-insensitively.
// An empty name selects the main executable, which toolhelp lists first.
func (p *WindowsProcess) FindModule(name string) (process.Module, error) {
	modules, err := p.Modules()
	if err != nil {
		return process.Module{}, err
	}
	if name == "" {
		return modules[0], nil
	}
	for _, m := range modules {
		if strings.EqualFold(m.Name, name) || strings.EqualFold(filepath.Base(m.Path), name) {
			return m, nil
		}
	}
	return process.Module{}, fmt.Errorf("module %q not loaded in process %d", name, p.GetPID())
}

// FileVersion reads the fixed file version resource of an image on disk as "major.minor.build"
func FileVersion(path string) (string, error) {
	size, err := windows.GetFileVersionInfoSize(path, nil)
	if err != nil {
		return "", fmt.Errorf("GetFileVersionInfoSize(%s): %w", path, err)
	}

	buf := make([]byte, size)
	if err := windows.GetFileVersionInfo(path, 0, size, unsafe.Pointer(&buf[0])); err != nil {
		return "", fmt.Errorf("GetFileVersionInfo(%s): %w", path, err)
	}

	var fixed *windows.VS_FIXEDFILEINFO
	var fixedLen uint32
	if err := windows.VerQueryValue(unsafe.Pointer(&buf[0]), `\`, unsafe.Pointer(&fixed), &fixedLen); err != nil {
		return "", fmt.Errorf("VerQueryValue(%s): %w", path, err)
	}
	if fixedLen == 0 || fixed == nil {
		return "", fmt.Errorf("%s has no fixed version info", path)
	}

	return fmt.Sprintf("%d.%d.%d",
		fixed.FileVersionMS>>16, fixed.FileVersionMS&0xFFFF, fixed.FileVersionLS>>16), nil
}
