package process

import "fmt"

// ProcessID represents a unique identifier for a process
type ProcessID int

// ProcessInfo contains basic information about a process
type ProcessInfo struct {
	PID  ProcessID // Process ID
	Name string    // Process name
	Exe  string    // Path to the executable
}

// Module is a loaded image inside a process
type Module struct {
	Name string
	Path string
	Base ProcessMemoryAddress
	Size ProcessMemorySize
}

// Contains reports whether addr falls inside the image
func (m Module) Contains(addr ProcessMemoryAddress) bool {
	return addr >= m.Base && addr < m.Base.Add(m.Size)
}

func (m Module) String() string {
	return fmt.Sprintf("%s [%s+%#x]", m.Name, m.Base.ToString(), uint(m.Size))
}
