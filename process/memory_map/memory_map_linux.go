//go:build linux

package memory_map

import (
	"fmt"
	"os"
)

// Read parses /proc/<pid>/maps
func Read(pid int) ([]MemoryMapItem, error) {
	file, err := os.Open(fmt.Sprintf("/proc/%d/maps", pid))
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Parse(file)
}
