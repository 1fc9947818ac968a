package main

import (
	"fmt"
	"os"
	"path/filepath"

	"practicetool/process"
)

const maxPath = 260

// remotePath resolves dll and sizes the buffer LoadLibraryW reads it from: MAX_PATH wide chars
func remotePath(dll string) (string, process.ProcessMemorySize, error) {
	path, err := filepath.Abs(dll)
	if err != nil {
		return "", 0, err
	}
	if _, err := os.Stat(path); err != nil {
		return "", 0, fmt.Errorf("dll: %w", err)
	}
	size := process.ProcessMemorySize(maxPath * 2)
	if n := len(process.EncodeUTF16(path)); process.ProcessMemorySize(n) > size {
		return "", 0, fmt.Errorf("dll path is %d bytes, LoadLibraryW takes at most %d", n, size)
	}
	return path, size, nil
}
