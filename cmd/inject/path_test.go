package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"practicetool/process"
	"practicetool/process_blob"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemotePath(t *testing.T) {
	dir := t.TempDir()
	dll := filepath.Join(dir, "practicetool.dll")
	require.NoError(t, os.WriteFile(dll, []byte("MZ"), 0o644))

	path, size, err := remotePath(dll)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, process.ProcessMemorySize(520), size)

	// the buffer holds the terminated path
	const at = process.ProcessMemoryAddress(0x10000)
	mem := process_blob.NewProcessBlob(at, make([]byte, size))
	require.NoError(t, process.WriteUTF16(mem, at, path, size))
	got, err := process.ReadUTF16(mem, at, maxPath)
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestRemotePathRejects(t *testing.T) {
	_, _, err := remotePath(filepath.Join(t.TempDir(), "missing.dll"))
	assert.Error(t, err)

	long := filepath.Join(t.TempDir(), strings.Repeat("a", 200), strings.Repeat("b", 100)+".dll")
	if err := os.MkdirAll(filepath.Dir(long), 0o755); err != nil {
		t.Skipf("cannot create long path: %v", err)
	}
	if err := os.WriteFile(long, []byte("MZ"), 0o644); err != nil {
		t.Skipf("cannot create long path: %v", err)
	}
	_, _, err = remotePath(long)
	assert.ErrorContains(t, err, "at most 520")
}
