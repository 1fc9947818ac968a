package process_blob

import (
	"testing"

	"practicetool/process"
	"practicetool/process/memory_map"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadSnapshot(t *testing.T) {
	const base = process.ProcessMemoryAddress(0x140000000)
	src := NewProcessBlob(base, make([]byte, 0x100))
	require.NoError(t, src.Map(0x7FF000000000, 0x40))
	require.NoError(t, process.Write(src, base+0x10, uint32(0xC0FFEE)))

	mm := []memory_map.MemoryMapItem{
		{Address: uint64(base), Size: 0x100, Perms: "r--p"},
		{Address: 0x7FF000000000, Size: 0x40, Perms: "rw-p"},
		{Address: 0x7FF100000000, Size: 0x40, Perms: "---p"},
	}
	mod := process.Module{Name: "DarkSoulsIII.exe", Base: base, Size: 0x100}

	dir := t.TempDir()
	require.NoError(t, Save(dir, DumpMetadata{PID: 42, Name: mod.Name, Module: mod}, src, mm))

	blob, meta, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, process.ProcessID(42), meta.PID)
	assert.Equal(t, mod, meta.Module)

	v, err := process.Read[uint32](blob, base+0x10)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xC0FFEE), v)
	assert.True(t, blob.IsValidAddress(0x7FF000000000))
	assert.False(t, blob.IsValidAddress(0x7FF100000000))

	// snapshots are read-only
	assert.Error(t, blob.WriteMemory(base, []byte{1}))
}

func TestLoadMissingDirectory(t *testing.T) {
	_, _, err := Load(t.TempDir())
	assert.Error(t, err)
}
