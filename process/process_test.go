package process_test

import (
	"errors"
	"testing"

	"practicetool/process"
	"practicetool/process_blob"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = process.ProcessMemoryAddress(0x140000000)

func TestParseAOB(t *testing.T) {
	aob, err := process.ParseAOB("48 8b,?? ?")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x48, 0x8B, 0, 0}, aob.Pattern)
	assert.Equal(t, []byte{0xFF, 0xFF, 0, 0}, aob.Mask)
	assert.Equal(t, "48 8B ?? ??", aob.String())
	assert.True(t, aob.Match([]byte{0x48, 0x8B, 0x01, 0x02}))
	assert.False(t, aob.Match([]byte{0x48, 0x8C, 0x01, 0x02}))
	assert.False(t, aob.Match([]byte{0x48}))

	_, err = process.ParseAOB("")
	assert.Error(t, err)
	_, err = process.ParseAOB("48 XY")
	assert.Error(t, err)
}

func TestScanRangeAcrossPages(t *testing.T) {
	mem := process_blob.NewProcessBlob(base, make([]byte, 3*process.PageSize))
	// straddles the first page boundary
	require.NoError(t, mem.WriteMemory(base+process.PageSize-2, []byte{0xDE, 0xAD, 0xBE, 0xEF}))
	require.NoError(t, mem.WriteMemory(base+2*process.PageSize+0x10, []byte{0xDE, 0xAD, 0x00, 0xEF}))

	aob := process.MustParseAOB("DE AD ?? EF")
	found, err := process.ScanRange(mem, base, 3*process.PageSize, aob, false)
	require.NoError(t, err)
	assert.Equal(t, []process.ProcessMemoryAddress{base + process.PageSize - 2, base + 2*process.PageSize + 0x10}, found)

	first, err := process.ScanFirstRange(mem, base, 3*process.PageSize, aob)
	require.NoError(t, err)
	assert.Equal(t, base+process.PageSize-2, first)

	_, err = process.ScanFirstRange(mem, base, 3*process.PageSize, process.MustParseAOB("01 02 03"))
	assert.True(t, errors.Is(err, process.ErrPatternNotFound))
}

func TestRIPRelative(t *testing.T) {
	mem := process_blob.NewProcessBlob(base, make([]byte, 0x100))
	// mov rax, [rip-0x10]
	require.NoError(t, mem.WriteMemory(base+0x40, []byte{0x48, 0x8B, 0x05, 0xF0, 0xFF, 0xFF, 0xFF}))

	target, err := process.RIPRelative(mem, base+0x40, 3, 7)
	require.NoError(t, err)
	assert.Equal(t, base+0x40+7-0x10, target)
}

func TestResolvePathStopsAtNull(t *testing.T) {
	mem := process_blob.NewProcessBlob(base, make([]byte, 0x100))
	require.NoError(t, process.Write(mem, base+0x8, base+0x40))

	addr, err := process.ResolvePath(mem, base, 0x8, 0x10)
	require.NoError(t, err)
	assert.Equal(t, base+0x50, addr)

	_, err = process.ResolvePath(mem, base, 0x10, 0x10)
	assert.True(t, errors.Is(err, process.ErrNullPointer))
}

func TestUTF16(t *testing.T) {
	mem := process_blob.NewProcessBlob(base, make([]byte, 0x40))
	require.NoError(t, process.WriteUTF16(mem, base, "EquipParamGoods", 0x40))

	s, err := process.ReadUTF16(mem, base, 0x20)
	require.NoError(t, err)
	assert.Equal(t, "EquipParamGoods", s)

	s, err = process.ReadUTF16(mem, base, 5)
	require.NoError(t, err)
	assert.Equal(t, "Equip", s)

	assert.Error(t, process.WriteUTF16(mem, base, "EquipParamGoods", 0x10))
	assert.Len(t, process.EncodeUTF16("ab"), 6)
}
