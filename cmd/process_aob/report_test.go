package main

import (
	"bytes"
	"testing"

	"practicetool/game_state"
	"practicetool/process"
	"practicetool/process/memory_map"
	"practicetool/process_blob"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const imageBase = process.ProcessMemoryAddress(0x140000000)

func fakeImage(t *testing.T) (*process_blob.ProcessBlob, process.Module) {
	t.Helper()
	mem := process_blob.NewProcessBlob(imageBase, make([]byte, 0x1000))
	// mov rbx, [rip+0xF9] at +0x200 refers to +0x300
	require.NoError(t, mem.WriteMemory(imageBase+0x200, []byte{0x48, 0x8B, 0x1D, 0xF9, 0x00, 0x00, 0x00}))
	return mem, process.Module{Name: "DarkSoulsIII.exe", Base: imageBase, Size: 0x1000}
}

func TestReportBases(t *testing.T) {
	mem, mod := fakeImage(t)
	var out bytes.Buffer
	bases, missing := reportBases(&out, mem, mod, []game_state.Locator{
		{Base: game_state.BaseWorldChrMan, Pattern: "48 8B 1D ?? ?? ?? ??", DispOffset: 3, InstrLen: 7},
		{Base: game_state.BaseLockTgtMan, Pattern: "DE AD BE EF"},
	})

	assert.Equal(t, 1, missing)
	assert.Equal(t, imageBase+0x300, bases.Get(game_state.BaseWorldChrMan))
	assert.Contains(t, out.String(), "WorldChrMan")
	assert.Contains(t, out.String(), "0x300")
	assert.Contains(t, out.String(), "missing")
}

func TestReportPatternHighlightsMatch(t *testing.T) {
	mem, mod := fakeImage(t)
	var out bytes.Buffer
	n, err := reportPattern(&out, mem, mod, "48 8B 1D ?? ?? ?? ??")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, out.String(), "[48")
	assert.Contains(t, out.String(), "00]")

	_, err = reportPattern(&out, mem, mod, "zz")
	assert.Error(t, err)
}

func TestReportSearch(t *testing.T) {
	mem, _ := fakeImage(t)
	heap := process.ProcessMemoryAddress(0x7FF000000000)
	require.NoError(t, mem.Map(heap, 0x1000))
	require.NoError(t, process.Write(mem, imageBase+0x300, heap))
	require.NoError(t, process.Write(mem, heap+0x74, int32(4242)))

	var out bytes.Buffer
	n, err := reportSearch(&out, mem, imageBase+0x300, "i32", "4242")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, out.String(), "[0x0, 0x74]")

	_, err = reportSearch(&out, mem, imageBase+0x300, "i32", "not a number")
	assert.Error(t, err)
	_, err = reportSearch(&out, mem, imageBase+0x300, "string", "x")
	assert.Error(t, err)
}

func TestBaseByName(t *testing.T) {
	b, ok := baseByName(game_state.DefaultLocators, "worldchrman")
	require.True(t, ok)
	assert.Equal(t, game_state.BaseWorldChrMan, b)

	_, ok = baseByName(game_state.DefaultLocators, "nope")
	assert.False(t, ok)
}

func TestWritableKeepsImageAndHeaps(t *testing.T) {
	mod := process.Module{Base: imageBase, Size: 0x1000}
	mm := []memory_map.MemoryMapItem{
		{Address: uint64(imageBase), Size: 0x1000, Perms: "r-xp"},
		{Address: 0x7FF000000000, Size: 0x1000, Perms: "rw-p"},
		{Address: 0x7FF100000000, Size: 0x1000, Perms: "r--p"},
	}
	out := writable(mm, mod)
	require.Len(t, out, 2)
	assert.Equal(t, uint64(imageBase), out[0].Address)
	assert.Equal(t, uint64(0x7FF000000000), out[1].Address)
}
