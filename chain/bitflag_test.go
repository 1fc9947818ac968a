package chain

import (
	"testing"

	"practicetool/process"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitflagToggleIsInvolution(t *testing.T) {
	mem := fakeHost(t)
	require.NoError(t, process.Write(mem, heapB.Add(0x10), uint8(0b1010_0001)))

	for _, mask := range []uint8{1 << 0, 1 << 2, 1 << 7} {
		flag := NewBitflag(New[uint8](mem, staticBase, 0x10, 0x68, 0x10), mask)
		before, ok := flag.Chain.Read()
		require.True(t, ok)

		require.True(t, flag.Toggle())
		mid, _ := flag.Chain.Read()
		assert.Equal(t, before^mask, mid, "only the masked bit changes")

		require.True(t, flag.Toggle())
		after, _ := flag.Chain.Read()
		assert.Equal(t, before, after)
	}
}

func TestBitflagGetSet(t *testing.T) {
	mem := fakeHost(t)
	flag := NewBitflag(New[uint32](mem, staticBase, 0x10, 0x68, 0x20), uint32(1<<19))

	v, ok := flag.Get()
	require.True(t, ok)
	assert.False(t, v)

	require.True(t, flag.Set(true))
	v, _ = flag.Get()
	assert.True(t, v)

	require.True(t, flag.Set(true))
	word, _ := flag.Chain.Read()
	assert.Equal(t, uint32(1<<19), word, "set is idempotent")

	require.True(t, flag.Set(false))
	v, _ = flag.Get()
	assert.False(t, v)
}

func TestBitflagUnresolved(t *testing.T) {
	mem := fakeHost(t)
	require.NoError(t, process.Write(mem, staticBase.Add(0x10), process.ProcessMemoryAddress(0)))
	flag := NewBitflag(New[uint8](mem, staticBase, 0x10, 0x68, 0x10), 1)

	_, ok := flag.Get()
	assert.False(t, ok)
	assert.False(t, flag.Set(true))
	assert.False(t, flag.Toggle())
}
