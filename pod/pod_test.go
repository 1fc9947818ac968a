package pod

import (
	"bytes"
	"testing"

	"practicetool/process_blob"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	A uint32
	B int32
	C float32
	D [2]uint16
}

type withPointer struct {
	A uint32
	P *int
}

func TestRoundTripThroughMemory(t *testing.T) {
	mem := process_blob.NewProcessBlob(0x1000, make([]byte, 64))

	v := sample{A: 7, B: -3, C: 1.5, D: [2]uint16{9, 10}}
	require.NoError(t, WriteT(mem, 0x1008, v))

	got, err := ReadT[sample](mem, 0x1008)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	list, err := ReadSliceT[uint32](mem, 0x1008, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint32{7, 0xFFFFFFFD}, list)
}

func TestRejectsPointerTypes(t *testing.T) {
	_, err := FromBytes[withPointer](make([]byte, 16))
	assert.ErrorIs(t, err, ErrNotPOD)

	_, err = FromBytes[string](make([]byte, 16))
	assert.ErrorIs(t, err, ErrNotPOD)
}

func TestShortBuffer(t *testing.T) {
	_, err := FromBytes[uint64]([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestCompact(t *testing.T) {
	type req struct {
		Unknown uint32
		ItemID  uint32 `pod:"hex"`
	}
	assert.Equal(t, "req {Unknown:1, ItemID:0x40000B67}", Compact(req{Unknown: 1, ItemID: 0x40000B67}))
}

func TestTableRender(t *testing.T) {
	table := NewTable(ColumnSpec{Header: "name"}, ColumnSpec{Header: "address"})
	table.AddRow("souls", "0x1400")
	table.AddRow("igt")

	var buf bytes.Buffer
	require.NoError(t, table.Render(&buf))
	assert.Equal(t, "name  address\n----- -------\nsouls 0x1400\nigt   -\n", buf.String())
	assert.Equal(t, 2, table.Len())
}

func TestTableAlignsAndFormats(t *testing.T) {
	table := NewTable(
		ColumnSpec{Header: "rva", Right: true},
		ColumnSpec{Header: "status", FormatFunc: func(s string) string { return "\033[32m" + s + "\033[0m" }},
	)
	table.AddRow("0x300", "ok")

	var buf bytes.Buffer
	require.NoError(t, table.Render(&buf))
	assert.Equal(t, "  rva status\n----- ------\n0x300 \033[32mok\033[0m\n", buf.String())
}
