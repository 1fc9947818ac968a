package params

import (
	"context"
	"encoding/binary"
	"testing"
	"time"
	"unicode/utf16"

	"practicetool/process"
	"practicetool/process_blob"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	slot  = process.ProcessMemoryAddress(0x140003000)
	heap  = process.ProcessMemoryAddress(0x7FF500000000)
	repo  = heap
	goods = heap + 0x1000
)

func putDLString(t *testing.T, mem *process_blob.ProcessBlob, at process.ProcessMemoryAddress, s string, spill process.ProcessMemoryAddress) {
	t.Helper()
	chars := utf16.Encode([]rune(s))
	raw := make([]byte, (len(chars)+1)*2)
	for i, c := range chars {
		binary.LittleEndian.PutUint16(raw[i*2:], c)
	}
	capacity := uint64(7)
	buf := at
	if len(chars) >= dlStringInline {
		capacity = uint64(len(chars))
		buf = spill
		require.NoError(t, process.Write(mem, at, spill))
	}
	require.NoError(t, mem.WriteMemory(buf, raw))
	require.NoError(t, process.Write(mem, at.Add(dlStringLenOff), uint64(len(chars))))
	require.NoError(t, process.Write(mem, at.Add(dlStringCapOff), capacity))
}

// fakeRepository holds three capsules: an unloaded inline-named one, EquipParamWeapon and
// EquipParamGoods with rows 116 and 117.
func fakeRepository(t *testing.T) *process_blob.ProcessBlob {
	t.Helper()
	mem := process_blob.NewProcessBlob(slot, make([]byte, 0x1000))
	require.NoError(t, mem.Map(heap, 0x10000))

	capMagic, capWeapon, capGoods := heap.Add(0x200), heap.Add(0x400), heap.Add(0x600)
	weapon := heap.Add(0x3000)

	require.NoError(t, process.Write(mem, repo.Add(repoCountOffset), uint32(3)))
	require.NoError(t, process.Write(mem, repo.Add(repoEntriesOffset), [3]process.ProcessMemoryAddress{capMagic, capWeapon, capGoods}))

	putDLString(t, mem, capMagic.Add(resCapNameOffset), "Magic", 0)
	putDLString(t, mem, capWeapon.Add(resCapNameOffset), "EquipParamWeapon", heap.Add(0x800))
	putDLString(t, mem, capGoods.Add(resCapNameOffset), EquipParamGoods, heap.Add(0x900))
	require.NoError(t, process.Write(mem, capWeapon.Add(resCapParamOffset), weapon))
	require.NoError(t, process.Write(mem, capGoods.Add(resCapParamOffset), goods))

	require.NoError(t, process.Write(mem, goods.Add(paramRowCountOffset), uint16(2)))
	require.NoError(t, process.Write(mem, goods.Add(paramRowsOffset), rowDescriptor{ID: 116, DataOffset: 0x100}))
	require.NoError(t, process.Write(mem, goods.Add(paramRowsOffset+paramRowSize), rowDescriptor{ID: DarksignID, DataOffset: 0x140}))
	require.NoError(t, process.Write(mem, goods.Add(0x140+goodsIconOffset), uint16(DarksignIconNormal)))
	return mem
}

func TestTablesSkipUnloadedCapsules(t *testing.T) {
	mem := fakeRepository(t)
	require.NoError(t, process.Write(mem, slot, repo))
	r := NewRepository(mem, slot)

	tables, err := r.Tables()
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, "EquipParamWeapon", tables[0].Name)
	assert.Equal(t, Table{Name: EquipParamGoods, Header: goods}, tables[1])

	_, err = r.Find("SpEffectParam")
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestDarksignIconRoundTrip(t *testing.T) {
	mem := fakeRepository(t)
	require.NoError(t, process.Write(mem, slot, repo))
	r := NewRepository(mem, slot)

	icon, err := r.GoodsIcon(DarksignID)
	require.NoError(t, err)
	assert.Equal(t, uint16(DarksignIconNormal), icon)

	require.NoError(t, r.SetGoodsIcon(context.Background(), DarksignID, DarksignIconActive, 0))
	icon, err = r.GoodsIcon(DarksignID)
	require.NoError(t, err)
	assert.Equal(t, uint16(DarksignIconActive), icon)

	require.NoError(t, r.SetGoodsIcon(context.Background(), DarksignID, DarksignIconNormal, 0))
	icon, err = r.GoodsIcon(DarksignID)
	require.NoError(t, err)
	assert.Equal(t, uint16(DarksignIconNormal), icon)

	_, err = r.GoodsIcon(9999)
	assert.ErrorIs(t, err, ErrRowNotFound)
}

func TestNotLoaded(t *testing.T) {
	mem := fakeRepository(t)
	r := NewRepository(mem, slot)

	_, err := r.Tables()
	assert.ErrorIs(t, err, ErrNotLoaded)

	_, err = NewRepository(mem, 0).Tables()
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestWaitTableTimesOut(t *testing.T) {
	mem := fakeRepository(t)
	r := NewRepository(mem, slot)

	start := time.Now()
	_, err := r.WaitTable(context.Background(), EquipParamGoods, time.Millisecond, 30*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestWaitTablePicksUpLateLoad(t *testing.T) {
	mem := fakeRepository(t)
	r := NewRepository(mem, slot)

	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = process.Write(mem, slot, repo)
	}()

	tbl, err := r.WaitTable(context.Background(), EquipParamGoods, 5*time.Millisecond, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, goods, tbl.Header)
}
