package game_state

import (
	"encoding/binary"
	"math"
	"testing"

	"practicetool/process"
	"practicetool/process/memory_map"
	"practicetool/process_blob"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	imageBase = process.ProcessMemoryAddress(0x140000000)
	imageSize = process.ProcessMemorySize(0x4000)
	heap      = process.ProcessMemoryAddress(0x7FF400000000)
)

var image = process.Module{Name: "DarkSoulsIII.exe", Base: imageBase, Size: imageSize}

// putRIPLoad writes "48 8B 05 disp32 48 85 C0 74 05 48 8B 40 08 C3" at at, referencing target
func putRIPLoad(t *testing.T, mem *process_blob.ProcessBlob, at, target process.ProcessMemoryAddress) {
	t.Helper()
	code := []byte{0x48, 0x8B, 0x05, 0, 0, 0, 0, 0x48, 0x85, 0xC0, 0x74, 0x05, 0x48, 0x8B, 0x40, 0x08, 0xC3}
	binary.LittleEndian.PutUint32(code[3:], uint32(int32(int64(target)-int64(at)-7)))
	require.NoError(t, mem.WriteMemory(at, code))
}

func fakeGame(t *testing.T) *process_blob.ProcessBlob {
	t.Helper()
	mem := process_blob.NewProcessBlob(imageBase, make([]byte, imageSize))
	require.NoError(t, mem.Map(heap, 0x10000))
	return mem
}

func TestLocateRIPRelative(t *testing.T) {
	mem := fakeGame(t)
	slot := imageBase.Add(0x3000)
	putRIPLoad(t, mem, imageBase.Add(0x1234), slot)

	got, err := Locate(mem, image, DefaultLocators[BaseGameDataMan])
	require.NoError(t, err)
	assert.Equal(t, slot, got)
}

func TestLocateDirectAndRVA(t *testing.T) {
	mem := fakeGame(t)
	require.NoError(t, mem.WriteMemory(imageBase.Add(0x800), []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x90}))

	fn, err := Locate(mem, image, Locator{Base: BaseSpawnItem, Pattern: "DE AD ?? EF", DispOffset: -1})
	require.NoError(t, err)
	assert.Equal(t, imageBase.Add(0x800), fn)

	rva, err := Locate(mem, image, Locator{Base: BaseFlipper, RVA: 0x2000})
	require.NoError(t, err)
	assert.Equal(t, imageBase.Add(0x2000), rva)

	_, err = Locate(mem, image, Locator{Base: BaseFlipper, RVA: imageSize})
	assert.Error(t, err)
}

func TestResolveBasesKeepsWhatWasFound(t *testing.T) {
	mem := fakeGame(t)
	slot := imageBase.Add(0x3000)
	putRIPLoad(t, mem, imageBase.Add(0x100), slot)

	bases, err := ResolveBases(mem, image, DefaultLocators)
	require.Error(t, err)
	assert.ErrorIs(t, err, process.ErrPatternNotFound)
	assert.Contains(t, err.Error(), "WorldChrMan")
	assert.Equal(t, slot, bases.Get(BaseGameDataMan))
	assert.Zero(t, bases.Get(BaseWorldChrMan))
}

func TestSnapshotModule(t *testing.T) {
	mem := fakeGame(t)
	putRIPLoad(t, mem, imageBase.Add(0x100), imageBase.Add(0x3000))

	mm := []memory_map.MemoryMapItem{
		{Address: uint64(imageBase) - 0x1000, Size: 0x2000, Perms: "r--p"},
		{Address: uint64(imageBase) + 0x1000, Size: 0x1000, Perms: "---p"},
		{Address: uint64(imageBase) + 0x2000, Size: 0x8000, Perms: "r-xp"},
	}
	snap, err := SnapshotModule(mem, mm, image)
	require.NoError(t, err)

	// clipped to the module and skipping the inaccessible page
	assert.True(t, snap.IsValidAddress(imageBase))
	assert.False(t, snap.IsValidAddress(imageBase-1))
	assert.False(t, snap.IsValidAddress(imageBase.Add(0x1000)))
	assert.True(t, snap.IsValidAddress(imageBase.Add(0x3FFF)))
	assert.False(t, snap.IsValidAddress(imageBase.Add(0x4000)))

	got, err := Locate(snap, image, DefaultLocators[BaseGameDataMan])
	require.NoError(t, err)
	assert.Equal(t, imageBase.Add(0x3000), got)
}

func TestPointerChainsReadGameData(t *testing.T) {
	mem := fakeGame(t)
	var bases BaseAddresses
	bases[BaseGameDataMan] = imageBase.Add(0x3000)

	gameData := heap
	playerData := heap.Add(0x1000)
	require.NoError(t, process.Write(mem, bases[BaseGameDataMan], gameData))
	require.NoError(t, process.Write(mem, gameData.Add(0x10), playerData))
	require.NoError(t, process.Write(mem, gameData.Add(0xA4), uint32(3725123)))
	require.NoError(t, process.Write(mem, playerData.Add(0x44), int32(10)))
	require.NoError(t, process.Write(mem, playerData.Add(0x70), int32(42)))
	require.NoError(t, process.Write(mem, playerData.Add(0x74), int32(5000)))

	pc := NewPointerChains(mem, bases)

	igt, ok := pc.IGT.Read()
	require.True(t, ok)
	assert.Equal(t, uint32(3725123), igt)

	stats, ok := pc.Stats.Read()
	require.True(t, ok)
	assert.Equal(t, int32(10), stats.Vigor)
	assert.Equal(t, int32(42), stats.Level)
	assert.Equal(t, int32(5000), stats.Souls)

	require.True(t, pc.Souls.Write(7000))
	souls, ok := pc.Souls.Read()
	require.True(t, ok)
	assert.Equal(t, int32(7000), souls)

	// roots that were not found leave their cells unresolved
	_, ok = pc.Position.Read()
	assert.False(t, ok)
	_, ok = pc.Gravity().Get()
	assert.False(t, ok)
	assert.False(t, pc.Flag(FlagNoDeath).Toggle())
}

func TestFlagsToggleStaticBytes(t *testing.T) {
	mem := fakeGame(t)
	var bases BaseAddresses
	bases[BaseChrDbgFlags] = imageBase.Add(0x3800)
	pc := NewPointerChains(mem, bases)

	require.True(t, pc.Flag(FlagOneShot).Set(true))
	b, err := mem.ReadMemory(imageBase.Add(0x3801), 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, b)

	v, ok := pc.Flag(FlagNoDeath).Get()
	require.True(t, ok)
	assert.False(t, v)
}

func TestParseFlag(t *testing.T) {
	for f := Flag(0); f < FlagCount; f++ {
		got, err := ParseFlag(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
		assert.NotEmpty(t, f.Label())
	}

	f, err := ParseFlag("gravity")
	require.NoError(t, err)
	assert.Equal(t, FlagGravity, f)

	_, err = ParseFlag("nonesuch")
	require.Error(t, err)
	assert.Equal(t, `"nonesuch" is not a valid flag specifier`, err.Error())

	var viaText Flag
	require.NoError(t, viaText.UnmarshalText([]byte("rend_mesh_hit")))
	assert.Equal(t, FlagRendMeshHit, viaText)
}

func TestStatsClamped(t *testing.T) {
	s := CharacterStats{Vigor: 0, Attunement: 150, Vitality: -3, Luck: 99, Level: 0, Souls: -1}
	c := s.Clamped()
	assert.Equal(t, int32(1), c.Vigor)
	assert.Equal(t, int32(99), c.Attunement)
	assert.Equal(t, int32(1), c.Vitality)
	assert.Equal(t, int32(99), c.Luck)
	assert.Equal(t, int32(1), c.Level)
	assert.Equal(t, int32(0), c.Souls)

	s.Level, s.Souls = math.MaxInt32, math.MaxInt32
	c = s.Clamped()
	assert.Equal(t, int32(math.MaxInt32), c.Level)
	assert.Equal(t, int32(math.MaxInt32), c.Souls)

	// the receiver is untouched
	assert.Equal(t, int32(150), s.Attunement)
	assert.Len(t, s.Attributes(), 9)
}

func TestVersionLabel(t *testing.T) {
	v, err := ParseVersion("1.15.0")
	require.NoError(t, err)
	assert.Equal(t, "Game version 1.15.0", v.Label())

	v, err = ParseVersion("1.8.2")
	require.NoError(t, err)
	assert.Equal(t, "1.08.2", v.String())

	_, err = ParseVersion("abc")
	assert.Error(t, err)
	assert.Equal(t, "Game version unknown", Version{}.Label())
}
