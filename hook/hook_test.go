package hook

import (
	"sync"
	"testing"
	"time"

	"practicetool/hotkey"
	"practicetool/imui"
	"practicetool/input"
	"practicetool/process"
	"practicetool/process_blob"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	vtable     = process.ProcessMemoryAddress(0x7FFA00001000)
	present    = uintptr(0x7FFA00020000)
	resize     = uintptr(0x7FFA00020400)
	trampoline = uintptr(0x000000C000100000)
)

func fakeVtable(t *testing.T) *process_blob.ProcessBlob {
	t.Helper()
	mem := process_blob.NewProcessBlob(vtable, make([]byte, 0x100))
	require.NoError(t, process.Write(mem, vtable+8*8, present))
	require.NoError(t, process.Write(mem, vtable+13*8, resize))
	return mem
}

func slot(t *testing.T, mem process.Memory, addr process.ProcessMemoryAddress) uintptr {
	t.Helper()
	v, err := process.Read[uintptr](mem, addr)
	require.NoError(t, err)
	return v
}

func TestInstallUninstallRestoresSlots(t *testing.T) {
	mem := fakeVtable(t)
	w := MemorySlots{Mem: mem}
	p := NewSlotPatch("Present", w, vtable+8*8, trampoline)
	r := NewSlotPatch("ResizeBuffers", w, vtable+13*8, trampoline+0x40)

	h := New()
	require.NoError(t, h.Install(p, r))
	assert.Equal(t, StateInstalled, h.State())
	assert.Equal(t, present, p.Original())
	assert.Equal(t, resize, r.Original())
	assert.Equal(t, trampoline, slot(t, mem, vtable+8*8))

	assert.ErrorIs(t, h.Install(p), ErrAlreadyInstalled)

	require.NoError(t, h.Uninstall(time.Second))
	assert.Equal(t, StateUninstalled, h.State())
	for off := process.ProcessMemorySize(0); off < 0x100; off += 8 {
		v := slot(t, mem, vtable.Add(off))
		assert.NotEqual(t, trampoline, v)
		assert.NotEqual(t, trampoline+0x40, v)
	}
	assert.Equal(t, present, slot(t, mem, vtable+8*8))
	assert.Equal(t, resize, slot(t, mem, vtable+13*8))

	assert.ErrorIs(t, h.Uninstall(time.Second), ErrNotInstalled)
}

func TestInstallIsAllOrNothing(t *testing.T) {
	mem := fakeVtable(t)
	w := MemorySlots{Mem: mem}
	good := NewSlotPatch("Present", w, vtable+8*8, trampoline)
	bad := NewSlotPatch("unmapped", w, 0x1000, trampoline)
	empty := NewSlotPatch("empty", w, vtable, trampoline)

	h := New()
	require.Error(t, h.Install(good, bad))
	assert.Equal(t, StateUninstalled, h.State())
	assert.Equal(t, present, slot(t, mem, vtable+8*8))

	assert.ErrorIs(t, h.Install(good, empty), process.ErrNullPointer)
	assert.Equal(t, present, slot(t, mem, vtable+8*8))
}

func TestUninstallWaitsForInterceptors(t *testing.T) {
	mem := fakeVtable(t)
	h := New()
	require.NoError(t, h.Install(NewSlotPatch("Present", MemorySlots{Mem: mem}, vtable+8*8, trampoline)))

	require.True(t, h.Enter())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		time.Sleep(20 * time.Millisecond)
		h.Exit()
	}()

	start := time.Now()
	require.NoError(t, h.Uninstall(time.Second))
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
	assert.Zero(t, h.InFlight())
	wg.Wait()

	// a late caller that read the old pointer only chain-calls
	assert.False(t, h.Enter())
	h.Exit()
}

func TestUninstallTimesOut(t *testing.T) {
	mem := fakeVtable(t)
	h := New()
	require.NoError(t, h.Install(NewSlotPatch("Present", MemorySlots{Mem: mem}, vtable+8*8, trampoline)))

	h.Enter()
	assert.ErrorIs(t, h.Uninstall(10*time.Millisecond), ErrInFlightTimeout)
	assert.Equal(t, present, slot(t, mem, vtable+8*8))
	h.Exit()
}

func TestRestoreLeavesForeignPointer(t *testing.T) {
	mem := fakeVtable(t)
	w := MemorySlots{Mem: mem}
	p := NewSlotPatch("Present", w, vtable+8*8, trampoline)
	r := NewSlotPatch("ResizeBuffers", w, vtable+13*8, trampoline+0x40)
	h := New()
	require.NoError(t, h.Install(p, r))

	// another overlay hooked Present over us
	require.NoError(t, process.Write(mem, vtable+8*8, uintptr(0xDEAD0000)))
	assert.ErrorIs(t, h.Uninstall(time.Second), ErrSlotChanged)
	assert.Equal(t, uintptr(0xDEAD0000), slot(t, mem, vtable+8*8))
	assert.Equal(t, resize, slot(t, mem, vtable+13*8))
}

func TestAddAfterInstall(t *testing.T) {
	mem := fakeVtable(t)
	w := MemorySlots{Mem: mem}
	h := New()
	late := NewSlotPatch("ResizeBuffers", w, vtable+13*8, trampoline)
	assert.ErrorIs(t, h.Add(late), ErrNotInstalled)

	require.NoError(t, h.Install(NewSlotPatch("Present", w, vtable+8*8, trampoline+0x40)))
	require.NoError(t, h.Add(late))
	assert.Equal(t, trampoline, slot(t, mem, vtable+13*8))
	require.NoError(t, h.Uninstall(time.Second))
	assert.Equal(t, resize, slot(t, mem, vtable+13*8))
}

func writeString(t *testing.T, mem process.Memory, addr process.ProcessMemoryAddress, s string) {
	t.Helper()
	require.NoError(t, mem.WriteMemory(addr, append([]byte(s), 0)))
}

func TestFindImport(t *testing.T) {
	const base = process.ProcessMemoryAddress(0x140000000)
	mem := process_blob.NewProcessBlob(base, make([]byte, 0x1000))
	require.NoError(t, process.Write(mem, base+0x3C, uint32(0x80)))
	require.NoError(t, process.Write(mem, base+0x80, uint32(0x4550)))
	require.NoError(t, process.Write(mem, base+0x80+0x90, uint32(0x200)))

	require.NoError(t, process.Write(mem, base+0x200, importDescriptor{OriginalFirstThunk: 0x300, Name: 0x400, FirstThunk: 0x500}))
	require.NoError(t, process.Write(mem, base+0x214, importDescriptor{OriginalFirstThunk: 0x340, Name: 0x420, FirstThunk: 0x540}))
	writeString(t, mem, base+0x400, "KERNEL32.dll")
	writeString(t, mem, base+0x420, "XINPUT1_3.dll")

	require.NoError(t, process.Write(mem, base+0x300, uint64(0x600)))
	writeString(t, mem, base+0x602, "Sleep")
	require.NoError(t, process.Write(mem, base+0x340, ordinalFlag|5))
	require.NoError(t, process.Write(mem, base+0x348, uint64(0x620)))
	writeString(t, mem, base+0x622, "XInputGetState")

	at, err := FindImport(mem, base, "xinput", "XInputGetState")
	require.NoError(t, err)
	assert.Equal(t, base+0x548, at)

	at, err = FindImport(mem, base, "kernel32", "Sleep")
	require.NoError(t, err)
	assert.Equal(t, base+0x500, at)

	_, err = FindImport(mem, base, "xinput", "XInputSetState")
	assert.ErrorIs(t, err, ErrImportNotFound)
	_, err = FindImport(mem, base, "d3d11", "D3D11CreateDevice")
	assert.ErrorIs(t, err, ErrImportNotFound)
}

func TestWindowInputCollectsBetweenFrames(t *testing.T) {
	var w WindowInput
	assert.False(t, w.Message(wmChar, 'a', 0))
	assert.False(t, w.Message(wmChar, 0x08, 0))
	assert.False(t, w.Message(wmChar, 'b', 0))
	assert.False(t, w.Message(wmKeyDown, uintptr(hotkey.KeyBack), 0))
	assert.False(t, w.Message(wmMouseWheel, uintptr(uint16(0xFF88))<<16, 0))

	var io imui.IO
	w.Drain(&io)
	assert.Equal(t, []rune{'a', 'b'}, io.Chars)
	assert.True(t, io.Backspace)
	assert.False(t, io.Enter)
	assert.Equal(t, float32(-1), io.MouseWheel)

	var next imui.IO
	w.Drain(&next)
	assert.Empty(t, next.Chars)
	assert.False(t, next.Backspace)
	assert.Zero(t, next.MouseWheel)
}

func TestWindowInputSwallowsWhileCapturing(t *testing.T) {
	var w WindowInput
	w.SetCapture(true)
	assert.True(t, w.Message(wmKeyDown, 'W', 0))
	assert.True(t, w.Message(wmMouseFirst+1, 0, 0))
	assert.True(t, w.Message(wmInput, 0, 0))
	// focus and paint messages always reach the game
	assert.False(t, w.Message(0x0007, 0, 0))
	assert.False(t, w.Message(0x000F, 0, 0))

	w.SetCapture(false)
	assert.False(t, w.Message(wmKeyDown, 'W', 0))
}

func TestMaskGamepad(t *testing.T) {
	pad := input.GamepadState{PacketNumber: 42, Buttons: input.PadA, ThumbLX: 3000}
	assert.Equal(t, pad, maskGamepad(pad))

	input.SuppressGamepad(true)
	defer input.SuppressGamepad(false)
	assert.Equal(t, input.GamepadState{PacketNumber: 42}, maskGamepad(pad))
}
