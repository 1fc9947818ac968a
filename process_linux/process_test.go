//go:build linux

package process_linux

import (
	"encoding/binary"
	"errors"
	"runtime"
	"syscall"
	"testing"
	"unsafe"

	"practicetool/process"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSelf(t *testing.T) *LinuxProcess {
	t.Helper()
	p, err := Self()
	require.NoError(t, err)

	// probe: some sandboxes forbid process_vm_readv even on ourselves
	var probe uint64
	_, err = p.ReadMemory(process.ProcessMemoryAddress(uintptr(unsafe.Pointer(&probe))), 8)
	if errors.Is(err, syscall.EPERM) || errors.Is(err, syscall.ENOSYS) {
		t.Skipf("process_vm_readv unavailable: %v", err)
	}
	require.NoError(t, err)
	return p
}

func TestSelfReadWrite(t *testing.T) {
	p := openSelf(t)

	cell := make([]byte, 16)
	binary.LittleEndian.PutUint64(cell, 0x1122334455667788)
	addr := process.ProcessMemoryAddress(uintptr(unsafe.Pointer(&cell[0])))

	got, err := process.Read[uint64](p, addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1122334455667788), got)

	require.NoError(t, process.Write[uint32](p, addr.Add(8), 0xCAFEBABE))
	assert.Equal(t, uint32(0xCAFEBABE), binary.LittleEndian.Uint32(cell[8:]))
}

func TestSelfReadUnmappedFails(t *testing.T) {
	p := openSelf(t)

	_, err := p.ReadMemory(0x8, 8)
	assert.Error(t, err)
	assert.False(t, p.IsValidAddress(0x8))
}

func TestSelfScanFindsMarker(t *testing.T) {
	p := openSelf(t)

	marker := []byte{0xDE, 0xAD, 0x5E, 0x11, 0x9A, 0x77, 0x01, 0xF0, 0x0D}
	buf := make([]byte, 64)
	copy(buf[20:], marker)
	require.NoError(t, p.UpdateMemoryMap())

	results, err := p.ScanParallel(process.AOB{Pattern: marker, Mask: []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}}, 4)
	require.NoError(t, err)
	assert.Contains(t, results, process.ProcessMemoryAddress(uintptr(unsafe.Pointer(&buf[20]))))
	runtime.KeepAlive(buf)
}
