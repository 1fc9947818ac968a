//go:build windows

package hook

import (
	"fmt"
	"sync/atomic"
	"syscall"

	"practicetool/d3d11"
	"practicetool/process"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

// DX11 intercepts IDXGISwapChain::Present and ResizeBuffers. Both run on the game's render
// thread. OnPresent draws before the frame is presented; OnResize must drop every reference to
// the back buffer before the original resizes it.
type DX11 struct {
	Hooks     *Hooks
	OnPresent func(sc d3d11.SwapChain)
	OnResize  func(sc d3d11.SwapChain)

	present *SlotPatch
	resize  *SlotPatch
}

// callbacks can never be freed, so there is one pair per process
var (
	activeDX11        atomic.Pointer[DX11]
	presentTrampoline = windows.NewCallback(presentInterceptor)
	resizeTrampoline  = windows.NewCallback(resizeInterceptor)
)

// Patches locates the swap chain vtable and returns the two patches for Hooks.Install
func (d *DX11) Patches(w SlotWriter) ([]Patch, error) {
	present, resize, err := LocateSwapChainSlots()
	if err != nil {
		return nil, err
	}
	d.present = NewSlotPatch("IDXGISwapChain::Present", w, present, presentTrampoline)
	d.resize = NewSlotPatch("IDXGISwapChain::ResizeBuffers", w, resize, resizeTrampoline)
	activeDX11.Store(d)
	return []Patch{d.present, d.resize}, nil
}

// LocateSwapChainSlots creates a throwaway device and swap chain on a hidden window and
// returns the addresses of the Present and ResizeBuffers entries of their shared vtable
func LocateSwapChainSlots() (present, resize process.ProcessMemoryAddress, err error) {
	class, _ := windows.UTF16PtrFromString("STATIC")
	title, _ := windows.UTF16PtrFromString("practicetool-dx11")
	hwnd := win.CreateWindowEx(0, class, title, win.WS_POPUP, 0, 0, 2, 2, 0, 0, win.GetModuleHandle(nil), nil)
	if hwnd == 0 {
		return 0, 0, fmt.Errorf("CreateWindowEx: %w", windows.GetLastError())
	}
	defer win.DestroyWindow(hwnd)

	sc, dev, ctx, err := d3d11.CreateDeviceAndSwapChain(windows.HWND(hwnd), d3d11.DRIVER_TYPE_HARDWARE)
	if err != nil {
		log.Warnf("hardware device: %v; trying WARP", err)
		sc, dev, ctx, err = d3d11.CreateDeviceAndSwapChain(windows.HWND(hwnd), d3d11.DRIVER_TYPE_WARP)
		if err != nil {
			return 0, 0, err
		}
	}
	defer sc.SafeRelease()
	defer dev.SafeRelease()
	defer ctx.SafeRelease()

	present = process.ProcessMemoryAddress(sc.SlotAddr(d3d11.SwapChainPresent))
	resize = process.ProcessMemoryAddress(sc.SlotAddr(d3d11.SwapChainResizeBuffers))
	return present, resize, nil
}

func presentInterceptor(this, syncInterval, flags uintptr) uintptr {
	d := activeDX11.Load()
	active := d.Hooks.Enter()
	defer d.Hooks.Exit()
	if active && d.OnPresent != nil {
		d.callPresent(this)
	}

	ret, _, _ := syscall.SyscallN(d.present.Original(), this, syncInterval, flags)
	return ret
}

func (d *DX11) callPresent(this uintptr) {
	defer log.Recover("Present")
	d.OnPresent(d3d11.SwapChainFrom(this))
}

func resizeInterceptor(this, count, width, height, format, flags uintptr) uintptr {
	d := activeDX11.Load()
	active := d.Hooks.Enter()
	defer d.Hooks.Exit()
	if active && d.OnResize != nil {
		d.callResize(this)
	}

	ret, _, _ := syscall.SyscallN(d.resize.Original(), this, count, width, height, format, flags)
	return ret
}

func (d *DX11) callResize(this uintptr) {
	defer log.Recover("ResizeBuffers")
	d.OnResize(d3d11.SwapChainFrom(this))
}
