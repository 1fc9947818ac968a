//go:build windows

package hook

import (
	"fmt"
	"sync/atomic"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

var (
	activeWndProc     atomic.Pointer[WndProc]
	wndprocTrampoline = windows.NewCallback(wndprocInterceptor)
)

// WndProc subclasses the game window to feed WindowInput and to hide input from the game while
// the menu is open. The window is only known once Present has run, so it goes in with Hooks.Add.
type WndProc struct {
	Hooks *Hooks
	Input *WindowInput

	hwnd     win.HWND
	original atomic.Uintptr
}

func NewWndProc(h *Hooks, hwnd win.HWND, in *WindowInput) *WndProc {
	return &WndProc{Hooks: h, Input: in, hwnd: hwnd}
}

func (p *WndProc) Name() string { return fmt.Sprintf("WndProc(0x%x)", uintptr(p.hwnd)) }

func (p *WndProc) Apply() error {
	cur := win.GetWindowLongPtr(p.hwnd, win.GWLP_WNDPROC)
	if cur == 0 {
		return fmt.Errorf("GetWindowLongPtr(0x%x): %w", uintptr(p.hwnd), windows.GetLastError())
	}
	if cur == wndprocTrampoline {
		return ErrAlreadyInstalled
	}
	p.original.Store(cur)
	activeWndProc.Store(p)
	if win.SetWindowLongPtr(p.hwnd, win.GWLP_WNDPROC, wndprocTrampoline) == 0 {
		return fmt.Errorf("SetWindowLongPtr(0x%x): %w", uintptr(p.hwnd), windows.GetLastError())
	}
	return nil
}

func (p *WndProc) Restore() error {
	if win.GetWindowLongPtr(p.hwnd, win.GWLP_WNDPROC) != wndprocTrampoline {
		return fmt.Errorf("%s: %w", p.Name(), ErrSlotChanged)
	}
	win.SetWindowLongPtr(p.hwnd, win.GWLP_WNDPROC, p.original.Load())
	return nil
}

func wndprocInterceptor(hwnd, msg, wparam, lparam uintptr) uintptr {
	p := activeWndProc.Load()
	active := p.Hooks.Enter()
	defer p.Hooks.Exit()

	if active && p.Input.Message(uint32(msg), wparam, lparam) {
		return 0
	}
	return win.CallWindowProc(p.original.Load(), win.HWND(hwnd), uint32(msg), wparam, lparam)
}
