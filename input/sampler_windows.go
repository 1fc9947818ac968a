//go:build windows

package input

import (
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

var (
	moduser32            = windows.NewLazySystemDLL("user32.dll")
	procGetAsyncKeyState = moduser32.NewProc("GetAsyncKeyState")

	modxinput          = windows.NewLazySystemDLL("xinput1_4.dll")
	procXInputGetState = modxinput.NewProc("XInputGetState")
)

const (
	vkLButton = 0x01
	vkRButton = 0x02
	vkMButton = 0x04
)

// WindowsSampler polls GetAsyncKeyState, XInput controller 0 and the cursor position. Keyboard
// and mouse read as idle while the game window is not in the foreground.
type WindowsSampler struct {
	hwnd win.HWND
}

func NewWindowsSampler(hwnd win.HWND) *WindowsSampler {
	return &WindowsSampler{hwnd: hwnd}
}

func (s *WindowsSampler) SetWindow(hwnd win.HWND) { s.hwnd = hwnd }

func (s *WindowsSampler) focused() bool {
	return s.hwnd != 0 && win.GetForegroundWindow() == s.hwnd
}

func asyncDown(vk int) bool {
	r, _, _ := procGetAsyncKeyState.Call(uintptr(vk))
	return int16(r) < 0
}

func (s *WindowsSampler) Keyboard(keys *[256]bool) {
	if !s.focused() {
		return
	}
	for vk := 8; vk < len(keys); vk++ {
		keys[vk] = asyncDown(vk)
	}
}

// Gamepad calls the real XInputGetState, not the stub the game sees
func (s *WindowsSampler) Gamepad() (GamepadState, bool) {
	if procXInputGetState.Find() != nil {
		return GamepadState{}, false
	}
	var state GamepadState
	r, _, _ := procXInputGetState.Call(0, uintptr(unsafe.Pointer(&state)))
	return state, r == uintptr(windows.ERROR_SUCCESS)
}

func (s *WindowsSampler) Mouse() MouseState {
	if !s.focused() {
		return MouseState{}
	}
	var pt win.POINT
	if !win.GetCursorPos(&pt) || !win.ScreenToClient(s.hwnd, &pt) {
		return MouseState{}
	}
	return MouseState{
		X:       float32(pt.X),
		Y:       float32(pt.Y),
		Buttons: [3]bool{asyncDown(vkLButton), asyncDown(vkRButton), asyncDown(vkMButton)},
		Valid:   true,
	}
}
