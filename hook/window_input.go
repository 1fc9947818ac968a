package hook

import (
	"sync"
	"sync/atomic"

	"practicetool/hotkey"
	"practicetool/imui"
	"practicetool/input"
)

// window messages the subclassed procedure looks at
const (
	wmInput      = 0x00FF
	wmKeyFirst   = 0x0100
	wmKeyDown    = 0x0100
	wmChar       = 0x0102
	wmSysKeyDown = 0x0104
	wmKeyLast    = 0x0109
	wmMouseFirst = 0x0200
	wmMouseWheel = 0x020A
	wmMouseLast  = 0x020E

	wheelDelta = 120
)

// WindowInput collects what the game window receives between two frames: typed text, wheel
// steps and editing keys. The window procedure runs on the game's message thread and Drain on
// the render thread.
type WindowInput struct {
	mu                       sync.Mutex
	chars                    []rune
	wheel                    float32
	backspace, enter, escape bool

	capture atomic.Bool
}

// SetCapture is set by the render thread while the menu owns keyboard and mouse
func (w *WindowInput) SetCapture(v bool) { w.capture.Store(v) }

func (w *WindowInput) Capturing() bool { return w.capture.Load() }

// Message records msg and reports whether it must be kept from the game
func (w *WindowInput) Message(msg uint32, wparam, lparam uintptr) bool {
	w.mu.Lock()
	switch msg {
	case wmChar:
		if r := rune(wparam); r >= 0x20 && r != 0x7F {
			w.chars = append(w.chars, r)
		}
	case wmKeyDown, wmSysKeyDown:
		switch hotkey.Key(wparam) {
		case hotkey.KeyBack:
			w.backspace = true
		case hotkey.KeyReturn:
			w.enter = true
		case hotkey.KeyEscape:
			w.escape = true
		}
	case wmMouseWheel:
		w.wheel += float32(int16(wparam>>16)) / wheelDelta
	}
	w.mu.Unlock()

	if !w.Capturing() {
		return false
	}
	return msg == wmInput ||
		(msg >= wmKeyFirst && msg <= wmKeyLast) ||
		(msg >= wmMouseFirst && msg <= wmMouseLast)
}

// Drain moves everything collected since the last call into io
func (w *WindowInput) Drain(io *imui.IO) {
	w.mu.Lock()
	defer w.mu.Unlock()
	io.Chars = append(io.Chars, w.chars...)
	io.MouseWheel += w.wheel
	io.Backspace = io.Backspace || w.backspace
	io.Enter = io.Enter || w.enter
	io.Escape = io.Escape || w.escape

	w.chars = w.chars[:0]
	w.wheel = 0
	w.backspace, w.enter, w.escape = false, false, false
}

// maskGamepad is what the game's XInputGetState returns while the radial menu holds the pad:
// a state with nothing pressed that still advances with the real packet number
func maskGamepad(st input.GamepadState) input.GamepadState {
	if !input.GamepadSuppressed() {
		return st
	}
	return input.GamepadState{PacketNumber: st.PacketNumber}
}
