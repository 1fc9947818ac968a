package widget

import (
	"practicetool/chain"
	"practicetool/hotkey"
)

// Flag toggles one boolean cell of the game
type Flag struct {
	passive
	logBuffer

	label  string
	flag   chain.Bitflag[uint8]
	hotkey *hotkey.Hotkey
}

// NewFlag creates a flag toggle; hk may be nil for a menu-only flag
func NewFlag(label string, flag chain.Bitflag[uint8], hk *hotkey.Hotkey) *Flag {
	return &Flag{label: hotkey.Label(label, hk), flag: flag, hotkey: hk}
}

func (w *Flag) Interact(f *Frame) {
	if w.hotkey != nil && w.hotkey.KeyUp(f.Keys) {
		w.flag.Toggle()
	}
}

func (w *Flag) RenderActive(f *Frame) {
	state, ok := w.flag.Get()
	label := w.label
	if !ok {
		label += " " + Placeholder
	}
	if f.UI.Checkbox(label+"##"+w.label, &state) {
		w.flag.Set(state)
	}
}
