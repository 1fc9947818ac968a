package widget

import (
	"fmt"

	"practicetool/chain"
	"practicetool/game_state"
	"practicetool/hotkey"
	"practicetool/imui"
)

type savedPosition struct {
	pos   game_state.Position
	angle float32
}

// SavePosition stores the player's position with modifier+hotkey and warps back with the hotkey
type SavePosition struct {
	logBuffer

	pos      chain.PointerChain[game_state.Position]
	angle    chain.PointerChain[float32]
	hotkey   hotkey.Hotkey
	modifier hotkey.Key
	saved    *savedPosition

	labelLoad string
	labelSave string
}

func NewSavePosition(pos chain.PointerChain[game_state.Position], angle chain.PointerChain[float32], hk hotkey.Hotkey, modifier hotkey.Key) *SavePosition {
	save := hk
	save.Modifier = modifier
	return &SavePosition{
		pos:       pos,
		angle:     angle,
		hotkey:    hk,
		modifier:  modifier,
		labelLoad: hotkey.Label("Load position", &hk),
		labelSave: hotkey.Label("Save position", &save),
	}
}

func (w *SavePosition) Save() {
	p, ok := w.pos.Read()
	if !ok {
		w.logf("Position unavailable")
		return
	}
	a, _ := w.angle.Read()
	w.saved = &savedPosition{pos: p, angle: a}
}

func (w *SavePosition) Load() {
	if w.saved == nil {
		return
	}
	if w.pos.Write(w.saved.pos) {
		w.angle.Write(w.saved.angle)
	}
}

func (w *SavePosition) Interact(f *Frame) {
	if !w.hotkey.KeyUp(f.Keys) {
		return
	}
	if f.Keys.IsDown(w.modifier) || f.Keys.Released(w.modifier) {
		w.Save()
	} else {
		w.Load()
	}
}

func (w *SavePosition) RenderActive(f *Frame) {
	half := (f.UI.ButtonWidth() - 8*f.UI.Scale) / 2
	if f.UI.Button(w.labelLoad, imui.Vec2{X: half}) {
		w.Load()
	}
	f.UI.SameLine()
	if f.UI.Button(w.labelSave, imui.Vec2{X: half}) {
		w.Save()
	}
	if w.saved != nil {
		f.UI.TextDisabled(fmt.Sprintf("[%.2f %.2f %.2f] %.2f", w.saved.pos[0], w.saved.pos[1], w.saved.pos[2], w.saved.angle))
	}
}

// RenderPassive shows the saved slot on the indicator bar
func (w *SavePosition) RenderPassive(f *Frame) {
	if w.saved != nil {
		f.UI.TextDisabled(fmt.Sprintf("Saved [%.2f %.2f %.2f]", w.saved.pos[0], w.saved.pos[1], w.saved.pos[2]))
	}
}

// Nudge moves the player along the vertical axis by a fixed step
type Nudge struct {
	passive
	logBuffer

	pos    chain.PointerChain[game_state.Position]
	amount float32
	up     hotkey.Hotkey
	down   hotkey.Hotkey

	labelUp   string
	labelDown string
}

func NewNudge(pos chain.PointerChain[game_state.Position], amount float32, up, down hotkey.Hotkey) *Nudge {
	return &Nudge{
		pos:       pos,
		amount:    amount,
		up:        up,
		down:      down,
		labelUp:   hotkey.Label("Nudge up", &up),
		labelDown: hotkey.Label("Nudge down", &down),
	}
}

func (w *Nudge) nudge(dy float32) {
	p, ok := w.pos.Read()
	if !ok {
		return
	}
	p[1] += dy
	w.pos.Write(p)
}

func (w *Nudge) Interact(f *Frame) {
	if w.up.KeyUp(f.Keys) {
		w.nudge(w.amount)
	}
	if w.down.KeyUp(f.Keys) {
		w.nudge(-w.amount)
	}
}

func (w *Nudge) RenderActive(f *Frame) {
	half := (f.UI.ButtonWidth() - 8*f.UI.Scale) / 2
	if f.UI.Button(w.labelUp, imui.Vec2{X: half}) {
		w.nudge(w.amount)
	}
	f.UI.SameLine()
	if f.UI.Button(w.labelDown, imui.Vec2{X: half}) {
		w.nudge(-w.amount)
	}
}
