package widget

import (
	"math"

	"practicetool/chain"
	"practicetool/game_state"
	"practicetool/hotkey"
	"practicetool/imui"
)

const statsPopup = "##character-stats"

// CharacterStats edits a snapshot of the player's stats in a modal and writes it back on Apply
type CharacterStats struct {
	passive
	logBuffer

	stats       chain.PointerChain[game_state.CharacterStats]
	hotkeyOpen  hotkey.Hotkey
	hotkeyClose hotkey.Hotkey
	labelOpen   string

	snapshot *game_state.CharacterStats
}

func NewCharacterStats(stats chain.PointerChain[game_state.CharacterStats], hkOpen, hkClose hotkey.Hotkey) *CharacterStats {
	return &CharacterStats{
		stats:       stats,
		hotkeyOpen:  hkOpen,
		hotkeyClose: hkClose,
		labelOpen:   hotkey.Label("Character stats", &hkOpen),
	}
}

func (w *CharacterStats) open() {
	s, ok := w.stats.Read()
	if !ok {
		w.snapshot = nil
		w.logf("Character stats unavailable")
		return
	}
	log.Debugf("stats snapshot %+v", s)
	w.snapshot = &s
}

// Apply writes the edited snapshot back in one write
func (w *CharacterStats) Apply() bool {
	if w.snapshot == nil {
		return false
	}
	return w.stats.Write(w.snapshot.Clamped())
}

func (w *CharacterStats) Interact(f *Frame) {
	if w.hotkeyOpen.KeyUp(f.Keys) && !f.UI.IsPopupOpen(statsPopup) {
		w.open()
	}
}

func (w *CharacterStats) RenderActive(f *Frame) {
	ui := f.UI
	at := ui.CursorScreenPos()
	if ui.Button(w.labelOpen, imui.Vec2{X: ui.ButtonWidth()}) {
		w.open()
	}
	if w.snapshot != nil {
		ui.OpenPopup(statsPopup)
	}
	if !ui.BeginPopupModal(statsPopup, popupPos(ui, at)) {
		return
	}
	defer ui.EndPopup()

	if s := w.snapshot; s != nil {
		ui.SetNextItemWidth(150 * ui.Scale)
		if ui.InputInt("Level", &s.Level) {
			s.Level = min(max(s.Level, 1), math.MaxInt32)
		}
		for _, a := range s.Attributes() {
			ui.SetNextItemWidth(150 * ui.Scale)
			if ui.InputInt(a.Name, a.Value) {
				*a.Value = min(max(*a.Value, game_state.MinAttribute), game_state.MaxAttribute)
			}
		}
		ui.SetNextItemWidth(150 * ui.Scale)
		if ui.InputInt("Souls", &s.Souls) {
			s.Souls = max(s.Souls, 0)
		}
		if ui.Button("Apply", imui.Vec2{X: ui.ButtonWidth()}) && !w.Apply() {
			w.logf("Character stats unavailable")
		}
	}

	if closeRequested(f, "Close", w.hotkeyClose) {
		ui.CloseCurrentPopup()
		w.snapshot = nil
	}
}
