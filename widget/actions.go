package widget

import (
	"fmt"
	"math"
	"strings"

	"practicetool/chain"
	"practicetool/game_state"
	"practicetool/hotkey"
	"practicetool/imui"
	"practicetool/process"
)

// Souls deposits a fixed amount of souls per activation
type Souls struct {
	passive
	logBuffer

	amount uint32
	souls  chain.PointerChain[int32]
	hotkey hotkey.Hotkey
	label  string
}

func NewSouls(amount uint32, souls chain.PointerChain[int32], hk hotkey.Hotkey) *Souls {
	return &Souls{amount: amount, souls: souls, hotkey: hk, label: hotkey.Label(fmt.Sprintf("Add %d souls", amount), &hk)}
}

func (w *Souls) Deposit() {
	cur, ok := w.souls.Read()
	if !ok {
		return
	}
	w.souls.Write(int32(min(int64(cur)+int64(w.amount), math.MaxInt32)))
}

func (w *Souls) Interact(f *Frame) {
	if w.hotkey.KeyUp(f.Keys) {
		w.Deposit()
	}
}

func (w *Souls) RenderActive(f *Frame) {
	if f.UI.Button(w.label, imui.Vec2{X: f.UI.ButtonWidth()}) {
		w.Deposit()
	}
}

// Quitout returns to the title screen
type Quitout struct {
	passive
	logBuffer

	quitout chain.PointerChain[uint8]
	hotkey  hotkey.Hotkey
	label   string
}

func NewQuitout(quitout chain.PointerChain[uint8], hk hotkey.Hotkey) *Quitout {
	return &Quitout{quitout: quitout, hotkey: hk, label: hotkey.Label("Quitout", &hk)}
}

func (w *Quitout) Interact(f *Frame) {
	if w.hotkey.KeyUp(f.Keys) {
		w.quitout.Write(1)
	}
}

func (w *Quitout) RenderActive(f *Frame) {
	if f.UI.Button(w.label, imui.Vec2{X: f.UI.ButtonWidth()}) {
		w.quitout.Write(1)
	}
}

type MenuKind int

const (
	MenuTravel MenuKind = iota
	MenuAttune
)

func (k MenuKind) String() string {
	switch k {
	case MenuTravel:
		return "travel"
	case MenuAttune:
		return "attune"
	}
	return fmt.Sprintf("MenuKind(%d)", int(k))
}

func (k *MenuKind) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "travel", "warp":
		*k = MenuTravel
	case "attune":
		*k = MenuAttune
	default:
		return fmt.Errorf("%q is not a valid menu kind (want travel or attune)", text)
	}
	return nil
}

func (k MenuKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// OpenMenu calls the game's own bonfire menu functions
type OpenMenu struct {
	passive
	logBuffer

	kind   MenuKind
	fn     process.ProcessMemoryAddress
	caller game_state.Caller
	hotkey *hotkey.Hotkey
	label  string
}

func NewOpenMenu(kind MenuKind, travel, attune process.ProcessMemoryAddress, caller game_state.Caller, hk *hotkey.Hotkey) *OpenMenu {
	w := &OpenMenu{kind: kind, caller: caller, hotkey: hk}
	switch kind {
	case MenuTravel:
		w.fn, w.label = travel, hotkey.Label("Warp", hk)
	case MenuAttune:
		w.fn, w.label = attune, hotkey.Label("Attune", hk)
	}
	return w
}

func (w *OpenMenu) Open() {
	if _, err := w.caller.Call(w.fn, 0); err != nil {
		w.logf("Could not open %s menu: %v", w.kind, err)
	}
}

func (w *OpenMenu) Interact(f *Frame) {
	if w.hotkey != nil && w.hotkey.KeyUp(f.Keys) {
		w.Open()
	}
}

func (w *OpenMenu) RenderActive(f *Frame) {
	if f.UI.Button(w.label, imui.Vec2{X: f.UI.ButtonWidth()}) {
		w.Open()
	}
}

// Target pins the camera lock to the character targeted when it was enabled
type Target struct {
	logBuffer

	mem     process.Memory
	chains  *game_state.PointerChains
	hotkey  hotkey.Hotkey
	label   string
	locked  process.ProcessMemoryAddress
	enabled bool
}

func NewTarget(mem process.Memory, chains *game_state.PointerChains, hk hotkey.Hotkey) *Target {
	return &Target{mem: mem, chains: chains, hotkey: hk, label: hotkey.Label("Target lock", &hk)}
}

func (w *Target) Toggle() {
	if w.enabled {
		w.enabled, w.locked = false, 0
		return
	}
	t, ok := w.chains.CurrentTarget.Read()
	if !ok || t == 0 {
		w.logf("No target")
		return
	}
	w.enabled, w.locked = true, t
}

func (w *Target) Interact(f *Frame) {
	if w.hotkey.KeyUp(f.Keys) {
		w.Toggle()
	}
	if w.enabled && !w.chains.CameraLock.Write(w.locked) {
		// the player left the game; the old target is gone with it
		w.enabled, w.locked = false, 0
	}
}

func (w *Target) RenderActive(f *Frame) {
	v := w.enabled
	if f.UI.Checkbox(w.label, &v) && v != w.enabled {
		w.Toggle()
	}
}

func (w *Target) RenderPassive(f *Frame) {
	hp, maxHP, ok := w.chains.TargetHP(w.mem)
	if !ok {
		return
	}
	lock := ""
	if w.enabled {
		lock = " [locked]"
	}
	f.UI.Text(fmt.Sprintf("Target HP %d/%d%s", hp, maxHP, lock))
}
