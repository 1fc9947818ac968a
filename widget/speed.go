package widget

import (
	"fmt"
	"math"

	"practicetool/chain"
	"practicetool/hotkey"
	"practicetool/imui"
)

// CycleSpeed steps the game speed through a fixed list of multipliers
type CycleSpeed struct {
	passive
	logBuffer

	values []float32
	speed  chain.PointerChain[float32]
	hotkey hotkey.Hotkey
}

func NewCycleSpeed(values []float32, speed chain.PointerChain[float32], hk hotkey.Hotkey) *CycleSpeed {
	return &CycleSpeed{values: values, speed: speed, hotkey: hk}
}

// next is the value after cur in the list, or the first value when cur is not in it
func (w *CycleSpeed) next(cur float32) float32 {
	for i, v := range w.values {
		if math.Abs(float64(v-cur)) < 1e-3 {
			return w.values[(i+1)%len(w.values)]
		}
	}
	return w.values[0]
}

func (w *CycleSpeed) Cycle() {
	if len(w.values) == 0 {
		return
	}
	cur, ok := w.speed.Read()
	if !ok {
		return
	}
	w.speed.Write(w.next(cur))
}

func (w *CycleSpeed) Interact(f *Frame) {
	if w.hotkey.KeyUp(f.Keys) {
		w.Cycle()
	}
}

func (w *CycleSpeed) RenderActive(f *Frame) {
	cur := Placeholder
	if v, ok := w.speed.Read(); ok {
		cur = fmt.Sprintf("%.1fx", v)
	}
	label := hotkey.Label(fmt.Sprintf("Speed [%s]", cur), &w.hotkey)
	if f.UI.Button(label+"##cycle-speed", imui.Vec2{X: f.UI.ButtonWidth()}) {
		w.Cycle()
	}
}
