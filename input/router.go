package input

import (
	"practicetool/hotkey"
	"practicetool/logging"
)

// MouseState is the cursor in client coordinates and the left, right and middle buttons
type MouseState struct {
	X, Y    float32
	Buttons [3]bool
	Valid   bool
}

// Sampler reads the devices; the windows implementation polls the OS
type Sampler interface {
	Keyboard(keys *[256]bool)
	Gamepad() (GamepadState, bool)
	Mouse() MouseState
}

// Router produces one consistent input snapshot per frame
type Router struct {
	Keys   KeyState
	Queue  Queue
	Radial *RadialMenu
	Pad    GamepadState
	PadOK  bool
	Mouse  MouseState

	sampler Sampler
	log     *logging.Logger
}

func NewRouter(sampler Sampler, radial []RadialItem) *Router {
	return &Router{
		Radial:  NewRadialMenu(radial),
		sampler: sampler,
		log:     logging.New("input"),
	}
}

// Sample runs first thing every frame. wantsText is whether a text field held the keyboard at
// the end of the previous frame.
func (r *Router) Sample(wantsText bool) {
	var physical [256]bool
	r.sampler.Keyboard(&physical)

	synthetic, _ := r.Queue.Advance()
	r.Keys.Advance(&physical, synthetic)
	r.Keys.SetWantsText(wantsText)

	r.Mouse = r.sampler.Mouse()

	r.Pad, r.PadOK = r.sampler.Gamepad()
	if !r.PadOK {
		r.Pad = GamepadState{}
	}
	if i := r.Radial.Update(r.Pad); i >= 0 {
		item := r.Radial.Items[i]
		r.log.Debugf("radial menu: %s (%s)", item.Label, item.Hotkey)
		r.Queue.Press(item.Hotkey.Keys()...)
	}
}

// RightShiftDown is the "hide" qualifier of the display hotkey
func (r *Router) RightShiftDown() bool {
	return r.Keys.IsDown(hotkey.KeyRShift)
}

// NullSampler reports no input at all
type NullSampler struct{}

func (NullSampler) Keyboard(*[256]bool)           {}
func (NullSampler) Gamepad() (GamepadState, bool) { return GamepadState{}, false }
func (NullSampler) Mouse() MouseState             { return MouseState{} }
