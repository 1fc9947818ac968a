package input

import (
	"math"
	"sync/atomic"

	"practicetool/hotkey"
)

// XInput button bits
const (
	PadDpadUp        uint16 = 0x0001
	PadDpadDown      uint16 = 0x0002
	PadDpadLeft      uint16 = 0x0004
	PadDpadRight     uint16 = 0x0008
	PadStart         uint16 = 0x0010
	PadBack          uint16 = 0x0020
	PadLeftShoulder  uint16 = 0x0100
	PadRightShoulder uint16 = 0x0200
	PadA             uint16 = 0x1000
	PadB             uint16 = 0x2000
	PadX             uint16 = 0x4000
	PadY             uint16 = 0x8000

	// StickDeadzone is the stick magnitude below which the last direction is kept
	StickDeadzone = 10000
)

// GamepadState mirrors XINPUT_STATE
type GamepadState struct {
	PacketNumber uint32
	Buttons      uint16
	LeftTrigger  uint8
	RightTrigger uint8
	ThumbLX      int16
	ThumbLY      int16
	ThumbRX      int16
	ThumbRY      int16
}

func (g GamepadState) Has(buttons uint16) bool { return g.Buttons&buttons == buttons }

var gamepadSuppressed atomic.Bool

// SuppressGamepad tells the XInput stub to hand the game a zeroed state
func SuppressGamepad(v bool) { gamepadSuppressed.Store(v) }

func GamepadSuppressed() bool { return gamepadSuppressed.Load() }

// RadialItem is one sector of the radial menu; committing it presses the hotkey's keys
type RadialItem struct {
	Label  string
	Hotkey hotkey.Hotkey
}

// RadialMenu is the gamepad selector opened by holding both shoulder buttons
type RadialMenu struct {
	Items []RadialItem

	open     bool
	stick    [2]float32
	selected int
	prevA    bool
}

func NewRadialMenu(items []RadialItem) *RadialMenu {
	return &RadialMenu{Items: items, selected: -1}
}

func (r *RadialMenu) IsOpen() bool { return r.open }

// Selected is the highlighted sector or -1
func (r *RadialMenu) Selected() int { return r.selected }

// Stick is the last normalised stick direction, y pointing down
func (r *RadialMenu) Stick() [2]float32 { return r.stick }

// Update consumes one gamepad sample. It returns the index of the item committed this frame or
// -1. A commit happens on the frame A goes from held to released while the menu is open.
func (r *RadialMenu) Update(pad GamepadState) int {
	wasA := r.prevA
	r.prevA = pad.Has(PadA)

	if len(r.Items) == 0 || !pad.Has(PadLeftShoulder|PadRightShoulder) {
		if r.open {
			SuppressGamepad(false)
		}
		r.open = false
		r.stick = [2]float32{}
		r.selected = -1
		return -1
	}

	r.open = true
	SuppressGamepad(true)

	x, y := float64(pad.ThumbLX), -float64(pad.ThumbLY)
	if norm := math.Hypot(x, y); norm > StickDeadzone {
		r.stick = [2]float32{float32(x / norm), float32(y / norm)}
		r.selected = Sector(r.stick, len(r.Items))
	}

	if wasA && !pad.Has(PadA) && r.selected >= 0 {
		return r.selected
	}
	return -1
}

// Sector maps a direction to one of n equal sectors, sector 0 centred straight up and the rest
// following clockwise.
func Sector(dir [2]float32, n int) int {
	if n <= 0 || (dir[0] == 0 && dir[1] == 0) {
		return -1
	}
	angle := math.Atan2(float64(dir[1]), float64(dir[0])) + math.Pi/2
	step := 2 * math.Pi / float64(n)
	i := int(math.Round(angle/step)) % n
	if i < 0 {
		i += n
	}
	return i
}
