package input

import (
	"testing"

	"practicetool/hotkey"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted replays one keyboard and gamepad sample per frame
type scripted struct {
	keys  [][]hotkey.Key
	pads  []GamepadState
	frame int
}

func (s *scripted) Keyboard(keys *[256]bool) {
	if s.frame < len(s.keys) {
		for _, k := range s.keys[s.frame] {
			keys[k] = true
		}
	}
}

func (s *scripted) Gamepad() (GamepadState, bool) {
	if s.frame < len(s.pads) {
		return s.pads[s.frame], true
	}
	return GamepadState{}, true
}

func (s *scripted) Mouse() MouseState { return MouseState{} }

func TestHeldKeyProducesOneEdgeEachWay(t *testing.T) {
	g := hotkey.Key('G')
	for _, n := range []int{1, 2, 7} {
		var st KeyState
		var pressed, released int
		frames := append(make([]bool, 2), make([]bool, n+3)...)
		for i := 2; i < 2+n; i++ {
			frames[i] = true
		}
		for _, down := range frames {
			var phys [256]bool
			phys[g] = down
			st.Advance(&phys, nil)
			if st.Pressed(g) {
				pressed++
			}
			if st.Released(g) {
				released++
			}
		}
		assert.Equal(t, 1, pressed, "n=%d", n)
		assert.Equal(t, 1, released, "n=%d", n)
	}
}

func TestQueueReleasesOnTheNextFrame(t *testing.T) {
	var q Queue
	q.Press(hotkey.KeyControl, 'Q')

	pressed, released := q.Advance()
	assert.Equal(t, []hotkey.Key{hotkey.KeyControl, 'Q'}, pressed)
	assert.Empty(t, released)

	// queued while Q is held: Q waits until its release frame has passed
	q.Press('Q')
	pressed, released = q.Advance()
	assert.Empty(t, pressed)
	assert.Equal(t, []hotkey.Key{hotkey.KeyControl, 'Q'}, released)

	pressed, released = q.Advance()
	assert.Equal(t, []hotkey.Key{'Q'}, pressed)
	assert.Empty(t, released)

	pressed, released = q.Advance()
	assert.Empty(t, pressed)
	assert.Equal(t, []hotkey.Key{'Q'}, released)
	assert.True(t, q.Idle())
}

func TestSyntheticChordFiresHotkeyOnce(t *testing.T) {
	h := hotkey.MustParse("ctrl+q")
	r := NewRouter(&scripted{}, nil)
	r.Queue.Press(h.Keys()...)

	fired := 0
	for i := 0; i < 5; i++ {
		r.Sample(false)
		if h.KeyUp(&r.Keys) {
			fired++
			assert.Equal(t, uint64(2), r.Keys.Frame())
		}
	}
	assert.Equal(t, 1, fired)
}

func TestSector(t *testing.T) {
	assert.Equal(t, 0, Sector([2]float32{0, -1}, 4))
	assert.Equal(t, 1, Sector([2]float32{1, 0}, 4))
	assert.Equal(t, 2, Sector([2]float32{0, 1}, 4))
	assert.Equal(t, 3, Sector([2]float32{-1, 0}, 4))
	assert.Equal(t, 0, Sector([2]float32{-0.1, -1}, 4))
	assert.Equal(t, -1, Sector([2]float32{}, 4))
	assert.Equal(t, 0, Sector([2]float32{1, 1}, 1))
}

func TestRadialMenuCommitsOncePerCycle(t *testing.T) {
	shoulders := PadLeftShoulder | PadRightShoulder
	// stick pulled down selects the second of two sectors
	down := GamepadState{Buttons: shoulders, ThumbLY: -30000}
	downA := GamepadState{Buttons: shoulders | PadA, ThumbLY: -30000}

	items := []RadialItem{
		{Label: "Quitout", Hotkey: hotkey.MustParse("ctrl+q")},
		{Label: "Souls", Hotkey: hotkey.MustParse("f5")},
	}
	src := &scripted{pads: []GamepadState{
		{}, down, downA, downA, downA, down, down, {Buttons: shoulders}, {}, {},
	}}
	r := NewRouter(src, items)

	f5 := hotkey.MustParse("f5")
	var commits, suppressedFrames, fired int
	for src.frame = 0; src.frame < 12; src.frame++ {
		r.Sample(false)
		if GamepadSuppressed() {
			suppressedFrames++
		}
		if r.Radial.IsOpen() {
			assert.Equal(t, 1, r.Radial.Selected())
		}
		if len(r.Queue.Held()) > 0 {
			commits++
		}
		if f5.KeyUp(&r.Keys) {
			fired++
		}
	}

	assert.Equal(t, 1, commits)
	assert.Equal(t, 1, fired)
	assert.Equal(t, 7, suppressedFrames)
	require.False(t, GamepadSuppressed())
	assert.False(t, r.Radial.IsOpen())
}

func TestRadialMenuIgnoresAWithoutSelection(t *testing.T) {
	shoulders := PadLeftShoulder | PadRightShoulder
	m := NewRadialMenu([]RadialItem{{Label: "x", Hotkey: hotkey.MustParse("f1")}})

	assert.Equal(t, -1, m.Update(GamepadState{Buttons: shoulders | PadA}))
	assert.Equal(t, -1, m.Update(GamepadState{Buttons: shoulders}))
	assert.Equal(t, -1, m.Update(GamepadState{}))
}
