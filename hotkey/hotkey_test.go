package hotkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frame struct {
	down, prev map[Key]bool
	text       bool
}

func (f frame) IsDown(k Key) bool   { return f.down[k] }
func (f frame) Released(k Key) bool { return f.prev[k] && !f.down[k] }
func (f frame) WantsText() bool     { return f.text }

func TestParseAndDisplay(t *testing.T) {
	cases := []struct {
		in      string
		want    Hotkey
		display string
	}{
		{"0", Hotkey{Key: '0'}, "0"},
		{"g", Hotkey{Key: 'G'}, "G"},
		{"F3", Hotkey{Key: KeyF1 + 2}, "F3"},
		{"ctrl+f3", Hotkey{Key: KeyF1 + 2, Modifier: KeyControl}, "Ctrl+F3"},
		{"rshift+pageup", Hotkey{Key: KeyPrior, Modifier: KeyRShift}, "RShift+PageUp"},
		{"alt+numpad5", Hotkey{Key: KeyNumpad0 + 5, Modifier: KeyMenu}, "Alt+Numpad5"},
		{"ctrl++", Hotkey{Key: KeyAdd, Modifier: KeyControl}, "Ctrl+Add"},
		{"f24", Hotkey{Key: KeyF1 + 23}, "F24"},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			h, err := Parse(c.in)
			require.NoError(t, err)
			assert.Equal(t, c.want, h)
			assert.Equal(t, c.display, h.String())

			text, err := h.MarshalText()
			require.NoError(t, err)
			var back Hotkey
			require.NoError(t, back.UnmarshalText(text))
			assert.Equal(t, h, back)
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"", "nonesuch", "g+f3", "ctrl+shift+f3", "ctrl+"} {
		_, err := Parse(in)
		assert.Error(t, err, in)
	}
}

func TestKeyUpNeedsModifierAndRelease(t *testing.T) {
	h := MustParse("ctrl+f3")
	f3 := KeyF1 + 2

	released := frame{prev: map[Key]bool{f3: true, KeyControl: true}, down: map[Key]bool{KeyControl: true}}
	assert.True(t, h.KeyUp(released))

	noMod := frame{prev: map[Key]bool{f3: true}, down: map[Key]bool{}}
	assert.False(t, h.KeyUp(noMod))

	both := frame{prev: map[Key]bool{f3: true, KeyControl: true}, down: map[Key]bool{}}
	assert.True(t, h.KeyUp(both))

	held := frame{prev: map[Key]bool{f3: true, KeyControl: true}, down: map[Key]bool{f3: true, KeyControl: true}}
	assert.False(t, h.KeyUp(held))

	released.text = true
	assert.False(t, h.KeyUp(released))

	assert.False(t, Hotkey{}.KeyUp(released))
}

func TestLabel(t *testing.T) {
	h := MustParse("ctrl+q")
	assert.Equal(t, "Quitout (Ctrl+Q)", Label("Quitout", &h))
	assert.Equal(t, "Quitout", Label("Quitout", nil))
	assert.Equal(t, []Key{KeyControl, 'Q'}, h.Keys())
}
