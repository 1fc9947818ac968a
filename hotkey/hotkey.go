// Package hotkey parses key chords from the configuration and detects their edges.
package hotkey

import (
	"fmt"
	"strings"
)

// State is one frame of keyboard input as the UI sees it
type State interface {
	// IsDown reports that k is held this frame
	IsDown(k Key) bool
	// Released reports that k was held on the previous frame and is up on this one
	Released(k Key) bool
	// WantsText reports that a text field owns the keyboard this frame
	WantsText() bool
}

// Hotkey is a key with an optional modifier, written "ctrl+f3" in the configuration
type Hotkey struct {
	Key      Key
	Modifier Key
}

// Parse reads "key" or "modifier+key"
func Parse(s string) (Hotkey, error) {
	parts := strings.Split(s, "+")
	// "+" on its own or as the last part means the add key
	if strings.HasSuffix(s, "++") || s == "+" {
		parts = append(parts[:len(parts)-2], "add")
	}

	var h Hotkey
	switch len(parts) {
	case 1:
	case 2:
		mod, ok := LookupKey(parts[0])
		if !ok || !mod.IsModifier() {
			return Hotkey{}, fmt.Errorf("%q is not a valid modifier in hotkey %q", parts[0], s)
		}
		h.Modifier = mod
	default:
		return Hotkey{}, fmt.Errorf("hotkey %q has more than one modifier", s)
	}

	key, ok := LookupKey(parts[len(parts)-1])
	if !ok {
		return Hotkey{}, fmt.Errorf("%q is not a valid key in hotkey %q", parts[len(parts)-1], s)
	}
	h.Key = key
	return h, nil
}

func MustParse(s string) Hotkey {
	h, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return h
}

// String is the stable display form, e.g. "Ctrl+F3"
func (h Hotkey) String() string {
	if h.Modifier == KeyNone {
		return h.Key.String()
	}
	return h.Modifier.String() + "+" + h.Key.String()
}

func (h Hotkey) IsZero() bool { return h.Key == KeyNone }

// KeyUp fires on the frame the key comes up while the modifier is held. A modifier released on
// the same frame still counts, since both were down when the key came up. It never fires while
// a text field has the keyboard.
func (h Hotkey) KeyUp(s State) bool {
	if h.IsZero() || s.WantsText() {
		return false
	}
	if h.Modifier != KeyNone && !s.IsDown(h.Modifier) && !s.Released(h.Modifier) {
		return false
	}
	return s.Released(h.Key)
}

// Keys lists the chord in press order, modifier first
func (h Hotkey) Keys() []Key {
	if h.Modifier == KeyNone {
		return []Key{h.Key}
	}
	return []Key{h.Modifier, h.Key}
}

func (h *Hotkey) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*h = v
	return nil
}

func (h Hotkey) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(h.String())), nil
}

// Label decorates a widget label with its hotkey, e.g. "Quitout (Ctrl+Q)"
func Label(text string, h *Hotkey) string {
	if h == nil || h.IsZero() {
		return text
	}
	return fmt.Sprintf("%s (%s)", text, h)
}
