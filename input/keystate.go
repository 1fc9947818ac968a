// Package input samples the keyboard, mouse and gamepad once per frame and merges in the
// synthetic key presses produced by the radial menu.
package input

import "practicetool/hotkey"

// KeyState holds this frame's and the previous frame's key sets
type KeyState struct {
	prev  [256]bool
	down  [256]bool
	text  bool
	frame uint64
}

var _ hotkey.State = (*KeyState)(nil)

// Advance starts a new frame from the physical sample plus the synthetic keys held this frame
func (s *KeyState) Advance(physical *[256]bool, synthetic []hotkey.Key) {
	s.prev = s.down
	if physical != nil {
		s.down = *physical
	} else {
		s.down = [256]bool{}
	}
	for _, k := range synthetic {
		s.down[k] = true
	}
	s.frame++
}

// SetWantsText records whether a text field owns the keyboard this frame
func (s *KeyState) SetWantsText(v bool) { s.text = v }

func (s *KeyState) IsDown(k hotkey.Key) bool   { return s.down[k] }
func (s *KeyState) Pressed(k hotkey.Key) bool  { return s.down[k] && !s.prev[k] }
func (s *KeyState) Released(k hotkey.Key) bool { return s.prev[k] && !s.down[k] }
func (s *KeyState) WantsText() bool            { return s.text }
func (s *KeyState) Frame() uint64              { return s.frame }

// Transitions lists the keys that went down and came up this frame
func (s *KeyState) Transitions() (pressed, released []hotkey.Key) {
	for i := range s.down {
		switch {
		case s.down[i] && !s.prev[i]:
			pressed = append(pressed, hotkey.Key(i))
		case !s.down[i] && s.prev[i]:
			released = append(released, hotkey.Key(i))
		}
	}
	return pressed, released
}
