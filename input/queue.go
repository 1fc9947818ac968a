package input

import (
	"slices"

	"practicetool/hotkey"
)

// Queue injects synthetic key presses: a key queued with Press is held for exactly one frame
// and released on the frame after.
type Queue struct {
	pending []hotkey.Key
	held    []hotkey.Key
}

// Press queues keys for the next Advance
func (q *Queue) Press(keys ...hotkey.Key) {
	q.pending = append(q.pending, keys...)
}

// Advance moves to the next frame. It returns the keys pressed this frame and the keys pressed
// on the previous frame, which are released now. A key still being released stays queued.
func (q *Queue) Advance() (pressed, released []hotkey.Key) {
	released = q.held
	q.held = nil

	var later []hotkey.Key
	for _, k := range q.pending {
		if slices.Contains(released, k) || slices.Contains(q.held, k) {
			later = append(later, k)
			continue
		}
		q.held = append(q.held, k)
	}
	q.pending = later
	return q.held, released
}

// Held lists the synthetic keys down this frame
func (q *Queue) Held() []hotkey.Key { return q.held }

// Idle reports that nothing is held or queued
func (q *Queue) Idle() bool { return len(q.pending) == 0 && len(q.held) == 0 }
