// Package overlay is the per-frame driver that runs inside Present: it samples input, ticks the
// widgets, keeps the frame log and lays out the menu, the indicator bar and the log window.
package overlay

import "practicetool/chain"

// Mode is what the overlay shows
type Mode int

const (
	ModeClosed Mode = iota
	ModeMenuOpen
	ModeHidden
)

func (m Mode) String() string {
	switch m {
	case ModeClosed:
		return "closed"
	case ModeMenuOpen:
		return "menu open"
	case ModeHidden:
		return "hidden"
	}
	return "unknown"
}

// NextMode is the transition taken when the display hotkey comes up. shift is whether right
// shift is physically held.
func NextMode(cur Mode, shift bool) Mode {
	switch {
	case cur == ModeHidden:
		return ModeClosed
	case shift:
		return ModeHidden
	case cur == ModeMenuOpen:
		return ModeClosed
	default:
		return ModeMenuOpen
	}
}

// applyCursor makes the game's own cursor visible only while the menu is open
func applyCursor(cursor chain.Bitflag[uint8], m Mode) bool {
	return cursor.Set(m == ModeMenuOpen)
}
