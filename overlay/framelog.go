package overlay

import (
	"fmt"
	"time"
)

const (
	// LogLifetime is how long a frame log entry stays on screen
	LogLifetime = 5 * time.Second
	logVisible  = 3
)

type LogEntry struct {
	At   time.Time
	Text string
}

// FrameLog holds the operational messages drained from the widgets
type FrameLog struct {
	entries []LogEntry
}

func (l *FrameLog) Push(now time.Time, lines ...string) {
	for _, s := range lines {
		l.entries = append(l.entries, LogEntry{At: now, Text: s})
	}
}

// Evict drops every entry older than LogLifetime as of now
func (l *FrameLog) Evict(now time.Time) {
	i := 0
	for i < len(l.entries) && now.Sub(l.entries[i].At) > LogLifetime {
		i++
	}
	if i > 0 {
		l.entries = append(l.entries[:0], l.entries[i:]...)
	}
}

func (l *FrameLog) Entries() []LogEntry { return l.entries }

// Visible is the newest few entries, oldest first
func (l *FrameLog) Visible() []LogEntry {
	return l.entries[max(0, len(l.entries)-logVisible):]
}

// FormatIGT renders the in-game time, e.g. 3725123 ms as "IGT 01:02:05.12"
func FormatIGT(ms uint32) string {
	cs := ms % 1000 / 10
	s := ms / 1000
	return fmt.Sprintf("IGT %02d:%02d:%02d.%02d", s/3600, s/60%60, s%60, cs)
}

// FontSize picks the UI font pixel size for a display width
func FontSize(width float32) float64 {
	switch {
	case width > 2000:
		return 24
	case width > 1200:
		return 18
	default:
		return 11
	}
}
