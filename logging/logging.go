// Package logging is the leveled logger shared by every component.
// Console output goes through gologger with a coloured component prefix; when a file sink is
// installed every record is also queued to it without blocking the caller.
package logging

import (
	"fmt"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

type Level int32

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelOff
)

var levelNames = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "OFF"}

func (l Level) String() string {
	if l < LevelTrace || l > LevelOff {
		return fmt.Sprintf("Level(%d)", int32(l))
	}
	return levelNames[l]
}

// ParseLevel accepts the level names case-insensitively
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelInfo, fmt.Errorf("%q is not a valid log level (want one of %s)", s, strings.Join(levelNames[:], "|"))
}

func (l *Level) UnmarshalText(text []byte) error {
	v, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

func (l Level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

var (
	minLevel atomic.Int32
	sink     atomic.Pointer[Sink]
)

func init() {
	minLevel.Store(int32(LevelDebug))
}

// SetLevel drops every record below l from now on
func SetLevel(l Level) {
	minLevel.Store(int32(l))
}

func CurrentLevel() Level {
	return Level(minLevel.Load())
}

// SetSink installs the file sink; nil detaches it
func SetSink(s *Sink) {
	sink.Store(s)
}

// Logger is a named source of records
type Logger struct {
	name    string
	console *logger.Logger
}

// New creates a logger whose console prefix is the component name
func New(name string) *Logger {
	return &Logger{
		name:    name,
		console: logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, name)),
	}
}

// NewFailed is a logger for an object that is not usable yet, red prefixed like a closed process
func NewFailed(name string) *Logger {
	return &Logger{
		name:    name,
		console: logger.NewLogger(coloransi.Color(coloransi.Red, coloransi.ColorOrange, name)),
	}
}

func (l *Logger) Name() string {
	return l.name
}

func (l *Logger) Enabled(level Level) bool {
	return level >= CurrentLevel() && level < LevelOff
}

func (l *Logger) log(level Level, depth int, msg string) {
	if !l.Enabled(level) {
		return
	}

	switch level {
	case LevelTrace, LevelDebug:
		l.console.Debugln(msg)
	case LevelInfo:
		l.console.Infoln(msg)
	default:
		l.console.Warn(level.String(), " ", msg)
	}

	s := sink.Load()
	if s == nil {
		return
	}
	_, file, line, ok := runtime.Caller(depth + 1)
	if !ok {
		file, line = "???", 0
	}
	s.Enqueue(Record{
		Time:     time.Now(),
		ThreadID: threadID(),
		File:     filepath.Base(file),
		Line:     line,
		Level:    level,
		Source:   l.name,
		Message:  msg,
	})
}

func (l *Logger) Tracef(format string, args ...any) { l.log(LevelTrace, 1, fmt.Sprintf(format, args...)) }
func (l *Logger) Debugf(format string, args ...any) { l.log(LevelDebug, 1, fmt.Sprintf(format, args...)) }
func (l *Logger) Infof(format string, args ...any)  { l.log(LevelInfo, 1, fmt.Sprintf(format, args...)) }
func (l *Logger) Warnf(format string, args ...any)  { l.log(LevelWarn, 1, fmt.Sprintf(format, args...)) }
func (l *Logger) Errorf(format string, args ...any) { l.log(LevelError, 1, fmt.Sprintf(format, args...)) }

func (l *Logger) Infoln(args ...any)  { l.log(LevelInfo, 1, strings.TrimSuffix(fmt.Sprintln(args...), "\n")) }
func (l *Logger) Debugln(args ...any) { l.log(LevelDebug, 1, strings.TrimSuffix(fmt.Sprintln(args...), "\n")) }

// Recover must be deferred directly. It logs a panic with its stack instead of letting it
// unwind into a caller that is not ours.
func (l *Logger) Recover(where string) {
	if r := recover(); r != nil {
		l.log(LevelError, 1, fmt.Sprintf("panic in %s: %v\n%s", where, r, debug.Stack()))
	}
}
