package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, LevelDebug, l)

	l, err = ParseLevel("OFF")
	require.NoError(t, err)
	assert.Equal(t, LevelOff, l)

	_, err = ParseLevel("loud")
	assert.ErrorContains(t, err, `"loud"`)
}

func TestRecordFormat(t *testing.T) {
	rec := Record{
		Time:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		ThreadID: 42,
		File:     "frame.go",
		Line:     17,
		Level:    LevelWarn,
		Source:   "overlay",
		Message:  "hello",
	}
	assert.Equal(t, "2024-01-02T03:04:05Z, 42, frame.go:17, WARN, [overlay] hello", rec.Format())
}

func TestSinkWritesAndTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "practicetool.log")
	require.NoError(t, os.WriteFile(path, []byte("stale contents\n"), 0644))

	s, err := OpenSink(path)
	require.NoError(t, err)
	SetSink(s)
	defer SetSink(nil)

	prev := CurrentLevel()
	SetLevel(LevelInfo)
	defer SetLevel(prev)

	log := New("test")
	log.Debugf("hidden %d", 1)
	log.Infof("visible %d", 2)
	log.Errorf("broken")

	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.NotContains(t, text, "stale")
	assert.NotContains(t, text, "hidden")
	assert.Contains(t, text, "logging_test.go:")
	assert.Contains(t, text, ", INFO, [test] visible 2")
	assert.Contains(t, text, ", ERROR, [test] broken")
	assert.Len(t, strings.Split(strings.TrimSpace(text), "\n"), 2)
}

func TestSinkDropsWhenFull(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "sink")
	require.NoError(t, err)

	// no worker: the channel fills and stays full
	s := &Sink{file: f, ch: make(chan Record, 2), done: make(chan struct{})}
	for i := 0; i < 5; i++ {
		s.Enqueue(Record{Message: "x"})
	}
	assert.Equal(t, uint64(3), s.Dropped())
	f.Close()
}

func TestRecoverSwallowsPanic(t *testing.T) {
	log := New("recover")
	assert.NotPanics(t, func() {
		defer log.Recover("test")
		panic("boom")
	})
}
