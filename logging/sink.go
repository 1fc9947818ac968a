package logging

import (
	"bufio"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// SinkCapacity bounds the records waiting for the writer
const SinkCapacity = 1024

type Record struct {
	Time     time.Time
	ThreadID int
	File     string
	Line     int
	Level    Level
	Source   string
	Message  string
}

// Format renders "timestamp, thread-id, file:line, LEVEL, message"
func (r Record) Format() string {
	return fmt.Sprintf("%s, %d, %s:%d, %s, [%s] %s",
		r.Time.Format(time.RFC3339Nano), r.ThreadID, r.File, r.Line, r.Level, r.Source, r.Message)
}

// Sink appends records to a file from a single worker goroutine
type Sink struct {
	file    *os.File
	ch      chan Record
	dropped atomic.Uint64
	done    chan struct{}
	once    sync.Once
}

// OpenSink truncates path and starts the writer
func OpenSink(path string) (*Sink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return newSink(f, SinkCapacity), nil
}

func newSink(f *os.File, capacity int) *Sink {
	s := &Sink{
		file: f,
		ch:   make(chan Record, capacity),
		done: make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *Sink) run() {
	defer close(s.done)
	w := bufio.NewWriter(s.file)
	for rec := range s.ch {
		w.WriteString(rec.Format())
		w.WriteByte('\n')
		// flush when the queue drains so a crash loses as little as possible
		if len(s.ch) == 0 {
			w.Flush()
		}
	}
	w.Flush()
}

// Enqueue never blocks; a full queue drops the record
func (s *Sink) Enqueue(rec Record) {
	defer func() {
		// closed channel after Close
		if recover() != nil {
			s.dropped.Add(1)
		}
	}()
	select {
	case s.ch <- rec:
	default:
		s.dropped.Add(1)
	}
}

func (s *Sink) Dropped() uint64 {
	return s.dropped.Load()
}

// File is the underlying log file, used as the runtime crash output
func (s *Sink) File() *os.File {
	return s.file
}

// Close drains the queue and closes the file
func (s *Sink) Close() error {
	var err error
	s.once.Do(func() {
		close(s.ch)
		<-s.done
		err = s.file.Close()
	})
	return err
}
