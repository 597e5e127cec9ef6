package log

import (
	"fmt"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"go.uber.org/multierr"
)

// FileLogger appends capture records to a file. Records from every
// endpoint and responder of a process share one file and are written whole,
// one at a time.
//
// A failed write leaves a partial record behind, so the logger stops
// writing after the first failure. Log never reports it: a full disk must
// not stall a responder. Close and Err do.
type FileLogger struct {
	mu      sync.Mutex
	file    *os.File
	enc     *cbor.Encoder
	err     error
	dropped int
	closed  bool
}

// NewFileLogger opens path for appending, creating it with mode 0644.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileLogger{file: f, enc: NewEncoder(f)}, nil
}

// Log writes event to the capture file.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch {
	case l.closed:
	case l.err != nil:
		l.dropped++
	default:
		if err := l.enc.Encode(event); err != nil {
			l.err = fmt.Errorf("write capture %s: %w", l.file.Name(), err)
		}
	}
}

// Err returns the first write failure, if any.
func (l *FileLogger) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Close closes the file and reports the first write failure together with
// the number of records dropped after it. Calling Close again returns nil.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	err := l.err
	if err != nil && l.dropped > 0 {
		err = fmt.Errorf("%w (%d later records dropped)", err, l.dropped)
	}
	return multierr.Append(err, l.file.Close())
}

var _ Logger = (*FileLogger)(nil)
