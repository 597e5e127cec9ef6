package log

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// ErrTruncated reports a capture file that ends inside a record, which is
// what a daemon killed mid-write leaves behind.
var ErrTruncated = errors.New("capture ends inside a record")

// Reader streams the events of a capture file that pass a Filter.
type Reader struct {
	file   *os.File
	dec    *cbor.Decoder
	filter Filter
	read   int
}

// NewReader opens a capture file for reading every event.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader opens a capture file for reading the events that pass
// filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{file: f, dec: NewDecoder(f), filter: filter}, nil
}

// Next returns the next matching event, or io.EOF at the end of the file.
// A damaged record stops the stream: records are not self-delimiting, so
// nothing after it can be trusted.
func (r *Reader) Next() (Event, error) {
	for {
		var event Event
		err := r.dec.Decode(&event)
		switch {
		case err == io.EOF:
			return Event{}, io.EOF
		case errors.Is(err, io.ErrUnexpectedEOF):
			return Event{}, fmt.Errorf("%s: record %d: %w", r.file.Name(), r.read+1, ErrTruncated)
		case err != nil:
			return Event{}, fmt.Errorf("%s: record %d: %w", r.file.Name(), r.read+1, err)
		}
		r.read++

		if r.filter.Match(event) {
			return event, nil
		}
	}
}

// Records returns the number of records decoded so far, matching or not.
func (r *Reader) Records() int { return r.read }

// Close closes the capture file.
func (r *Reader) Close() error {
	return r.file.Close()
}
