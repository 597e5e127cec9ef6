package transport

import (
	"bytes"
	"encoding/binary"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probenet/probenet-go/pkg/log"
)

func TestFrameWriterReader(t *testing.T) {
	payloads := map[string][]byte{
		"command":     []byte("calibrate 7.000"),
		"single byte": {0x42},
		"max size":    bytes.Repeat([]byte("y"), DefaultMaxMessageSize),
	}

	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewFrameWriter(&buf).WriteFrame(payload))
			assert.Equal(t, FrameSize(len(payload)), buf.Len())

			got, err := NewFrameReader(&buf).ReadFrame()
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		})
	}
}

func TestFrameWriterRejects(t *testing.T) {
	var buf bytes.Buffer
	w := NewFrameWriterWithMaxSize(&buf, 100)

	assert.ErrorIs(t, w.WriteFrame(nil), ErrMessageEmpty)
	assert.ErrorIs(t, w.WriteFrame(bytes.Repeat([]byte("x"), 101)), ErrMessageTooLarge)
	assert.Zero(t, buf.Len(), "rejected frames must not be written")
}

func rawFrame(length uint32, payload []byte) *bytes.Buffer {
	var buf bytes.Buffer
	var prefix [LengthPrefixSize]byte
	binary.BigEndian.PutUint32(prefix[:], length)
	buf.Write(prefix[:])
	buf.Write(payload)
	return &buf
}

func TestFrameReaderErrors(t *testing.T) {
	tests := []struct {
		name string
		in   io.Reader
		max  uint32
		want error
	}{
		{"eof", &bytes.Buffer{}, DefaultMaxMessageSize, io.EOF},
		{"too large", rawFrame(1000, bytes.Repeat([]byte("x"), 1000)), 100, ErrMessageTooLarge},
		{"empty", rawFrame(0, nil), DefaultMaxMessageSize, ErrMessageEmpty},
		{"truncated prefix", bytes.NewBuffer([]byte{0x00, 0x01}), DefaultMaxMessageSize, ErrFrameTruncated},
		{"truncated payload", rawFrame(100, bytes.Repeat([]byte("x"), 50)), DefaultMaxMessageSize, ErrFrameTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFrameReaderWithMaxSize(tt.in, tt.max).ReadFrame()
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestReadFrameIntoReusesBuffer(t *testing.T) {
	var buf bytes.Buffer
	w := NewFrameWriter(&buf)
	require.NoError(t, w.WriteFrame([]byte("read")))
	require.NoError(t, w.WriteFrame([]byte("sleep")))
	require.NoError(t, w.WriteFrame(bytes.Repeat([]byte("z"), 100)))

	r := NewFrameReader(&buf)
	scratch := make([]byte, 0, 16)

	first, err := r.ReadFrameInto(scratch)
	require.NoError(t, err)
	assert.Equal(t, "read", string(first))
	assert.Equal(t, &scratch[:1][0], &first[0], "frame should alias the buffer")

	second, err := r.ReadFrameInto(scratch)
	require.NoError(t, err)
	assert.Equal(t, "sleep", string(second))

	// Too small: a larger buffer is allocated.
	third, err := r.ReadFrameInto(scratch)
	require.NoError(t, err)
	assert.Len(t, third, 100)
}

// capturingLogger captures log events for testing.
type capturingLogger struct {
	mu     sync.Mutex
	events []log.Event
}

func (l *capturingLogger) Log(event log.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *capturingLogger) Events() []log.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]log.Event(nil), l.events...)
}

func (l *capturingLogger) States() []string {
	var out []string
	for _, e := range l.Events() {
		if e.StateChange != nil {
			out = append(out, e.StateChange.NewState)
		}
	}
	return out
}

func TestFramerLogsFrames(t *testing.T) {
	var buf bytes.Buffer
	logger := &capturingLogger{}

	f := NewFramer(&buf)
	f.SetLogger(logger, "conn-123")
	f.SetPeer(log.RoleRequester, "pipe")

	require.NoError(t, f.WriteFrame([]byte("read")))
	_, err := f.ReadFrame()
	require.NoError(t, err)

	events := logger.Events()
	require.Len(t, events, 2)
	assert.Equal(t, log.DirectionOut, events[0].Direction)
	assert.Equal(t, log.DirectionIn, events[1].Direction)
	for _, e := range events {
		assert.Equal(t, "conn-123", e.ConnectionID)
		assert.Equal(t, log.LayerTransport, e.Layer)
		assert.Equal(t, log.RoleRequester, e.LocalRole)
		assert.Equal(t, "pipe", e.RemoteAddr)
		require.NotNil(t, e.Frame)
		assert.Equal(t, 8, e.Frame.Size)
		assert.Equal(t, []byte("read"), e.Frame.Data)
	}
}

func TestFramerLogsTruncatedData(t *testing.T) {
	var buf bytes.Buffer
	logger := &capturingLogger{}
	w := NewFrameWriter(&buf)
	w.SetLogger(logger, "conn-trunc")

	require.NoError(t, w.WriteFrame(bytes.Repeat([]byte("x"), 5000)))

	events := logger.Events()
	require.Len(t, events, 1)
	assert.Equal(t, FrameSize(5000), events[0].Frame.Size)
	assert.Len(t, events[0].Frame.Data, MaxLogFrameDataSize)
	assert.True(t, events[0].Frame.Truncated)
}

func TestFramerNilLogger(t *testing.T) {
	var buf bytes.Buffer
	w := NewFrameWriter(&buf)
	w.SetLogger(nil, "conn-id")
	assert.NoError(t, w.WriteFrame([]byte("ok")))
}

func BenchmarkFrameRoundTrip(b *testing.B) {
	payload := []byte("calibrate_high 10.000")
	var buf bytes.Buffer
	w := NewFrameWriter(&buf)
	r := NewFrameReader(&buf)
	scratch := make([]byte, 64)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = w.WriteFrame(payload)
		_, _ = r.ReadFrameInto(scratch)
	}
}
