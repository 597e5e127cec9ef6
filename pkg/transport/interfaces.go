package transport

import (
	"context"
	"io"
	"net"
)

// FrameReadWriter provides length-prefixed frame I/O.
// Implemented by Framer.
type FrameReadWriter interface {
	ReadFrame() ([]byte, error)
	WriteFrame(data []byte) error
}

// LockstepSocket is the role-agnostic surface of an Endpoint.
type LockstepSocket interface {
	io.Closer
	Send(b []byte) error
	Recv() (string, error)
}

// Resettable is implemented by sockets that can recover from a broken
// exchange by reconnecting.
type Resettable interface {
	Stale() bool
	Reset(ctx context.Context) error
}

// Compile-time interface satisfaction checks.
var (
	_ FrameReadWriter = (*Framer)(nil)
	_ LockstepSocket  = (*Endpoint)(nil)
	_ Resettable      = (*Endpoint)(nil)
	_ net.Listener    = (*inprocListener)(nil)
)
