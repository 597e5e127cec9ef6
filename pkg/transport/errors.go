package transport

import (
	"errors"
)

// ErrorKind classifies transport failures by the operation that failed.
type ErrorKind string

const (
	KindAddressParse  ErrorKind = "address_parse"
	KindSocketCreate  ErrorKind = "socket_create"
	KindSocketBind    ErrorKind = "socket_bind"
	KindSocketConnect ErrorKind = "socket_connect"
	KindSocketSend    ErrorKind = "socket_send"
	KindSocketReceive ErrorKind = "socket_receive"
	KindRequestParse  ErrorKind = "request_parse"
	KindResponseParse ErrorKind = "response_parse"
)

// Endpoint conditions.
var (
	ErrEndpointClosed = errors.New("endpoint closed")
	ErrLockstep       = errors.New("operation out of turn")
	ErrPeerGone       = errors.New("requesting peer disconnected")
	ErrStale          = errors.New("endpoint is stale, reset required")
	ErrInvalidUTF8    = errors.New("frame is not valid UTF-8")
	ErrNoListener     = errors.New("no endpoint bound to address")
	ErrAddressInUse   = errors.New("address already in use")
	ErrBadURL         = errors.New("malformed endpoint URL")
)

// Error is a transport failure. Endpoint is the URL involved.
type Error struct {
	Kind     ErrorKind
	Endpoint string
	Err      error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Endpoint != "" {
		msg += " " + e.Endpoint
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, endpoint string, err error) *Error {
	return &Error{Kind: kind, Endpoint: endpoint, Err: err}
}

// KindOf returns the transport kind carried by err, if any.
func KindOf(err error) (ErrorKind, bool) {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind, true
	}
	return "", false
}
