package interaction

import (
	"errors"

	"github.com/probenet/probenet-go/pkg/wire"
)

// ErrorKind classifies requester failures by the stage of the call that
// failed.
type ErrorKind string

const (
	// KindCommandRequest is a failure before or while sending the request.
	KindCommandRequest ErrorKind = "command_request"

	// KindCommandResponse is a failure while receiving the reply.
	KindCommandResponse ErrorKind = "command_response"

	// KindCommandReply is a reply that is malformed, a failure frame, or not
	// the variant the command expects.
	KindCommandReply ErrorKind = "command_reply"
)

// Requester conditions.
var (
	ErrCallInProgress  = errors.New("call already in progress")
	ErrUnexpectedReply = errors.New("reply does not match command")
)

// Error is a requester failure. Op is the command text.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg += " (" + e.Op + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the requester kind carried by err, if any.
func KindOf(err error) (ErrorKind, bool) {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Kind, true
	}
	return "", false
}

// RemoteError is a failure frame received in place of a response.
type RemoteError struct {
	Failure wire.Failure
}

func (e *RemoteError) Error() string {
	msg := "remote failure " + e.Failure.Kind
	if e.Failure.Detail != "" {
		msg += ": " + e.Failure.Detail
	}
	return msg
}

// Kind returns the failure token sent by the responder.
func (e *RemoteError) Kind() string { return e.Failure.Kind }

// RemoteKind returns the failure token of a RemoteError in err's chain.
func RemoteKind(err error) (string, bool) {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Failure.Kind, true
	}
	return "", false
}
