package interaction

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/probenet/probenet-go/pkg/log"
	"github.com/probenet/probenet-go/pkg/wire"
)

// Requester states reported to the protocol logger.
const (
	StateIdle          = "IDLE"
	StateAwaitingReply = "AWAITING_REPLY"
)

// Requester issues commands over a connected socket and decodes the
// replies. It is owned by one logical caller; a Call made while another is
// in flight fails with ErrCallInProgress and leaves the socket untouched.
type Requester[C, R fmt.Stringer] struct {
	sock   Socket
	codec  Codec[C, R]
	logger *slog.Logger
	trace  tracer
	busy   atomic.Bool
}

// NewRequester creates a requester over sock.
func NewRequester[C, R fmt.Stringer](sock Socket, codec Codec[C, R], opts Options) *Requester[C, R] {
	return &Requester[C, R]{
		sock:   sock,
		codec:  codec,
		logger: opts.Logger,
		trace: tracer{
			logger: opts.ProtocolLogger,
			connID: connIDOf(sock),
			role:   log.RoleRequester,
			entity: log.StateEntityRequester,
			family: familyOf(codec),
			sensor: opts.Sensor,
			state:  StateIdle,
		},
	}
}

// Call sends cmd and returns the decoded reply.
//
// Every call sends exactly one request and, if the send succeeded, receives
// exactly one reply. Send failures are CommandRequest errors, receive
// failures CommandResponse errors, and failure frames, undecodable replies
// and replies of the wrong variant are CommandReply errors. The requester
// stays usable after any of them.
//
// ctx bounds the socket reset that precedes a call after an abandoned
// exchange; the exchange itself is bounded by the socket's timeouts.
func (r *Requester[C, R]) Call(ctx context.Context, cmd C) (R, error) {
	var zero R
	text := cmd.String()

	if !r.busy.CompareAndSwap(false, true) {
		return zero, newError(KindCommandRequest, text, ErrCallInProgress)
	}
	defer r.busy.Store(false)

	if err := ctx.Err(); err != nil {
		return zero, newError(KindCommandRequest, text, err)
	}
	if rs, ok := r.sock.(Resetter); ok && rs.Stale() {
		if r.logger != nil {
			r.logger.Debug("Call: resetting stale socket", "command", text)
		}
		if err := rs.Reset(ctx); err != nil {
			return zero, r.fail(KindCommandRequest, text, err)
		}
	}

	if err := r.sock.Send([]byte(text)); err != nil {
		return zero, r.fail(KindCommandRequest, text, err)
	}
	r.trace.message(log.DirectionOut, log.MessageTypeRequest, text, "", nil)
	r.trace.transition(StateAwaitingReply, "")

	reply, err := r.sock.Recv()
	r.trace.transition(StateIdle, "")
	if err != nil {
		return zero, r.fail(KindCommandResponse, text, err)
	}

	if f, ok := wire.DecodeFailure(reply); ok {
		r.trace.message(log.DirectionIn, log.MessageTypeReply, reply, f.Kind, nil)
		return zero, r.fail(KindCommandReply, text, &RemoteError{Failure: f})
	}
	r.trace.message(log.DirectionIn, log.MessageTypeReply, reply, OutcomeOK, nil)

	resp, err := r.codec.ParseResponse(reply)
	if err != nil {
		return zero, r.fail(KindCommandReply, text, err)
	}
	if !r.codec.Matches(cmd, resp) {
		return zero, r.fail(KindCommandReply, text, fmt.Errorf("%w: %q", ErrUnexpectedReply, reply))
	}
	return resp, nil
}

// CallText decodes line as a command and calls it. Decode failures are
// CommandRequest errors wrapping the grammar error; nothing is sent.
func (r *Requester[C, R]) CallText(ctx context.Context, line string) (R, error) {
	cmd, err := r.codec.ParseCommand(line)
	if err != nil {
		var zero R
		return zero, newError(KindCommandRequest, line, err)
	}
	return r.Call(ctx, cmd)
}

func (r *Requester[C, R]) fail(kind ErrorKind, op string, err error) error {
	ie := newError(kind, op, err)
	r.trace.failure(log.LayerWire, string(kind), err, op)
	if r.logger != nil {
		r.logger.Debug("Call failed", "command", op, "kind", kind, "error", err)
	}
	return ie
}
