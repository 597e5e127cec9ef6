package interaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/probenet/probenet-go/pkg/device"
	"github.com/probenet/probenet-go/pkg/log"
	"github.com/probenet/probenet-go/pkg/transport"
	"github.com/probenet/probenet-go/pkg/wire"
)

// Responder states reported to the protocol logger.
const (
	StateAwaitingRequest = "AWAITING_REQUEST"
	StateProcessing      = "PROCESSING"
	StateReplying        = "REPLYING"
	StateStopped         = "STOPPED"
)

// Failure tokens that are neither grammar nor device kinds.
const (
	FailureRequestParse = "request_parse"
	FailureInternal     = "internal"
)

// errPanic marks a device that panicked while executing a command.
var errPanic = errors.New("device panicked")

// errRender marks a device response that has no valid wire form.
var errRender = errors.New("invalid response rendering")

// Responder serves one device over a bound socket. It is the only owner of
// the device: requests are handled one at a time, in receipt order, by the
// goroutine running Serve.
type Responder[C, R fmt.Stringer] struct {
	sock     Socket
	codec    Codec[C, R]
	dev      device.Device[C, R]
	logger   *slog.Logger
	observer Observer
	trace    tracer
}

// NewResponder creates a responder answering requests on sock with dev.
func NewResponder[C, R fmt.Stringer](sock Socket, codec Codec[C, R], dev device.Device[C, R], opts Options) *Responder[C, R] {
	return &Responder[C, R]{
		sock:     sock,
		codec:    codec,
		dev:      dev,
		logger:   opts.Logger,
		observer: opts.Observer,
		trace: tracer{
			logger: opts.ProtocolLogger,
			connID: connIDOf(sock),
			role:   log.RoleResponder,
			entity: log.StateEntityResponder,
			family: familyOf(codec),
			sensor: opts.Sensor,
		},
	}
}

// Serve runs the receive, decode, execute, encode, send loop.
//
// Every received request gets exactly one reply: decode and device failures
// are answered with failure frames and the loop continues. A receive failure
// ends the loop and is returned. Once ctx is cancelled Serve returns nil as
// soon as the pending receive fails, which happens when the caller closes
// the socket.
func (r *Responder[C, R]) Serve(ctx context.Context) error {
	r.trace.transition(StateAwaitingRequest, "serve")
	defer r.trace.transition(StateStopped, "")

	for {
		text, err := r.sock.Recv()
		start := time.Now()

		var reply string
		var obs Observation
		switch {
		case err == nil:
			reply, obs = r.handle(ctx, text)
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, os.ErrDeadlineExceeded):
			continue
		case isRequestParse(err):
			// The frame arrived but is not text. It is still owed a reply.
			r.trace.failure(log.LayerTransport, FailureRequestParse, err, "recv")
			f := wire.Failure{Kind: FailureRequestParse, Detail: transport.ErrInvalidUTF8.Error()}
			reply, obs = f.String(), Observation{Outcome: f.Kind}
		default:
			r.trace.failure(log.LayerTransport, transportKind(err), err, "recv")
			if r.logger != nil {
				r.logger.Error("Serve: receive failed", "sensor", r.trace.sensor, "error", err)
			}
			return err
		}

		if err := r.reply(reply, obs, start); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

// HandleRequest decodes text, executes it and returns the reply text. It
// never fails: errors are rendered as failure frames.
func (r *Responder[C, R]) HandleRequest(ctx context.Context, text string) string {
	reply, _ := r.handle(ctx, text)
	return reply
}

func (r *Responder[C, R]) handle(ctx context.Context, text string) (string, Observation) {
	r.trace.message(log.DirectionIn, log.MessageTypeRequest, text, "", nil)
	r.trace.transition(StateProcessing, "")

	cmd, err := r.codec.ParseCommand(text)
	if err != nil {
		f := failureFor(err)
		r.trace.failure(log.LayerWire, f.Kind, err, "decode")
		return f.String(), Observation{Outcome: f.Kind}
	}

	obs := Observation{Token: wire.Head(cmd.String())}
	began := time.Now()
	resp, err := r.execute(ctx, cmd)
	obs.Device = time.Since(began)

	if err != nil {
		f := failureFor(err)
		r.trace.failure(log.LayerDevice, f.Kind, err, obs.Token)
		if r.logger != nil {
			r.logger.Debug("handle: device failed", "sensor", r.trace.sensor, "command", obs.Token, "error", err)
		}
		obs.Outcome = f.Kind
		return f.String(), obs
	}

	reply, err := r.render(resp)
	if err != nil {
		f := wire.Failure{Kind: FailureInternal, Detail: err.Error()}
		r.trace.failure(log.LayerWire, f.Kind, err, obs.Token)
		if r.logger != nil {
			r.logger.Warn("handle: unusable device response", "sensor", r.trace.sensor, "command", obs.Token, "error", err)
		}
		obs.Outcome = f.Kind
		return f.String(), obs
	}
	obs.Outcome = OutcomeOK
	return reply, obs
}

// render encodes resp and checks that the requester will be able to decode
// it. A reply that cannot round-trip is answered as an internal failure.
func (r *Responder[C, R]) render(resp R) (reply string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", errRender, p)
		}
	}()
	if any(resp) == nil {
		return "", fmt.Errorf("%w: nil response", errRender)
	}
	reply = resp.String()
	if reply == "" || wire.IsFailure(reply) {
		return "", fmt.Errorf("%w: %q", errRender, reply)
	}
	if _, err := r.codec.ParseResponse(reply); err != nil {
		return "", fmt.Errorf("%w: %v", errRender, err)
	}
	return reply, nil
}

func (r *Responder[C, R]) execute(ctx context.Context, cmd C) (resp R, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", errPanic, p)
		}
	}()
	return r.dev.Execute(ctx, cmd)
}

// reply sends text. A vanished peer is not an error: its request was
// answered as far as this side can tell.
func (r *Responder[C, R]) reply(text string, obs Observation, start time.Time) error {
	r.trace.transition(StateReplying, "")

	err := r.sock.Send([]byte(text))
	if errors.Is(err, transport.ErrMessageTooLarge) {
		f := wire.Failure{Kind: FailureInternal, Detail: "response too large"}
		text, obs.Outcome = f.String(), f.Kind
		err = r.sock.Send([]byte(text))
	}
	obs.Total = time.Since(start)

	switch {
	case err == nil:
		took := obs.Total
		r.trace.message(log.DirectionOut, log.MessageTypeReply, text, obs.Outcome, &took)
	case errors.Is(err, transport.ErrPeerGone):
		r.trace.failure(log.LayerTransport, transportKind(err), err, "reply")
		if r.logger != nil {
			r.logger.Debug("reply: peer gone, reply dropped", "sensor", r.trace.sensor, "command", obs.Token)
		}
	default:
		r.trace.failure(log.LayerTransport, transportKind(err), err, "reply")
		return err
	}

	if r.observer != nil {
		r.observer.ObserveRequest(obs)
	}
	r.trace.transition(StateAwaitingRequest, "")
	return nil
}

// failureFor renders a decode or device error as a failure frame.
func failureFor(err error) wire.Failure {
	var we *wire.Error
	if errors.As(err, &we) {
		return wire.Failure{Kind: string(we.Kind), Detail: causeOf(we.Err, err)}
	}
	if errors.Is(err, errPanic) {
		return wire.Failure{Kind: FailureInternal, Detail: err.Error()}
	}
	var de *device.Error
	if errors.As(err, &de) {
		return wire.Failure{Kind: de.Token(), Detail: causeOf(de.Err, err)}
	}
	return wire.Failure{Kind: string(device.KindOf(err)), Detail: err.Error()}
}

func causeOf(inner, outer error) string {
	if inner != nil {
		return inner.Error()
	}
	return outer.Error()
}

func isRequestParse(err error) bool {
	kind, ok := transport.KindOf(err)
	return ok && kind == transport.KindRequestParse
}

func transportKind(err error) string {
	if kind, ok := transport.KindOf(err); ok {
		return string(kind)
	}
	return ""
}
