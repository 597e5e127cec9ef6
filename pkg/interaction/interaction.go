package interaction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/probenet/probenet-go/pkg/log"
	"github.com/probenet/probenet-go/pkg/wire"
)

// Codec is one sensor family's grammar. *sensor.Family implements it.
type Codec[C, R fmt.Stringer] interface {
	ParseCommand(text string) (C, error)
	ParseResponse(text string) (R, error)

	// Matches reports whether r is a valid reply to cmd.
	Matches(cmd C, r R) bool
}

// Socket is a lockstep request/reply socket. *transport.Endpoint
// implements it.
type Socket interface {
	Send(b []byte) error
	Recv() (string, error)
}

// Resetter is implemented by sockets that can recover from an abandoned
// exchange, such as a connected endpoint whose receive timed out.
type Resetter interface {
	Stale() bool
	Reset(ctx context.Context) error
}

// Observation describes one request handled by a Responder.
type Observation struct {
	// Token is the command token, empty when the request did not decode.
	Token string

	// Outcome is "ok" or the failure token of the reply.
	Outcome string

	// Device is the time spent in the device (zero if it was not called).
	Device time.Duration

	// Total is the time from receipt to reply.
	Total time.Duration
}

// Observer receives one Observation per answered request.
type Observer interface {
	ObserveRequest(o Observation)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(o Observation)

// ObserveRequest calls f.
func (f ObserverFunc) ObserveRequest(o Observation) { f(o) }

// OutcomeOK is the outcome of a request answered with a response.
const OutcomeOK = "ok"

// Options configures a Requester or Responder.
type Options struct {
	// Sensor names the sensor in logs (optional).
	Sensor string

	// ProtocolLogger receives message and state events (optional).
	ProtocolLogger log.Logger

	// Logger is the optional logger for operational output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// Observer is called after each answered request (responder only).
	Observer Observer
}

// familyNamer is implemented by codecs that know their family name.
type familyNamer interface {
	FamilyName() string
}

// identified is implemented by sockets with a capture connection ID.
type identified interface {
	ID() string
}

func familyOf(codec any) string {
	if n, ok := codec.(familyNamer); ok {
		return n.FamilyName()
	}
	return ""
}

func connIDOf(sock any) string {
	if s, ok := sock.(identified); ok {
		return s.ID()
	}
	return ""
}

// tracer emits protocol capture events for one role.
type tracer struct {
	logger log.Logger
	connID string
	role   log.Role
	entity log.StateEntity
	family string
	sensor string
	state  string
}

func (t *tracer) event(e log.Event) {
	if t.logger == nil {
		return
	}
	e.Timestamp = time.Now()
	e.ConnectionID = t.connID
	e.LocalRole = t.role
	e.Sensor = t.sensor
	t.logger.Log(e)
}

func (t *tracer) message(dir log.Direction, typ log.MessageType, text, outcome string, took *time.Duration) {
	if t.logger == nil {
		return
	}
	t.event(log.Event{
		Direction: dir,
		Layer:     log.LayerWire,
		Category:  log.CategoryMessage,
		Message: &log.MessageEvent{
			Type:           typ,
			Family:         t.family,
			Token:          wire.Head(text),
			Text:           text,
			Outcome:        outcome,
			ProcessingTime: took,
		},
	})
}

func (t *tracer) transition(state, reason string) {
	old := t.state
	t.state = state
	if old == state {
		return
	}
	t.event(log.Event{
		Layer:    log.LayerWire,
		Category: log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Entity:   t.entity,
			OldState: old,
			NewState: state,
			Reason:   reason,
		},
	})
}

func (t *tracer) failure(layer log.Layer, kind string, err error, where string) {
	t.event(log.Event{
		Layer:    layer,
		Category: log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   layer,
			Message: err.Error(),
			Kind:    kind,
			Context: where,
		},
	})
}
