package log

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Log(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func TestNoopLoggerIsZeroValue(t *testing.T) {
	var logger NoopLogger
	logger.Log(Event{Frame: &FrameEvent{Size: 5}})
}

func TestMultiLoggerFansOut(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	m := NewMultiLogger(a, nil, b)

	m.Log(Event{ConnectionID: "x"})

	if len(a.events) != 1 || len(b.events) != 1 {
		t.Fatalf("got %d/%d events, want 1/1", len(a.events), len(b.events))
	}
}

func TestWithSensor(t *testing.T) {
	rec := &recorder{}
	l := WithSensor(rec, "tank-ph")

	l.Log(Event{})
	l.Log(Event{Sensor: "other"})

	if rec.events[0].Sensor != "tank-ph" {
		t.Errorf("got %q, want tank-ph", rec.events[0].Sensor)
	}
	if rec.events[1].Sensor != "other" {
		t.Errorf("existing sensor overwritten: %q", rec.events[1].Sensor)
	}

	if _, ok := WithSensor(nil, "x").(NoopLogger); !ok {
		t.Error("nil logger should yield NoopLogger")
	}
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	a := NewSlogAdapter(slog.New(h))

	a.Log(Event{
		ConnectionID: "c1",
		LocalRole:    RoleRequester,
		Sensor:       "tank-ec",
		Message:      &MessageEvent{Type: MessageTypeRequest, Family: "ec", Token: "read", Text: "read"},
	})
	a.Log(Event{Error: &ErrorEventData{Layer: LayerTransport, Message: "boom", Kind: "socket_send"}})

	out := buf.String()
	for _, want := range []string{"role=REQUESTER", "sensor=tank-ec", "msg_type=REQUEST", "family=ec", "error_kind=socket_send"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEnumStrings(t *testing.T) {
	if DirectionIn.String() != "IN" || Direction(9).String() != "UNKNOWN" {
		t.Error("Direction strings")
	}
	if LayerDevice.String() != "DEVICE" || CategoryState.String() != "STATE" {
		t.Error("Layer/Category strings")
	}
	if MessageTypeReply.String() != "REPLY" || StateEntityResponder.String() != "RESPONDER" {
		t.Error("MessageType/StateEntity strings")
	}
	for _, r := range []Role{RoleResponder, RoleRequester} {
		got, ok := ParseRole(r.String())
		if !ok || got != r {
			t.Errorf("ParseRole(%q) = %v, %v", r.String(), got, ok)
		}
	}
}
