package log

import (
	"time"
)

// Event is one protocol capture record.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID identifies the endpoint or peer connection (UUID).
	ConnectionID string `cbor:"2,keyasint"`

	Direction Direction `cbor:"3,keyasint"`
	Layer     Layer     `cbor:"4,keyasint"`
	Category  Category  `cbor:"5,keyasint"`

	// LocalRole is the lockstep role of the endpoint that logged the event.
	LocalRole Role `cbor:"6,keyasint,omitempty"`

	// RemoteAddr is the peer address, if the transport has one.
	RemoteAddr string `cbor:"7,keyasint,omitempty"`

	// Endpoint is the bound or connected URL.
	Endpoint string `cbor:"8,keyasint,omitempty"`

	// Sensor is the configured sensor name (responder side).
	Sensor string `cbor:"9,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Frame       *FrameEvent       `cbor:"10,keyasint,omitempty"`
	Message     *MessageEvent     `cbor:"11,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"12,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"14,keyasint,omitempty"`
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	DirectionIn  Direction = 0
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which layer captured the event.
type Layer uint8

const (
	// LayerTransport is the framing layer (raw bytes).
	LayerTransport Layer = 0
	// LayerWire is the textual command layer.
	LayerWire Layer = 1
	// LayerDevice is the hardware execution layer.
	LayerDevice Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerWire:
		return "WIRE"
	case LayerDevice:
		return "DEVICE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	CategoryMessage Category = 0
	CategoryState   Category = 2
	CategoryError   Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Role is the lockstep role of an endpoint.
type Role uint8

const (
	// RoleResponder answers requests (bound endpoint).
	RoleResponder Role = 0
	// RoleRequester issues requests (connected endpoint).
	RoleRequester Role = 1
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleResponder:
		return "RESPONDER"
	case RoleRequester:
		return "REQUESTER"
	default:
		return "UNKNOWN"
	}
}

// ParseRole parses a role name as printed by String.
func ParseRole(s string) (Role, bool) {
	switch s {
	case "RESPONDER", "responder":
		return RoleResponder, true
	case "REQUESTER", "requester":
		return RoleRequester, true
	}
	return 0, false
}

// FrameEvent captures raw frame data at the transport layer.
type FrameEvent struct {
	// Size is the frame size in bytes (including length prefix).
	Size int `cbor:"1,keyasint"`

	// Data is the raw frame bytes (may be truncated for large frames).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// MessageEvent captures a decoded request or reply.
type MessageEvent struct {
	Type MessageType `cbor:"1,keyasint"`

	// Family is the sensor family of the grammar in use.
	Family string `cbor:"2,keyasint,omitempty"`

	// Token is the leading token of the text.
	Token string `cbor:"3,keyasint,omitempty"`

	// Text is the full message text.
	Text string `cbor:"4,keyasint,omitempty"`

	// Outcome is "ok" or the failure token of a failure reply (replies only).
	Outcome string `cbor:"5,keyasint,omitempty"`

	// ProcessingTime is the duration from request receipt to reply send
	// (replies only). Stored as nanoseconds.
	ProcessingTime *time.Duration `cbor:"9,keyasint,omitempty"`
}

// MessageType distinguishes requests from replies.
type MessageType uint8

const (
	MessageTypeRequest MessageType = 0
	MessageTypeReply   MessageType = 1
)

// String returns the message type name.
func (m MessageType) String() string {
	switch m {
	case MessageTypeRequest:
		return "REQUEST"
	case MessageTypeReply:
		return "REPLY"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent captures endpoint and role lifecycle events.
type StateChangeEvent struct {
	Entity StateEntity `cbor:"1,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	NewState string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what entity changed state.
type StateEntity uint8

const (
	// StateEntityEndpoint is a socket: bound, connected, peer joined/left, closed.
	StateEntityEndpoint StateEntity = 0
	// StateEntityRequester is the requester state machine.
	StateEntityRequester StateEntity = 1
	// StateEntityResponder is the responder state machine.
	StateEntityResponder StateEntity = 2
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityEndpoint:
		return "ENDPOINT"
	case StateEntityRequester:
		return "REQUESTER"
	case StateEntityResponder:
		return "RESPONDER"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Kind is the error kind token, e.g. "socket_receive" or "sensor_trouble".
	Kind string `cbor:"3,keyasint,omitempty"`

	// Context describes what operation was being performed.
	Context string `cbor:"4,keyasint,omitempty"`
}
