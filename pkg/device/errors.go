package device

import "errors"

// ErrorKind classifies device faults. Its value is the wire failure token.
type ErrorKind string

const (
	KindSensorTrouble ErrorKind = "sensor_trouble"
	KindPending       ErrorKind = "device_pending"
	KindDeviceError   ErrorKind = "device_error"
	KindNoData        ErrorKind = "device_no_data"
	KindUnsupported   ErrorKind = "unsupported"
)

// Device fault conditions reported by chips.
var (
	ErrPending     = errors.New("device is still processing")
	ErrSyntax      = errors.New("device rejected the command")
	ErrNoData      = errors.New("device has no data")
	ErrMalformed   = errors.New("malformed device reply")
	ErrUnsupported = errors.New("command not supported by device")
)

// Error is a device fault. Op names the command being executed.
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

// Token returns the wire failure token for the fault.
func (e *Error) Token() string { return string(e.Kind) }

// Fault builds a device error.
func Fault(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Trouble wraps a bus or decode failure as SensorTrouble.
func Trouble(op string, err error) *Error {
	return Fault(KindSensorTrouble, op, err)
}

// KindOf returns the fault kind carried by err. Errors that are not device
// faults classify as SensorTrouble: anything a driver returns is a hardware
// problem from the protocol's point of view.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindSensorTrouble
}
