package config

import "errors"

// ErrorKind classifies configuration failures.
type ErrorKind string

// KindConfigParse covers unreadable, undecodable and invalid files.
const KindConfigParse ErrorKind = "config_parse"

// Configuration conditions.
var (
	ErrUnknownFormat = errors.New("unknown config format")
	ErrUnknownKey    = errors.New("unknown config key")
	ErrUnknownLevel  = errors.New("unknown log level")
	ErrUnknownFamily = errors.New("unknown sensor family")
	ErrNoSensors     = errors.New("no sensors configured")
	ErrMissingField  = errors.New("missing required field")
	ErrDuplicateName = errors.New("duplicate sensor name")
	ErrDuplicateBind = errors.New("duplicate bind URL")
	ErrBadAddress    = errors.New("I2C address out of range")
)

// Error is a configuration failure. File is empty for in-memory data.
type Error struct {
	Kind ErrorKind
	File string
	Err  error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.File != "" {
		msg += " " + e.File
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func newError(file string, err error) *Error {
	return &Error{Kind: KindConfigParse, File: file, Err: err}
}
