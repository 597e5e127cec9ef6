package wire

import (
	"errors"
	"unicode/utf8"
)

// ErrorKind classifies grammar failures.
type ErrorKind string

const (
	// KindCommandParse indicates an unknown token or malformed text.
	KindCommandParse ErrorKind = "command_parse"

	// KindNumberParse indicates a known verb with a missing or malformed argument.
	KindNumberParse ErrorKind = "number_parse"
)

// Grammar errors.
var (
	ErrUnknownToken = errors.New("unknown token")
	ErrInvalidUTF8  = errors.New("text is not valid UTF-8")
	ErrEmptyField   = errors.New("empty field")
	ErrArity        = errors.New("wrong number of arguments")
)

// Error is a grammar failure. Text is the offending input, possibly truncated.
type Error struct {
	Kind ErrorKind
	Text string
	Err  error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Text != "" {
		msg += " " + quote(e.Text)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the grammar kind carried by err, if any.
func KindOf(err error) (ErrorKind, bool) {
	var we *Error
	if errors.As(err, &we) {
		return we.Kind, true
	}
	return "", false
}

func parseError(kind ErrorKind, text string, err error) *Error {
	return &Error{Kind: kind, Text: text, Err: err}
}

const maxQuoted = 64

func quote(s string) string {
	if len(s) > maxQuoted {
		n := maxQuoted
		for n > 0 && !utf8.RuneStart(s[n]) {
			n--
		}
		s = s[:n] + "..."
	}
	return `"` + s + `"`
}
