package wire

import "strings"

// FailureToken is the leading token of every failure reply.
const FailureToken = "error"

// Failure is the reply sent in place of a response when a request could
// not be served. Kind is a snake_case token naming the failing stage.
type Failure struct {
	Kind   string
	Detail string
}

// String renders the failure frame.
func (f Failure) String() string {
	kind := f.Kind
	if kind == "" {
		kind = "internal"
	}
	s := FailureToken + Separator + kind
	if d := sanitize(f.Detail); d != "" {
		s += Separator + d
	}
	return s
}

// EncodeFailure renders a failure frame.
func EncodeFailure(f Failure) string {
	return f.String()
}

// DecodeFailure reports whether text is a failure frame and decodes it.
func DecodeFailure(text string) (Failure, bool) {
	if !IsFailure(text) {
		return Failure{}, false
	}
	parts := strings.SplitN(text, Separator, 3)
	if len(parts) < 2 || parts[1] == "" {
		return Failure{}, false
	}
	f := Failure{Kind: parts[1]}
	if len(parts) == 3 {
		f.Detail = parts[2]
	}
	return f, true
}

// IsFailure reports whether text starts with the failure token.
func IsFailure(text string) bool {
	return strings.HasPrefix(text, FailureToken+Separator)
}

// sanitize keeps details on a single line.
func sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return ' '
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
