package wire

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Separator is the single token separator of the grammar.
const Separator = " "

// InvalidToken is emitted for verbs missing from a table. Peers reject it
// with a CommandParse failure instead of the encoder panicking.
const InvalidToken = "invalid"

// VerbSpec describes one verb of a family grammar.
type VerbSpec struct {
	// Token is the exact, case-sensitive wire token.
	Token string

	// Arg marks verbs that carry one numeric argument.
	Arg bool
}

// Table maps a family's closed verb set to its wire tokens.
// Tables are immutable after construction and safe for concurrent use.
type Table[V comparable] struct {
	specs   map[V]VerbSpec
	byToken map[string]V
	tokens  []string
}

// NewTable builds a table from verb specs.
// It panics on empty or duplicate tokens, which are programming errors.
func NewTable[V comparable](specs map[V]VerbSpec) *Table[V] {
	t := &Table[V]{
		specs:   make(map[V]VerbSpec, len(specs)),
		byToken: make(map[string]V, len(specs)),
	}
	for v, spec := range specs {
		if spec.Token == "" || strings.Contains(spec.Token, Separator) {
			panic(fmt.Sprintf("wire: invalid token %q", spec.Token))
		}
		if _, dup := t.byToken[spec.Token]; dup {
			panic(fmt.Sprintf("wire: duplicate token %q", spec.Token))
		}
		t.specs[v] = spec
		t.byToken[spec.Token] = v
		t.tokens = append(t.tokens, spec.Token)
	}
	sort.Strings(t.tokens)
	return t
}

// Spec returns the spec registered for v.
func (t *Table[V]) Spec(v V) (VerbSpec, bool) {
	spec, ok := t.specs[v]
	return spec, ok
}

// Token returns the wire token of v, or InvalidToken.
func (t *Table[V]) Token(v V) string {
	if spec, ok := t.specs[v]; ok {
		return spec.Token
	}
	return InvalidToken
}

// Tokens returns all tokens in lexical order.
func (t *Table[V]) Tokens() []string {
	out := make([]string, len(t.tokens))
	copy(out, t.tokens)
	return out
}

// Encode renders a verb and its argument. The argument is ignored for
// zero-argument verbs.
func (t *Table[V]) Encode(v V, arg float64) string {
	spec, ok := t.specs[v]
	if !ok {
		return InvalidToken
	}
	if !spec.Arg {
		return spec.Token
	}
	return spec.Token + Separator + FormatFloat(arg)
}

// Decode parses command text into a verb and argument.
// The argument is zero for zero-argument verbs.
func (t *Table[V]) Decode(text string) (V, float64, error) {
	var zero V

	fields, err := Fields(text)
	if err != nil {
		if v, ok := t.byToken[strings.TrimSuffix(text, Separator)]; ok && t.specs[v].Arg {
			// An argumented verb with a trailing separator is missing its number.
			return zero, 0, parseError(KindNumberParse, text, ErrArity)
		}
		return zero, 0, err
	}

	v, ok := t.byToken[fields[0]]
	if !ok {
		return zero, 0, parseError(KindCommandParse, text, ErrUnknownToken)
	}
	spec := t.specs[v]

	if !spec.Arg {
		if len(fields) != 1 {
			return zero, 0, parseError(KindCommandParse, text, ErrArity)
		}
		return v, 0, nil
	}

	if len(fields) != 2 {
		return zero, 0, parseError(KindNumberParse, text, ErrArity)
	}
	arg, err := ParseFloat(fields[1])
	if err != nil {
		return zero, 0, err
	}
	return v, arg, nil
}

// Fields splits text on single separators. Empty text, empty fields
// (leading, trailing or doubled separators) and invalid UTF-8 are
// CommandParse errors.
func Fields(text string) ([]string, error) {
	if !utf8.ValidString(text) {
		return nil, parseError(KindCommandParse, text, ErrInvalidUTF8)
	}
	if text == "" {
		return nil, parseError(KindCommandParse, text, ErrEmptyField)
	}
	fields := strings.Split(text, Separator)
	for _, f := range fields {
		if f == "" {
			return nil, parseError(KindCommandParse, text, ErrEmptyField)
		}
	}
	return fields, nil
}

// FormatFloat renders a value with exactly three fractional digits.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 3, 64)
}

// ParseFloat parses any float64 literal. Failures are NumberParse errors.
func ParseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, parseError(KindNumberParse, s, err)
	}
	return f, nil
}

// Expect checks that fields has the wanted token and argument count and
// returns the arguments.
func Expect(text string, token string, args int) ([]string, error) {
	fields, err := Fields(text)
	if err != nil {
		return nil, err
	}
	if fields[0] != token {
		return nil, parseError(KindCommandParse, text, ErrUnknownToken)
	}
	if len(fields)-1 != args {
		return nil, parseError(KindCommandParse, text, ErrArity)
	}
	return fields[1:], nil
}

// Head returns the leading token of text, or "" if text has none.
func Head(text string) string {
	if i := strings.Index(text, Separator); i >= 0 {
		return text[:i]
	}
	return text
}

// Unknown builds the CommandParse error for text whose leading token is not
// part of a grammar.
func Unknown(text string) error {
	if !utf8.ValidString(text) {
		return parseError(KindCommandParse, text, ErrInvalidUTF8)
	}
	return parseError(KindCommandParse, text, ErrUnknownToken)
}
