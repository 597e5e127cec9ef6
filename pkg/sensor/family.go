package sensor

import "fmt"

// Family names.
const (
	FamilyPH  = "ph"
	FamilyEC  = "ec"
	FamilyRTD = "rtd"
)

// Families lists every supported family name.
func Families() []string {
	return []string{FamilyPH, FamilyEC, FamilyRTD}
}

// Family binds one family's command grammar to its response grammar.
// Requesters and responders are parameterized by a Family instead of
// being written once per probe type.
type Family[C fmt.Stringer, R fmt.Stringer] struct {
	// Name is the family name, one of the Family* constants.
	Name string

	// DefaultAddress is the chip's factory I2C address.
	DefaultAddress uint16

	// Tokens lists the command tokens in lexical order.
	Tokens []string

	// Command decodes request text.
	Command func(text string) (C, error)

	// Response decodes reply text.
	Response func(text string) (R, error)

	// Expects reports whether r is the reply variant paired with cmd.
	// A nil Expects accepts every reply.
	Expects func(cmd C, r R) bool
}

// ParseCommand decodes request text into a command value.
func (f *Family[C, R]) ParseCommand(text string) (C, error) {
	return f.Command(text)
}

// ParseResponse decodes reply text into a response value.
func (f *Family[C, R]) ParseResponse(text string) (R, error) {
	return f.Response(text)
}

// Matches reports whether r is a valid reply to cmd.
func (f *Family[C, R]) Matches(cmd C, r R) bool {
	if f.Expects == nil {
		return true
	}
	return f.Expects(cmd, r)
}

// FamilyName returns f.Name.
func (f *Family[C, R]) FamilyName() string {
	return f.Name
}
