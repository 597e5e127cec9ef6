package ezo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/probenet/probenet-go/pkg/device"
)

// SplitReply splits a query reply such as "?I,pH,1.98" into its fields
// after checking the prefix. The prefix match ignores case because chip
// firmwares disagree on it ("?CAL" vs "?Cal").
func SplitReply(reply, prefix string, n int) ([]string, error) {
	parts := strings.Split(reply, ",")
	if !strings.EqualFold(parts[0], prefix) {
		return nil, fmt.Errorf("%w: %q does not start with %s", device.ErrMalformed, reply, prefix)
	}
	if len(parts)-1 < n {
		return nil, fmt.Errorf("%w: %q has %d fields, want %d", device.ErrMalformed, reply, len(parts)-1, n)
	}
	return parts[1:], nil
}

// ParseFloatField parses one numeric reply field.
func ParseFloatField(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", device.ErrMalformed, err)
	}
	return f, nil
}

// FormatValue renders a command argument the way the chips expect it.
func FormatValue(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
