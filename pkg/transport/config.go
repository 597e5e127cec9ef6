package transport

import (
	"time"

	"github.com/probenet/probenet-go/pkg/log"
)

// DefaultConnectTimeout bounds Connect when Config.ConnectTimeout is zero.
const DefaultConnectTimeout = 5 * time.Second

// Config configures an endpoint.
type Config struct {
	// Logger receives frame, state and error events (optional).
	Logger log.Logger

	// MaxMessageSize is the maximum frame payload (default: 64KB).
	MaxMessageSize uint32

	// ConnectTimeout bounds Connect and Reset (default: 5s).
	ConnectTimeout time.Duration

	// ReceiveTimeout bounds each Recv (0 = block forever).
	ReceiveTimeout time.Duration

	// SendTimeout bounds each Send (0 = block forever).
	SendTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxMessageSize == 0 {
		c.MaxMessageSize = DefaultMaxMessageSize
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.Logger == nil {
		c.Logger = log.NoopLogger{}
	}
	return c
}
