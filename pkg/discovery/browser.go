package discovery

import (
	"context"
	"time"
)

// Browser finds responders on the local network.
type Browser interface {
	// Browse emits each responder once, with the addresses known when it
	// was first resolved. The channel is closed when ctx is done.
	Browse(ctx context.Context) (<-chan *Service, error)

	// Find returns the responder advertising the given sensor name.
	Find(ctx context.Context, name string) (*Service, error)
}

// BrowserConfig configures browser behavior.
type BrowserConfig struct {
	// BrowseTimeout bounds Find when ctx has no deadline.
	// Default: 5 seconds.
	BrowseTimeout time.Duration

	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string
}

// DefaultBrowserConfig returns the default browser configuration.
func DefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		BrowseTimeout: BrowseTimeout,
		Interface:     "",
	}
}
