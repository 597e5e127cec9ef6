package discovery

import (
	"context"
	"time"
)

// Advertiser announces responders on the local network.
type Advertiser interface {
	// Advertise starts announcing a responder. Advertising a name again
	// replaces the previous announcement.
	Advertise(ctx context.Context, info *Info) error

	// Stop withdraws the announcement for a sensor name.
	Stop(name string) error

	// StopAll withdraws every announcement.
	StopAll()
}

// AdvertiserConfig configures advertiser behavior.
type AdvertiserConfig struct {
	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string

	// TTL is the DNS record TTL.
	// Default: 120 seconds.
	TTL time.Duration
}

// DefaultAdvertiserConfig returns the default advertiser configuration.
func DefaultAdvertiserConfig() AdvertiserConfig {
	return AdvertiserConfig{
		Interface: "",
		TTL:       120 * time.Second,
	}
}
