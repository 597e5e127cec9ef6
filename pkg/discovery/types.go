package discovery

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/probenet/probenet-go/pkg/transport"
)

// Service type constants for mDNS.
const (
	// ServiceType is the service type of probe responders.
	ServiceType = "_probenet._tcp"

	// Domain is the mDNS domain.
	Domain = "local"

	// ProtocolVersion is the value of the proto TXT record.
	ProtocolVersion = "1"
)

// TXT record keys.
const (
	TXTKeyFamily = "family" // Sensor family (ph, ec, rtd)
	TXTKeyName   = "name"   // Sensor name
	TXTKeyProto  = "proto"  // Protocol version
)

// Limits and defaults.
const (
	// MaxInstanceNameLen is the maximum DNS label length.
	MaxInstanceNameLen = 63

	// BrowseTimeout bounds Find when the context has no deadline.
	BrowseTimeout = 5 * time.Second
)

// Discovery errors.
var (
	ErrMissingRequired     = errors.New("missing required field")
	ErrUnsupportedProto    = errors.New("unsupported protocol version")
	ErrNotTCP              = errors.New("only tcp endpoints can be advertised")
	ErrInstanceNameTooLong = errors.New("instance name exceeds 63 characters")
	ErrNotFound            = errors.New("service not found")
)

// Info describes one responder to advertise.
type Info struct {
	// Name is the sensor name, used as the instance name.
	Name string

	// Family is the sensor family.
	Family string

	// Port is the TCP port the responder is bound to.
	Port uint16
}

// InfoFromURL builds advertisement info for a responder bound at u.
// The URL must be a tcp:// URL with a resolved port.
func InfoFromURL(name, family string, u transport.URL) (*Info, error) {
	if u.Scheme != transport.SchemeTCP {
		return nil, ErrNotTCP
	}
	_, portStr, err := net.SplitHostPort(u.Address)
	if err != nil {
		return nil, err
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil || port == 0 {
		return nil, fmt.Errorf("unresolved port in %s", u)
	}
	info := &Info{Name: name, Family: family, Port: uint16(port)}
	if err := info.Validate(); err != nil {
		return nil, err
	}
	return info, nil
}

// Validate checks the info can be announced.
func (i *Info) Validate() error {
	if err := ValidateInstanceName(i.Name); err != nil {
		return err
	}
	if i.Family == "" {
		return fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyFamily)
	}
	return nil
}

// Service is a discovered responder.
type Service struct {
	// InstanceName is the mDNS instance name.
	InstanceName string

	// Host is the advertised host name.
	Host string

	// Port is the responder's TCP port.
	Port uint16

	// Addresses are the resolved IP addresses, IPv4 first.
	Addresses []string

	// Name and Family are decoded from the TXT records.
	Name   string
	Family string
}

// URL returns the endpoint URL to connect to. The first resolved address
// is preferred over the host name.
func (s *Service) URL() string {
	host := s.Host
	if len(s.Addresses) > 0 {
		host = s.Addresses[0]
	}
	return string(transport.SchemeTCP) + "://" + net.JoinHostPort(host, strconv.Itoa(int(s.Port)))
}
