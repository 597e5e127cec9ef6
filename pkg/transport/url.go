package transport

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Scheme is an endpoint transport.
type Scheme string

const (
	SchemeTCP    Scheme = "tcp"
	SchemeIPC    Scheme = "ipc"
	SchemeInproc Scheme = "inproc"
)

// URL is a parsed endpoint address.
//
//	tcp://host:port     host may be "*" to bind all interfaces
//	ipc:///path/to/sock a unix domain socket
//	inproc://name       a process-local endpoint
type URL struct {
	Scheme Scheme

	// Address is host:port, a socket path or an inproc name.
	Address string
}

// ParseURL validates an endpoint URL. Failures are AddressParse errors.
func ParseURL(s string) (URL, error) {
	scheme, rest, ok := strings.Cut(s, "://")
	if !ok {
		return URL{}, badURL(s, "missing scheme")
	}
	if rest == "" {
		return URL{}, badURL(s, "empty address")
	}

	u := URL{Scheme: Scheme(scheme), Address: rest}
	switch u.Scheme {
	case SchemeTCP:
		host, port, err := net.SplitHostPort(rest)
		if err != nil {
			return URL{}, badURL(s, err.Error())
		}
		if host == "" {
			return URL{}, badURL(s, "empty host")
		}
		if _, err := strconv.ParseUint(port, 10, 16); err != nil {
			return URL{}, badURL(s, fmt.Sprintf("invalid port %q", port))
		}
	case SchemeIPC, SchemeInproc:
		if strings.ContainsAny(rest, "\x00") {
			return URL{}, badURL(s, "NUL in address")
		}
	default:
		return URL{}, badURL(s, fmt.Sprintf("unknown scheme %q", scheme))
	}
	return u, nil
}

// MustParseURL is ParseURL for literals; it panics on error.
func MustParseURL(s string) URL {
	u, err := ParseURL(s)
	if err != nil {
		panic(err)
	}
	return u
}

func (u URL) String() string { return string(u.Scheme) + "://" + u.Address }

// network returns the net package network name and the address to listen
// on or dial.
func (u URL) network() (string, string) {
	switch u.Scheme {
	case SchemeTCP:
		if host, port, err := net.SplitHostPort(u.Address); err == nil && host == "*" {
			return "tcp", net.JoinHostPort("", port)
		}
		return "tcp", u.Address
	case SchemeIPC:
		return "unix", u.Address
	default:
		return string(u.Scheme), u.Address
	}
}

func badURL(s, reason string) error {
	return newError(KindAddressParse, s, fmt.Errorf("%w: %s", ErrBadURL, reason))
}
