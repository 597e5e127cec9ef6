package transport

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"time"
)

// dial opens a connection for a connected endpoint.
func dial(ctx context.Context, u URL, timeout time.Duration) (net.Conn, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline && timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if u.Scheme == SchemeInproc {
		return dialInproc(ctx, u.Address)
	}
	network, addr := u.network()
	var d net.Dialer
	return d.DialContext(ctx, network, addr)
}

// listen opens the listener for a bound endpoint. Stale unix socket files
// left behind by a dead process are removed.
func listen(u URL) (net.Listener, ErrorKind, error) {
	switch u.Scheme {
	case SchemeInproc:
		l, err := listenInproc(u.Address)
		if err != nil {
			return nil, KindSocketBind, err
		}
		return l, "", nil

	case SchemeIPC:
		if dir := filepath.Dir(u.Address); dir != "" {
			if _, err := os.Stat(dir); err != nil {
				return nil, KindSocketCreate, err
			}
		}
		l, err := net.Listen("unix", u.Address)
		if err == nil {
			return l, "", nil
		}
		if !staleSocket(u.Address) {
			return nil, KindSocketBind, err
		}
		if rmErr := os.Remove(u.Address); rmErr != nil {
			return nil, KindSocketBind, err
		}
		l, err = net.Listen("unix", u.Address)
		if err != nil {
			return nil, KindSocketBind, err
		}
		return l, "", nil
	}

	network, addr := u.network()
	l, err := net.Listen(network, addr)
	if err != nil {
		return nil, KindSocketBind, err
	}
	return l, "", nil
}

// staleSocket reports whether path is a unix socket nobody listens on.
func staleSocket(path string) bool {
	fi, err := os.Lstat(path)
	if err != nil || fi.Mode()&os.ModeSocket == 0 {
		return false
	}
	c, err := net.DialTimeout("unix", path, 100*time.Millisecond)
	if err != nil {
		return true
	}
	c.Close()
	return false
}
