package transport

import (
	"context"
	"net"
	"sync"
)

// inproc endpoints live in a process-wide registry. A connection is one
// net.Pipe; the bound side accepts its far end.
var inprocRegistry = struct {
	mu        sync.Mutex
	listeners map[string]*inprocListener
}{listeners: make(map[string]*inprocListener)}

type inprocAddr string

func (a inprocAddr) Network() string { return string(SchemeInproc) }
func (a inprocAddr) String() string  { return string(a) }

type inprocListener struct {
	name    string
	conns   chan net.Conn
	done    chan struct{}
	closeMu sync.Once
}

func listenInproc(name string) (*inprocListener, error) {
	inprocRegistry.mu.Lock()
	defer inprocRegistry.mu.Unlock()

	if _, taken := inprocRegistry.listeners[name]; taken {
		return nil, ErrAddressInUse
	}
	l := &inprocListener{
		name:  name,
		conns: make(chan net.Conn),
		done:  make(chan struct{}),
	}
	inprocRegistry.listeners[name] = l
	return l, nil
}

func dialInproc(ctx context.Context, name string) (net.Conn, error) {
	inprocRegistry.mu.Lock()
	l, ok := inprocRegistry.listeners[name]
	inprocRegistry.mu.Unlock()
	if !ok {
		return nil, ErrNoListener
	}

	local, remote := net.Pipe()
	select {
	case l.conns <- remote:
		return local, nil
	case <-l.done:
		local.Close()
		remote.Close()
		return nil, ErrNoListener
	case <-ctx.Done():
		local.Close()
		remote.Close()
		return nil, ctx.Err()
	}
}

func (l *inprocListener) Accept() (net.Conn, error) {
	select {
	case c := <-l.conns:
		return c, nil
	case <-l.done:
		return nil, net.ErrClosed
	}
}

func (l *inprocListener) Close() error {
	l.closeMu.Do(func() {
		inprocRegistry.mu.Lock()
		if inprocRegistry.listeners[l.name] == l {
			delete(inprocRegistry.listeners, l.name)
		}
		inprocRegistry.mu.Unlock()
		close(l.done)
	})
	return nil
}

func (l *inprocListener) Addr() net.Addr { return inprocAddr(l.name) }

