package transport

import (
	"context"
	"errors"
	"net"
	"os"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/probenet/probenet-go/pkg/log"
)

// Endpoint states reported to the protocol logger.
const (
	StateBound     = "BOUND"
	StateConnected = "CONNECTED"
	StateStale     = "STALE"
	StateClosed    = "CLOSED"
)

type turn uint8

const (
	turnSend turn = iota
	turnRecv
)

func (t turn) String() string {
	if t == turnSend {
		return "send"
	}
	return "recv"
}

// Endpoint is a lockstep request/reply socket.
//
// A bound endpoint (responder role) alternates Recv, Send, Recv, ...; each
// Send answers the peer whose request was received last. A connected
// endpoint (requester role) alternates Send, Recv, Send, ... . Calls out of
// turn fail with ErrLockstep and leave the state unchanged.
//
// An Endpoint is owned by one goroutine. Close may be called from any
// goroutine and unblocks a pending Recv.
type Endpoint struct {
	url  URL
	role log.Role
	cfg  Config
	id   string

	mu     sync.Mutex
	turn   turn
	busy   bool
	closed bool
	stale  bool

	// Connected role.
	conn   net.Conn
	framer *Framer
	buf    []byte

	// Bound role.
	srv  *server
	last *peer
}

// Bind creates a bound endpoint listening on rawURL. The URL is validated
// before any socket is created.
func Bind(ctx context.Context, rawURL string, cfg Config) (*Endpoint, error) {
	u, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, newError(KindSocketBind, u.String(), err)
	}
	cfg = cfg.withDefaults()

	ln, kind, err := listen(u)
	if err != nil {
		return nil, newError(kind, u.String(), err)
	}

	bound := u
	if u.Scheme == SchemeTCP {
		bound.Address = ln.Addr().String()
	}
	e := &Endpoint{
		url:  bound,
		role: log.RoleResponder,
		cfg:  cfg,
		id:   uuid.New().String(),
		turn: turnRecv,
	}
	e.srv = newServer(ln, bound.String(), cfg)
	e.logState("", StateBound, "")
	return e, nil
}

// Connect creates a connected endpoint. The connection is established
// eagerly, bounded by Config.ConnectTimeout.
func Connect(ctx context.Context, rawURL string, cfg Config) (*Endpoint, error) {
	u, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	conn, err := dial(ctx, u, cfg.ConnectTimeout)
	if err != nil {
		return nil, newError(KindSocketConnect, u.String(), err)
	}

	e := &Endpoint{
		url:  u,
		role: log.RoleRequester,
		cfg:  cfg,
		id:   uuid.New().String(),
		turn: turnSend,
	}
	e.attach(conn)
	e.logState("", StateConnected, "")
	return e, nil
}

func (e *Endpoint) attach(conn net.Conn) {
	e.conn = conn
	e.framer = NewFramerWithMaxSize(conn, e.cfg.MaxMessageSize)
	e.framer.SetLogger(e.cfg.Logger, e.id)
	remote := ""
	if addr := conn.RemoteAddr(); addr != nil {
		remote = addr.String()
	}
	e.framer.SetPeer(e.role, remote)
}

// URL returns the endpoint address. For tcp binds the port is resolved.
func (e *Endpoint) URL() URL { return e.url }

// Role returns the endpoint's lockstep role.
func (e *Endpoint) Role() log.Role { return e.role }

// ID returns the capture connection ID of the endpoint.
func (e *Endpoint) ID() string { return e.id }

// Stale reports whether a connected endpoint needs Reset before use.
func (e *Endpoint) Stale() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stale
}

// PeerCount returns the number of connected peers of a bound endpoint.
func (e *Endpoint) PeerCount() int {
	if e.srv == nil {
		return 0
	}
	return e.srv.peerCount()
}

// Send transmits one frame.
func (e *Endpoint) Send(b []byte) error {
	if err := e.begin(turnSend); err != nil {
		return e.fail(KindSocketSend, err)
	}

	var err error
	if e.srv != nil {
		err = e.last.send(b)
	} else {
		err = e.sendConn(b)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.busy = false

	switch {
	case err == nil:
		e.turn = turnRecv
		return nil
	case errors.Is(err, ErrMessageTooLarge) || errors.Is(err, ErrMessageEmpty):
		// Rejected before anything was written; the turn is kept.
		return e.failLocked(KindSocketSend, err)
	case e.closed:
		return e.failLocked(KindSocketSend, ErrEndpointClosed)
	}

	if e.srv != nil {
		// The reply is dropped, as a REP socket does for a vanished peer.
		e.turn = turnRecv
		e.last = nil
	} else {
		e.markStaleLocked("send failed")
	}
	return e.failLocked(KindSocketSend, err)
}

func (e *Endpoint) sendConn(b []byte) error {
	if d := e.cfg.SendTimeout; d > 0 {
		e.conn.SetWriteDeadline(time.Now().Add(d))
		defer e.conn.SetWriteDeadline(time.Time{})
	}
	return e.framer.WriteFrame(b)
}

// Recv blocks for one frame and returns it as text. Invalid UTF-8 fails with
// RequestParse (bound role) or ResponseParse (connected role); the turn is
// consumed either way.
func (e *Endpoint) Recv() (string, error) {
	if err := e.begin(turnRecv); err != nil {
		return "", e.fail(KindSocketReceive, err)
	}
	if e.srv != nil {
		return e.recvBound()
	}
	return e.recvConn()
}

func (e *Endpoint) recvBound() (string, error) {
	var timeout <-chan time.Time
	if d := e.cfg.ReceiveTimeout; d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		timeout = t.C
	}

	select {
	case in := <-e.srv.inbox:
		text := string(in.data)
		in.peer.consumed <- struct{}{}

		e.mu.Lock()
		defer e.mu.Unlock()
		e.busy = false
		e.turn = turnSend
		e.last = in.peer
		if !utf8.ValidString(text) {
			return "", e.failLocked(KindRequestParse, ErrInvalidUTF8)
		}
		return text, nil

	case <-e.srv.done:
		e.mu.Lock()
		defer e.mu.Unlock()
		e.busy = false
		return "", e.failLocked(KindSocketReceive, ErrEndpointClosed)

	case <-timeout:
		e.mu.Lock()
		defer e.mu.Unlock()
		e.busy = false
		return "", e.failLocked(KindSocketReceive, os.ErrDeadlineExceeded)
	}
}

func (e *Endpoint) recvConn() (string, error) {
	if d := e.cfg.ReceiveTimeout; d > 0 {
		e.conn.SetReadDeadline(time.Now().Add(d))
		defer e.conn.SetReadDeadline(time.Time{})
	}
	data, err := e.framer.ReadFrameInto(e.buf)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.busy = false

	if err != nil {
		if e.closed {
			return "", e.failLocked(KindSocketReceive, ErrEndpointClosed)
		}
		// A late reply would answer the wrong request: the connection
		// cannot be reused.
		reason := "receive failed"
		if errors.Is(err, os.ErrDeadlineExceeded) {
			reason = "receive timeout"
		}
		e.markStaleLocked(reason)
		return "", e.failLocked(KindSocketReceive, err)
	}

	e.buf = data[:cap(data)]
	e.turn = turnSend
	text := string(data)
	if !utf8.ValidString(text) {
		return "", e.failLocked(KindResponseParse, ErrInvalidUTF8)
	}
	return text, nil
}

// Reset re-dials a connected endpoint and restores the send turn. It is
// how a requester recovers after a timed-out or failed exchange.
func (e *Endpoint) Reset(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return e.fail(KindSocketConnect, ErrEndpointClosed)
	}
	if e.srv != nil || e.busy {
		e.mu.Unlock()
		return e.fail(KindSocketConnect, ErrLockstep)
	}
	e.busy = true
	old, wasStale := e.conn, e.stale
	e.mu.Unlock()

	old.Close()
	conn, err := dial(ctx, e.url, e.cfg.ConnectTimeout)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.busy = false
	if err != nil {
		e.stale = true
		return e.failLocked(KindSocketConnect, err)
	}
	if e.closed {
		conn.Close()
		return e.failLocked(KindSocketConnect, ErrEndpointClosed)
	}
	e.attach(conn)
	e.turn = turnSend
	e.stale = false
	oldState := StateConnected
	if wasStale {
		oldState = StateStale
	}
	e.logState(oldState, StateConnected, "reset")
	return nil
}

// Close releases the endpoint. It is idempotent.
func (e *Endpoint) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	srv, conn := e.srv, e.conn
	e.mu.Unlock()

	var err error
	if srv != nil {
		err = multierr.Append(err, srv.close())
	}
	if conn != nil {
		err = multierr.Append(err, conn.Close())
	}
	e.logState("", StateClosed, "")
	return err
}

// begin claims the endpoint for one operation in the wanted turn.
func (e *Endpoint) begin(want turn) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case e.closed:
		return ErrEndpointClosed
	case e.busy:
		return ErrLockstep
	case e.stale:
		return ErrStale
	case e.turn != want:
		return ErrLockstep
	}
	if want == turnSend && e.srv != nil && (e.last == nil || e.last.gone.Load()) {
		// The requester left while its request was processed.
		e.turn = turnRecv
		e.last = nil
		return ErrPeerGone
	}
	e.busy = true
	return nil
}

func (e *Endpoint) markStaleLocked(reason string) {
	if e.stale {
		return
	}
	e.stale = true
	e.logState(StateConnected, StateStale, reason)
}

func (e *Endpoint) fail(kind ErrorKind, err error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.failLocked(kind, err)
}

func (e *Endpoint) failLocked(kind ErrorKind, err error) error {
	te := newError(kind, e.url.String(), err)
	e.cfg.Logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: e.id,
		Layer:        log.LayerTransport,
		Category:     log.CategoryError,
		LocalRole:    e.role,
		Endpoint:     e.url.String(),
		Error: &log.ErrorEventData{
			Layer:   log.LayerTransport,
			Message: err.Error(),
			Kind:    string(kind),
			Context: "turn=" + e.turn.String(),
		},
	})
	return te
}

func (e *Endpoint) logState(oldState, newState, reason string) {
	e.cfg.Logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: e.id,
		Layer:        log.LayerTransport,
		Category:     log.CategoryState,
		LocalRole:    e.role,
		Endpoint:     e.url.String(),
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityEndpoint,
			OldState: oldState,
			NewState: newState,
			Reason:   reason,
		},
	})
}
