package transport

import (
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/probenet/probenet-go/pkg/log"
)

// inbound is one frame handed from a peer reader to Recv.
type inbound struct {
	peer *peer
	data []byte
}

// server is the bound side of an endpoint: it accepts any number of peers
// and fair-queues their frames into one inbox.
type server struct {
	ln     net.Listener
	cfg    Config
	url    string
	inbox  chan inbound
	done   chan struct{}
	closed atomic.Bool
	wg     sync.WaitGroup

	peersMu sync.Mutex
	peers   map[*peer]struct{}
}

// peer is one accepted connection. Its reader owns a single receive buffer
// and waits until Recv has consumed a frame before reading the next one.
type peer struct {
	srv      *server
	conn     net.Conn
	framer   *Framer
	connID   string
	remote   string
	buf      []byte
	consumed chan struct{}
	gone     atomic.Bool
}

func newServer(ln net.Listener, url string, cfg Config) *server {
	s := &server{
		ln:    ln,
		cfg:   cfg,
		url:   url,
		inbox: make(chan inbound),
		done:  make(chan struct{}),
		peers: make(map[*peer]struct{}),
	}
	s.wg.Add(1)
	go s.acceptLoop()
	return s
}

func (s *server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if s.closed.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			s.logError("accept", err)
			// Back off on transient accept errors (e.g. EMFILE).
			select {
			case <-time.After(50 * time.Millisecond):
			case <-s.done:
				return
			}
			continue
		}

		p := &peer{
			srv:      s,
			conn:     conn,
			framer:   NewFramerWithMaxSize(conn, s.cfg.MaxMessageSize),
			connID:   uuid.New().String(),
			consumed: make(chan struct{}, 1),
		}
		if addr := conn.RemoteAddr(); addr != nil {
			p.remote = addr.String()
		}
		p.framer.SetLogger(s.cfg.Logger, p.connID)
		p.framer.SetPeer(log.RoleResponder, p.remote)

		s.peersMu.Lock()
		if s.closed.Load() {
			s.peersMu.Unlock()
			conn.Close()
			return
		}
		s.peers[p] = struct{}{}
		s.peersMu.Unlock()

		s.logState(p, "", "PEER_JOINED", "")

		s.wg.Add(1)
		go p.readLoop()
	}
}

func (p *peer) readLoop() {
	defer p.srv.wg.Done()
	defer p.leave()

	for {
		data, err := p.framer.ReadFrameInto(p.buf)
		if err != nil {
			if err != io.EOF && !p.srv.closed.Load() {
				p.srv.logError("read "+p.remote, err)
			}
			return
		}
		p.buf = data[:cap(data)]

		select {
		case p.srv.inbox <- inbound{peer: p, data: data}:
		case <-p.srv.done:
			return
		}

		select {
		case <-p.consumed:
		case <-p.srv.done:
			return
		}
	}
}

func (p *peer) leave() {
	p.gone.Store(true)
	p.conn.Close()

	s := p.srv
	s.peersMu.Lock()
	delete(s.peers, p)
	s.peersMu.Unlock()

	s.logState(p, "PEER_JOINED", "PEER_LEFT", "")
}

// send writes a reply to the peer. A peer that has left yields ErrPeerGone.
func (p *peer) send(b []byte) error {
	if p.gone.Load() {
		return ErrPeerGone
	}
	if d := p.srv.cfg.SendTimeout; d > 0 {
		p.conn.SetWriteDeadline(time.Now().Add(d))
		defer p.conn.SetWriteDeadline(time.Time{})
	}
	if err := p.framer.WriteFrame(b); err != nil {
		if errors.Is(err, ErrMessageTooLarge) || errors.Is(err, ErrMessageEmpty) {
			return err
		}
		p.conn.Close()
		return errors.Join(ErrPeerGone, err)
	}
	return nil
}

func (s *server) peerCount() int {
	s.peersMu.Lock()
	defer s.peersMu.Unlock()
	return len(s.peers)
}

func (s *server) close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(s.done)
	err := s.ln.Close()

	s.peersMu.Lock()
	for p := range s.peers {
		p.conn.Close()
	}
	s.peersMu.Unlock()

	s.wg.Wait()
	return err
}

func (s *server) logState(p *peer, oldState, newState, reason string) {
	s.cfg.Logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: p.connID,
		Layer:        log.LayerTransport,
		Category:     log.CategoryState,
		LocalRole:    log.RoleResponder,
		RemoteAddr:   p.remote,
		Endpoint:     s.url,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityEndpoint,
			OldState: oldState,
			NewState: newState,
			Reason:   reason,
		},
	})
}

func (s *server) logError(context string, err error) {
	s.cfg.Logger.Log(log.Event{
		Timestamp: time.Now(),
		Layer:     log.LayerTransport,
		Category:  log.CategoryError,
		LocalRole: log.RoleResponder,
		Endpoint:  s.url,
		Error: &log.ErrorEventData{
			Layer:   log.LayerTransport,
			Message: err.Error(),
			Kind:    string(KindSocketReceive),
			Context: context,
		},
	})
}
