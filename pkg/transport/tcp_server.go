package transport

import (
	"fmt"
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/drawbridge-dev/drawbridge/pkg/protocol"
)

// defaultAcceptTimeout bounds one blocking accept so the accept loop can
// observe shutdown without blocking anything else.
const defaultAcceptTimeout = 100 * time.Millisecond

// Server is the multi-client inbound TCP transport.
//
// It accepts any number of renderer connections, broadcasts every Send
// to all of them, and runs a per-peer frame extractor so the owner only
// ever sees complete frames, tagged with the originating peer. Peers
// that fail a read or a broadcast write are removed; the listener keeps
// listening. Connected is true while at least one peer is alive.
//
// All peer state lives in a single run loop goroutine. Accept and
// per-peer read goroutines only feed events into that loop.
type Server struct {
	cfg    Config
	ln     net.Listener
	addr   net.Addr
	logger *slog.Logger

	acceptCh chan net.Conn
	lnErrCh  chan error
	dataCh   chan peerData
	failCh   chan peerFail
	sendCh   chan sendReq
	ownerCh  chan chan<- Notify
	peersCh  chan chan []PeerInfo
	stopCh   chan chan error
	done     chan struct{}

	peerCount atomic.Int32
	stopped   atomic.Bool
}

// PeerInfo describes one connected peer for observability surfaces.
type PeerInfo struct {
	ID         PeerID `json:"id"`
	RemoteAddr string `json:"remote_addr"`
}

type serverPeer struct {
	id   PeerID
	conn net.Conn
	buf  []byte
}

type peerData struct {
	id   PeerID
	data []byte
}

type peerFail struct {
	id  PeerID
	err error
}

type sendReq struct {
	data  []byte
	reply chan error
}

// Listen binds the configured address and starts the server. The bind
// host defaults to all interfaces; SO_REUSEADDR is set by the runtime
// for TCP listeners.
func Listen(cfg Config, owner chan<- Notify) (*Server, error) {
	addr := net.JoinHostPort(cfg.Host, fmt.Sprint(cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: listen %s: %w", addr, err)
	}

	s := &Server{
		cfg:      cfg,
		ln:       ln,
		addr:     ln.Addr(),
		logger:   cfg.logger().With("listen", ln.Addr().String()),
		acceptCh: make(chan net.Conn),
		lnErrCh:  make(chan error, 1),
		dataCh:   make(chan peerData),
		failCh:   make(chan peerFail),
		sendCh:   make(chan sendReq),
		ownerCh:  make(chan chan<- Notify),
		peersCh:  make(chan chan []PeerInfo),
		stopCh:   make(chan chan error),
		done:     make(chan struct{}),
	}

	s.logger.Info("listening")
	go s.acceptLoop()
	go s.run(owner)
	return s, nil
}

// Addr returns the bound listen address.
func (s *Server) Addr() net.Addr {
	return s.addr
}

func (s *Server) maxPayload() uint32 {
	if s.cfg.MaxPayload > 0 {
		return s.cfg.MaxPayload
	}
	return protocol.DefaultMaxPayload
}

func (s *Server) acceptTimeout() time.Duration {
	if s.cfg.AcceptTimeout > 0 {
		return s.cfg.AcceptTimeout
	}
	return defaultAcceptTimeout
}

// acceptLoop accepts with a bounded timeout and re-polls, so shutdown is
// observed within one timeout interval.
func (s *Server) acceptLoop() {
	tl, _ := s.ln.(*net.TCPListener)
	for {
		if tl != nil {
			tl.SetDeadline(time.Now().Add(s.acceptTimeout()))
		}
		conn, err := s.ln.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			select {
			case s.lnErrCh <- err:
			case <-s.done:
			}
			return
		}
		select {
		case s.acceptCh <- conn:
		case <-s.done:
			conn.Close()
			return
		}
	}
}

// run is the server actor: the only goroutine that touches the peer map
// and the per-peer buffers.
func (s *Server) run(owner chan<- Notify) {
	defer close(s.done)

	peers := make(map[PeerID]*serverPeer)

	removePeer := func(id PeerID, reason string, err error) {
		p, ok := peers[id]
		if !ok {
			return
		}
		p.conn.Close()
		delete(peers, id)
		s.peerCount.Store(int32(len(peers)))
		s.logger.Info("peer removed",
			"peer", id,
			"remote", p.conn.RemoteAddr().String(),
			"reason", reason,
			"error", err)
	}

	for {
		select {
		case conn := <-s.acceptCh:
			p := &serverPeer{id: uuid.New(), conn: conn}
			peers[p.id] = p
			s.peerCount.Store(int32(len(peers)))
			s.logger.Info("peer accepted",
				"peer", p.id,
				"remote", conn.RemoteAddr().String(),
				"peers", len(peers))
			go s.readPeer(p.id, conn)

		case d := <-s.dataCh:
			p, ok := peers[d.id]
			if !ok {
				continue // bytes from a peer already removed
			}
			p.buf = append(p.buf, d.data...)
			frames, residual, err := protocol.ExtractMax(p.buf, s.maxPayload())
			if err != nil {
				removePeer(d.id, "oversize frame", err)
				continue
			}
			p.buf = residual
			for _, frame := range frames {
				if owner != nil {
					owner <- Notify{Peer: d.id, Kind: NotifyData, Data: frame}
				}
			}

		case f := <-s.failCh:
			removePeer(f.id, "read failed", f.err)

		case req := <-s.sendCh:
			// Broadcast to every peer; collect failures and remove them
			// after the iteration. The call reports success regardless
			// of per-peer outcomes (see Send).
			var failed []PeerID
			for id, p := range peers {
				if _, err := p.conn.Write(req.data); err != nil {
					s.logger.Warn("broadcast write failed", "peer", id, "error", err)
					failed = append(failed, id)
				}
			}
			for _, id := range failed {
				removePeer(id, "write failed", nil)
			}
			req.reply <- nil

		case owner = <-s.ownerCh:

		case reply := <-s.peersCh:
			infos := make([]PeerInfo, 0, len(peers))
			for id, p := range peers {
				infos = append(infos, PeerInfo{
					ID:         id,
					RemoteAddr: p.conn.RemoteAddr().String(),
				})
			}
			reply <- infos

		case err := <-s.lnErrCh:
			// Fatal listener failure. Close everything and report the
			// transport as gone; the engine decides whether to re-listen.
			s.logger.Warn("listener closed", "error", err)
			for id := range peers {
				removePeer(id, "listener closed", nil)
			}
			s.ln.Close()
			s.stopped.Store(true)
			if owner != nil {
				owner <- Notify{Kind: NotifyClosed}
			}
			return

		case reply := <-s.stopCh:
			for id := range peers {
				removePeer(id, "server stopped", nil)
			}
			err := s.ln.Close()
			s.logger.Info("stopped")
			reply <- err
			return
		}
	}
}

// readPeer reads raw bytes from one peer and feeds them to the run loop.
func (s *Server) readPeer(id PeerID, conn net.Conn) {
	buf := make([]byte, readBufferSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			select {
			case s.dataCh <- peerData{id: id, data: data}:
			case <-s.done:
				return
			}
		}
		if err != nil {
			select {
			case s.failCh <- peerFail{id: id, err: err}:
			case <-s.done:
			}
			return
		}
	}
}

// Send implements Transport by broadcasting to every live peer.
//
// Send reports nil even when individual peers fail or no peer is
// connected: failed peers are removed as a side effect and surviving
// peers receive the bytes. Callers that need delivery guarantees should
// consult Connected or Peers first.
func (s *Server) Send(data []byte) error {
	if s.stopped.Load() {
		return ErrDisconnected
	}
	req := sendReq{data: data, reply: make(chan error, 1)}
	select {
	case s.sendCh <- req:
		return <-req.reply
	case <-s.done:
		return ErrDisconnected
	}
}

// Disconnect implements Transport: closes every peer, then the listener,
// then stops the actor.
func (s *Server) Disconnect() error {
	if s.stopped.Swap(true) {
		return nil
	}
	reply := make(chan error, 1)
	select {
	case s.stopCh <- reply:
		return <-reply
	case <-s.done:
		return nil
	}
}

// Connected implements Transport: true iff at least one peer is alive.
func (s *Server) Connected() bool {
	return !s.stopped.Load() && s.peerCount.Load() > 0
}

// SetOwner implements Transport.
func (s *Server) SetOwner(owner chan<- Notify) {
	select {
	case s.ownerCh <- owner:
	case <-s.done:
	}
}

// Peers returns a snapshot of the connected peers.
func (s *Server) Peers() []PeerInfo {
	reply := make(chan []PeerInfo, 1)
	select {
	case s.peersCh <- reply:
		return <-reply
	case <-s.done:
		return nil
	}
}
