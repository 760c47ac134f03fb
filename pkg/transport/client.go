package transport

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// readBufferSize is the per-read buffer for single-peer clients.
const readBufferSize = 32 * 1024

// streamClient is the single-peer transport over any net.Conn byte
// stream. It delivers raw reads verbatim; the engine owns framing.
type streamClient struct {
	peer   PeerID
	conn   net.Conn
	logger *slog.Logger

	mu     sync.Mutex // guards owner and writes
	owner  chan<- Notify
	closed atomic.Bool
}

// DialTCP connects to the host:port in cfg and starts the read loop.
func DialTCP(cfg Config, owner chan<- Notify) (Transport, error) {
	addr := net.JoinHostPort(cfg.Host, fmt.Sprint(cfg.Port))
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: dial tcp %s: %w", addr, err)
	}
	return newStreamClient(conn, cfg.logger(), owner), nil
}

// DialUnix connects to the filesystem socket path in cfg and starts the
// read loop.
func DialUnix(cfg Config, owner chan<- Notify) (Transport, error) {
	conn, err := net.Dial("unix", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("transport: dial unix %s: %w", cfg.Path, err)
	}
	return newStreamClient(conn, cfg.logger(), owner), nil
}

func newStreamClient(conn net.Conn, logger *slog.Logger, owner chan<- Notify) *streamClient {
	c := &streamClient{
		peer:   uuid.New(),
		conn:   conn,
		owner:  owner,
		logger: logger.With("peer", conn.RemoteAddr().String()),
	}
	go c.readLoop()
	return c
}

// readLoop delivers inbound bytes to the owner until the connection
// dies. Each notification carries its own copy of the bytes.
func (c *streamClient) readLoop() {
	buf := make([]byte, readBufferSize)
	for {
		n, err := c.conn.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			c.notify(Notify{Peer: c.peer, Kind: NotifyData, Data: data})
		}
		if err != nil {
			c.fail(err)
			return
		}
	}
}

// fail reports the read error upward unless the close was local.
func (c *streamClient) fail(err error) {
	if c.closed.Swap(true) {
		return
	}
	c.conn.Close()
	if errors.Is(err, io.EOF) {
		c.logger.Info("connection closed by remote")
		c.notify(Notify{Peer: c.peer, Kind: NotifyClosed})
		return
	}
	c.logger.Warn("read error", "error", err)
	c.notify(Notify{Peer: c.peer, Kind: NotifyError, Err: err})
}

func (c *streamClient) notify(n Notify) {
	c.mu.Lock()
	owner := c.owner
	c.mu.Unlock()
	if owner != nil {
		owner <- n
	}
}

// Send implements Transport.
func (c *streamClient) Send(data []byte) error {
	if c.closed.Load() {
		return ErrDisconnected
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.conn.Write(data); err != nil {
		return fmt.Errorf("transport: send: %w", err)
	}
	return nil
}

// Disconnect implements Transport.
func (c *streamClient) Disconnect() error {
	if c.closed.Swap(true) {
		return nil
	}
	return c.conn.Close()
}

// Connected implements Transport.
func (c *streamClient) Connected() bool {
	return !c.closed.Load()
}

// SetOwner implements Transport.
func (c *streamClient) SetOwner(owner chan<- Notify) {
	c.mu.Lock()
	c.owner = owner
	c.mu.Unlock()
}
