package transport

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// wsClient is the single-peer transport over a WebSocket connection.
// Frames travel as binary messages, one protocol frame per message or
// fragmented across messages; either way the bytes are delivered
// verbatim and the engine's extractor reassembles them.
type wsClient struct {
	peer   PeerID
	conn   *websocket.Conn
	logger *slog.Logger

	mu     sync.Mutex // guards owner and writes
	owner  chan<- Notify
	closed atomic.Bool
}

// DialWebSocket connects to the ws:// or wss:// URL in cfg and starts
// the read loop.
func DialWebSocket(cfg Config, owner chan<- Notify) (Transport, error) {
	conn, _, err := websocket.DefaultDialer.Dial(cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("transport: dial websocket %s: %w", cfg.URL, err)
	}
	c := &wsClient{
		peer:   uuid.New(),
		conn:   conn,
		owner:  owner,
		logger: cfg.logger().With("url", cfg.URL),
	}
	go c.readLoop()
	return c, nil
}

func (c *wsClient) readLoop() {
	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			c.fail(err)
			return
		}
		if msgType != websocket.BinaryMessage {
			c.logger.Debug("ignoring non-binary message", "type", msgType)
			continue
		}
		c.notify(Notify{Peer: c.peer, Kind: NotifyData, Data: data})
	}
}

func (c *wsClient) fail(err error) {
	if c.closed.Swap(true) {
		return
	}
	c.conn.Close()
	if websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway) {
		c.logger.Info("connection closed by remote")
		c.notify(Notify{Peer: c.peer, Kind: NotifyClosed})
		return
	}
	c.logger.Warn("read error", "error", err)
	c.notify(Notify{Peer: c.peer, Kind: NotifyError, Err: err})
}

func (c *wsClient) notify(n Notify) {
	c.mu.Lock()
	owner := c.owner
	c.mu.Unlock()
	if owner != nil {
		owner <- n
	}
}

// Send implements Transport.
func (c *wsClient) Send(data []byte) error {
	if c.closed.Load() {
		return ErrDisconnected
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		return fmt.Errorf("transport: send: %w", err)
	}
	return nil
}

// Disconnect implements Transport.
func (c *wsClient) Disconnect() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}

// Connected implements Transport.
func (c *wsClient) Connected() bool {
	return !c.closed.Load()
}

// SetOwner implements Transport.
func (c *wsClient) SetOwner(owner chan<- Notify) {
	c.mu.Lock()
	c.owner = owner
	c.mu.Unlock()
}
