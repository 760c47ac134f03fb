// Package transport carries protocol frames between the driver engine
// and remote renderers.
//
// Four transports share one surface: three single-peer outbound clients
// (TCP, Unix-domain socket, WebSocket) and a multi-client inbound TCP
// server. Clients deliver raw inbound bytes and leave frame extraction
// to the engine; the server runs a per-peer frame extractor and delivers
// only complete frames.
//
// Inbound traffic reaches the owner as Notify values on a channel the
// owner provides. Ownership of that stream can be handed to another
// component with SetOwner.
package transport

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Transport errors.
var (
	ErrDisconnected = errors.New("transport: not connected")
	ErrUnknownKind  = errors.New("transport: unknown transport kind")
)

// Kind selects a transport implementation.
type Kind string

const (
	KindTCPServer Kind = "tcp_server"
	KindTCP       Kind = "tcp"
	KindUnix      Kind = "unix"
	KindWebSocket Kind = "websocket"
)

// ParseKind maps a configuration string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindTCPServer, KindTCP, KindUnix, KindWebSocket:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// PeerID identifies one connected peer. Single-peer clients mint one id
// at dial time; the server mints one per accepted connection.
type PeerID = uuid.UUID

// NotifyKind tags an inbound notification.
type NotifyKind uint8

const (
	// NotifyData carries inbound bytes: raw reads for single-peer
	// clients, exactly one complete frame for the server.
	NotifyData NotifyKind = iota

	// NotifyClosed reports the transport's connection is gone: the
	// remote end for clients, the listener for the server.
	NotifyClosed

	// NotifyError reports a transport-level failure; treated like
	// NotifyClosed by the engine.
	NotifyError
)

// Notify is an inbound notification from a transport to its owner.
type Notify struct {
	Peer PeerID
	Kind NotifyKind
	Data []byte
	Err  error
}

// Transport is the uniform surface the driver engine drives.
//
// Send transmits one encoded frame: to the single remote peer for
// clients, broadcast to every live peer for the server. Connected
// reports whether a send could reach anyone right now. Disconnect tears
// the transport down; afterwards the instance is non-functional and a
// fresh one must be dialed.
type Transport interface {
	Send(data []byte) error
	Disconnect() error
	Connected() bool
	SetOwner(owner chan<- Notify)
}

// Config carries the endpoint settings for every transport kind. Only
// the fields for the selected Kind are consulted.
type Config struct {
	Kind Kind

	// Host and Port locate the remote for KindTCP and the bind address
	// for KindTCPServer (empty host binds all interfaces).
	Host string
	Port int

	// Path is the filesystem socket path for KindUnix.
	Path string

	// URL is the ws:// or wss:// endpoint for KindWebSocket.
	URL string

	// MaxPayload bounds a single frame's announced payload size on the
	// server's receive path. Zero means protocol.DefaultMaxPayload.
	MaxPayload uint32

	// AcceptTimeout bounds one blocking accept on the server so the
	// accept loop can observe shutdown. Zero means 100ms.
	AcceptTimeout time.Duration

	// Logger receives transport lifecycle logs. Nil means slog.Default.
	Logger *slog.Logger
}

// Validate checks that the fields required by Kind are present.
func (c Config) Validate() error {
	switch c.Kind {
	case KindTCPServer:
		// Port 0 binds an ephemeral port; the bound address is available
		// from Server.Addr.
		if c.Port < 0 || c.Port > 65535 {
			return fmt.Errorf("transport: tcp_server needs a port in 0..65535, got %d", c.Port)
		}
	case KindTCP:
		if c.Host == "" {
			return errors.New("transport: tcp needs a host")
		}
		if c.Port <= 0 || c.Port > 65535 {
			return fmt.Errorf("transport: tcp needs a port in 1..65535, got %d", c.Port)
		}
	case KindUnix:
		if c.Path == "" {
			return errors.New("transport: unix needs a socket path")
		}
	case KindWebSocket:
		if c.URL == "" {
			return errors.New("transport: websocket needs a url")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, c.Kind)
	}
	return nil
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Dial creates and starts the transport selected by cfg.Kind. Inbound
// notifications are delivered to owner until the transport dies or
// ownership is transferred.
func Dial(cfg Config, owner chan<- Notify) (Transport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Kind {
	case KindTCPServer:
		return Listen(cfg, owner)
	case KindTCP:
		return DialTCP(cfg, owner)
	case KindUnix:
		return DialUnix(cfg, owner)
	case KindWebSocket:
		return DialWebSocket(cfg, owner)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}
}
