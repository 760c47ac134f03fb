package transport

import (
	"bytes"
	"errors"
	"net"
	"path/filepath"
	"testing"
	"time"
)

// acceptOne returns the next connection accepted by ln.
func acceptOne(t *testing.T, ln net.Listener) net.Conn {
	t.Helper()
	conn, err := ln.Accept()
	if err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestTCPClient(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	port := ln.Addr().(*net.TCPAddr).Port
	owner := make(chan Notify, 16)
	c, err := DialTCP(Config{Kind: KindTCP, Host: "127.0.0.1", Port: port}, owner)
	if err != nil {
		t.Fatalf("DialTCP() error = %v", err)
	}
	defer c.Disconnect()

	remote := acceptOne(t, ln)

	if !c.Connected() {
		t.Error("Connected() = false after dial")
	}

	// Outbound: Send reaches the remote verbatim.
	if err := c.Send([]byte("outbound")); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	got := make([]byte, 8)
	remote.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := readFull(remote, got); err != nil {
		t.Fatalf("remote read error = %v", err)
	}
	if !bytes.Equal(got, []byte("outbound")) {
		t.Errorf("remote received %q", got)
	}

	// Inbound: raw bytes are delivered verbatim, not framed.
	if _, err := remote.Write([]byte{0xAA, 0xBB}); err != nil {
		t.Fatal(err)
	}
	n := recvNotify(t, owner)
	if n.Kind != NotifyData || !bytes.Equal(n.Data, []byte{0xAA, 0xBB}) {
		t.Errorf("notify = %+v", n)
	}

	// Remote close surfaces as NotifyClosed and kills the handle.
	remote.Close()
	n = recvNotify(t, owner)
	if n.Kind != NotifyClosed {
		t.Errorf("Kind = %v, want NotifyClosed", n.Kind)
	}
	waitFor(t, func() bool { return !c.Connected() })
	if err := c.Send([]byte("late")); !errors.Is(err, ErrDisconnected) {
		t.Errorf("Send() after close error = %v, want ErrDisconnected", err)
	}
}

func TestTCPClientDialFailure(t *testing.T) {
	// Nothing listens here.
	_, err := DialTCP(Config{Kind: KindTCP, Host: "127.0.0.1", Port: 1}, nil)
	if err == nil {
		t.Fatal("DialTCP() to closed port succeeded")
	}
}

func TestUnixClient(t *testing.T) {
	path := filepath.Join(t.TempDir(), "renderer.sock")
	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	owner := make(chan Notify, 16)
	c, err := DialUnix(Config{Kind: KindUnix, Path: path}, owner)
	if err != nil {
		t.Fatalf("DialUnix() error = %v", err)
	}
	defer c.Disconnect()

	remote := acceptOne(t, ln)

	if err := c.Send([]byte("hello")); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	got := make([]byte, 5)
	remote.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := readFull(remote, got); err != nil {
		t.Fatalf("remote read error = %v", err)
	}
	if !bytes.Equal(got, []byte("hello")) {
		t.Errorf("remote received %q", got)
	}
}

func TestClientDisconnectIsLocal(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	owner := make(chan Notify, 16)
	c, err := DialTCP(Config{
		Kind: KindTCP,
		Host: "127.0.0.1",
		Port: ln.Addr().(*net.TCPAddr).Port,
	}, owner)
	if err != nil {
		t.Fatal(err)
	}
	acceptOne(t, ln)

	if err := c.Disconnect(); err != nil {
		t.Errorf("Disconnect() error = %v", err)
	}
	if c.Connected() {
		t.Error("Connected() = true after Disconnect")
	}

	// A deliberate local disconnect must not report Closed upward.
	select {
	case n := <-owner:
		t.Errorf("unexpected notification after local disconnect: %+v", n)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"tcp_server", Config{Kind: KindTCPServer, Port: 4000}, false},
		{"tcp_server_ephemeral", Config{Kind: KindTCPServer, Port: 0}, false},
		{"tcp_server_bad_port", Config{Kind: KindTCPServer, Port: 70000}, true},
		{"tcp", Config{Kind: KindTCP, Host: "render.local", Port: 4000}, false},
		{"tcp_no_host", Config{Kind: KindTCP, Port: 4000}, true},
		{"tcp_no_port", Config{Kind: KindTCP, Host: "render.local"}, true},
		{"unix", Config{Kind: KindUnix, Path: "/tmp/r.sock"}, false},
		{"unix_no_path", Config{Kind: KindUnix}, true},
		{"websocket", Config{Kind: KindWebSocket, URL: "ws://render.local/ws"}, false},
		{"websocket_no_url", Config{Kind: KindWebSocket}, true},
		{"unknown", Config{Kind: "quic"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"tcp_server", "tcp", "unix", "websocket"} {
		if _, err := ParseKind(s); err != nil {
			t.Errorf("ParseKind(%q) error = %v", s, err)
		}
	}
	if _, err := ParseKind("carrier-pigeon"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("ParseKind(bad) error = %v, want ErrUnknownKind", err)
	}
}
