package transport

import (
	"bytes"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/drawbridge-dev/drawbridge/pkg/protocol"
)

// startServer starts a Server on an ephemeral port and returns it with
// its notification channel.
func startServer(t *testing.T, cfg Config) (*Server, chan Notify) {
	t.Helper()
	cfg.Kind = KindTCPServer
	owner := make(chan Notify, 64)
	s, err := Listen(cfg, owner)
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	t.Cleanup(func() { s.Disconnect() })
	return s, owner
}

// dialPeer connects a raw TCP peer to the server and waits until the
// server has registered it.
func dialPeer(t *testing.T, s *Server, want int) net.Conn {
	t.Helper()
	conn, err := net.Dial("tcp", s.Addr().String())
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	waitFor(t, func() bool { return len(s.Peers()) == want })
	return conn
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

// recvNotify waits for one notification.
func recvNotify(t *testing.T, ch chan Notify) Notify {
	t.Helper()
	select {
	case n := <-ch:
		return n
	case <-time.After(2 * time.Second):
		t.Fatal("no notification in time")
		return Notify{}
	}
}

func TestServerBroadcastTwoPeers(t *testing.T) {
	s, _ := startServer(t, Config{})

	p1 := dialPeer(t, s, 1)
	p2 := dialPeer(t, s, 2)

	f1 := protocol.EncodeReset()
	f2 := protocol.EncodePutScript(protocol.ID("a"), []byte("body"))
	if err := s.Send(f1); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if err := s.Send(f2); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	want := append(append([]byte{}, f1...), f2...)
	for i, p := range []net.Conn{p1, p2} {
		got := make([]byte, len(want))
		p.SetReadDeadline(time.Now().Add(2 * time.Second))
		if _, err := readFull(p, got); err != nil {
			t.Fatalf("peer %d read error = %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("peer %d received %v, want %v", i, got, want)
		}
	}
}

func TestServerForwardsCompleteFrames(t *testing.T) {
	s, owner := startServer(t, Config{})
	p := dialPeer(t, s, 1)

	frame := protocol.EncodeFrame(protocol.EventReshape,
		[]byte{0, 0, 3, 32, 0, 0, 9, 96})

	// Header first: no frame must surface yet.
	if _, err := p.Write(frame[:protocol.FrameHeaderSize]); err != nil {
		t.Fatal(err)
	}
	select {
	case n := <-owner:
		t.Fatalf("premature notification: %+v", n)
	case <-time.After(50 * time.Millisecond):
	}

	// Payload completes the frame: exactly one notification, intact.
	if _, err := p.Write(frame[protocol.FrameHeaderSize:]); err != nil {
		t.Fatal(err)
	}
	n := recvNotify(t, owner)
	if n.Kind != NotifyData {
		t.Fatalf("Kind = %v, want NotifyData", n.Kind)
	}
	if !bytes.Equal(n.Data, frame) {
		t.Errorf("Data = %v, want %v", n.Data, frame)
	}
}

func TestServerPerPeerOrder(t *testing.T) {
	s, owner := startServer(t, Config{})
	p := dialPeer(t, s, 1)

	frames := [][]byte{
		protocol.EncodeFrame(protocol.EventReady, nil),
		protocol.EncodeFrame(protocol.EventStats, make([]byte, 8)),
		protocol.EncodeFrame(protocol.EventLogInfo, []byte("x")),
	}
	for _, f := range frames {
		if _, err := p.Write(f); err != nil {
			t.Fatal(err)
		}
	}

	for i, want := range frames {
		n := recvNotify(t, owner)
		if !bytes.Equal(n.Data, want) {
			t.Errorf("frame %d = %v, want %v", i, n.Data, want)
		}
	}
}

func TestServerPeerCloseLeavesOther(t *testing.T) {
	s, _ := startServer(t, Config{})

	p1 := dialPeer(t, s, 1)
	p2 := dialPeer(t, s, 2)

	p1.Close()
	waitFor(t, func() bool { return len(s.Peers()) == 1 })

	if !s.Connected() {
		t.Error("Connected() = false with one live peer")
	}

	frame := protocol.EncodeRender()
	if err := s.Send(frame); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	got := make([]byte, len(frame))
	p2.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := readFull(p2, got); err != nil {
		t.Fatalf("surviving peer read error = %v", err)
	}
	if !bytes.Equal(got, frame) {
		t.Errorf("surviving peer received %v, want %v", got, frame)
	}
}

func TestServerConnected(t *testing.T) {
	s, _ := startServer(t, Config{})
	if s.Connected() {
		t.Error("Connected() = true with no peers")
	}
	p := dialPeer(t, s, 1)
	if !s.Connected() {
		t.Error("Connected() = false with one peer")
	}
	p.Close()
	waitFor(t, func() bool { return !s.Connected() })
}

func TestServerSendWithNoPeers(t *testing.T) {
	s, _ := startServer(t, Config{})
	// The broadcast contract is liberal: no peers is still a success.
	if err := s.Send(protocol.EncodeRender()); err != nil {
		t.Errorf("Send() error = %v, want nil", err)
	}
}

func TestServerOversizeFrameDropsPeer(t *testing.T) {
	s, owner := startServer(t, Config{MaxPayload: 16})
	p := dialPeer(t, s, 1)

	// Announce a payload beyond the limit.
	big := []byte{0x01, 0x00, 0x01, 0x00, 0x00}
	if _, err := p.Write(big); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return len(s.Peers()) == 0 })

	select {
	case n := <-owner:
		t.Fatalf("unexpected notification: %+v", n)
	default:
	}
}

func TestServerDisconnect(t *testing.T) {
	s, _ := startServer(t, Config{})
	p := dialPeer(t, s, 1)

	if err := s.Disconnect(); err != nil {
		t.Fatalf("Disconnect() error = %v", err)
	}
	if s.Connected() {
		t.Error("Connected() = true after Disconnect")
	}
	if err := s.Send([]byte{1}); !errors.Is(err, ErrDisconnected) {
		t.Errorf("Send() error = %v, want ErrDisconnected", err)
	}

	// The peer observes the close.
	p.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 1)
	if _, err := p.Read(buf); err == nil {
		t.Error("peer read succeeded after server disconnect")
	}
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
