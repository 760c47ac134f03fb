package transport

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// wsTestServer upgrades one connection and hands it to fn.
func wsTestServer(t *testing.T, fn func(conn *websocket.Conn)) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("Upgrade() error = %v", err)
			return
		}
		fn(conn)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWebSocketClient(t *testing.T) {
	fromServer := []byte{0x06, 0, 0, 0, 0}
	toServer := make(chan []byte, 1)

	url := wsTestServer(t, func(conn *websocket.Conn) {
		// Send one binary message, then echo back what arrives.
		if err := conn.WriteMessage(websocket.BinaryMessage, fromServer); err != nil {
			return
		}
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		toServer <- data
		conn.Close()
	})

	owner := make(chan Notify, 16)
	c, err := DialWebSocket(Config{Kind: KindWebSocket, URL: url}, owner)
	if err != nil {
		t.Fatalf("DialWebSocket() error = %v", err)
	}
	defer c.Disconnect()

	n := recvNotify(t, owner)
	if n.Kind != NotifyData || !bytes.Equal(n.Data, fromServer) {
		t.Fatalf("notify = %+v", n)
	}

	if err := c.Send([]byte("input")); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	select {
	case got := <-toServer:
		if !bytes.Equal(got, []byte("input")) {
			t.Errorf("server received %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not receive the message")
	}

	// The server closed after echoing; the client reports it.
	n = recvNotify(t, owner)
	if n.Kind != NotifyClosed && n.Kind != NotifyError {
		t.Errorf("Kind = %v, want NotifyClosed or NotifyError", n.Kind)
	}
	waitFor(t, func() bool { return !c.Connected() })
}

func TestWebSocketClientIgnoresText(t *testing.T) {
	url := wsTestServer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte("chatter"))
		conn.WriteMessage(websocket.BinaryMessage, []byte{0x01})
		// Keep the connection up until the test is done.
		conn.ReadMessage()
	})

	owner := make(chan Notify, 16)
	c, err := DialWebSocket(Config{Kind: KindWebSocket, URL: url}, owner)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Disconnect()

	n := recvNotify(t, owner)
	if n.Kind != NotifyData || !bytes.Equal(n.Data, []byte{0x01}) {
		t.Errorf("notify = %+v, want the binary message only", n)
	}
}
