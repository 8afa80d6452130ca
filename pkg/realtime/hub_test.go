package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T, h *Hub) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		h.Serve(r.URL.Query().Get("user"), conn)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, user string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?user=" + user
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_SendToUser(t *testing.T) {
	h := NewHub()
	srv := newTestServer(t, h)

	tab1 := dial(t, srv, "u1")
	tab2 := dial(t, srv, "u1")
	other := dial(t, srv, "u2")
	waitFor(t, func() bool {
		h.mu.RLock()
		defer h.mu.RUnlock()
		return len(h.clients["u1"]) == 2 && len(h.clients["u2"]) == 1
	})
	if h.ConnectedUsers() != 2 {
		t.Fatalf("ConnectedUsers() = %d, want 2", h.ConnectedUsers())
	}
	if h.SendToUser("nobody", Frame{Type: "alert"}) != 0 {
		t.Error("frame delivered to a user without connections")
	}

	n := h.SendToUser("u1", Frame{Type: "alert", Data: map[string]string{"title": "Chuva forte"}})
	if n != 2 {
		t.Fatalf("delivered to %d connections, want 2", n)
	}

	for _, conn := range []*websocket.Conn{tab1, tab2} {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var f struct {
			Type string            `json:"type"`
			Data map[string]string `json:"data"`
		}
		if err := json.Unmarshal(raw, &f); err != nil {
			t.Fatal(err)
		}
		if f.Type != "alert" || f.Data["title"] != "Chuva forte" {
			t.Errorf("frame = %+v", f)
		}
	}

	_ = other.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	if _, _, err := other.ReadMessage(); err == nil {
		t.Error("u2 received a frame addressed to u1")
	}
}

func TestHub_UnregisterOnDisconnect(t *testing.T) {
	h := NewHub()
	srv := newTestServer(t, h)

	conn := dial(t, srv, "u1")
	waitFor(t, func() bool { return h.isOnline("u1") })

	conn.Close()
	waitFor(t, func() bool { return !h.isOnline("u1") })
}
