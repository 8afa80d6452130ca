package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"amazonia/pkg/assistant"
	"amazonia/pkg/middleware"
	"amazonia/pkg/realtime"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func limitedEngine(t *testing.T, trustedProxies []string, limit int) *gin.Engine {
	t.Helper()
	r, err := newEngine(trustedProxies)
	if err != nil {
		t.Fatalf("newEngine() error = %v", err)
	}
	r.Use(middleware.NewRateLimiter("auth", limit, time.Minute).Middleware())
	r.POST("/auth/login", func(c *gin.Context) { c.String(http.StatusOK, c.ClientIP()) })
	return r
}

func login(r *gin.Engine, remoteAddr, forwardedFor string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestNewEngine_IgnoresForwardedForByDefault(t *testing.T) {
	r := limitedEngine(t, nil, 2)

	forwarded := []string{"198.51.100.1", "198.51.100.2", "198.51.100.3", "198.51.100.4"}
	var accepted int
	for _, xff := range forwarded {
		w := login(r, "203.0.113.7:40000", xff)
		switch w.Code {
		case http.StatusOK:
			accepted++
			if got := w.Body.String(); got != "203.0.113.7" {
				t.Errorf("ClientIP() = %q, want peer address", got)
			}
		case http.StatusTooManyRequests:
		default:
			t.Fatalf("status = %d", w.Code)
		}
	}
	if accepted != 2 {
		t.Errorf("accepted %d requests with rotating X-Forwarded-For, want 2", accepted)
	}
}

func TestNewEngine_HonorsTrustedProxy(t *testing.T) {
	r := limitedEngine(t, []string{"10.0.0.0/8"}, 1)

	for _, xff := range []string{"198.51.100.1", "198.51.100.2"} {
		w := login(r, "10.0.0.5:40000", xff)
		if w.Code != http.StatusOK || w.Body.String() != xff {
			t.Errorf("via trusted proxy: status %d, client %q, want 200 %q", w.Code, w.Body.String(), xff)
		}
	}
	if w := login(r, "10.0.0.5:40000", "198.51.100.1"); w.Code != http.StatusTooManyRequests {
		t.Errorf("repeat client status = %d, want 429", w.Code)
	}
	// An untrusted peer cannot borrow a forwarded identity.
	if w := login(r, "203.0.113.7:40000", "198.51.100.9"); w.Body.String() == "198.51.100.9" {
		t.Error("untrusted peer's X-Forwarded-For was honored")
	}
}

func TestNewEngine_RejectsBadProxy(t *testing.T) {
	if _, err := newEngine([]string{"not-an-ip"}); err == nil {
		t.Error("newEngine() accepted an invalid proxy")
	}
}

type downAssistant struct{}

func (downAssistant) Name() string { return assistant.ProviderOpenAI }

func (downAssistant) Reply(context.Context, assistant.Request) (string, error) {
	return "", errors.New("upstream 503")
}

func TestRuntimeStatus(t *testing.T) {
	hub := realtime.NewHub()
	defer hub.Close()
	guard := assistant.NewGuarded(downAssistant{}, time.Second)

	status := runtimeStatus(hub, guard)
	if status["websocket_users"] != 0 || status["assistant_breaker"] != "closed" {
		t.Errorf("runtimeStatus() = %v", status)
	}

	for i := 0; i < 3; i++ {
		guard.Reply(context.Background(), assistant.Request{Question: "wifi?"}) //nolint:errcheck
	}
	if got := runtimeStatus(hub, guard)["assistant_breaker"]; got != "open" {
		t.Errorf("assistant_breaker = %v, want open after repeated failures", got)
	}

	if status := runtimeStatus(nil, nil); len(status) != 0 {
		t.Errorf("runtimeStatus(nil, nil) = %v", status)
	}
}
