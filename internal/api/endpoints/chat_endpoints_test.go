package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chat-session/internal/api"
	"chat-session/internal/api/middleware"
	"chat-session/internal/protocol"
	"chat-session/internal/queue"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

type stubRelay struct {
	roster []protocol.RosterEntry
	joined int
}

func (s *stubRelay) Roster() []protocol.RosterEntry {
	return s.roster
}

func (s *stubRelay) JoinRoom(w http.ResponseWriter, r *http.Request) {
	s.joined++
	w.WriteHeader(http.StatusNoContent)
}

func setupChatTestHandler(t *testing.T, relay *stubRelay) http.Handler {
	t.Helper()

	queueManager := queue.NewRequestQueueManager(10, 1)
	t.Cleanup(queueManager.Shutdown)

	server := api.NewAPIServer(api.Config{
		ListenAddr: ":0",
		Queue:      queueManager,
		CORS:       middleware.DefaultCORSConfig([]string{"*"}),
		Registry:   prometheus.NewRegistry(),
	})

	chat := NewChatEndpoints(relay)
	utils := NewUtilsEndpoints()
	r := chi.NewRouter()
	r.HandleFunc("/api/v1/chat", server.MakeHTTPHandleFunc(chat.Roster))
	r.HandleFunc("/ws", server.MakeHTTPHandleFunc(chat.Websocket))
	r.HandleFunc("/health", server.MakeHTTPHandleFunc(utils.Health))
	return r
}

func TestRosterEndpointReturnsEntries(t *testing.T) {
	relay := &stubRelay{roster: []protocol.RosterEntry{
		{Username: "Nova", Description: "star"},
		{Username: "Orion", Description: "hunter"},
	}}
	handler := setupChatTestHandler(t, relay)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chat", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}

	var got []protocol.RosterEntry
	if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 2 || got[0].Username != "Nova" || got[1].Description != "hunter" {
		t.Fatalf("unexpected roster %+v", got)
	}
}

func TestRosterEndpointEmptyIsArray(t *testing.T) {
	handler := setupChatTestHandler(t, &stubRelay{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/chat", nil))

	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Fatalf("expected empty array, got %q", body)
	}
}

func TestRosterEndpointCountFormat(t *testing.T) {
	relay := &stubRelay{roster: []protocol.RosterEntry{{Username: "Nova"}, {Username: "Orion"}, {Username: "Vega"}}}
	handler := setupChatTestHandler(t, relay)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/chat?format=count", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "3" {
		t.Fatalf("expected bare count, got %q", body)
	}
}

func TestRosterEndpointRejectsUnknownFormat(t *testing.T) {
	handler := setupChatTestHandler(t, &stubRelay{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/chat?format=xml", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	var apiErr api.ApiError
	if err := json.NewDecoder(rec.Body).Decode(&apiErr); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if apiErr.Error != "Unknown roster format." {
		t.Fatalf("unexpected message %q", apiErr.Error)
	}
}

func TestRosterEndpointMethodNotAllowed(t *testing.T) {
	handler := setupChatTestHandler(t, &stubRelay{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/chat", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
}

func TestWebsocketEndpointDelegatesToRelay(t *testing.T) {
	relay := &stubRelay{}
	handler := setupChatTestHandler(t, relay)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))

	if relay.joined != 1 {
		t.Fatalf("expected relay to be joined once, got %d", relay.joined)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected relay to answer the request, got %d", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	handler := setupChatTestHandler(t, &stubRelay{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"status":"ok"}` {
		t.Fatalf("unexpected body %q", body)
	}
}
