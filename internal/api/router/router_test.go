package router

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chat-session/internal/api"
	"chat-session/internal/api/middleware"
	"chat-session/internal/protocol"
	"chat-session/internal/queue"
	"chat-session/internal/session"
	"chat-session/internal/websocket"

	gorilla "github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) *httptest.Server {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	hub := websocket.NewHub()
	go hub.Run(ctx)

	queueManager := queue.NewRequestQueueManager(16, 4)
	server := api.NewAPIServer(api.Config{
		ListenAddr: ":0",
		Queue:      queueManager,
		Relay:      websocket.NewHandler(hub, []string{"*"}),
		CORS:       middleware.DefaultCORSConfig([]string{"*"}),
		Registry:   prometheus.NewRegistry(),
	}, UtilsRoutes(""), ChatRoutes(""))

	srv := httptest.NewServer(server.Router())
	t.Cleanup(func() {
		cancel()
		<-hub.Done()
		srv.Close()
		queueManager.Shutdown()
	})
	return srv
}

func TestRosterReflectsJoinedPeers(t *testing.T) {
	req := require.New(t)
	srv := startServer(t)

	conn, _, err := gorilla.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	req.NoError(err)
	defer conn.Close()

	req.NoError(conn.WriteJSON(protocol.UserInfo{Type: protocol.TypeUserInfo, Username: "Nova", Description: "star"}))
	// join notice, then user_list
	for i := 0; i < 2; i++ {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, _, err := conn.ReadMessage()
		req.NoError(err)
	}

	roster, err := session.NewHTTPRosterClient(srv.Client(), srv.URL+"/api/v1/chat").FetchRoster(context.Background())
	req.NoError(err)
	req.True(roster.HasUsers)
	req.Equal([]protocol.RosterEntry{{Username: "Nova", Description: "star"}}, roster.Entries)

	count, err := session.NewHTTPRosterClient(srv.Client(), srv.URL+"/api/v1/chat?format=count").FetchRoster(context.Background())
	req.NoError(err)
	req.False(count.HasUsers)
	req.Equal(1, count.Count)
}

func TestHealthAndMetrics(t *testing.T) {
	req := require.New(t)
	srv := startServer(t)

	res, err := srv.Client().Get(srv.URL + "/health")
	req.NoError(err)
	res.Body.Close()
	req.Equal(http.StatusOK, res.StatusCode)

	res, err = srv.Client().Get(srv.URL + "/metrics")
	req.NoError(err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	req.NoError(err)
	req.Contains(string(body), "chat_relay_http_requests_total")
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	srv := startServer(t)

	res, err := srv.Client().Get(srv.URL + "/api/v2/chat")
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusNotFound, res.StatusCode)
}
