package websocket

import (
	"net/http"
	"time"

	"chat-session/internal/protocol"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler accepts upgrades from the listed origins; "*" accepts any.
// Requests without an Origin header are always accepted.
func NewHandler(hub *Hub, allowedOrigins []string) *Handler {
	allowAll := lo.Contains(allowedOrigins, "*")
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowAll || origin == "" || lo.Contains(allowedOrigins, origin)
			},
		},
	}
}

// JoinRoom upgrades the request and attaches the peer to the hub. On
// failure the upgrader has already answered the request.
func (h *Handler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("[relay] upgrade failed")
		return
	}

	cl := newClient(conn)
	if !h.hub.register(cl) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "relay shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}

	go cl.keepAlive()
	go cl.writeMessage()
	go cl.readMessage(h.hub)
}

func (h *Handler) Roster() []protocol.RosterEntry {
	return h.hub.Roster()
}
