package endpoints

import (
	"fmt"
	"net/http"

	"chat-session/internal/protocol"
)

const (
	formatList  = "list"
	formatCount = "count"
)

// Relay is the part of the websocket relay the HTTP surface needs.
type Relay interface {
	Roster() []protocol.RosterEntry
	JoinRoom(http.ResponseWriter, *http.Request)
}

type ChatEndpoints interface {
	Roster(http.ResponseWriter, *http.Request) error
	Websocket(http.ResponseWriter, *http.Request) error
}

type chatEndpoints struct {
	relay Relay
}

func NewChatEndpoints(relay Relay) ChatEndpoints {
	return &chatEndpoints{relay: relay}
}

// Roster answers the identified users as a JSON array, or their number as a
// bare integer with ?format=count.
func (h *chatEndpoints) Roster(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: h.handleRoster,
	})
}

func (h *chatEndpoints) handleRoster(w http.ResponseWriter, r *http.Request) error {
	roster := h.relay.Roster()

	switch format := r.URL.Query().Get("format"); format {
	case "", formatList:
		if roster == nil {
			roster = []protocol.RosterEntry{}
		}
		return WriteJSON(w, http.StatusOK, roster)
	case formatCount:
		return WriteJSON(w, http.StatusOK, len(roster))
	default:
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "Unknown roster format.",
			ErrorLog:   fmt.Errorf("roster format %q not supported", format),
		}
	}
}

func (h *chatEndpoints) Websocket(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: func(w http.ResponseWriter, r *http.Request) error {
			h.relay.JoinRoom(w, r)
			return nil
		},
	})
}
