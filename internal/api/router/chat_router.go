package router

import (
	"chat-session/internal/api"
	"chat-session/internal/api/endpoints"
	"chat-session/internal/endpoint"

	"github.com/go-chi/chi/v5"
)

// ChatRoutes mounts the relay socket and the roster resource at the paths
// clients derive from the page location.
func ChatRoutes(prefix string) api.RouteRegistrar {
	return func(r chi.Router, s *api.APIServer) {
		chatEndpoints := endpoints.NewChatEndpoints(s.Handler())
		r.HandleFunc(prefix+endpoint.WebSocketPath, s.MakeHTTPHandleFunc(chatEndpoints.Websocket))
		r.HandleFunc(prefix+endpoint.RosterPath, s.MakeHTTPHandleFunc(chatEndpoints.Roster))
	}
}
