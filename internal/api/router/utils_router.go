package router

import (
	"chat-session/internal/api"
	"chat-session/internal/api/endpoints"

	"github.com/go-chi/chi/v5"
)

func UtilsRoutes(prefix string) api.RouteRegistrar {
	return func(r chi.Router, s *api.APIServer) {
		utilsEndpoints := endpoints.NewUtilsEndpoints()
		r.HandleFunc(prefix+"/health", s.MakeHTTPHandleFunc(utilsEndpoints.Health))
	}
}
