package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"chat-session/internal/api/middleware"
	"chat-session/internal/queue"

	"github.com/rs/zerolog/log"
)

type apiFunc func(http.ResponseWriter, *http.Request) error

func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// MakeHTTPHandleFunc runs f on the request queue and renders a returned
// *HTTPError as {"message": ...}. Any other error becomes a 500.
func (s *APIServer) MakeHTTPHandleFunc(f apiFunc, extra ...middleware.Middleware) http.HandlerFunc {
	baseHandler := func(w http.ResponseWriter, r *http.Request) {
		errc := make(chan error, 1)

		job := queue.Job{
			Fn: func() error {
				return f(w, r)
			},
			Errc: errc,
		}

		if !s.requestQueueManager.EnqueueJob(r.Context(), job) {
			_ = WriteJSON(w, http.StatusServiceUnavailable, ApiError{Error: "Server is shutting down"})
			return
		}

		err := <-errc
		if err == nil {
			return
		}

		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			log.Warn().Err(httpErr.ErrorLog).Int("status", httpErr.StatusCode).Str("uri", r.URL.RequestURI()).Msg("[api] request failed")
			_ = WriteJSON(w, httpErr.StatusCode, ApiError{Error: httpErr.Message})
			return
		}
		log.Error().Err(err).Str("uri", r.URL.RequestURI()).Msg("[api] unhandled error")
		_ = WriteJSON(w, http.StatusInternalServerError, ApiError{Error: "Internal server error"})
	}

	handler := baseHandler
	for _, m := range extra {
		handler = m(handler)
	}

	return middleware.Chain(handler, middleware.Logging(), middleware.CORS(s.cors))
}
