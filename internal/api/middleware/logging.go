package middleware

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"chat-session/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := r.ResponseWriter.(http.Hijacker); ok {
		r.status = http.StatusSwitchingProtocols
		return h.Hijack()
	}
	return nil, nil, fmt.Errorf("statusRecorder: underlying ResponseWriter does not support hijacking")
}

func (r *statusRecorder) Push(target string, opts *http.PushOptions) error {
	if p, ok := r.ResponseWriter.(http.Pusher); ok {
		return p.Push(target, opts)
	}
	return http.ErrNotSupported
}

// LogEntry is the set of fields logged for every request.
type LogEntry struct {
	Method    string
	URI       string
	Status    int
	Size      int
	Duration  time.Duration
	ClientIP  string
	UserAgent string
	Referer   string
	RequestID string
}

func (e LogEntry) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("method", e.Method).
		Str("uri", e.URI).
		Int("status", e.Status).
		Int("size", e.Size).
		Dur("duration", e.Duration).
		Str("client_ip", e.ClientIP).
		Str("user_agent", e.UserAgent).
		Str("referer", e.Referer).
		Str("request_id", e.RequestID)
}

func Logging() Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}

			reqID := r.Header.Get("X-Request-ID")
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", reqID)

			next(rec, r)

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			entry := LogEntry{
				Method:    r.Method,
				URI:       r.URL.RequestURI(),
				Status:    status,
				Size:      rec.size,
				Duration:  time.Since(start),
				ClientIP:  utils.RealClientIP(r),
				UserAgent: r.UserAgent(),
				Referer:   r.Referer(),
				RequestID: reqID,
			}

			ev := log.Info()
			if status >= http.StatusInternalServerError {
				ev = log.Error()
			} else if status >= http.StatusBadRequest {
				ev = log.Warn()
			}
			ev.EmbedObject(entry).Msg("[http] request")
		}
	}
}
