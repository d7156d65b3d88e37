package api

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"chat-session/internal/queue"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// unmatchedRoute labels requests that no route pattern claimed, so unknown
// paths cannot grow the label set.
const unmatchedRoute = "unmatched"

var errNoHijack = errors.New("api: response writer cannot be hijacked")

// relayMetrics holds the relay's HTTP collectors, labelled by chi route
// pattern rather than raw path.
type relayMetrics struct {
	requests   *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	active     prometheus.Gauge
	queueDepth prometheus.GaugeFunc
	gatherer   prometheus.Gatherer
}

func newMetrics(reg prometheus.Registerer, gatherer prometheus.Gatherer, listenAddr string, q *queue.RequestQueueManager) *relayMetrics {
	constLabels := prometheus.Labels{"listen_addr": listenAddr}
	routeLabels := []string{"method", "route", "status"}

	m := &relayMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "chat_relay_http_requests_total",
			Help:        "HTTP requests served by the relay, by route pattern.",
			ConstLabels: constLabels,
		}, routeLabels),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "chat_relay_http_request_duration_seconds",
			Help:        "Time spent serving relay HTTP requests, by route pattern.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, routeLabels),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "chat_relay_http_inflight_requests",
			Help:        "Relay HTTP requests currently being served.",
			ConstLabels: constLabels,
		}),
		gatherer: gatherer,
	}
	reg.MustRegister(m.requests, m.latency, m.active)

	if q != nil {
		m.queueDepth = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        "chat_relay_request_queue_depth",
			Help:        "Roster jobs waiting for a worker.",
			ConstLabels: constLabels,
		}, func() float64 {
			return float64(len(q.JobQueue))
		})
		reg.MustRegister(m.queueDepth)
	}

	return m
}

func (m *relayMetrics) handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// instrument is chi middleware. It must be installed with Use on the root
// router so the route context exists once the request has been routed.
func (m *relayMetrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.active.Inc()
		defer m.active.Dec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		values := []string{r.Method, routePattern(r), strconv.Itoa(rec.status)}
		m.requests.WithLabelValues(values...).Inc()
		m.latency.WithLabelValues(values...).Observe(time.Since(start).Seconds())
	})
}

func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unmatchedRoute
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}
	return unmatchedRoute
}

// statusRecorder remembers the status written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

// Hijack keeps websocket upgrades working behind the middleware. An upgraded
// request is counted as 101.
func (sr *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := sr.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errNoHijack
	}
	sr.status = http.StatusSwitchingProtocols
	return h.Hijack()
}
