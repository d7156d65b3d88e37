package websocket

import "github.com/prometheus/client_golang/prometheus"

const (
	frameChat       = "chat"
	frameUserInfo   = "user_info"
	frameUpdateInfo = "update_info"
	frameMalformed  = "malformed"
)

var (
	wsConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_relay_ws_connections",
			Help: "Current number of active websocket connections.",
		},
	)
	wsPeers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_relay_identified_peers",
			Help: "Current number of peers that announced a username.",
		},
	)
	wsMessagesDelivered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_relay_messages_delivered_total",
			Help: "Total websocket messages queued for delivery to peers.",
		},
	)
	wsFramesReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_relay_frames_received_total",
			Help: "Frames received from peers, by kind.",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(wsConnections, wsPeers, wsMessagesDelivered, wsFramesReceived)
}

func incConnections() {
	wsConnections.Inc()
}

func decConnections() {
	wsConnections.Dec()
}

func setPeers(count int) {
	wsPeers.Set(float64(count))
}

func addDelivered(count int) {
	wsMessagesDelivered.Add(float64(count))
}

func countFrame(kind string) {
	wsFramesReceived.WithLabelValues(kind).Inc()
}
