package session

import "github.com/prometheus/client_golang/prometheus"

const (
	directionIn  = "in"
	directionOut = "out"

	kindChat      = "chat"
	kindUserList  = "user_list"
	kindUserInfo  = "user_info"
	kindMalformed = "malformed"
)

// Metrics counts frames crossing a session. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	frames *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		frames: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chat_session_frames_total",
				Help: "Frames sent and received by the chat session.",
			},
			[]string{"direction", "kind"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.frames)
	}
	return m
}

func (m *Metrics) observeFrame(direction, kind string) {
	if m == nil {
		return
	}
	m.frames.WithLabelValues(direction, kind).Inc()
}
