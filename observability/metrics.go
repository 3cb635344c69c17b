package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	APIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "consegne_api_requests_total", Help: "API requests"},
		[]string{"path", "status"},
	)
	PushSend = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "consegne_push_send_total", Help: "Push delivery outcomes"},
		[]string{"result"},
	)
	PushLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "consegne_push_send_latency_seconds", Help: "Push delivery latency"},
	)
	PollTicks = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "consegne_poll_ticks_total", Help: "Poller tick outcomes"},
		[]string{"topic", "result"},
	)
	PollEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "consegne_poll_events_total", Help: "Events emitted by pollers"},
		[]string{"topic", "type"},
	)
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(APIRequests, PushSend, PushLatency, PollTicks, PollEvents)
}
