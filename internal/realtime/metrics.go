package realtime

import "github.com/prometheus/client_golang/prometheus"

var (
	// channelTransitions counts lifecycle transitions by resulting state.
	channelTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realtime_channel_transitions_total",
			Help: "Total realtime channel state transitions by resulting state.",
		},
		[]string{"state"},
	)

	// channelRetries gauges the current reconnection attempt count.
	channelRetries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "realtime_channel_retry_count",
			Help: "Reconnection attempts since the last successful subscribe.",
		},
	)
)

func init() {
	prometheus.MustRegister(channelTransitions, channelRetries)
}
