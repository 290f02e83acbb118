package relay

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	deliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobapply_relay_deliveries_total",
			Help: "Relay deliveries by subscriber and outcome.",
		},
		[]string{"subscriber", "status"},
	)
	queueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jobapply_relay_queue_depth",
			Help: "Deliveries waiting for a relay worker.",
		},
	)
)
