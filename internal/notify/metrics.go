package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var notificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "jobapply_notifications_total",
		Help: "Operator emails by kind and outcome.",
	},
	[]string{"kind", "status"},
)
