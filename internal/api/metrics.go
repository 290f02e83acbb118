package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var intakeRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "jobapply_intake_requests_total",
		Help: "Intake submissions by outcome.",
	},
	[]string{"status"},
)
