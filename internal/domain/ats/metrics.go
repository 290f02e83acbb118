package ats

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	syncTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobapply_sync_total",
			Help: "Workable synchronization attempts by terminal state.",
		},
		[]string{"state"},
	)
	syncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobapply_sync_duration_seconds",
			Help:    "Duration of Workable synchronization attempts, including the comment delay.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 15, 30, 60},
		},
		[]string{"state"},
	)
)
