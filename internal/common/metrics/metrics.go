// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prospector_searches_total",
			Help: "Total number of prospecting searches by outcome",
		},
		[]string{"outcome"},
	)

	ProspectsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "prospector_prospects_returned",
			Help:    "Number of prospects returned per successful search",
			Buckets: []float64{0, 5, 10, 20, 30, 50},
		},
	)

	DraftsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prospector_drafts_total",
			Help: "Total number of outreach drafts by outcome",
		},
		[]string{"outcome"},
	)

	CollaboratorDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "prospector_collaborator_duration_seconds",
			Help: "Duration of external collaborator calls in seconds",
		},
		[]string{"collaborator"},
	)

	StoreReadFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prospector_store_read_failures_total",
			Help: "Total number of persistent store reads degraded to defaults",
		},
		[]string{"key"},
	)

	StoreWriteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prospector_store_write_failures_total",
			Help: "Total number of swallowed persistent store write failures",
		},
		[]string{"key"},
	)
)
