package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Search outcomes recorded on searchesTotal.
const (
	outcomeOK          = "ok"
	outcomeInvalid     = "invalid"
	outcomeUnavailable = "unavailable"
	outcomeError       = "error"
)

var (
	searchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shirtsearch_searches_total",
			Help: "Total number of catalog searches by outcome.",
		},
		[]string{"outcome"},
	)

	searchMatches = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "shirtsearch_search_matches",
			Help:    "Number of shirts matched per successful search.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	catalogShirts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "shirtsearch_catalog_shirts",
			Help: "Number of shirts in the published catalog.",
		},
	)

	catalogPublishes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shirtsearch_catalog_publishes_total",
			Help: "Total number of catalog snapshots published.",
		},
	)
)
