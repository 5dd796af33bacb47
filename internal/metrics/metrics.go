package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "roomscan"

// Domain metrics, exported next to the HTTP metrics on /metrics
var (
	RoomsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rooms_created_total",
		Help:      "Total number of rooms created from scans",
	})

	SuggestionsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "suggestions_generated_total",
		Help:      "Total number of organization suggestions generated, by type",
	}, []string{"type"})

	SuggestionsImplemented = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "suggestions_implemented_total",
		Help:      "Total number of suggestions marked implemented",
	})

	AffiliateClicks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "affiliate_clicks_total",
		Help:      "Total number of affiliate link clicks, by merchant",
	}, []string{"merchant"})

	RecommendationsServed = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "recommendations_served",
		Help:      "Number of products in each recommendation response",
		Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
	})

	ProductsSeeded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_seeded_total",
		Help:      "Total number of catalog products inserted by seeding",
	})
)
