package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Recommendation outcomes.
const (
	OutcomeMixed     = "mixed"
	OutcomeSizeOnly  = "size_only"
	OutcomeEmpty     = "empty"
	OutcomeNoCatalog = "no_catalog"
)

// MatchingMetrics counts recommendation results, cache efficiency and bundle quotes.
type MatchingMetrics struct {
	outcomes    *prometheus.CounterVec
	cache       *prometheus.CounterVec
	quotes      *prometheus.CounterVec
	bundleItems prometheus.Histogram
}

// NewMatchingMetrics registers the matching collectors on reg.
func NewMatchingMetrics(reg prometheus.Registerer) *MatchingMetrics {
	if reg == nil {
		return &MatchingMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "matching",
		Name:      "recommendations_total",
		Help:      "Recommendation requests by size category and outcome.",
	}, []string{"size", "outcome"})
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "matching",
		Name:      "cache_lookups_total",
		Help:      "Recommendation cache lookups by result.",
	}, []string{"result"})
	quotes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "bundles",
		Name:      "quotes_total",
		Help:      "Bundle prices computed, by discount percentage.",
	}, []string{"discount"})
	bundleItems := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "bundles",
		Name:      "items_per_quote",
		Help:      "Number of items in each priced bundle.",
		Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
	})
	reg.MustRegister(outcomes, cache, quotes, bundleItems)
	return &MatchingMetrics{outcomes: outcomes, cache: cache, quotes: quotes, bundleItems: bundleItems}
}

// RecordOutcome counts one recommendation response.
func (m *MatchingMetrics) RecordOutcome(size, outcome string) {
	if m == nil || m.outcomes == nil {
		return
	}
	m.outcomes.WithLabelValues(normalizeLabel(size), normalizeLabel(outcome)).Inc()
}

// RecordCache counts a cache hit or miss.
func (m *MatchingMetrics) RecordCache(hit bool) {
	if m == nil || m.cache == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cache.WithLabelValues(result).Inc()
}

// RecordQuote counts one computed bundle price.
func (m *MatchingMetrics) RecordQuote(items, discountPercentage int) {
	if m == nil || m.quotes == nil {
		return
	}
	m.quotes.WithLabelValues(strconv.Itoa(discountPercentage)).Inc()
	m.bundleItems.Observe(float64(items))
}
