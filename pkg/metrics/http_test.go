package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.Observe("GET", "/api/v1/breeds", 200, 20*time.Millisecond)
	m.Observe("GET", "/api/v1/breeds", 200, 10*time.Millisecond)
	m.Observe("POST", "", 500, time.Millisecond)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got, err := fetchCounterValue(mfs, "pawfectfind_http_requests_total", "route", "/api/v1/breeds")
	require.NoError(t, err)
	assert.Equal(t, float64(2), got)

	got, err = fetchCounterValue(mfs, "pawfectfind_http_requests_total", "route", "unknown")
	require.NoError(t, err)
	assert.Equal(t, float64(1), got)

	sum, err := fetchHistogramSum(mfs, "pawfectfind_http_request_duration_seconds", "route", "/api/v1/breeds")
	require.NoError(t, err)
	assert.InDelta(t, 0.03, sum, 1e-9)
}

func TestMatchingMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMatchingMetrics(reg)
	m.RecordOutcome("small", OutcomeMixed)
	m.RecordOutcome("small", OutcomeMixed)
	m.RecordCache(true)
	m.RecordCache(false)
	m.RecordCache(false)
	m.RecordQuote(3, 15)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got, err := fetchCounterValue(mfs, "pawfectfind_matching_recommendations_total", "outcome", OutcomeMixed)
	require.NoError(t, err)
	assert.Equal(t, float64(2), got)

	got, err = fetchCounterValue(mfs, "pawfectfind_matching_cache_lookups_total", "result", "miss")
	require.NoError(t, err)
	assert.Equal(t, float64(2), got)

	got, err = fetchCounterValue(mfs, "pawfectfind_bundles_quotes_total", "discount", "15")
	require.NoError(t, err)
	assert.Equal(t, float64(1), got)

	var nilMetrics *MatchingMetrics
	nilMetrics.RecordQuote(1, 0)
	NewMatchingMetrics(nil).RecordCache(true)
}
