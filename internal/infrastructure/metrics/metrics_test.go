package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/ventsite/internal/core/domain"
)

func TestObserveBuckets(t *testing.T) {
	m := New()

	m.ObserveBuckets(domain.BucketStats{Matched: 3, Unparseable: 2, OutOfWindow: 1})
	m.ObserveBuckets(domain.BucketStats{Matched: 1})

	assert.Equal(t, float64(4), testutil.ToFloat64(m.HourlyRecords.WithLabelValues("matched")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.HourlyRecords.WithLabelValues("unparseable")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HourlyRecords.WithLabelValues("out_of_window")))
}

func TestObserveBatchAndUpstream(t *testing.T) {
	m := New()

	m.ObserveBatch("traffic", true, 120*time.Millisecond)
	m.ObserveBatch("orders", false, time.Second)
	m.ObserveUpstream("hourly", nil)
	m.ObserveUpstream("hourly", errors.New("timeout"))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.Batches.WithLabelValues("traffic", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Batches.WithLabelValues("orders", "failure")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.UpstreamRequests.WithLabelValues("hourly", "failure")))
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/v1/works/{slug}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, slug := range []string{"a-1", "b-2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/works/"+slug, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(
		m.HTTPRequests.WithLabelValues(http.MethodGet, "/api/v1/works/{slug}", "404"),
	))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := New()
	m.WebSocketClients.Set(3)
	m.ObserveBatch("traffic", true, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, name := range []string{
		"ventsite_websocket_clients 3",
		"ventsite_analytics_batches_total",
		"ventsite_analytics_batch_duration_seconds",
		"go_goroutines",
	} {
		assert.Contains(t, body, name)
	}
}
