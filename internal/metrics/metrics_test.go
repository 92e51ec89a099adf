package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ArticleViews.Inc()
	m.Purchases.WithLabelValues("30-day").Inc()
	m.Moderations.WithLabelValues("approved").Add(2)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.ArticleViews))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Purchases.WithLabelValues("30-day")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.Moderations.WithLabelValues("approved")))

	assert.Panics(t, func() { New(reg) }, "double registration must fail")
}

func TestMiddleware_ObservesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/articles/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/articles/123", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)

	assert.Equal(t, 1, testutil.CollectAndCount(m.Requests))
	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() != "newsroom_http_request_duration_seconds" {
			continue
		}
		for _, metric := range f.GetMetric() {
			labels := map[string]string{}
			for _, l := range metric.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["route"] == "/articles/{id}" && labels["status"] == "418" {
				found = true
			}
		}
	}
	assert.True(t, found)
}
