// Package metrics объявляет метрики Prometheus сервиса.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics хранит счётчики доменных событий и HTTP-запросов.
type Metrics struct {
	ArticleViews    prometheus.Counter
	ArticlesCreated prometheus.Counter
	Moderations     *prometheus.CounterVec
	Purchases       *prometheus.CounterVec
	LazyExpirations prometheus.Counter
	Requests        *prometheus.HistogramVec
}

// New создаёт метрики и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ArticleViews: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "newsroom",
			Name:      "article_views_total",
			Help:      "Number of article view increments.",
		}),
		ArticlesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "newsroom",
			Name:      "articles_submitted_total",
			Help:      "Number of submitted articles.",
		}),
		Moderations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "newsroom",
			Name:      "moderations_total",
			Help:      "Moderation decisions by resulting status.",
		}, []string{"status"}),
		Purchases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "newsroom",
			Name:      "subscription_purchases_total",
			Help:      "Subscription purchases by plan.",
		}, []string{"plan"}),
		LazyExpirations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "newsroom",
			Name:      "subscription_lazy_expirations_total",
			Help:      "Expired entitlements cleared on read.",
		}),
		Requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "newsroom",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(m.ArticleViews, m.ArticlesCreated, m.Moderations, m.Purchases, m.LazyExpirations, m.Requests)
	return m
}

// Middleware замеряет длительность запросов по шаблону маршрута chi.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.Requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}
