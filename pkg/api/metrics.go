package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus collectors of the HTTP API.
type Metrics struct {
	routeQueries    *prometheus.CounterVec
	routeDistance   prometheus.Histogram
	httpDuration    *prometheus.HistogramVec
	responseStatus  *prometheus.CounterVec
	limiterRejected prometheus.Counter
}

// NewMetrics creates the API collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		routeQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pathfinder",
			Name:      "route_queries_total",
			Help:      "The total number of route queries by algorithm and outcome.",
		}, []string{"algorithm", "outcome"}),
		routeDistance: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pathfinder",
			Name:      "route_distance_meters",
			Help:      "Total distance of successful routes.",
			Buckets:   prometheus.ExponentialBuckets(100, 2, 12), // 100 m .. ~200 km
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pathfinder",
			Name:      "request_duration_seconds",
			Help:      "The duration of HTTP requests.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 5},
		}, []string{"method", "path"}),
		responseStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pathfinder",
			Name:      "response_status_code",
			Help:      "The status code of HTTP responses.",
		}, []string{"status", "method", "path"}),
		limiterRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pathfinder",
			Name:      "concurrency_rejected_total",
			Help:      "Requests rejected because the concurrency limit was reached.",
		}),
	}
	reg.MustRegister(m.routeQueries, m.routeDistance, m.httpDuration, m.responseStatus, m.limiterRejected)
	return m
}

func (m *Metrics) observeRoute(alg, outcome string, distance float64) {
	m.routeQueries.WithLabelValues(alg, outcome).Inc()
	if outcome == "ok" {
		m.routeDistance.Observe(distance)
	}
}

// instrument records duration and status per route pattern. Unmatched
// paths share one label so arbitrary URLs do not grow the label set.
func (m *Metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				path = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		m.responseStatus.WithLabelValues(strconv.Itoa(status), r.Method, path).Inc()
	})
}
