// Package metrics exposes Prometheus instrumentation for the API server.
// The Collector owns its own registry so tests can create throwaway
// collectors without colliding on the global default.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec // labels: method, route, status
	RequestDuration *prometheus.HistogramVec
	TripsIngested   *prometheus.CounterVec // source label: add|addlist|upload
	InFlight        prometheus.Gauge
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tripapi_requests_total",
			Help: "Total HTTP requests served.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tripapi_request_duration_seconds",
			Help:    "HTTP request handling duration.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
		}, []string{"method", "route"}),
		TripsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tripapi_trips_ingested_total",
			Help: "Total trips written to the store.",
		}, []string{"source"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tripapi_requests_in_flight",
			Help: "Number of requests currently being handled.",
		}),
	}

	reg.MustRegister(
		c.RequestsTotal, c.RequestDuration, c.TripsIngested, c.InFlight,
	)

	return c
}

// Handler serves the scrape endpoint for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// Middleware instruments each request with the collector's request metrics.
// The route label uses chi's route pattern ("/api/trips/{id}") rather than the
// raw path so the label cardinality stays bounded.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		c.InFlight.Inc()
		defer c.InFlight.Dec()

		// WrapResponseWriter intercepts WriteHeader and preserves the
		// optional writer interfaces (Flusher, Hijacker).
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
