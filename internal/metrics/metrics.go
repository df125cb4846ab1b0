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

// Collector holds the Prometheus metrics of the service on its own registry.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	mealsAssigned *prometheus.CounterVec
	mealsUnfilled *prometheus.CounterVec
}

func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	collector := &Collector{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		mealsAssigned: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "meals_assigned_total",
				Help:      "Meal slots written, by slot and kind (recipe or cheat)",
			},
			[]string{"slot", "kind"},
		),
		mealsUnfilled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "meals_unfilled_total",
				Help:      "Randomize requests that found no candidate recipe, by slot",
			},
			[]string{"slot"},
		),
	}

	registry.MustRegister(
		collector.httpRequests,
		collector.httpDuration,
		collector.mealsAssigned,
		collector.mealsUnfilled,
	)
	return collector
}

func (collector *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(collector.registry, promhttp.HandlerOpts{})
}

func (collector *Collector) MealAssigned(slot string, kind string) {
	if collector == nil {
		return
	}
	collector.mealsAssigned.WithLabelValues(slot, kind).Inc()
}

func (collector *Collector) MealUnfilled(slot string) {
	if collector == nil {
		return
	}
	collector.mealsUnfilled.WithLabelValues(slot).Inc()
}

// Middleware records request counts and durations labelled by the chi route
// pattern rather than the raw path.
func (collector *Collector) Middleware(next http.Handler) http.Handler {
	if collector == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(wrapped, r)

		route := "unmatched"
		if routeContext := chi.RouteContext(r.Context()); routeContext != nil {
			if pattern := routeContext.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := wrapped.Status()
		if status == 0 {
			status = http.StatusOK
		}

		collector.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		collector.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
