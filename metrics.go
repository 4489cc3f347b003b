package rnfi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the site's Prometheus collectors. Each App has its own
// registry so several apps can live in one process.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	previews        *prometheus.CounterVec
	contactMessages *prometheus.CounterVec
	malformed       prometheus.Gauge
	contentItems    *prometheus.GaugeVec
}

func newMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}
	m.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rnfi",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status code.",
	}, []string{"route", "status"})
	m.requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rnfi",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
	m.previews = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rnfi",
		Name:      "preview_images_total",
		Help:      "Preview image requests by kind and result (hit, rendered, error).",
	}, []string{"kind", "result"})
	m.contactMessages = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rnfi",
		Name:      "contact_messages_total",
		Help:      "Contact form submissions by outcome.",
	}, []string{"outcome"})
	m.malformed = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "rnfi",
		Name:      "content_malformed_documents",
		Help:      "Article documents excluded because their metadata could not be parsed.",
	})
	m.contentItems = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "rnfi",
		Name:      "content_items",
		Help:      "Loaded content items by collection.",
	}, []string{"collection"})

	m.registry.MustRegister(
		m.requests,
		m.requestDuration,
		m.previews,
		m.contactMessages,
		m.malformed,
		m.contentItems,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// middleware records request counts and latency. Routes are labelled by
// their pattern, not the raw path, to keep label cardinality bounded.
func (m *Metrics) middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		timer := prometheus.NewTimer(prometheus.ObserverFunc(func(s float64) {
			m.requestDuration.WithLabelValues(routeLabel(c)).Observe(s)
		}))
		err := next(c)
		timer.ObserveDuration()

		status := c.Response().Status
		if err != nil {
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			} else {
				status = http.StatusInternalServerError
			}
		}
		m.requests.WithLabelValues(routeLabel(c), strconv.Itoa(status)).Inc()
		return err
	}
}

func routeLabel(c echo.Context) string {
	if p := c.Path(); p != "" {
		return p
	}
	return "unmatched"
}
