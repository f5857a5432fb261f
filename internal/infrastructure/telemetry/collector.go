// Package telemetry exposes Prometheus instruments for the metrics cache,
// metric computation, webhook intake and HTTP traffic on a private registry.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tally"

type Collector struct {
	registry *prometheus.Registry

	cacheHits          *prometheus.CounterVec
	cacheMisses        *prometheus.CounterVec
	computeDuration    *prometheus.HistogramVec
	webhookEvents      *prometheus.CounterVec
	cacheInvalidations *prometheus.CounterVec
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		registry: reg,
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "metrics_cache",
			Name:      "hits_total",
			Help:      "Metric reads answered from the cache.",
		}, []string{"metric"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "metrics_cache",
			Name:      "misses_total",
			Help:      "Metric reads that had to be computed.",
		}, []string{"metric"}),
		computeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "metric_computation_seconds",
			Help:      "Time spent computing one metric from billing records.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"metric", "status"}),
		webhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_events_total",
			Help:      "Webhook deliveries by provider and outcome.",
		}, []string{"provider", "status"}),
		cacheInvalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "metrics_cache",
			Name:      "invalidated_keys_total",
			Help:      "Cached metric entries removed by invalidation.",
		}, []string{"source"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "status_code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		c.cacheHits,
		c.cacheMisses,
		c.computeDuration,
		c.webhookEvents,
		c.cacheInvalidations,
		c.httpRequests,
		c.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) CacheHit(metric string) {
	c.cacheHits.WithLabelValues(metric).Inc()
}

func (c *Collector) CacheMiss(metric string) {
	c.cacheMisses.WithLabelValues(metric).Inc()
}

func (c *Collector) ObserveComputation(metric string, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.computeDuration.WithLabelValues(metric, status).Observe(elapsed.Seconds())
}

func (c *Collector) WebhookEvent(provider, status string) {
	c.webhookEvents.WithLabelValues(provider, status).Inc()
}

func (c *Collector) CacheInvalidated(source string, keys int64) {
	c.cacheInvalidations.WithLabelValues(source).Add(float64(keys))
}

func (c *Collector) HTTPRequest(method, route string, status int, elapsed time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
