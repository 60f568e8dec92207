// Package metrics exposes Prometheus metrics for the monitor daemon.
package metrics

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the monitor's Prometheus instruments
type Collector struct {
	registry *prometheus.Registry

	CandlesFetched    prometheus.Counter
	FetchErrors       prometheus.Counter
	Evaluations       prometheus.Counter
	SignalsDetected   *prometheus.CounterVec
	SignalsSuppressed *prometheus.CounterVec
	WebhooksSent      prometheus.Counter
	WebhooksFailed    prometheus.Counter
	WebhookLatency    prometheus.Histogram
}

// NewCollector creates a collector backed by its own registry
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	c := &Collector{
		registry: registry,
		CandlesFetched: factory.NewCounter(prometheus.CounterOpts{
			Name: "ftops_monitor_candles_fetched_total",
			Help: "Candle history fetches from the Freqtrade API",
		}),
		FetchErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "ftops_monitor_fetch_errors_total",
			Help: "Failed candle history fetches",
		}),
		Evaluations: factory.NewCounter(prometheus.CounterOpts{
			Name: "ftops_monitor_evaluations_total",
			Help: "Pair evaluations performed",
		}),
		SignalsDetected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ftops_monitor_signals_detected_total",
			Help: "Signals detected per pair and type",
		}, []string{"pair", "type"}),
		SignalsSuppressed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ftops_monitor_signals_suppressed_total",
			Help: "Signals suppressed by the per pair+type cooldown",
		}, []string{"pair", "type"}),
		WebhooksSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "ftops_monitor_webhooks_sent_total",
			Help: "Webhook deliveries that succeeded",
		}),
		WebhooksFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "ftops_monitor_webhooks_failed_total",
			Help: "Webhook deliveries that failed after retries",
		}),
		WebhookLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ftops_monitor_webhook_latency_seconds",
			Help:    "Webhook delivery latency",
			Buckets: prometheus.DefBuckets,
		}),
	}

	startTime := time.Now()
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "ftops_monitor_uptime_seconds",
		Help: "Time since the monitor daemon started",
	}, func() float64 {
		return time.Since(startTime).Seconds()
	})

	return c
}

// HealthChecker is anything that can report its own health
type HealthChecker interface {
	HealthCheck() error
}

// NewServer builds the HTTP server exposing /metrics and /healthz
func (c *Collector) NewServer(listen string, health HealthChecker) *http.Server {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{}))
	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		status := map[string]string{"status": "ok"}
		code := http.StatusOK
		if health != nil {
			if err := health.HealthCheck(); err != nil {
				status = map[string]string{"status": "degraded", "error": err.Error()}
				code = http.StatusServiceUnavailable
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(status)
	}).Methods(http.MethodGet)

	return &http.Server{
		Addr:         listen,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}
