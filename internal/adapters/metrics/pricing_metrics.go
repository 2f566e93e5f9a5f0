package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hostlabs/gpupricer-go/internal/domain/pricing"
)

// PricingMetricsCollector exposes repricing-loop counters to Prometheus.
// It implements the repricing.CycleMetrics port.
type PricingMetricsCollector struct {
	cyclesTotal          prometheus.Counter
	cycleDurationSeconds prometheus.Histogram
	machinesEvaluated    prometheus.Gauge
	decisionsTotal       *prometheus.CounterVec
	updatesTotal         *prometheus.CounterVec
}

// NewPricingMetricsCollector creates and registers the collectors on the
// given registry. A nil registry uses the default one.
func NewPricingMetricsCollector(registry *prometheus.Registry) *PricingMetricsCollector {
	c := &PricingMetricsCollector{
		cyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gpupricer_cycles_total",
			Help: "Number of completed repricing cycles",
		}),
		cycleDurationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gpupricer_cycle_duration_seconds",
			Help:    "Duration of one repricing cycle",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		machinesEvaluated: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gpupricer_machines_evaluated",
			Help: "Machines matching the target filter in the last cycle",
		}),
		decisionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gpupricer_decisions_total",
			Help: "Pricing decisions by action",
		}, []string{"action"}),
		updatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gpupricer_price_updates_total",
			Help: "Submitted price updates by result",
		}, []string{"result"}),
	}

	if registry != nil {
		registry.MustRegister(c.cyclesTotal, c.cycleDurationSeconds, c.machinesEvaluated, c.decisionsTotal, c.updatesTotal)
	} else {
		prometheus.MustRegister(c.cyclesTotal, c.cycleDurationSeconds, c.machinesEvaluated, c.decisionsTotal, c.updatesTotal)
	}
	return c
}

func (c *PricingMetricsCollector) ObserveCycle(machinesEvaluated int, duration time.Duration) {
	c.cyclesTotal.Inc()
	c.cycleDurationSeconds.Observe(duration.Seconds())
	c.machinesEvaluated.Set(float64(machinesEvaluated))
}

func (c *PricingMetricsCollector) ObserveDecision(action pricing.Action) {
	c.decisionsTotal.WithLabelValues(string(action)).Inc()
}

func (c *PricingMetricsCollector) ObserveUpdate(success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	c.updatesTotal.WithLabelValues(result).Inc()
}

// ServeMetrics starts an HTTP listener exposing /metrics. It blocks, so
// callers run it on its own goroutine.
func ServeMetrics(addr string, registry *prometheus.Registry) error {
	mux := http.NewServeMux()
	if registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	} else {
		mux.Handle("/metrics", promhttp.Handler())
	}
	return http.ListenAndServe(addr, mux)
}
