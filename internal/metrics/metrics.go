// Package metrics exposes Prometheus counters for backtest and
// optimization runs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	backtestsTotal       *prometheus.CounterVec
	backtestDuration     prometheus.Histogram
	tradesSimulated      *prometheus.CounterVec
	optimizerEvaluations *prometheus.CounterVec
	optimizerSkipped     *prometheus.CounterVec
	signalsTotal         *prometheus.CounterVec
}

// NewRegistry creates a registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		backtestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stratlab_backtests_total",
				Help: "Total number of backtest runs",
			},
			[]string{"status"},
		),
		backtestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "stratlab_backtest_duration_seconds",
				Help:    "Backtest run duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60},
			},
		),
		tradesSimulated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stratlab_trades_simulated_total",
				Help: "Total number of simulated trades by exit reason",
			},
			[]string{"reason"},
		),
		optimizerEvaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stratlab_optimizer_evaluations_total",
				Help: "Total number of optimizer fitness evaluations",
			},
			[]string{"method"},
		),
		optimizerSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stratlab_optimizer_skipped_total",
				Help: "Total number of failed optimizer evaluations skipped",
			},
			[]string{"method"},
		),
		signalsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stratlab_signals_total",
				Help: "Total number of signals evaluated by direction",
			},
			[]string{"direction"},
		),
	}

	reg.MustRegister(r.backtestsTotal)
	reg.MustRegister(r.backtestDuration)
	reg.MustRegister(r.tradesSimulated)
	reg.MustRegister(r.optimizerEvaluations)
	reg.MustRegister(r.optimizerSkipped)
	reg.MustRegister(r.signalsTotal)

	return r
}

// RecordBacktest counts one backtest run with its outcome status.
func (r *Registry) RecordBacktest(status string) {
	r.backtestsTotal.WithLabelValues(status).Inc()
}

// ObserveBacktestDuration records how long one backtest run took.
func (r *Registry) ObserveBacktestDuration(seconds float64) {
	r.backtestDuration.Observe(seconds)
}

// AddTradesSimulated counts simulated trades closed with the given
// exit reason.
func (r *Registry) AddTradesSimulated(reason string, n int) {
	r.tradesSimulated.WithLabelValues(reason).Add(float64(n))
}

// RecordEvaluation counts one optimizer fitness evaluation.
func (r *Registry) RecordEvaluation(method string) {
	r.optimizerEvaluations.WithLabelValues(method).Inc()
}

// RecordSkip counts one skipped optimizer evaluation.
func (r *Registry) RecordSkip(method string) {
	r.optimizerSkipped.WithLabelValues(method).Inc()
}

// RecordSignal counts one evaluated signal by direction.
func (r *Registry) RecordSignal(direction string) {
	r.signalsTotal.WithLabelValues(direction).Inc()
}

// Handler returns an HTTP handler exposing this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.Registry, promhttp.HandlerOpts{})
}
