// Package metrics records trial sweeps as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/erikhoward/patrol/core"
)

// Collector is a core.TelemetryHook backed by a private Prometheus registry.
// It is safe for concurrent use.
type Collector struct {
	registry *prometheus.Registry

	trials        *prometheus.CounterVec
	trialWork     *prometheus.HistogramVec
	sweeps        *prometheus.CounterVec
	sweepDuration *prometheus.HistogramVec
	loops         *prometheus.GaugeVec
	inFlight      *prometheus.GaugeVec
}

// New returns a Collector with all metrics registered.
func New() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		trials: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "patrol_trials_total",
			Help: "Candidate obstructions tried, by engine and outcome",
		}, []string{"engine", "outcome"}),
		trialWork: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "patrol_trial_work",
			Help:    "Guard moves (brute) or graph hops (graph) per trial",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10), // 1 to ~262k
		}, []string{"engine"}),
		sweeps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "patrol_sweeps_total",
			Help: "Completed trial sweeps, by engine and status",
		}, []string{"engine", "status"}),
		sweepDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "patrol_sweep_duration_seconds",
			Help:    "Wall time of a trial sweep",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 0.1ms to ~26s
		}, []string{"engine"}),
		loops: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "patrol_loop_cells",
			Help: "Loop-inducing cells found by the last sweep",
		}, []string{"engine"}),
		inFlight: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "patrol_sweeps_in_flight",
			Help: "Sweeps currently running",
		}, []string{"engine"}),
	}
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

func (c *Collector) OnSweepStart(e core.SweepStartEvent) {
	c.inFlight.WithLabelValues(string(e.Engine)).Inc()
}

func (c *Collector) OnTrial(e core.TrialEvent) {
	outcome := "exit"
	if e.Looped {
		outcome = "loop"
	}
	c.trials.WithLabelValues(string(e.Engine), outcome).Inc()
	c.trialWork.WithLabelValues(string(e.Engine)).Observe(float64(e.Work))
}

func (c *Collector) OnSweepEnd(e core.SweepEndEvent) {
	engine := string(e.Engine)
	c.inFlight.WithLabelValues(engine).Dec()
	c.sweepDuration.WithLabelValues(engine).Observe(e.End.Sub(e.Start).Seconds())
	if e.Err != nil {
		c.sweeps.WithLabelValues(engine, "error").Inc()
		return
	}
	c.sweeps.WithLabelValues(engine, "ok").Inc()
	c.loops.WithLabelValues(engine).Set(float64(e.Loops))
}

// WriteFile writes every metric to path in the Prometheus text format.
func (c *Collector) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

var _ core.TelemetryHook = (*Collector)(nil)
