package core

import "time"

// Engine names a trial engine.
type Engine string

const (
	EngineBruteForce Engine = "brute"
	EngineGraph      Engine = "graph"
)

// SweepStartEvent is emitted before a trial sweep begins.
type SweepStartEvent struct {
	Engine     Engine
	Candidates int
	Workers    int
	Start      time.Time
}

// SweepEndEvent is emitted when a trial sweep finishes, successfully or not.
type SweepEndEvent struct {
	Engine Engine
	Trials int
	Loops  int
	Start  time.Time
	End    time.Time
	Err    error
}

// TrialEvent is emitted once per candidate obstruction.
type TrialEvent struct {
	Engine Engine
	X, Y   int
	Looped bool
	// Work is engine-specific effort: guard moves for brute force,
	// node hops for the graph.
	Work int
}

// TelemetryHook receives sweep events. Implementations must be safe for
// concurrent use because trial events arrive from every worker.
type TelemetryHook interface {
	OnSweepStart(e SweepStartEvent)
	OnTrial(e TrialEvent)
	OnSweepEnd(e SweepEndEvent)
}

// NoopTelemetryHook discards all events.
type NoopTelemetryHook struct{}

func (NoopTelemetryHook) OnSweepStart(SweepStartEvent) {}
func (NoopTelemetryHook) OnTrial(TrialEvent)           {}
func (NoopTelemetryHook) OnSweepEnd(SweepEndEvent)     {}

// SweepConfig holds options shared by both trial engines.
type SweepConfig struct {
	Workers   int
	Telemetry TelemetryHook
}

// SweepOption configures a sweep.
type SweepOption func(*SweepConfig)

// NewSweepConfig applies opts over the defaults: one worker, no telemetry.
func NewSweepConfig(opts ...SweepOption) SweepConfig {
	cfg := SweepConfig{
		Workers:   1,
		Telemetry: NoopTelemetryHook{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithWorkers sets the number of concurrent workers. Values below one are
// ignored.
func WithWorkers(n int) SweepOption {
	return func(c *SweepConfig) {
		if n > 0 {
			c.Workers = n
		}
	}
}

// WithTelemetry sets the telemetry hook for the sweep.
func WithTelemetry(h TelemetryHook) SweepOption {
	return func(c *SweepConfig) {
		if h != nil {
			c.Telemetry = h
		}
	}
}

// SweepResult is the outcome of a trial sweep.
type SweepResult struct {
	Engine Engine
	Trials int
	Loops  int
	// LoopCells lists loop-inducing cells in row-major order.
	LoopCells [][2]int
}

// MultiHook forwards every event to each hook in order.
type MultiHook []TelemetryHook

func (m MultiHook) OnSweepStart(e SweepStartEvent) {
	for _, h := range m {
		h.OnSweepStart(e)
	}
}

func (m MultiHook) OnTrial(e TrialEvent) {
	for _, h := range m {
		h.OnTrial(e)
	}
}

func (m MultiHook) OnSweepEnd(e SweepEndEvent) {
	for _, h := range m {
		h.OnSweepEnd(e)
	}
}
