package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/erikhoward/patrol/core"
	"github.com/erikhoward/patrol/graph"
	"github.com/erikhoward/patrol/guard"
	"github.com/erikhoward/patrol/metrics"
)

// ErrEngineMismatch is returned by --engine both when the engines disagree.
var ErrEngineMismatch = errors.New("engines disagree")

var (
	solveEngine     string
	solveWorkers    int
	solveIterations int
	solveMetricsOut string
	solveJSON       bool
)

var solveCmd = &cobra.Command{
	Use:   "solve <grid-file>",
	Short: "Count patrolled cells and loop-inducing obstructions",
	Long: `Walk the guard over the grid, then try an extra obstruction on every
patrolled cell and count the ones that trap the guard in a loop.

Examples:
  patrol solve input.txt
  patrol solve input.txt --engine both --workers 8
  patrol solve input.txt --iterations 16 --metrics-out patrol.prom`,
	Args: cobra.ExactArgs(1),
	RunE: runSolve,
}

func init() {
	rootCmd.AddCommand(solveCmd)

	solveCmd.Flags().StringVar(&solveEngine, "engine", "", "Trial engine: graph, brute, both (default from config: graph)")
	solveCmd.Flags().IntVar(&solveWorkers, "workers", 0, "Concurrent workers (default from config: GOMAXPROCS)")
	solveCmd.Flags().IntVar(&solveIterations, "iterations", 0, "Repeat the obstruction sweep and report the average time")
	solveCmd.Flags().StringVar(&solveMetricsOut, "metrics-out", "", "Write Prometheus metrics to this file")
	solveCmd.Flags().BoolVar(&solveJSON, "json", false, "Print the result as JSON")
}

// solveReport is the --json output.
type solveReport struct {
	Part1     int      `json:"p1"`
	Part2     int      `json:"p2"`
	Engine    string   `json:"engine"`
	LoopCells [][2]int `json:"loop_cells"`
	AvgMillis float64  `json:"avg_ms"`
}

func runSolve(cmd *cobra.Command, args []string) error {
	settings := cfg
	if solveEngine != "" {
		settings.Engine = solveEngine
	}
	if solveWorkers != 0 {
		settings.Workers = solveWorkers
	}
	if solveIterations != 0 {
		settings.Iterations = solveIterations
	}
	if solveMetricsOut != "" {
		settings.MetricsOut = solveMetricsOut
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	g, err := loadGrid(args[0])
	if err != nil {
		return err
	}

	patrol := guard.Patrol(g)
	part1 := patrol.CountVisitedCells()
	candidates := guard.Candidates(g, patrol.Mask())
	logger.Info("Patrol walked",
		zap.Int("visited", part1),
		zap.Stringer("state", patrol.State()),
		zap.Int("candidates", len(candidates)),
	)

	hooks := core.MultiHook{logHook{log: logger}}
	var collector *metrics.Collector
	if settings.MetricsOut != "" {
		collector = metrics.New()
		hooks = append(hooks, collector)
	}
	opts := []core.SweepOption{
		core.WithWorkers(settings.Workers),
		core.WithTelemetry(hooks),
	}

	ctx := commandContext(cmd)
	var res *core.SweepResult
	var total time.Duration
	for i := 0; i < settings.Iterations; i++ {
		start := time.Now()
		res, err = sweep(ctx, g, settings.Engine, candidates, opts)
		if err != nil {
			return fmt.Errorf("failed to sweep obstructions: %w", err)
		}
		total += time.Since(start)
	}
	avg := float64(total.Microseconds()) / 1000 / float64(settings.Iterations)

	if collector != nil {
		if err := collector.WriteFile(settings.MetricsOut); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	out := commandOutput(cmd)
	if solveJSON {
		data, err := json.MarshalIndent(solveReport{
			Part1:     part1,
			Part2:     res.Loops,
			Engine:    settings.Engine,
			LoopCells: res.LoopCells,
			AvgMillis: avg,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to generate JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintf(out, "p1: %d\n", part1)
	fmt.Fprintf(out, "p2: %d\n", res.Loops)
	fmt.Fprintf(out, "%.3f ms\n", avg)
	return nil
}

// sweep runs the obstruction sweep with the chosen engine. "both" runs the
// graph and the brute-force engine and fails unless they agree cell by cell.
func sweep(ctx context.Context, g *core.Grid, engine string, candidates [][2]int, opts []core.SweepOption) (*core.SweepResult, error) {
	switch engine {
	case engineBrute:
		return guard.Sweep(ctx, g, candidates, opts...)
	case engineGraph:
		return graph.Build(g).Sweep(ctx, candidates, opts...)
	case engineBoth:
		fast, err := graph.Build(g).Sweep(ctx, candidates, opts...)
		if err != nil {
			return nil, err
		}
		slow, err := guard.Sweep(ctx, g, candidates, opts...)
		if err != nil {
			return nil, err
		}
		if err := compareResults(fast, slow); err != nil {
			return nil, err
		}
		return fast, nil
	default:
		return nil, fmt.Errorf("unsupported engine: %s", engine)
	}
}

func compareResults(a, b *core.SweepResult) error {
	inA := make(map[[2]int]bool, len(a.LoopCells))
	for _, c := range a.LoopCells {
		inA[c] = true
	}
	inB := make(map[[2]int]bool, len(b.LoopCells))
	for _, c := range b.LoopCells {
		inB[c] = true
		if !inA[c] {
			return fmt.Errorf("%w: (%d,%d) loops for %s only", ErrEngineMismatch, c[0], c[1], b.Engine)
		}
	}
	for _, c := range a.LoopCells {
		if !inB[c] {
			return fmt.Errorf("%w: (%d,%d) loops for %s only", ErrEngineMismatch, c[0], c[1], a.Engine)
		}
	}
	return nil
}
