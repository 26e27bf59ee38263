package guard

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/erikhoward/patrol/core"
)

// Candidates lists the cells worth trying as a new obstruction: every cell
// the original patrol entered, except the start cell, in row-major order.
//
// Cells off the original path are never candidates. An obstruction the
// guard never walks into cannot change a single step of the walk, so the
// guard exits exactly as before. Any engine that widens the candidate set
// must keep this reasoning valid for the cells it adds.
func Candidates(g *core.Grid, mask *VisitMask) [][2]int {
	var out [][2]int
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if !mask.Visited(x, y) || g.IsObstructed(x, y) || g.IsStart(x, y) {
				continue
			}
			out = append(out, [2]int{x, y})
		}
	}
	return out
}

// TryObstruction reports whether an obstruction at (x, y) traps the guard.
// sim is reset and rerun from the grid's start pose; the grid is restored
// before returning.
func TryObstruction(g *core.Grid, sim *Simulator, x, y int) bool {
	var looped bool
	g.WithObstruction(x, y, func() {
		sim.Reset(g.StartPose())
		looped = sim.Run() == Cycled
	})
	return looped
}

// Sweep replays the walk once per candidate with that cell obstructed and
// counts the candidates that trap the guard. Each worker owns a clone of g
// and its own Simulator, so g itself is never modified.
func Sweep(ctx context.Context, g *core.Grid, candidates [][2]int, opts ...core.SweepOption) (*core.SweepResult, error) {
	cfg := core.NewSweepConfig(opts...)
	hook := cfg.Telemetry

	start := time.Now()
	hook.OnSweepStart(core.SweepStartEvent{
		Engine:     core.EngineBruteForce,
		Candidates: len(candidates),
		Workers:    cfg.Workers,
		Start:      start,
	})

	buckets := core.PartitionByRow(candidates, cfg.Workers)
	found := make([][][2]int, len(buckets))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, bucket := range buckets {
		i, bucket := i, bucket
		if len(bucket) == 0 {
			continue
		}
		eg.Go(func() error {
			grid := g.Clone()
			sim := NewSimulator(grid)
			for _, c := range bucket {
				if err := egCtx.Err(); err != nil {
					return err
				}
				looped := TryObstruction(grid, sim, c[0], c[1])
				if looped {
					found[i] = append(found[i], c)
				}
				hook.OnTrial(core.TrialEvent{
					Engine: core.EngineBruteForce,
					X:      c[0],
					Y:      c[1],
					Looped: looped,
					Work:   sim.Moves(),
				})
			}
			return nil
		})
	}
	err := eg.Wait()

	res := &core.SweepResult{Engine: core.EngineBruteForce}
	if err == nil {
		res.Trials = len(candidates)
		res.LoopCells = mergeCells(found)
		res.Loops = len(res.LoopCells)
	}
	hook.OnSweepEnd(core.SweepEndEvent{
		Engine: core.EngineBruteForce,
		Trials: res.Trials,
		Loops:  res.Loops,
		Start:  start,
		End:    time.Now(),
		Err:    err,
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// mergeCells flattens per-worker results into row-major order.
func mergeCells(parts [][][2]int) [][2]int {
	var out [][2]int
	for _, p := range parts {
		out = append(out, p...)
	}
	core.SortCells(out)
	return out
}
