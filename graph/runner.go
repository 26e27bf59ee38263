package graph

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/erikhoward/patrol/core"
)

// HasCycle follows successors from the given node and reports whether the
// walk returns to a node it already passed. Reaching NoNode means the guard
// left the grid. Invalid nodes end the walk without a cycle.
func (g *Graph) HasCycle(from NodeID) bool {
	looped, _ := g.walk(from)
	return looped
}

// walk stamps every node it passes with a fresh generation, so no per-call
// reset of the arena is needed. It returns whether a stamp repeated and the
// number of nodes passed.
func (g *Graph) walk(from NodeID) (looped bool, hops int) {
	g.gen++
	if g.gen == 0 {
		for i := range g.nodes {
			g.nodes[i].gen = 0
		}
		g.gen = 1
	}

	for id := from; id != NoNode; id = g.nodes[id].Next {
		n := &g.nodes[id]
		if !n.Valid {
			return false, hops
		}
		if n.gen == g.gen {
			return true, hops
		}
		n.gen = g.gen
		hops++
	}
	return false, hops
}

// Sweep runs TryObstruction for every candidate and counts the cells that
// trap the guard. Each worker operates on its own Clone of g; g itself is
// left untouched. g must not have a pending trial.
func (g *Graph) Sweep(ctx context.Context, candidates [][2]int, opts ...core.SweepOption) (*core.SweepResult, error) {
	if g.trial != nil {
		return nil, ErrTrialPending
	}
	cfg := core.NewSweepConfig(opts...)
	hook := cfg.Telemetry

	start := time.Now()
	hook.OnSweepStart(core.SweepStartEvent{
		Engine:     core.EngineGraph,
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
			local := g
			if len(buckets) > 1 {
				local = g.Clone()
			}
			for _, c := range bucket {
				if err := egCtx.Err(); err != nil {
					return err
				}
				looped, hops, err := local.try(c[0], c[1])
				if err != nil {
					return err
				}
				if looped {
					found[i] = append(found[i], c)
				}
				hook.OnTrial(core.TrialEvent{
					Engine: core.EngineGraph,
					X:      c[0],
					Y:      c[1],
					Looped: looped,
					Work:   hops,
				})
			}
			return nil
		})
	}
	err := eg.Wait()

	res := &core.SweepResult{Engine: core.EngineGraph}
	if err == nil {
		for _, f := range found {
			res.LoopCells = append(res.LoopCells, f...)
		}
		core.SortCells(res.LoopCells)
		res.Trials = len(candidates)
		res.Loops = len(res.LoopCells)
	}
	hook.OnSweepEnd(core.SweepEndEvent{
		Engine: core.EngineGraph,
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
