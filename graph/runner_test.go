package graph

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/erikhoward/patrol/core"
	"github.com/erikhoward/patrol/guard"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var sampleLoops = [][2]int{{3, 6}, {6, 7}, {7, 7}, {1, 8}, {3, 8}, {7, 9}}

type recordingHook struct {
	mu     sync.Mutex
	trials []core.TrialEvent
	ends   []core.SweepEndEvent
}

func (h *recordingHook) OnSweepStart(core.SweepStartEvent) {}

func (h *recordingHook) OnTrial(e core.TrialEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.trials = append(h.trials, e)
}

func (h *recordingHook) OnSweepEnd(e core.SweepEndEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ends = append(h.ends, e)
}

func candidates(g *core.Grid) [][2]int {
	return guard.Candidates(g, guard.Patrol(g).Mask())
}

func TestSweepSample(t *testing.T) {
	g := mustParse(t, sampleGrid)
	tg := Build(g)
	before := tg.Snapshot()

	res, err := tg.Sweep(context.Background(), candidates(g))
	require.NoError(t, err)

	assert.Equal(t, core.EngineGraph, res.Engine)
	assert.Equal(t, 40, res.Trials)
	assert.Equal(t, 6, res.Loops)
	assert.Equal(t, sampleLoops, res.LoopCells)
	assert.Equal(t, before, tg.Snapshot())
}

func TestSweepParallelMatchesSequential(t *testing.T) {
	g := mustParse(t, sampleGrid)
	tg := Build(g)
	cands := candidates(g)

	seq, err := tg.Sweep(context.Background(), cands)
	require.NoError(t, err)
	for _, workers := range []int{2, 4, 32} {
		par, err := tg.Sweep(context.Background(), cands, core.WithWorkers(workers))
		require.NoError(t, err)
		assert.Equal(t, seq, par, "workers=%d", workers)
	}
}

// randomGrid builds a w x h grid with roughly density obstructions and the
// guard at a random open cell and heading.
func randomGrid(t *testing.T, rng *rand.Rand, w, h int, density float64) *core.Grid {
	t.Helper()
	start := core.Pose{X: rng.Intn(w), Y: rng.Intn(h), Dir: core.Directions[rng.Intn(core.NumDirections)]}
	var obs [][2]int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x != start.X || y != start.Y) && rng.Float64() < density {
				obs = append(obs, [2]int{x, y})
			}
		}
	}
	g, err := core.NewGrid(w, h, obs, start)
	require.NoError(t, err)
	return g
}

func TestSweepMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	ctx := context.Background()

	for i := 0; i < 300; i++ {
		g := randomGrid(t, rng, 1+rng.Intn(12), 1+rng.Intn(12), 0.05+rng.Float64()*0.3)
		cands := candidates(g)

		want, err := guard.Sweep(ctx, g, cands)
		require.NoError(t, err)
		got, err := Build(g).Sweep(ctx, cands)
		require.NoError(t, err)

		require.Equal(t, want.LoopCells, got.LoopCells, "grid %d:\n%s", i, g)
		require.Equal(t, want.Trials, got.Trials)
	}
}

func TestHasCycleSurvivesGenerationWrap(t *testing.T) {
	tg := Build(mustParse(t, ".#...\n....#\n.^...\n#....\n...#."))
	tg.gen = math.MaxUint32 - 1

	for i := 0; i < 4; i++ {
		assert.True(t, tg.HasCycle(Root), "call %d", i)
	}
	assert.Less(t, tg.gen, uint32(10))
}

func TestHasCycleInvalidNode(t *testing.T) {
	tg := Build(mustParse(t, sampleGrid))
	id, _ := tg.Lookup(9, 1, core.Left)
	assert.False(t, tg.HasCycle(id))
	assert.False(t, tg.HasCycle(NoNode))
}

func TestSweepRejectsPendingTrial(t *testing.T) {
	g := mustParse(t, sampleGrid)
	tg := Build(g)
	require.NoError(t, tg.AddObstruction(3, 6))

	res, err := tg.Sweep(context.Background(), candidates(g))
	assert.ErrorIs(t, err, ErrTrialPending)
	assert.Nil(t, res)
}

func TestSweepCanceled(t *testing.T) {
	g := mustParse(t, sampleGrid)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	hook := &recordingHook{}
	res, err := Build(g).Sweep(ctx, candidates(g), core.WithWorkers(3), core.WithTelemetry(hook))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
	require.Len(t, hook.ends, 1)
	assert.ErrorIs(t, hook.ends[0].Err, context.Canceled)
}

func TestSweepTelemetryCountsHops(t *testing.T) {
	g := mustParse(t, trapGrid)
	cands := candidates(g)

	hook := &recordingHook{}
	res, err := Build(g).Sweep(context.Background(), cands, core.WithTelemetry(hook))
	require.NoError(t, err)

	assert.Equal(t, [][2]int{{0, 3}}, res.LoopCells)
	require.Len(t, hook.trials, len(cands))
	for _, e := range hook.trials {
		assert.Equal(t, core.EngineGraph, e.Engine)
		assert.Positive(t, e.Work, "root is always passed")
	}
}
