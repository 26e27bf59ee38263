package commands

import (
	"go.uber.org/zap"

	"github.com/erikhoward/patrol/core"
)

// logHook logs sweep progress through the command logger.
type logHook struct {
	log *zap.Logger
}

func (h logHook) OnSweepStart(e core.SweepStartEvent) {
	h.log.Debug("Sweep started",
		zap.String("engine", string(e.Engine)),
		zap.Int("candidates", e.Candidates),
		zap.Int("workers", e.Workers),
	)
}

func (h logHook) OnTrial(e core.TrialEvent) {
	if !e.Looped {
		return
	}
	h.log.Debug("Obstruction traps guard",
		zap.String("engine", string(e.Engine)),
		zap.Int("x", e.X),
		zap.Int("y", e.Y),
		zap.Int("work", e.Work),
	)
}

func (h logHook) OnSweepEnd(e core.SweepEndEvent) {
	if e.Err != nil {
		h.log.Error("Sweep failed", zap.String("engine", string(e.Engine)), zap.Error(e.Err))
		return
	}
	h.log.Info("Sweep finished",
		zap.String("engine", string(e.Engine)),
		zap.Int("trials", e.Trials),
		zap.Int("loops", e.Loops),
		zap.Duration("duration", e.End.Sub(e.Start)),
	)
}
