package sim

import (
	"context"
	"log/slog"
)

// logProgress reports the step index and every protein's location. It logs
// at Debug unless location logging was requested.
func (e *Engine) logProgress() {
	level := slog.LevelDebug
	if e.opts.LogLocations {
		level = slog.LevelInfo
	}
	ctx := context.Background()
	if !e.logger.Enabled(ctx, level) {
		return
	}
	e.logger.Log(ctx, level, "step",
		"step", e.step,
		"total", e.TotalSteps(),
		"proteins", e.Proteins(),
	)
}

// BoundCount returns the number of bound TCRs.
func (e *Engine) BoundCount() int {
	return e.energy.Pinned()
}
