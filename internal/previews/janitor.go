package previews

import (
	"context"
	"log/slog"
	"time"

	"github.com/Shubham-NM01/doc-uploader/pkg/lifecycle"
)

// Pruner removes previews created before a cutoff.
type Pruner interface {
	Prune(ctx context.Context, cutoff time.Time) (int, error)
}

// Janitor periodically prunes previews older than maxAge.
type Janitor struct {
	pruner   Pruner
	maxAge   time.Duration
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

func NewJanitor(pruner Pruner, maxAge, interval time.Duration, logger *slog.Logger) *Janitor {
	return &Janitor{
		pruner:   pruner,
		maxAge:   maxAge,
		interval: interval,
		now:      time.Now,
		logger:   logger.With("system", "preview-janitor"),
	}
}

// Start runs the prune loop until the coordinator shuts down. A zero maxAge
// or interval leaves the janitor idle.
func (j *Janitor) Start(lc *lifecycle.Coordinator) error {
	if j.maxAge <= 0 || j.interval <= 0 {
		j.logger.Info("preview pruning disabled")
		return nil
	}

	lc.OnShutdown(func() {
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		j.logger.Info("preview janitor started", "max_age", j.maxAge, "interval", j.interval)

		for {
			select {
			case <-lc.Context().Done():
				j.logger.Info("preview janitor stopped")
				return
			case <-ticker.C:
				j.RunOnce(lc.Context())
			}
		}
	})

	return nil
}

// RunOnce prunes previews older than maxAge and returns how many were removed.
func (j *Janitor) RunOnce(ctx context.Context) int {
	cutoff := j.now().Add(-j.maxAge)

	n, err := j.pruner.Prune(ctx, cutoff)
	if err != nil {
		j.logger.Error("preview prune failed", "error", err)
	}
	if n > 0 {
		j.logger.Info("previews pruned", "removed", n, "cutoff", cutoff)
	}
	return n
}
