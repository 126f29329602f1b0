package idempotency

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper removes stale idempotency entries and reports how many went away.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

type Cleaner struct {
	sweeper  Sweeper
	log      *slog.Logger
	interval time.Duration
}

func NewCleaner(sweeper Sweeper, log *slog.Logger, interval time.Duration) *Cleaner {
	if log == nil {
		log = slog.Default()
	}

	return &Cleaner{
		sweeper:  sweeper,
		log:      log,
		interval: interval,
	}
}

func (c *Cleaner) Run(ctx context.Context) {
	if c == nil || c.sweeper == nil || c.interval <= 0 {
		return
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := c.sweeper.Sweep(ctx)
			if err != nil {
				c.log.Error("idempotency cleanup failed", slog.Any("error", err))
				continue
			}
			if removed > 0 {
				c.log.Debug("idempotency cleanup", slog.Int("removed", removed))
			}
		}
	}
}
