package ratelimit

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper drops buckets that have been idle for longer than maxAge.
type Sweeper interface {
	Cleanup(maxAge time.Duration)
}

// Cleaner periodically sweeps an in-memory limiter so idle users do not accumulate.
// Redis keys expire on their own and need no sweeping.
type Cleaner struct {
	sweeper  Sweeper
	log      *slog.Logger
	interval time.Duration
	maxAge   time.Duration
}

// NewCleaner constructs a Cleaner instance.
func NewCleaner(sweeper Sweeper, log *slog.Logger, interval, maxAge time.Duration) *Cleaner {
	if log == nil {
		log = slog.Default()
	}

	return &Cleaner{
		sweeper:  sweeper,
		log:      log,
		interval: interval,
		maxAge:   maxAge,
	}
}

// Run starts the cleaner loop until the context is cancelled.
func (c *Cleaner) Run(ctx context.Context) {
	if c == nil || c.sweeper == nil || c.interval <= 0 {
		return
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.Info("rate limit cleaner stopped", slog.String("reason", ctx.Err().Error()))
			return
		case <-ticker.C:
			c.sweeper.Cleanup(c.maxAge)
		}
	}
}
