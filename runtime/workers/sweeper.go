package workers

import (
	"context"
	"log/slog"
	"time"
)

// SweepTarget is the slice of the coordinator the sweeper drives.
type SweepTarget interface {
	SweepExpired(ctx context.Context, maxLifetime time.Duration) int
	SweepAbandoned(ctx context.Context, minLifetime time.Duration) int
}

// SessionSweeper enforces the session lifetime policy. A fixed ticker runs
// the hard-expiry sweep regardless of user activity; voice-presence signals
// trigger the abandonment sweep on demand. The ticker is the engine's only
// scheduled background activity and stops with the context.
type SessionSweeper struct {
	log    *slog.Logger
	target SweepTarget

	cleanupInterval time.Duration
	minLifetime     time.Duration
	maxLifetime     time.Duration

	trigger chan struct{}
}

func NewSessionSweeper(
	log *slog.Logger,
	target SweepTarget,
	cleanupInterval, minLifetime, maxLifetime time.Duration,
) *SessionSweeper {
	return &SessionSweeper{
		log:             log,
		target:          target,
		cleanupInterval: cleanupInterval,
		minLifetime:     minLifetime,
		maxLifetime:     maxLifetime,
		trigger:         make(chan struct{}, 1),
	}
}

// TriggerEarlySweep requests an abandonment sweep. Coalescing is fine: one
// pending trigger covers any number of presence signals.
func (w *SessionSweeper) TriggerEarlySweep() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

func (w *SessionSweeper) Run(ctx context.Context) error {
	w.log.Info("Starting session sweeper",
		"cleanup_interval", w.cleanupInterval,
		"min_lifetime", w.minLifetime,
		"max_lifetime", w.maxLifetime)

	ticker := time.NewTicker(w.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping sweeper")
			return ctx.Err()
		case <-ticker.C:
			if removed := w.target.SweepExpired(ctx, w.maxLifetime); removed > 0 {
				w.log.Info("Expired sessions swept", "count", removed)
			}
		case <-w.trigger:
			if removed := w.target.SweepAbandoned(ctx, w.minLifetime); removed > 0 {
				w.log.Info("Abandoned sessions swept", "count", removed)
			}
		}
	}
}
