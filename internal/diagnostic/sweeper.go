package diagnostic

import (
	"context"
	"time"

	"cineze/internal/domain"
	"cineze/internal/infra"
)

// Sweeper moves jobs stuck in processing to error. A job outlives its
// pipeline only when the process running it died, so anything older than
// the cutoff is abandoned.
type Sweeper struct {
	store    domain.StaleJobSweeper
	after    time.Duration
	interval time.Duration
	log      infra.Logger
	now      func() time.Time
}

func NewSweeper(store domain.StaleJobSweeper, after, interval time.Duration, log infra.Logger) *Sweeper {
	return &Sweeper{
		store:    store,
		after:    after,
		interval: interval,
		log:      log.With().Str("component", "sweeper").Logger(),
		now:      time.Now,
	}
}

// SweepOnce fails every processing job created before now minus the stale
// threshold.
func (s *Sweeper) SweepOnce(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.after)
	n, err := s.store.MarkStaleAsError(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Warn().Int64("jobs", n).Time("cutoff", cutoff).Msg("stale jobs marked as error")
	}
	return n, nil
}

// Run sweeps immediately and then every interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		if _, err := s.SweepOnce(ctx); err != nil && ctx.Err() == nil {
			s.log.Error().Err(err).Msg("sweep failed")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
