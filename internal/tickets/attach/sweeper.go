package attach

import (
	"context"
	"fmt"
	"time"

	"order-ticketing/internal/logger"
	"order-ticketing/internal/store"
)

// Sweeper periodically purges remote-hosted attachments older than the
// retention window, from both the asset host and the ticket records.
// This is the only path that removes data from a record.
type Sweeper struct {
	Store     *store.Store
	Backend   Backend
	Retention time.Duration
	Interval  time.Duration
	Log       *logger.Logger
}

// Run sweeps once immediately, then on every interval tick until the
// context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	s.Sweep(ctx)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep performs one retention pass.
func (s *Sweeper) Sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.Retention)
	removed, err := s.Store.PruneRemoteAttachments(cutoff)
	if err != nil {
		s.logWarn(fmt.Sprintf("prune failed: %v", err))
	}
	if len(removed) == 0 {
		return
	}

	purged := 0
	for _, att := range removed {
		if err := s.Backend.Remove(ctx, att); err != nil {
			// The record no longer references the attachment; a host
			// delete failure only leaks the remote copy.
			s.logWarn(fmt.Sprintf("asset host delete %s failed: %v", att.ExternalID, err))
			continue
		}
		purged++
	}
	if s.Log != nil {
		s.Log.LogSweep(fmt.Sprintf("purged %d/%d expired attachments", purged, len(removed)))
	}
}

func (s *Sweeper) logWarn(msg string) {
	if s.Log != nil {
		s.Log.Warn("SWEEP", msg)
	}
}
