package announce

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"order-ticketing/internal/ledger"
	"order-ticketing/internal/logger"
	"order-ticketing/internal/store"
)

// Poller runs the level-triggered reconciliation loop: every tick it
// diffs the ticket store against the ledger and announces every unseen
// record. A missed tick loses nothing; the next one re-scans everything.
type Poller struct {
	Store     *store.Store
	Ledger    ledger.Ledger
	Announcer TicketAnnouncer
	Interval  time.Duration
	Log       *logger.Logger

	inFlight atomic.Bool
}

// Run ticks once immediately, then on every interval until the context
// is cancelled.
func (p *Poller) Run(ctx context.Context) {
	p.Tick(ctx)

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Tick(ctx)
		}
	}
}

// Tick performs one scan. If the previous tick is still in flight the
// call is skipped entirely (not queued) and Tick reports false.
func (p *Poller) Tick(ctx context.Context) bool {
	if !p.inFlight.CompareAndSwap(false, true) {
		return false
	}
	defer p.inFlight.Store(false)

	// Pick up records the producer process appended since the last scan.
	_ = p.Store.Reload()

	for _, t := range p.Store.All() {
		if t.ID == "" {
			continue
		}
		if p.Ledger.Has(t.ID) {
			continue
		}
		p.log("DETECT", fmt.Sprintf("new ticket %s (UID %s)", t.ID, t.UID))
		if err := p.Announcer.Announce(ctx, t); err != nil {
			// One failed announcement must not block the rest of the
			// scan; the record stays unannounced until the next tick.
			if p.Log != nil {
				p.Log.Error("POLL", fmt.Sprintf("announce %s failed: %v", t.ID, err))
			}
		}
	}
	return true
}

func (p *Poller) log(action, msg string) {
	if p.Log != nil {
		p.Log.LogPoll(action, msg)
	}
}
