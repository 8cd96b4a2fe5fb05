package reaper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"order-ticketing/internal/logger"
	"order-ticketing/internal/platform"
)

// Reaper schedules channel deletions. Every ticket channel gets a fixed
// TTL; the explicit delete-now action cancels the pending timer and
// deletes promptly. Deleting an already-gone channel is tolerated by the
// messenger, so the timer/button race is benign either way.
type Reaper struct {
	mu        sync.Mutex
	messenger platform.Messenger
	log       *logger.Logger
	timers    map[string]*time.Timer
	stopped   bool
}

func New(messenger platform.Messenger, log *logger.Logger) *Reaper {
	return &Reaper{
		messenger: messenger,
		log:       log,
		timers:    make(map[string]*time.Timer),
	}
}

// Schedule arms (or re-arms) deletion of the channel after the delay.
func (r *Reaper) Schedule(channelID string, after time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return
	}
	if existing, ok := r.timers[channelID]; ok {
		existing.Stop()
	}
	r.timers[channelID] = time.AfterFunc(after, func() {
		r.fire(channelID)
	})
}

// Cancel disarms a pending deletion, if one exists.
func (r *Reaper) Cancel(channelID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if timer, ok := r.timers[channelID]; ok {
		timer.Stop()
		delete(r.timers, channelID)
	}
}

// DeleteNow cancels the pending timer and deletes after a short grace
// period so the interaction reply can land first.
func (r *Reaper) DeleteNow(channelID string, grace time.Duration) {
	r.Cancel(channelID)

	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.timers[channelID] = time.AfterFunc(grace, func() {
		r.fire(channelID)
	})
	r.mu.Unlock()
}

// Stop disarms every pending timer. Already-fired deletions are not
// waited for.
func (r *Reaper) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopped = true
	for id, timer := range r.timers {
		timer.Stop()
		delete(r.timers, id)
	}
}

// Pending reports whether the channel has a scheduled deletion.
func (r *Reaper) Pending(channelID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.timers[channelID]
	return ok
}

func (r *Reaper) fire(channelID string) {
	r.mu.Lock()
	delete(r.timers, channelID)
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Best effort: failures are logged and swallowed, never retried.
	if err := r.messenger.DeleteChannel(ctx, channelID); err != nil {
		if r.log != nil {
			r.log.Warn("CHANNEL", fmt.Sprintf("delete %s failed: %v", channelID, err))
		}
		return
	}
	if r.log != nil {
		r.log.LogChannel("DELETE", channelID, "channel removed")
	}
}
