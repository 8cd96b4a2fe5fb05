package tickets

import (
	"sync"
	"time"
)

// PendingTicket is the transient per-user state between "open ticket"
// and form submission. It lives only in process memory; a restart or an
// expired entry both surface as "ticket expired" to the submitter.
type PendingTicket struct {
	Kind      string
	ChannelID string
}

type pendingEntry struct {
	ticket    PendingTicket
	expiresAt time.Time
}

// PendingTickets is a TTL map keyed by user id. Entries past their TTL
// are indistinguishable from missing ones.
type PendingTickets struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]pendingEntry
	now     func() time.Time
}

func NewPendingTickets(ttl time.Duration) *PendingTickets {
	return &PendingTickets{
		ttl:     ttl,
		entries: make(map[string]pendingEntry),
		now:     time.Now,
	}
}

func (p *PendingTickets) Set(userID string, ticket PendingTicket) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.purgeLocked()
	p.entries[userID] = pendingEntry{
		ticket:    ticket,
		expiresAt: p.now().Add(p.ttl),
	}
}

func (p *PendingTickets) Get(userID string) (PendingTicket, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.entries[userID]
	if !ok {
		return PendingTicket{}, false
	}
	if p.now().After(entry.expiresAt) {
		delete(p.entries, userID)
		return PendingTicket{}, false
	}
	return entry.ticket, true
}

func (p *PendingTickets) Delete(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.entries, userID)
}

// purgeLocked drops expired entries so abandoned opens cannot accumulate
// for the process lifetime.
func (p *PendingTickets) purgeLocked() {
	now := p.now()
	for userID, entry := range p.entries {
		if now.After(entry.expiresAt) {
			delete(p.entries, userID)
		}
	}
}
