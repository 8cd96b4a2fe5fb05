package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"order-ticketing/internal/logger"
	"order-ticketing/internal/models"
)

// Backend persists the full ticket collection. The store is the source of
// truth for reads during the process lifetime; the backend only sees
// whole-collection loads and saves.
type Backend interface {
	Load() ([]models.Ticket, error)
	Save(tickets []models.Ticket) error
}

// Store keeps the ticket collection in memory, in insertion order, and
// rewrites the whole collection through its backend on every mutation.
// Records are never deleted; only attachments can be pruned.
type Store struct {
	mu      sync.Mutex
	backend Backend
	log     *logger.Logger
	tickets []models.Ticket
	byID    map[string]int
}

// New loads the collection once. A backend load failure (corrupt file,
// unreadable db) is logged and treated as an empty store, never as a
// fatal error; the next save overwrites whatever was there.
func New(backend Backend, log *logger.Logger) *Store {
	s := &Store{
		backend: backend,
		log:     log,
		byID:    make(map[string]int),
	}

	tickets, err := backend.Load()
	if err != nil {
		s.logStore("LOAD", fmt.Sprintf("unreadable ticket store, starting empty: %v", err))
		tickets = nil
	}
	for _, t := range tickets {
		if t.ID == "" {
			continue
		}
		if _, dup := s.byID[t.ID]; dup {
			continue
		}
		s.byID[t.ID] = len(s.tickets)
		s.tickets = append(s.tickets, t)
	}
	s.logStore("LOAD", fmt.Sprintf("loaded %d tickets", len(s.tickets)))
	return s
}

// Reload replaces the in-memory cache with the backend's current
// contents. The consumer process calls this before each poll scan so
// records appended by the producer process become visible; a load
// failure keeps the previous cache, which only delays announcements by
// one tick.
func (s *Store) Reload() error {
	tickets, err := s.backend.Load()
	if err != nil {
		s.logStore("RELOAD", fmt.Sprintf("reload failed, keeping cached view: %v", err))
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tickets = s.tickets[:0]
	s.byID = make(map[string]int)
	for _, t := range tickets {
		if t.ID == "" {
			continue
		}
		if _, dup := s.byID[t.ID]; dup {
			continue
		}
		s.byID[t.ID] = len(s.tickets)
		s.tickets = append(s.tickets, t)
	}
	return nil
}

// Append adds a record with a never-before-seen id and persists the
// collection synchronously.
func (s *Store) Append(t models.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == "" {
		return fmt.Errorf("ticket id is empty")
	}
	if _, exists := s.byID[t.ID]; exists {
		return fmt.Errorf("ticket %s already exists", t.ID)
	}

	s.byID[t.ID] = len(s.tickets)
	s.tickets = append(s.tickets, t)

	if err := s.save(); err != nil {
		return fmt.Errorf("failed to persist ticket %s: %w", t.ID, err)
	}
	s.logStore("APPEND", fmt.Sprintf("ticket %s (UID %s)", t.ID, t.UID))
	return nil
}

// GetByID returns a copy of the record, or false if it was never written.
func (s *Store) GetByID(id string) (models.Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byID[id]
	if !ok {
		return models.Ticket{}, false
	}
	return copyTicket(s.tickets[idx]), true
}

// GetByUID returns all seller records matching the uid, ordered by
// creation time ascending. With activeOnly set, only active records are
// returned. The result is possibly empty, never an error.
func (s *Store) GetByUID(uid string, activeOnly bool) []models.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Ticket
	for _, t := range s.tickets {
		if t.UID != uid || t.Kind != models.KindSeller {
			continue
		}
		if activeOnly && t.Status != models.StatusActive {
			continue
		}
		out = append(out, copyTicket(t))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// FindByChannel returns the seller record owning the given channel id, if
// any. Used to match incoming channel messages back to their ticket.
func (s *Store) FindByChannel(channelID string) (models.Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tickets {
		if t.ChannelID == channelID && t.Kind == models.KindSeller {
			return copyTicket(t), true
		}
	}
	return models.Ticket{}, false
}

// AppendAttachment extends the record's attachment sequence and persists
// the collection again. Attachments are append-only for the life of the
// ticket; only the retention sweep removes them.
func (s *Store) AppendAttachment(id string, att models.Attachment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("ticket %s not found", id)
	}
	s.tickets[idx].Attachments = append(s.tickets[idx].Attachments, att)

	if err := s.save(); err != nil {
		return fmt.Errorf("failed to persist attachment for ticket %s: %w", id, err)
	}
	s.logStore("ATTACH", fmt.Sprintf("ticket %s now has %d attachments", id, len(s.tickets[idx].Attachments)))
	return nil
}

// PruneRemoteAttachments drops remote-hosted attachments uploaded before
// the cutoff from every record and returns the removed descriptors so the
// caller can purge them from the asset host. Local attachments are never
// touched.
func (s *Store) PruneRemoteAttachments(cutoff time.Time) ([]models.Attachment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []models.Attachment
	for i := range s.tickets {
		kept := s.tickets[i].Attachments[:0]
		for _, att := range s.tickets[i].Attachments {
			if att.Remote() && att.UploadedAt.Before(cutoff) {
				removed = append(removed, att)
				continue
			}
			kept = append(kept, att)
		}
		s.tickets[i].Attachments = kept
	}

	if len(removed) == 0 {
		return nil, nil
	}
	if err := s.save(); err != nil {
		return removed, fmt.Errorf("failed to persist attachment prune: %w", err)
	}
	s.logStore("PRUNE", fmt.Sprintf("removed %d expired attachments", len(removed)))
	return removed, nil
}

// All returns a snapshot of every record in insertion order.
func (s *Store) All() []models.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		out = append(out, copyTicket(t))
	}
	return out
}

// Len reports the number of records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tickets)
}

func (s *Store) save() error {
	return s.backend.Save(s.tickets)
}

func (s *Store) logStore(op, msg string) {
	if s.log != nil {
		s.log.LogStore(op, msg)
	}
}

func copyTicket(t models.Ticket) models.Ticket {
	out := t
	if t.Attachments != nil {
		out.Attachments = make([]models.Attachment, len(t.Attachments))
		copy(out.Attachments, t.Attachments)
	}
	return out
}
