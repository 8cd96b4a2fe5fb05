package store

import (
	"order-ticketing/internal/models"
)

// MemoryBackend keeps the persisted collection in memory. Used by tests
// and by callers that want a store with no durability at all.
type MemoryBackend struct {
	tickets []models.Ticket
	saves   int
}

func NewMemoryBackend(seed []models.Ticket) *MemoryBackend {
	return &MemoryBackend{tickets: append([]models.Ticket(nil), seed...)}
}

func (b *MemoryBackend) Load() ([]models.Ticket, error) {
	return append([]models.Ticket(nil), b.tickets...), nil
}

func (b *MemoryBackend) Save(tickets []models.Ticket) error {
	b.tickets = append([]models.Ticket(nil), tickets...)
	b.saves++
	return nil
}

// Saves reports how many times Save ran.
func (b *MemoryBackend) Saves() int {
	return b.saves
}
