package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"order-ticketing/internal/models"
)

const (
	announcedField  = "announcedAt"
	lastOpenedField = "lastOpenedAt"
)

// RedisLedger keeps one hash per ticket id. HSetNX on the announcedAt
// field makes MarkAnnounced naturally idempotent: the first writer wins
// and later calls change nothing.
type RedisLedger struct {
	Client *redis.Client
	Prefix string
}

func NewRedisLedger(client *redis.Client) *RedisLedger {
	return &RedisLedger{Client: client, Prefix: "ticket_announced:"}
}

func (l *RedisLedger) key(id string) string {
	return l.Prefix + id
}

func (l *RedisLedger) Has(id string) bool {
	n, err := l.Client.Exists(context.Background(), l.key(id)).Result()
	if err != nil {
		// Treat an unreachable ledger as "already announced" so a flaky
		// redis cannot cause duplicate announcements.
		return true
	}
	return n > 0
}

func (l *RedisLedger) MarkAnnounced(id string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := l.Client.HSetNX(context.Background(), l.key(id), announcedField, now).Result()
	if err != nil {
		return fmt.Errorf("mark announced %s: %w", id, err)
	}
	return nil
}

func (l *RedisLedger) MarkOpened(id string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if err := l.Client.HSet(context.Background(), l.key(id), lastOpenedField, now).Err(); err != nil {
		return fmt.Errorf("mark opened %s: %w", id, err)
	}
	return nil
}

func (l *RedisLedger) Entry(id string) (models.LedgerEntry, bool) {
	fields, err := l.Client.HGetAll(context.Background(), l.key(id)).Result()
	if err != nil || len(fields) == 0 {
		return models.LedgerEntry{}, false
	}

	var entry models.LedgerEntry
	if raw, ok := fields[announcedField]; ok {
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			entry.AnnouncedAt = t
		}
	}
	if raw, ok := fields[lastOpenedField]; ok {
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			entry.LastOpenedAt = &t
		}
	}
	return entry, true
}
