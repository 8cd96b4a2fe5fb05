package ledger_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-ticketing/internal/ledger"
)

func newTestRedisLedger(t *testing.T) (*ledger.RedisLedger, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return ledger.NewRedisLedger(client), mr
}

func TestRedisLedgerMarkAnnounced(t *testing.T) {
	l, _ := newTestRedisLedger(t)

	assert.False(t, l.Has("t1"))
	require.NoError(t, l.MarkAnnounced("t1"))
	assert.True(t, l.Has("t1"))
	assert.False(t, l.Has("t2"))
}

func TestRedisLedgerMarkAnnouncedIdempotent(t *testing.T) {
	l, _ := newTestRedisLedger(t)

	require.NoError(t, l.MarkAnnounced("t1"))
	first, ok := l.Entry("t1")
	require.True(t, ok)

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, l.MarkAnnounced("t1"))
	second, _ := l.Entry("t1")

	assert.True(t, first.AnnouncedAt.Equal(second.AnnouncedAt))
}

func TestRedisLedgerMarkOpened(t *testing.T) {
	l, _ := newTestRedisLedger(t)

	require.NoError(t, l.MarkAnnounced("t1"))
	require.NoError(t, l.MarkOpened("t1"))

	entry, ok := l.Entry("t1")
	require.True(t, ok)
	assert.False(t, entry.AnnouncedAt.IsZero())
	require.NotNil(t, entry.LastOpenedAt)
}

func TestRedisLedgerHasFailsClosed(t *testing.T) {
	l, mr := newTestRedisLedger(t)

	mr.Close()

	// With the ledger unreachable every id counts as announced, so the
	// poller cannot double-announce while redis is down.
	assert.True(t, l.Has("t1"))
}

func TestRedisLedgerKeyPrefix(t *testing.T) {
	l, mr := newTestRedisLedger(t)

	require.NoError(t, l.MarkAnnounced("t1"))
	assert.True(t, mr.Exists("ticket_announced:t1"))
}
