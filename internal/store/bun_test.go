package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-ticketing/internal/models"
	"order-ticketing/internal/store"
)

func openMemoryBun(t *testing.T) *store.BunBackend {
	t.Helper()
	backend, err := store.OpenBunBackend(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return backend
}

func TestBunBackendRoundTrip(t *testing.T) {
	backend := openMemoryBun(t)

	base := time.Now().UTC().Truncate(time.Second)
	in := []models.Ticket{
		newTicket("t2", "X1", base.Add(time.Minute)),
		newTicket("t1", "X1", base),
	}
	in[0].Attachments = []models.Attachment{{Name: "a.png"}}
	require.NoError(t, backend.Save(in))

	out, err := backend.Load()
	require.NoError(t, err)
	require.Len(t, out, 2)

	// Insertion order survives the round trip, not creation order.
	assert.Equal(t, "t2", out[0].ID)
	assert.Equal(t, "t1", out[1].ID)
	assert.Equal(t, "a.png", out[0].Attachments[0].Name)
	assert.True(t, out[1].CreatedAt.Equal(base))
}

func TestBunBackendSaveReplaces(t *testing.T) {
	backend := openMemoryBun(t)

	require.NoError(t, backend.Save([]models.Ticket{newTicket("t1", "X1", time.Now())}))
	require.NoError(t, backend.Save([]models.Ticket{newTicket("t2", "X2", time.Now())}))

	out, err := backend.Load()
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "t2", out[0].ID)
}

func TestBunBackendEmptyDatabase(t *testing.T) {
	backend := openMemoryBun(t)

	out, err := backend.Load()
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestStoreOverBunBackend(t *testing.T) {
	backend := openMemoryBun(t)

	s := store.New(backend, nil)
	require.NoError(t, s.Append(newTicket("t1", "X1", time.Now())))
	require.NoError(t, s.AppendAttachment("t1", models.Attachment{Name: "a.png"}))

	reopened := store.New(backend, nil)
	got, ok := reopened.GetByID("t1")
	require.True(t, ok)
	assert.Len(t, got.Attachments, 1)
}
