package reaper_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"order-ticketing/internal/platform"
	"order-ticketing/internal/reaper"
)

type deleteRecorder struct {
	mu      sync.Mutex
	deleted []string
}

func (d *deleteRecorder) CreateChannel(ctx context.Context, req platform.ChannelRequest) (string, error) {
	return "", nil
}

func (d *deleteRecorder) DeleteChannel(ctx context.Context, channelID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deleted = append(d.deleted, channelID)
	return nil
}

func (d *deleteRecorder) SendMessage(ctx context.Context, channelID string, msg platform.Message) error {
	return nil
}

func (d *deleteRecorder) SendFile(ctx context.Context, channelID, path string) error { return nil }

func (d *deleteRecorder) SendFileBytes(ctx context.Context, channelID, filename string, data []byte) error {
	return nil
}

func (d *deleteRecorder) SendFileURL(ctx context.Context, channelID, url string) error { return nil }

func (d *deleteRecorder) count(channelID string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, id := range d.deleted {
		if id == channelID {
			n++
		}
	}
	return n
}

func TestScheduleDeletesAfterTTL(t *testing.T) {
	m := &deleteRecorder{}
	r := reaper.New(m, nil)
	defer r.Stop()

	r.Schedule("chan-1", 20*time.Millisecond)
	assert.True(t, r.Pending("chan-1"))

	assert.Eventually(t, func() bool { return m.count("chan-1") == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.False(t, r.Pending("chan-1"))
}

func TestCancelPreventsDeletion(t *testing.T) {
	m := &deleteRecorder{}
	r := reaper.New(m, nil)
	defer r.Stop()

	r.Schedule("chan-1", 30*time.Millisecond)
	r.Cancel("chan-1")

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, m.count("chan-1"))
	assert.False(t, r.Pending("chan-1"))
}

func TestScheduleRearmsExistingTimer(t *testing.T) {
	m := &deleteRecorder{}
	r := reaper.New(m, nil)
	defer r.Stop()

	r.Schedule("chan-1", 30*time.Millisecond)
	r.Schedule("chan-1", 30*time.Millisecond)

	assert.Eventually(t, func() bool { return m.count("chan-1") >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, m.count("chan-1"), "re-arming must not leave two live timers")
}

func TestDeleteNowBeatsPendingTimer(t *testing.T) {
	m := &deleteRecorder{}
	r := reaper.New(m, nil)
	defer r.Stop()

	r.Schedule("chan-1", 10*time.Minute)
	r.DeleteNow("chan-1", 10*time.Millisecond)

	assert.Eventually(t, func() bool { return m.count("chan-1") == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestStopDisarmsEverything(t *testing.T) {
	m := &deleteRecorder{}
	r := reaper.New(m, nil)

	r.Schedule("chan-1", 30*time.Millisecond)
	r.Schedule("chan-2", 30*time.Millisecond)
	r.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, m.count("chan-1"))
	assert.Equal(t, 0, m.count("chan-2"))

	// A stopped reaper accepts no new work.
	r.Schedule("chan-3", time.Millisecond)
	assert.False(t, r.Pending("chan-3"))
}

func TestIndependentChannels(t *testing.T) {
	m := &deleteRecorder{}
	r := reaper.New(m, nil)
	defer r.Stop()

	r.Schedule("chan-1", 20*time.Millisecond)
	r.Schedule("chan-2", 10*time.Minute)

	assert.Eventually(t, func() bool { return m.count("chan-1") == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, m.count("chan-2"))
	assert.True(t, r.Pending("chan-2"))
}
