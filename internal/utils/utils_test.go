package utils_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-ticketing/internal/utils"
)

func TestGenerateTicketID(t *testing.T) {
	id := utils.GenerateTicketID()

	parts := strings.SplitN(id, "_", 2)
	require.Len(t, parts, 2)
	assert.Len(t, parts[1], 8)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		next := utils.GenerateTicketID()
		assert.False(t, seen[next], "ids must not repeat")
		seen[next] = true
	}
}

func TestChannelName(t *testing.T) {
	name := utils.ChannelName("seller", "alice")
	assert.True(t, strings.HasPrefix(name, "seller-alice-"))
}

func TestLocalizedTimestamp(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// UTC+7 for the default display timezone.
	assert.Equal(t, "01/06/2025 19:00:00", utils.LocalizedTimestamp(ts, "Asia/Ho_Chi_Minh"))

	// Unknown zones fall back to UTC instead of erroring.
	assert.Equal(t, "01/06/2025 12:00:00", utils.LocalizedTimestamp(ts, "Not/AZone"))
}
