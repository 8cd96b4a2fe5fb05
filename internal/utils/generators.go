package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateTicketID returns a time-based id with a random suffix, e.g.
// "1735689600123_9f3a1c2b". Never reused; millisecond timestamp plus an
// 8-hex uuid prefix keeps simultaneous submissions distinct.
func GenerateTicketID() string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("%d_%s", time.Now().UnixMilli(), suffix)
}

// ChannelName builds the platform channel name for a ticket flow, e.g.
// "seller-alice-1735689600123".
func ChannelName(prefix, username string) string {
	return fmt.Sprintf("%s-%s-%d", prefix, username, time.Now().UnixMilli())
}
