package announce

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"order-ticketing/internal/utils"
)

// History appends one human-readable line per announcement or admin
// open, timestamped in the display timezone. Write failures are silent;
// the history file is an audit convenience, not a source of truth.
type History struct {
	mu       sync.Mutex
	path     string
	timezone string
}

func NewHistory(path, timezone string) *History {
	return &History{path: path, timezone: timezone}
}

func (h *History) Write(line string) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if dir := filepath.Dir(h.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return
		}
	}
	f, err := os.OpenFile(h.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	stamp := utils.LocalizedTimestamp(time.Now(), h.timezone)
	fmt.Fprintf(f, "[%s] %s\n", stamp, line)
}
