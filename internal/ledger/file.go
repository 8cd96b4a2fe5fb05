package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"order-ticketing/internal/logger"
	"order-ticketing/internal/models"
)

type ledgerFile struct {
	Announced map[string]models.LedgerEntry `json:"announced"`
}

// FileLedger persists the announcement set as one JSON document,
// rewritten in full on every mutation. A corrupt or missing file resets
// to empty, never fails the process.
type FileLedger struct {
	mu        sync.Mutex
	path      string
	log       *logger.Logger
	announced map[string]models.LedgerEntry
}

func NewFileLedger(path string, log *logger.Logger) *FileLedger {
	l := &FileLedger{
		path:      path,
		log:       log,
		announced: make(map[string]models.LedgerEntry),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return l
	}
	if err != nil {
		l.warn(fmt.Sprintf("unreadable ledger, starting empty: %v", err))
		return l
	}

	var doc ledgerFile
	if err := json.Unmarshal(data, &doc); err != nil {
		l.warn(fmt.Sprintf("corrupt ledger, starting empty: %v", err))
		return l
	}
	if doc.Announced != nil {
		l.announced = doc.Announced
	}
	return l
}

func (l *FileLedger) Has(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.announced[id]
	return ok
}

func (l *FileLedger) MarkAnnounced(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.announced[id]; ok {
		return nil
	}
	l.announced[id] = models.LedgerEntry{AnnouncedAt: time.Now().UTC()}
	return l.save()
}

func (l *FileLedger) MarkOpened(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := l.announced[id]
	now := time.Now().UTC()
	entry.LastOpenedAt = &now
	l.announced[id] = entry
	return l.save()
}

func (l *FileLedger) Entry(id string) (models.LedgerEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.announced[id]
	return entry, ok
}

func (l *FileLedger) save() error {
	data, err := json.MarshalIndent(ledgerFile{Announced: l.announced}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

func (l *FileLedger) warn(msg string) {
	if l.log != nil {
		l.log.Warn("LEDGER", msg)
	}
}
