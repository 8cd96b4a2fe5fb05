package models

import "time"

// LedgerEntry records that a ticket has been announced to admins.
// AnnouncedAt is set once, the first time the poller observes the ticket.
// LastOpenedAt is refreshed every time an admin materializes the ticket
// and is independent of the announcement state.
type LedgerEntry struct {
	AnnouncedAt  time.Time  `json:"announcedAt"`
	LastOpenedAt *time.Time `json:"lastOpenedAt,omitempty"`
}
