package ledger

import (
	"order-ticketing/internal/models"
)

// Ledger records which ticket ids have been announced and when they were
// last opened by an admin. Announcement is monotone: once a ticket id has
// an entry it is considered announced forever.
type Ledger interface {
	// Has reports whether an entry exists for the ticket id.
	Has(id string) bool
	// MarkAnnounced creates the entry on first call; later calls are
	// no-ops and never move AnnouncedAt.
	MarkAnnounced(id string) error
	// MarkOpened refreshes LastOpenedAt, creating the entry if absent.
	// Independent of the announcement state.
	MarkOpened(id string) error
	// Entry returns the entry for the ticket id, if any.
	Entry(id string) (models.LedgerEntry, bool)
}
