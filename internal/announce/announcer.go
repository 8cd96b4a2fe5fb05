package announce

import (
	"context"
	"fmt"

	"order-ticketing/internal/kafka"
	"order-ticketing/internal/ledger"
	"order-ticketing/internal/logger"
	"order-ticketing/internal/models"
	"order-ticketing/internal/platform"
)

const announceColor = 0x00AE86

// TicketAnnouncer surfaces one never-before-seen ticket to admins.
type TicketAnnouncer interface {
	Announce(ctx context.Context, t models.Ticket) error
}

// Announcer posts the new-order summary with an open button into the
// admin announcement channel, then marks the ticket in the ledger. The
// send comes first: a failed send leaves the ledger untouched so the
// next poll tick retries the announcement.
type Announcer struct {
	Ledger                 ledger.Ledger
	Messenger              platform.Messenger
	Producer               *kafka.Producer
	AdminAnnounceChannelID string
	Log                    *logger.Logger
	History                *History
}

func (a *Announcer) Announce(ctx context.Context, t models.Ticket) error {
	msg := platform.Message{
		Embed: &platform.Embed{
			Title:       fmt.Sprintf("New order — UID: %s", orFallback(t.UID)),
			Description: orFallback(t.Description),
			Color:       announceColor,
			Fields: []platform.Field{
				{Name: "UID", Value: fmt.Sprintf("`%s`", orFallback(t.UID))},
				{Name: "Submitted by", Value: mention(t.AuthorID), Inline: true},
				{Name: "Created", Value: orFallback(t.LocalizedTimestamp), Inline: true},
			},
			Footer: fmt.Sprintf("Ticket ID: %s", t.ID),
		},
		Buttons: []platform.Button{
			{ActionID: platform.ActionAdminOpenPrefix + t.ID, Label: "Open ticket"},
		},
	}

	if err := a.Messenger.SendMessage(ctx, a.AdminAnnounceChannelID, msg); err != nil {
		return fmt.Errorf("announce ticket %s: %w", t.ID, err)
	}

	if err := a.Ledger.MarkAnnounced(t.ID); err != nil {
		return fmt.Errorf("mark announced %s: %w", t.ID, err)
	}

	if err := a.Producer.PublishTicketAnnounced(t); err != nil {
		a.Log.Warn("POLL", fmt.Sprintf("kafka publish failed for %s: %v", t.ID, err))
	}

	a.History.Write(fmt.Sprintf("announced ticket %s (UID: %s)", t.ID, t.UID))
	a.Log.LogPoll("ANNOUNCE", fmt.Sprintf("ticket %s (UID %s)", t.ID, t.UID))
	return nil
}

func orFallback(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func mention(userID string) string {
	if userID == "" {
		return "unknown"
	}
	return fmt.Sprintf("<@%s>", userID)
}
