package announce

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"order-ticketing/internal/config"
	"order-ticketing/internal/ledger"
	"order-ticketing/internal/logger"
	"order-ticketing/internal/models"
	"order-ticketing/internal/platform"
	"order-ticketing/internal/reaper"
	"order-ticketing/internal/store"
)

const adminColor = 0x5865F2

// AdminService materializes tickets for admins: the open button carried
// by announcements and the /check command both converge on a fresh
// admin-only channel showing the record and its attachments.
type AdminService struct {
	Store      *store.Store
	Ledger     ledger.Ledger
	Messenger  platform.Messenger
	Reaper     *reaper.Reaper
	Platform   config.PlatformConfig
	ChannelTTL time.Duration
	QRSize     int
	Log        *logger.Logger
	History    *History
}

// HandleButton routes the admin-side button actions. The ticket id rides
// as a suffix of the action identifier.
func (s *AdminService) HandleButton(ctx context.Context, ev platform.ButtonEvent, r platform.Responder) {
	switch {
	case strings.HasPrefix(ev.ActionID, platform.ActionAdminOpenPrefix):
		ticketID := strings.TrimPrefix(ev.ActionID, platform.ActionAdminOpenPrefix)
		s.OpenTicket(ctx, ticketID, ev, r)
	case strings.HasPrefix(ev.ActionID, platform.ActionAdminDelPrefix):
		ticketID := strings.TrimPrefix(ev.ActionID, platform.ActionAdminDelPrefix)
		r.Reply("Channel will be deleted")
		s.Reaper.DeleteNow(ev.ChannelID, 800*time.Millisecond)
		s.History.Write(fmt.Sprintf("admin %s deleted ticket channel %s", ev.Username, ticketID))
	}
}

// HandleCommand serves the /check lookup, usable only from the
// designated admin check channel.
func (s *AdminService) HandleCommand(ctx context.Context, ev platform.CommandEvent, r platform.Responder) {
	if ev.Name != "check" {
		return
	}
	if ev.ChannelID != s.Platform.AdminCheckChannelID {
		r.Reply(fmt.Sprintf("This command only works in <#%s>", s.Platform.AdminCheckChannelID))
		return
	}

	uid := strings.TrimSpace(ev.Options["uid"])
	if uid == "" {
		r.Reply("UID is required")
		return
	}

	// No status filter on this path: admins see every record for the UID.
	matches := s.Store.GetByUID(uid, false)
	if len(matches) == 0 {
		r.Reply(fmt.Sprintf("No order found for UID `%s`", uid))
		return
	}

	for _, t := range matches {
		msg := s.renderSummary(t)
		msg.Buttons = []platform.Button{
			{ActionID: platform.ActionAdminOpenPrefix + t.ID, Label: "Open ticket"},
		}
		if err := s.Messenger.SendMessage(ctx, s.Platform.AdminCheckChannelID, msg); err != nil {
			s.Log.Warn("ADMIN", fmt.Sprintf("check summary send failed for %s: %v", t.ID, err))
		}
	}

	s.History.Write(fmt.Sprintf("admin %s used /check UID %s", ev.Username, uid))
	r.Reply(fmt.Sprintf("Found %d order(s) for UID `%s`", len(matches), uid))
}

// OpenTicket creates a fresh admin-restricted channel and renders the
// record's summary, attachments and lookup QR into it.
func (s *AdminService) OpenTicket(ctx context.Context, ticketID string, ev platform.ButtonEvent, r platform.Responder) {
	t, ok := s.Store.GetByID(ticketID)
	if !ok {
		r.Reply("Ticket not found")
		return
	}

	req := platform.ChannelRequest{
		GuildID:  ev.GuildID,
		Name:     fmt.Sprintf("admin-%s", orFallback(t.UID)),
		ParentID: s.Platform.AdminCategoryID,
	}
	if s.Platform.AdminRoleID != "" {
		req.RoleIDs = []string{s.Platform.AdminRoleID}
	}

	channelID, err := s.Messenger.CreateChannel(ctx, req)
	if err != nil {
		s.Log.Error("ADMIN", fmt.Sprintf("admin channel create failed for %s: %v", ticketID, err))
		r.Reply("Could not create the admin channel, please try again")
		return
	}

	msg := s.renderSummary(t)
	msg.Buttons = []platform.Button{
		{ActionID: platform.ActionAdminDelPrefix + t.ID, Label: "Delete ticket", Danger: true},
	}
	if err := s.Messenger.SendMessage(ctx, channelID, msg); err != nil {
		s.Log.Warn("ADMIN", fmt.Sprintf("summary send failed for %s: %v", ticketID, err))
	}

	s.sendAttachments(ctx, channelID, t)

	if png, err := LookupQR(t, s.QRSize); err == nil {
		if err := s.Messenger.SendFileBytes(ctx, channelID, "ticket-qr.png", png); err != nil {
			s.Log.Warn("ADMIN", fmt.Sprintf("qr send failed for %s: %v", ticketID, err))
		}
	}

	if err := s.Ledger.MarkOpened(t.ID); err != nil {
		s.Log.Warn("ADMIN", fmt.Sprintf("mark opened failed for %s: %v", ticketID, err))
	}

	s.Reaper.Schedule(channelID, s.ChannelTTL)
	s.History.Write(fmt.Sprintf("admin %s opened ticket %s (UID: %s)", ev.Username, t.ID, t.UID))
	s.Log.LogTicket("OPEN", t.ID, fmt.Sprintf("by admin %s", ev.Username))
	r.Reply(fmt.Sprintf("Admin channel created: <#%s>", channelID))
}

func (s *AdminService) sendAttachments(ctx context.Context, channelID string, t models.Ticket) {
	for _, att := range t.Attachments {
		var err error
		if att.Remote() {
			err = s.Messenger.SendFileURL(ctx, channelID, att.URL)
		} else {
			err = s.Messenger.SendFile(ctx, channelID, filepath.Join(t.FolderPath, att.Name))
		}
		if err != nil {
			s.Log.Warn("ADMIN", fmt.Sprintf("attachment send failed for %s: %v", t.ID, err))
		}
	}
}

func (s *AdminService) renderSummary(t models.Ticket) platform.Message {
	return platform.Message{
		Embed: &platform.Embed{
			Title:       fmt.Sprintf("Admin ticket — UID: %s", orFallback(t.UID)),
			Description: orFallback(t.Description),
			Color:       adminColor,
			Fields: []platform.Field{
				{Name: "UID", Value: fmt.Sprintf("`%s`", orFallback(t.UID))},
				{Name: "Submitted by", Value: mention(t.AuthorID), Inline: true},
				{Name: "Created", Value: orFallback(t.LocalizedTimestamp), Inline: true},
			},
			Footer: fmt.Sprintf("Ticket ID: %s", t.ID),
		},
	}
}
