package tickets

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"order-ticketing/internal/config"
	"order-ticketing/internal/kafka"
	"order-ticketing/internal/logger"
	"order-ticketing/internal/models"
	"order-ticketing/internal/platform"
	"order-ticketing/internal/reaper"
	"order-ticketing/internal/store"
	"order-ticketing/internal/tickets/attach"
	"order-ticketing/internal/utils"
)

const (
	summaryColor = 0x5865F2
	panelColor   = 0x00AE86
)

// Service drives the submitter-facing flows: sellers open tickets and
// submit order forms, buyers look up orders by UID, and images posted
// into ticket channels are ingested as attachments.
type Service struct {
	Store      *store.Store
	Messenger  platform.Messenger
	Attach     attach.Backend
	Fetcher    *attach.Fetcher
	Producer   *kafka.Producer
	Reaper     *reaper.Reaper
	Pending    *PendingTickets
	Platform   config.PlatformConfig
	ChannelTTL time.Duration
	Log        *logger.Logger
}

// PostEntryPanels publishes the two messages the submitter flows hang
// off: the seller submission panel and the buyer lookup panel, each
// carrying its open button. Posted once at startup; a failed send is
// logged and skipped so a missing channel cannot hold the process down.
func (s *Service) PostEntryPanels(ctx context.Context) {
	seller := platform.Message{
		Embed: &platform.Embed{
			Title:       "Submit a completed order",
			Description: "Press the button to submit a UID and order description.",
			Color:       panelColor,
		},
		Buttons: []platform.Button{
			{ActionID: platform.ActionOpenSellerTicket, Label: "Submit order"},
		},
	}
	if err := s.Messenger.SendMessage(ctx, s.Platform.SellerAnnounceChannelID, seller); err != nil {
		s.Log.Warn("TICKET", fmt.Sprintf("seller panel send failed: %v", err))
	}

	buyer := platform.Message{
		Embed: &platform.Embed{
			Title:       "View your orders",
			Description: "Press the button to enter your UID.",
			Color:       summaryColor,
		},
		Buttons: []platform.Button{
			{ActionID: platform.ActionOpenBuyerTicket, Label: "View orders"},
		},
	}
	if err := s.Messenger.SendMessage(ctx, s.Platform.BuyerAnnounceChannelID, buyer); err != nil {
		s.Log.Warn("TICKET", fmt.Sprintf("buyer panel send failed: %v", err))
	}
}

// HandleButton routes button activations from the submitter-facing
// announcement messages and ticket channels.
func (s *Service) HandleButton(ctx context.Context, ev platform.ButtonEvent, r platform.Responder) {
	switch ev.ActionID {
	case platform.ActionOpenSellerTicket:
		s.openSellerTicket(ctx, ev, r)
	case platform.ActionOpenBuyerTicket:
		r.ShowForm(platform.FormBuyerUID)
	case platform.ActionDeleteTicket:
		r.Reply("Channel will be deleted")
		s.Reaper.DeleteNow(ev.ChannelID, time.Second)
	}
}

// openSellerTicket creates the private channel first, then presents the
// form. If channel creation fails no pending state is recorded and no
// record will ever be written.
func (s *Service) openSellerTicket(ctx context.Context, ev platform.ButtonEvent, r platform.Responder) {
	channelID, err := s.Messenger.CreateChannel(ctx, platform.ChannelRequest{
		GuildID:   ev.GuildID,
		Name:      utils.ChannelName("seller", ev.Username),
		ParentID:  s.Platform.SellerCategoryID,
		WriterIDs: []string{ev.UserID},
	})
	if err != nil {
		s.Log.Error("TICKET", fmt.Sprintf("seller channel create failed for %s: %v", ev.UserID, err))
		r.Reply("Could not create a ticket channel, please try again")
		return
	}

	s.Pending.Set(ev.UserID, PendingTicket{Kind: models.KindSeller, ChannelID: channelID})
	r.ShowForm(platform.FormSellerOrder)
}

// HandleForm routes modal submissions.
func (s *Service) HandleForm(ctx context.Context, ev platform.FormEvent, r platform.Responder) {
	switch ev.FormID {
	case platform.FormSellerOrder:
		s.submitSellerOrder(ctx, ev, r)
	case platform.FormBuyerUID:
		s.openBuyerView(ctx, ev, r)
	}
}

func (s *Service) submitSellerOrder(ctx context.Context, ev platform.FormEvent, r platform.Responder) {
	uid := strings.TrimSpace(ev.Fields[platform.FieldUID])
	desc := strings.TrimSpace(ev.Fields[platform.FieldDescription])
	if uid == "" || desc == "" {
		r.Reply("UID and description are both required")
		return
	}

	pending, ok := s.Pending.Get(ev.UserID)
	if !ok {
		r.Reply("Ticket expired, please open a new one")
		return
	}

	ticketID := utils.GenerateTicketID()
	folder, err := s.Attach.Init(ctx, ticketID, desc)
	if err != nil {
		s.Log.Error("TICKET", fmt.Sprintf("storage init failed for %s: %v", ticketID, err))
		r.Reply("Could not store the ticket, please try again")
		return
	}

	now := time.Now().UTC()
	ticket := models.Ticket{
		ID:                 ticketID,
		UID:                uid,
		Kind:               models.KindSeller,
		AuthorID:           ev.UserID,
		CreatedAt:          now,
		LocalizedTimestamp: utils.LocalizedTimestamp(now, s.Platform.Timezone),
		FolderPath:         folder,
		Status:             models.StatusActive,
		Description:        desc,
		ChannelID:          pending.ChannelID,
		GuildID:            ev.GuildID,
		Attachments:        []models.Attachment{},
	}

	if err := s.Store.Append(ticket); err != nil {
		s.Log.Error("TICKET", fmt.Sprintf("append failed for %s: %v", ticketID, err))
		r.Reply("Could not store the ticket, please try again")
		return
	}
	s.Pending.Delete(ev.UserID)

	if err := s.Messenger.SendMessage(ctx, pending.ChannelID, s.renderSummary(ticket)); err != nil {
		s.Log.Warn("TICKET", fmt.Sprintf("summary send failed for %s: %v", ticketID, err))
	}

	crossPost := fmt.Sprintf("Ticket created for <@%s> at <#%s>", ev.UserID, pending.ChannelID)
	if err := s.Messenger.SendMessage(ctx, s.Platform.SellerAnnounceChannelID, platform.Message{Content: crossPost}); err != nil {
		s.Log.Warn("TICKET", fmt.Sprintf("cross-post failed for %s: %v", ticketID, err))
	}

	if err := s.Producer.PublishTicketCreated(ticket); err != nil {
		s.Log.Warn("TICKET", fmt.Sprintf("kafka publish failed for %s: %v", ticketID, err))
	}

	s.Reaper.Schedule(pending.ChannelID, s.ChannelTTL)
	s.Log.LogTicket("CREATE", ticketID, fmt.Sprintf("UID %s by %s", uid, ev.UserID))
	r.Reply(fmt.Sprintf("Ticket created at <#%s>", pending.ChannelID))
}

// openBuyerView looks up all active seller records for the submitted UID
// and materializes them in a fresh viewer-only channel.
func (s *Service) openBuyerView(ctx context.Context, ev platform.FormEvent, r platform.Responder) {
	uid := strings.TrimSpace(ev.Fields[platform.FieldBuyerUID])
	if uid == "" {
		r.Reply("UID is required")
		return
	}

	matches := s.Store.GetByUID(uid, true)
	if len(matches) == 0 {
		r.Reply(fmt.Sprintf("No order found for UID `%s`", uid))
		return
	}

	channelID, err := s.Messenger.CreateChannel(ctx, platform.ChannelRequest{
		GuildID:   ev.GuildID,
		Name:      utils.ChannelName("buyer", ev.Username),
		ParentID:  s.Platform.BuyerCategoryID,
		ViewerIDs: []string{ev.UserID},
	})
	if err != nil {
		s.Log.Error("TICKET", fmt.Sprintf("buyer channel create failed for %s: %v", ev.UserID, err))
		r.Reply("Could not create a view channel, please try again")
		return
	}

	for _, ticket := range matches {
		if err := s.Messenger.SendMessage(ctx, channelID, s.renderSummary(ticket)); err != nil {
			s.Log.Warn("TICKET", fmt.Sprintf("buyer summary send failed for %s: %v", ticket.ID, err))
			continue
		}
		s.sendAttachments(ctx, channelID, ticket)
	}

	crossPost := fmt.Sprintf("View channel created for <@%s> at <#%s>", ev.UserID, channelID)
	if err := s.Messenger.SendMessage(ctx, s.Platform.BuyerAnnounceChannelID, platform.Message{Content: crossPost}); err != nil {
		s.Log.Warn("TICKET", fmt.Sprintf("buyer cross-post failed: %v", err))
	}

	s.Reaper.Schedule(channelID, s.ChannelTTL)
	r.Reply(fmt.Sprintf("Orders for UID `%s` at <#%s>", uid, channelID))
}

// HandleMessage ingests image attachments posted into a ticket's channel
// by its submitter.
func (s *Service) HandleMessage(ctx context.Context, ev platform.ChannelMessage) {
	if ev.AuthorIsBot {
		return
	}

	ticket, ok := s.Store.FindByChannel(ev.ChannelID)
	if !ok {
		return
	}

	stored := 0
	for _, att := range ev.Attachments {
		if !attach.IsImage(att.Name) {
			continue
		}
		if err := s.ingestAttachment(ctx, ticket.ID, att); err != nil {
			s.Log.Warn("TICKET", fmt.Sprintf("attachment %s for %s failed: %v", att.Name, ticket.ID, err))
			continue
		}
		stored++
	}
	if stored == 0 {
		return
	}

	if err := s.Messenger.SendMessage(ctx, ev.ChannelID, platform.Message{
		Content: "Images saved successfully. You can delete the channel now:",
		Buttons: []platform.Button{{ActionID: platform.ActionDeleteTicket, Label: "Delete now", Danger: true}},
	}); err != nil {
		s.Log.Warn("TICKET", fmt.Sprintf("confirmation send failed for %s: %v", ticket.ID, err))
	}
	s.Log.LogTicket("ATTACH", ticket.ID, fmt.Sprintf("%d images stored", stored))
}

func (s *Service) ingestAttachment(ctx context.Context, ticketID string, att platform.MessageAttachment) error {
	body, err := s.Fetcher.Fetch(ctx, att.URL)
	if err != nil {
		return err
	}
	defer body.Close()

	descriptor, err := s.Attach.Store(ctx, ticketID, att.Name, body)
	if err != nil {
		return err
	}
	return s.Store.AppendAttachment(ticketID, descriptor)
}

func (s *Service) sendAttachments(ctx context.Context, channelID string, ticket models.Ticket) {
	for _, att := range ticket.Attachments {
		var err error
		if att.Remote() {
			err = s.Messenger.SendFileURL(ctx, channelID, att.URL)
		} else {
			err = s.Messenger.SendFile(ctx, channelID, filepath.Join(ticket.FolderPath, att.Name))
		}
		if err != nil {
			s.Log.Warn("TICKET", fmt.Sprintf("attachment send failed for %s: %v", ticket.ID, err))
		}
	}
}

func (s *Service) renderSummary(t models.Ticket) platform.Message {
	return platform.Message{
		Embed: &platform.Embed{
			Title: fmt.Sprintf("Order ticket — UID: %s", t.UID),
			Color: summaryColor,
			Description: fmt.Sprintf(
				"**UID:** `%s`\n**Description:** %s\n**Submitted by:** <@%s>\n**This channel is deleted automatically after %d minutes.**",
				t.UID, t.Description, t.AuthorID, int(s.ChannelTTL.Minutes()),
			),
			Footer: fmt.Sprintf("Ticket ID: %s", t.ID),
		},
		Buttons: []platform.Button{
			{ActionID: platform.ActionDeleteTicket, Label: "Delete now", Danger: true},
		},
	}
}
