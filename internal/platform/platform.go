package platform

import (
	"context"
)

// Action identifiers carried by buttons. Admin-side actions embed the
// ticket id after the prefix.
const (
	ActionOpenSellerTicket = "open_seller_ticket"
	ActionOpenBuyerTicket  = "open_buyer_ticket"
	ActionDeleteTicket     = "delete_ticket"
	ActionAdminOpenPrefix  = "admin_open_"
	ActionAdminDelPrefix   = "admin_del_"
)

// Form identifiers and field names.
const (
	FormSellerOrder = "seller_order_form"
	FormBuyerUID    = "buyer_uid_form"

	FieldUID         = "uid_input"
	FieldDescription = "desc_input"
	FieldBuyerUID    = "buyer_uid_input"
)

// ChannelRequest describes a private channel: everyone is denied view by
// default, then the listed users and roles are allowed in.
type ChannelRequest struct {
	GuildID   string
	Name      string
	ParentID  string
	ViewerIDs []string // view only
	WriterIDs []string // view, send, attach files
	RoleIDs   []string // full access for a role
}

type Button struct {
	ActionID string
	Label    string
	Danger   bool
}

type Field struct {
	Name   string
	Value  string
	Inline bool
}

type Embed struct {
	Title       string
	Description string
	Color       int
	Fields      []Field
	Footer      string
}

type Message struct {
	Content string
	Embed   *Embed
	Buttons []Button
}

// Messenger is the narrow outbound surface of the chat platform. Send and
// delete failures are transient by taxonomy: callers log and move on.
type Messenger interface {
	CreateChannel(ctx context.Context, req ChannelRequest) (string, error)
	// DeleteChannel tolerates an already-deleted channel silently.
	DeleteChannel(ctx context.Context, channelID string) error
	SendMessage(ctx context.Context, channelID string, msg Message) error
	// SendFile posts a local file into the channel.
	SendFile(ctx context.Context, channelID, path string) error
	// SendFileBytes posts in-memory file content into the channel.
	SendFileBytes(ctx context.Context, channelID, filename string, data []byte) error
	// SendFileURL surfaces a remote-hosted file in the channel.
	SendFileURL(ctx context.Context, channelID, url string) error
}

// Responder delivers the outcome of the interaction currently being
// handled: either a short human-readable reply or a structured form to
// present. At most one of the two takes effect.
type Responder interface {
	Reply(content string)
	ShowForm(formID string)
}

// ButtonEvent is a button activation. ActionID encodes the intent and,
// for admin actions, a ticket id suffix.
type ButtonEvent struct {
	ActionID  string `json:"action_id"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	GuildID   string `json:"guild_id"`
	ChannelID string `json:"channel_id"`
}

// FormEvent is a modal submission with named field values. The form
// layer rejects empty required fields before the event reaches us.
type FormEvent struct {
	FormID   string            `json:"form_id"`
	UserID   string            `json:"user_id"`
	Username string            `json:"username"`
	GuildID  string            `json:"guild_id"`
	Fields   map[string]string `json:"fields"`
}

// CommandEvent is a slash-style administrative command.
type CommandEvent struct {
	Name      string            `json:"name"`
	UserID    string            `json:"user_id"`
	Username  string            `json:"username"`
	GuildID   string            `json:"guild_id"`
	ChannelID string            `json:"channel_id"`
	Options   map[string]string `json:"options"`
}

// MessageAttachment is one file attached to an incoming channel message.
type MessageAttachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ChannelMessage is a message posted into some channel, used to ingest
// submitter images into their ticket.
type ChannelMessage struct {
	ChannelID   string              `json:"channel_id"`
	AuthorID    string              `json:"author_id"`
	AuthorIsBot bool                `json:"author_is_bot"`
	Content     string              `json:"content"`
	Attachments []MessageAttachment `json:"attachments"`
}
