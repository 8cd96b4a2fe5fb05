package models

import (
	"time"
)

// Ticket kinds. Only seller-originated tickets are persisted as orders;
// buyer views are ephemeral and never written to the store.
const (
	KindSeller = "seller"
)

// Ticket statuses. The data shape reserves the field for future close or
// cancel transitions; current flows only ever write "active".
const (
	StatusActive = "active"
)

// Attachment describes one stored image. Local files carry only Name,
// resolved against the ticket's folder. Remote-hosted files carry URL,
// ExternalID (the host's deletion handle) and UploadedAt.
type Attachment struct {
	Name       string    `json:"name,omitempty"`
	URL        string    `json:"url,omitempty"`
	ExternalID string    `json:"externalId,omitempty"`
	UploadedAt time.Time `json:"uploadedAt,omitempty"`
}

// Remote reports whether the attachment lives on the asset host rather
// than on the local filesystem.
func (a Attachment) Remote() bool {
	return a.URL != ""
}

// Ticket is one submitted order. ID is generated at creation and never
// reused. UID is the caller-supplied order identifier and may repeat
// across tickets. ChannelID may dangle once the private channel expires;
// readers must tolerate that.
type Ticket struct {
	ID                 string       `json:"id"`
	UID                string       `json:"uid"`
	Kind               string       `json:"kind"`
	AuthorID           string       `json:"authorId"`
	CreatedAt          time.Time    `json:"createdAt"`
	LocalizedTimestamp string       `json:"localizedTimestamp"`
	FolderPath         string       `json:"folderPath,omitempty"`
	Status             string       `json:"status"`
	Description        string       `json:"description"`
	ChannelID          string       `json:"channelId"`
	GuildID            string       `json:"guildId"`
	Attachments        []Attachment `json:"attachments"`
}
