package announce

import (
	"encoding/json"

	qrcode "github.com/skip2/go-qrcode"

	"order-ticketing/internal/models"
)

type qrPayload struct {
	TicketID string `json:"ticket_id"`
	UID      string `json:"uid"`
}

// LookupQR renders a PNG QR code encoding the ticket id and UID, posted
// into admin channels so an order can be pulled up from a phone. Sizes
// at or below zero fall back to 256 pixels.
func LookupQR(t models.Ticket, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	data, err := json.Marshal(qrPayload{TicketID: t.ID, UID: t.UID})
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(string(data), qrcode.Medium, size)
}
