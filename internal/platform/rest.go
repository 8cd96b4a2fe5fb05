package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// RestClient implements Messenger against the platform's REST API. It
// only covers the handful of calls this system makes; the gateway
// connection itself stays outside the process.
type RestClient struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewRestClient(baseURL, token string) *RestClient {
	return &RestClient{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

type restOverwrite struct {
	ID    string `json:"id"`
	Type  string `json:"type"` // "role" or "member"
	Allow string `json:"allow,omitempty"`
	Deny  string `json:"deny,omitempty"`
}

type restChannelRequest struct {
	Name       string          `json:"name"`
	ParentID   string          `json:"parent_id,omitempty"`
	Overwrites []restOverwrite `json:"permission_overwrites"`
}

type restChannel struct {
	ID string `json:"id"`
}

const (
	permView            = "view"
	permViewSendAttach  = "view,send,attach"
	everyoneOverwriteID = "everyone"
)

func (c *RestClient) CreateChannel(ctx context.Context, req ChannelRequest) (string, error) {
	overwrites := []restOverwrite{
		{ID: everyoneOverwriteID, Type: "role", Deny: permView},
	}
	for _, id := range req.ViewerIDs {
		overwrites = append(overwrites, restOverwrite{ID: id, Type: "member", Allow: permView})
	}
	for _, id := range req.WriterIDs {
		overwrites = append(overwrites, restOverwrite{ID: id, Type: "member", Allow: permViewSendAttach})
	}
	for _, id := range req.RoleIDs {
		overwrites = append(overwrites, restOverwrite{ID: id, Type: "role", Allow: permViewSendAttach})
	}

	body := restChannelRequest{
		Name:       req.Name,
		ParentID:   req.ParentID,
		Overwrites: overwrites,
	}

	var created restChannel
	err := c.doJSON(ctx, http.MethodPost,
		fmt.Sprintf("%s/guilds/%s/channels", c.BaseURL, req.GuildID), body, &created)
	if err != nil {
		return "", fmt.Errorf("create channel %s: %w", req.Name, err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("create channel %s: empty channel id in response", req.Name)
	}
	return created.ID, nil
}

func (c *RestClient) DeleteChannel(ctx context.Context, channelID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		fmt.Sprintf("%s/channels/%s", c.BaseURL, channelID), nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("delete channel %s: %w", channelID, err)
	}
	defer resp.Body.Close()

	// A channel that is already gone is a success, not an error.
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("delete channel %s: status %d", channelID, resp.StatusCode)
	}
	return nil
}

type restMessage struct {
	Content string       `json:"content,omitempty"`
	Embeds  []restEmbed  `json:"embeds,omitempty"`
	Buttons []restButton `json:"buttons,omitempty"`
}

type restEmbed struct {
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description,omitempty"`
	Color       int         `json:"color,omitempty"`
	Fields      []restField `json:"fields,omitempty"`
	Footer      string      `json:"footer,omitempty"`
}

type restField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type restButton struct {
	ActionID string `json:"action_id"`
	Label    string `json:"label"`
	Style    string `json:"style"`
}

func (c *RestClient) SendMessage(ctx context.Context, channelID string, msg Message) error {
	body := restMessage{Content: msg.Content}
	if msg.Embed != nil {
		e := restEmbed{
			Title:       msg.Embed.Title,
			Description: msg.Embed.Description,
			Color:       msg.Embed.Color,
			Footer:      msg.Embed.Footer,
		}
		for _, f := range msg.Embed.Fields {
			e.Fields = append(e.Fields, restField{Name: f.Name, Value: f.Value, Inline: f.Inline})
		}
		body.Embeds = []restEmbed{e}
	}
	for _, b := range msg.Buttons {
		style := "primary"
		if b.Danger {
			style = "danger"
		}
		body.Buttons = append(body.Buttons, restButton{ActionID: b.ActionID, Label: b.Label, Style: style})
	}

	err := c.doJSON(ctx, http.MethodPost,
		fmt.Sprintf("%s/channels/%s/messages", c.BaseURL, channelID), body, nil)
	if err != nil {
		return fmt.Errorf("send message to %s: %w", channelID, err)
	}
	return nil
}

func (c *RestClient) SendFile(ctx context.Context, channelID, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return c.SendFileBytes(ctx, channelID, filepath.Base(path), data)
}

func (c *RestClient) SendFileBytes(ctx context.Context, channelID, filename string, data []byte) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := part.Write(data); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/channels/%s/messages", c.BaseURL, channelID), &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("send file %s to %s: %w", filename, channelID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("send file %s to %s: status %d", filename, channelID, resp.StatusCode)
	}
	return nil
}

func (c *RestClient) SendFileURL(ctx context.Context, channelID, url string) error {
	// The platform renders a bare image URL inline, so a plain message
	// is enough to surface remote-hosted attachments.
	return c.SendMessage(ctx, channelID, Message{Content: url})
}

func (c *RestClient) doJSON(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: status %d", method, url, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *RestClient) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bot "+c.Token)
}
