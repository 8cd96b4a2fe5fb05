package announce_test

import (
	"context"
	"fmt"
	"sync"

	"order-ticketing/internal/platform"
)

// mockMessenger records every outbound platform call.
type mockMessenger struct {
	mu        sync.Mutex
	nextID    int
	channels  []platform.ChannelRequest
	messages  map[string][]platform.Message
	files     map[string][]string
	fileNames map[string][]string
	fileURLs  map[string][]string
	deleted   []string

	failCreate error
	failSend   map[string]error
}

func newMockMessenger() *mockMessenger {
	return &mockMessenger{
		messages:  make(map[string][]platform.Message),
		files:     make(map[string][]string),
		fileNames: make(map[string][]string),
		fileURLs:  make(map[string][]string),
		failSend:  make(map[string]error),
	}
}

func (m *mockMessenger) CreateChannel(ctx context.Context, req platform.ChannelRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate != nil {
		return "", m.failCreate
	}
	m.nextID++
	m.channels = append(m.channels, req)
	return fmt.Sprintf("chan-%d", m.nextID), nil
}

func (m *mockMessenger) DeleteChannel(ctx context.Context, channelID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, channelID)
	return nil
}

func (m *mockMessenger) SendMessage(ctx context.Context, channelID string, msg platform.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failSend[channelID]; err != nil {
		return err
	}
	m.messages[channelID] = append(m.messages[channelID], msg)
	return nil
}

func (m *mockMessenger) SendFile(ctx context.Context, channelID, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[channelID] = append(m.files[channelID], path)
	return nil
}

func (m *mockMessenger) SendFileBytes(ctx context.Context, channelID, filename string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fileNames[channelID] = append(m.fileNames[channelID], filename)
	return nil
}

func (m *mockMessenger) SendFileURL(ctx context.Context, channelID, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fileURLs[channelID] = append(m.fileURLs[channelID], url)
	return nil
}

func (m *mockMessenger) messagesIn(channelID string) []platform.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]platform.Message(nil), m.messages[channelID]...)
}

func (m *mockMessenger) deletedChannels() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}

func (m *mockMessenger) createdChannels() []platform.ChannelRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]platform.ChannelRequest(nil), m.channels...)
}

// testResponder captures interaction replies.
type testResponder struct {
	mu      sync.Mutex
	replies []string
	form    string
}

func (r *testResponder) Reply(content string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies = append(r.replies, content)
}

func (r *testResponder) ShowForm(formID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.form = formID
}

func (r *testResponder) lastReply() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.replies) == 0 {
		return ""
	}
	return r.replies[len(r.replies)-1]
}
