package platform_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-ticketing/internal/platform"
)

func postEvent(t *testing.T, srv *platform.EventServer, body string) (int, map[string]string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var reply map[string]string
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	}
	return rec.Code, reply
}

func TestEventServerDispatchesButton(t *testing.T) {
	var got platform.ButtonEvent
	srv := platform.NewEventServer(platform.Handlers{
		OnButton: func(ctx context.Context, ev platform.ButtonEvent, r platform.Responder) {
			got = ev
			r.Reply("done")
		},
	}, nil)

	code, reply := postEvent(t, srv, `{
		"type": "button",
		"button": {
			"action_id": "open_seller_ticket",
			"user_id": "user1",
			"username": "Seller One",
			"guild_id": "guild1",
			"channel_id": "chan-1"
		}
	}`)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "open_seller_ticket", got.ActionID)
	assert.Equal(t, "user1", got.UserID)
	assert.Equal(t, "chan-1", got.ChannelID)
	assert.Equal(t, "done", reply["content"])
}

func TestEventServerDispatchesForm(t *testing.T) {
	var got platform.FormEvent
	srv := platform.NewEventServer(platform.Handlers{
		OnForm: func(ctx context.Context, ev platform.FormEvent, r platform.Responder) {
			got = ev
			r.ShowForm("seller_order_form")
		},
	}, nil)

	code, reply := postEvent(t, srv, `{
		"type": "form",
		"form": {
			"form_id": "seller_order_form",
			"user_id": "user1",
			"fields": {"uid_input": "X1", "desc_input": "order"}
		}
	}`)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "seller_order_form", got.FormID)
	assert.Equal(t, "X1", got.Fields["uid_input"])
	assert.Equal(t, "seller_order_form", reply["form"])
}

func TestEventServerDispatchesCommand(t *testing.T) {
	var got platform.CommandEvent
	srv := platform.NewEventServer(platform.Handlers{
		OnCommand: func(ctx context.Context, ev platform.CommandEvent, r platform.Responder) {
			got = ev
		},
	}, nil)

	code, _ := postEvent(t, srv, `{
		"type": "command",
		"command": {"name": "check", "channel_id": "admin-check", "options": {"uid": "X1"}}
	}`)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "check", got.Name)
	assert.Equal(t, "X1", got.Options["uid"])
}

func TestEventServerDispatchesMessage(t *testing.T) {
	var got platform.ChannelMessage
	srv := platform.NewEventServer(platform.Handlers{
		OnMessage: func(ctx context.Context, ev platform.ChannelMessage) {
			got = ev
		},
	}, nil)

	code, _ := postEvent(t, srv, `{
		"type": "message",
		"message": {
			"channel_id": "chan-1",
			"author_id": "user1",
			"author_is_bot": false,
			"attachments": [{"name": "proof.png", "url": "https://cdn.example/proof.png"}]
		}
	}`)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "chan-1", got.ChannelID)
	require.Len(t, got.Attachments, 1)
	assert.Equal(t, "proof.png", got.Attachments[0].Name)
}

func TestEventServerBadPayload(t *testing.T) {
	srv := platform.NewEventServer(platform.Handlers{}, nil)
	code, _ := postEvent(t, srv, `{not json`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestEventServerUnknownTypeIsDropped(t *testing.T) {
	srv := platform.NewEventServer(platform.Handlers{}, nil)
	code, reply := postEvent(t, srv, `{"type": "presence"}`)

	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, reply["content"])
}

func TestEventServerNilHandlerDropsEvent(t *testing.T) {
	srv := platform.NewEventServer(platform.Handlers{}, nil)
	code, reply := postEvent(t, srv, `{"type": "button", "button": {"action_id": "x"}}`)

	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, reply["content"])
}

func TestEventServerRecoversFromHandlerPanic(t *testing.T) {
	srv := platform.NewEventServer(platform.Handlers{
		OnButton: func(ctx context.Context, ev platform.ButtonEvent, r platform.Responder) {
			panic("boom")
		},
	}, nil)

	code, reply := postEvent(t, srv, `{"type": "button", "button": {"action_id": "x"}}`)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Something went wrong", reply["content"])
}

func TestResponderFirstReplyWins(t *testing.T) {
	srv := platform.NewEventServer(platform.Handlers{
		OnButton: func(ctx context.Context, ev platform.ButtonEvent, r platform.Responder) {
			r.Reply("first")
			r.Reply("second")
			r.ShowForm("some_form")
		},
	}, nil)

	code, reply := postEvent(t, srv, `{"type": "button", "button": {"action_id": "x"}}`)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "first", reply["content"])
	assert.Empty(t, reply["form"])
}
