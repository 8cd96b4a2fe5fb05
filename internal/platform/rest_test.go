package platform_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-ticketing/internal/platform"
)

func TestRestClientCreateChannel(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any
	host := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gotPath = req.URL.Path
		gotAuth = req.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(req.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]string{"id": "chan-99"})
	}))
	defer host.Close()

	c := platform.NewRestClient(host.URL, "secret-token")
	id, err := c.CreateChannel(context.Background(), platform.ChannelRequest{
		GuildID:   "guild1",
		Name:      "seller-alice-123",
		ParentID:  "cat1",
		WriterIDs: []string{"user1"},
		RoleIDs:   []string{"role1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "chan-99", id)
	assert.Equal(t, "/guilds/guild1/channels", gotPath)
	assert.Equal(t, "Bot secret-token", gotAuth)
	assert.Equal(t, "seller-alice-123", gotBody["name"])

	// Everyone denied first, then the writer and role allowed in.
	overwrites, ok := gotBody["permission_overwrites"].([]any)
	require.True(t, ok)
	require.Len(t, overwrites, 3)
	first := overwrites[0].(map[string]any)
	assert.Equal(t, "everyone", first["id"])
	assert.NotEmpty(t, first["deny"])
}

func TestRestClientCreateChannelEmptyID(t *testing.T) {
	host := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer host.Close()

	c := platform.NewRestClient(host.URL, "token")
	_, err := c.CreateChannel(context.Background(), platform.ChannelRequest{GuildID: "g", Name: "n"})
	assert.Error(t, err)
}

func TestRestClientDeleteChannelToleratesMissing(t *testing.T) {
	host := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/channels/gone" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer host.Close()

	c := platform.NewRestClient(host.URL, "token")
	assert.NoError(t, c.DeleteChannel(context.Background(), "chan-1"))
	assert.NoError(t, c.DeleteChannel(context.Background(), "gone"))
}

func TestRestClientSendMessage(t *testing.T) {
	var gotBody map[string]any
	host := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		require.NoError(t, json.NewDecoder(req.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer host.Close()

	c := platform.NewRestClient(host.URL, "token")
	err := c.SendMessage(context.Background(), "chan-1", platform.Message{
		Embed: &platform.Embed{Title: "New order", Color: 0x00AE86},
		Buttons: []platform.Button{
			{ActionID: "admin_del_t1", Label: "Delete ticket", Danger: true},
		},
	})
	require.NoError(t, err)

	embeds := gotBody["embeds"].([]any)
	require.Len(t, embeds, 1)
	assert.Equal(t, "New order", embeds[0].(map[string]any)["title"])

	buttons := gotBody["buttons"].([]any)
	require.Len(t, buttons, 1)
	assert.Equal(t, "danger", buttons[0].(map[string]any)["style"])
}

func TestRestClientSendFile(t *testing.T) {
	var gotFilename string
	var gotData []byte
	host := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		require.NoError(t, req.ParseMultipartForm(1<<20))
		f, header, err := req.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		gotFilename = header.Filename
		gotData = make([]byte, header.Size)
		f.Read(gotData)
		w.WriteHeader(http.StatusOK)
	}))
	defer host.Close()

	path := filepath.Join(t.TempDir(), "proof.png")
	require.NoError(t, os.WriteFile(path, []byte("imagedata"), 0644))

	c := platform.NewRestClient(host.URL, "token")
	require.NoError(t, c.SendFile(context.Background(), "chan-1", path))
	assert.Equal(t, "proof.png", gotFilename)
	assert.Equal(t, "imagedata", string(gotData))
}

func TestRestClientServerError(t *testing.T) {
	host := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer host.Close()

	c := platform.NewRestClient(host.URL, "token")
	assert.Error(t, c.SendMessage(context.Background(), "chan-1", platform.Message{Content: "hi"}))
}
