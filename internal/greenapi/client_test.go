package greenapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"crmbot-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(&config.Config{
		GreenAPIHost: srv.URL,
		IDInstance:   "1101000001",
		APIToken:     "secret-token",
	})

	require.NoError(t, c.SendMessage("79000000001@c.us", "привет"))
	assert.Equal(t, "/waInstance1101000001/sendMessage/secret-token", gotPath)
	assert.Equal(t, "79000000001@c.us", gotBody["chatId"])
	assert.Equal(t, "привет", gotBody["message"])
}

func TestSendButtons(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(&config.Config{
		GreenAPIHost: srv.URL,
		IDInstance:   "1101000001",
		APIToken:     "secret-token",
	})

	require.NoError(t, c.SendButtons("79000000001@c.us", "Меню", "Выберите действие", []string{"Открыть смену", "Закрыть смену"}))
	assert.Equal(t, "/waInstance1101000001/sendInteractiveButtonsReply/secret-token", gotPath)
	assert.Equal(t, "Меню", gotBody["header"])

	buttons, ok := gotBody["buttons"].([]any)
	require.True(t, ok)
	require.Len(t, buttons, 2)
	first := buttons[0].(map[string]any)
	assert.Equal(t, "1", first["buttonId"])
	assert.Equal(t, "Открыть смену", first["buttonText"])
}

func TestSendMessageErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(466)
	}))
	defer srv.Close()

	c := NewClient(&config.Config{GreenAPIHost: srv.URL, IDInstance: "1", APIToken: "t"})
	err := c.SendMessage("79000000001@c.us", "привет")
	assert.Error(t, err)
}

func TestNotificationParsing(t *testing.T) {
	raw := `{
		"typeWebhook": "incomingMessageReceived",
		"senderData": {"chatId": "79000000001@c.us", "sender": "79000000001@c.us", "senderName": "Иван"},
		"messageData": {"typeMessage": "textMessage", "textMessageData": {"textMessage": "  Мой баланс  "}}
	}`
	var n Notification
	require.NoError(t, json.Unmarshal([]byte(raw), &n))
	assert.True(t, n.Incoming())
	assert.Equal(t, "79000000001@c.us", n.Chat())
	assert.Equal(t, "Мой баланс", n.Text())
	assert.Empty(t, n.ButtonText())
}

func TestNotificationButtonVariants(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"interactiveButtonsResponse", `{"typeWebhook":"incomingMessageReceived","senderData":{"chatId":"7@c.us"},
			"messageData":{"typeMessage":"interactiveButtonsResponse","interactiveButtonsResponse":{"selectedDisplayText":"Открыть смену"}}}`},
		{"buttonsResponseMessage", `{"typeWebhook":"incomingMessageReceived","senderData":{"chatId":"7@c.us"},
			"messageData":{"typeMessage":"buttonsResponseMessage","buttonsResponseMessage":{"selectedButtonText":"Открыть смену"}}}`},
		{"templateButtonsReplyMessage", `{"typeWebhook":"incomingMessageReceived","senderData":{"chatId":"7@c.us"},
			"messageData":{"typeMessage":"templateButtonsReplyMessage","templateButtonsReplyMessage":{"title":"Открыть смену"}}}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var n Notification
			require.NoError(t, json.Unmarshal([]byte(c.raw), &n))
			assert.Equal(t, "Открыть смену", n.ButtonText())
		})
	}
}

func TestNotificationIgnoresStatuses(t *testing.T) {
	var n Notification
	require.NoError(t, json.Unmarshal([]byte(`{"typeWebhook":"outgoingAPIMessageReceived"}`), &n))
	assert.False(t, n.Incoming())
}
