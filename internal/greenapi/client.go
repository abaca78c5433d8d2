package greenapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"crmbot-backend/internal/config"
)

// Sender - то, что нужно боту от транспорта. Выделен в интерфейс,
// чтобы в тестах подставлять запись вызовов вместо сети.
type Sender interface {
	SendMessage(chatID, text string) error
	SendButtons(chatID, header, body string, buttons []string) error
}

// Client отправляет сообщения через REST green-api.
type Client struct {
	host       string
	idInstance string
	apiToken   string
	http       *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		host:       cfg.GreenAPIHost,
		idInstance: cfg.IDInstance,
		apiToken:   cfg.APIToken,
		http:       &http.Client{Timeout: 10 * time.Second},
	}
}

// SendMessage отправляет обычное текстовое сообщение.
func (c *Client) SendMessage(chatID, text string) error {
	return c.post("sendMessage", map[string]any{
		"chatId":  chatID,
		"message": text,
	})
}

type button struct {
	ButtonID   string `json:"buttonId"`
	ButtonText string `json:"buttonText"`
}

// SendButtons отправляет интерактивные кнопки (меню).
func (c *Client) SendButtons(chatID, header, body string, buttons []string) error {
	items := make([]button, 0, len(buttons))
	for i, text := range buttons {
		items = append(items, button{
			ButtonID:   fmt.Sprintf("%d", i+1),
			ButtonText: text,
		})
	}

	payload := map[string]any{
		"chatId":  chatID,
		"body":    body,
		"buttons": items,
	}
	if header != "" {
		payload["header"] = header
	}
	return c.post("sendInteractiveButtonsReply", payload)
}

func (c *Client) post(method string, payload any) error {
	url := fmt.Sprintf("%s/waInstance%s/%s/%s", c.host, c.idInstance, method, c.apiToken)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("сериализация запроса: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("создание запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("запрос к green-api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		log.Printf("green-api %s: статус %d, тело %s", method, resp.StatusCode, raw)
		return fmt.Errorf("green-api %s: статус %d", method, resp.StatusCode)
	}
	return nil
}
