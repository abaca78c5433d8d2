package greenapi

import "strings"

// Notification - входящее уведомление вебхука green-api. Разбираются
// только нужные боту поля.
type Notification struct {
	TypeWebhook string      `json:"typeWebhook"`
	SenderData  SenderData  `json:"senderData"`
	MessageData MessageData `json:"messageData"`
}

type SenderData struct {
	ChatID     string `json:"chatId"`
	Sender     string `json:"sender"`
	SenderName string `json:"senderName"`
}

type MessageData struct {
	TypeMessage     string           `json:"typeMessage"`
	TextMessageData *TextMessageData `json:"textMessageData"`
	ExtendedText    *ExtendedText    `json:"extendedTextMessageData"`

	// Ответ на кнопки приходит в одном из трёх вариантов в зависимости
	// от клиента WhatsApp.
	ButtonsResponse       *ButtonPayload `json:"buttonsResponseMessage"`
	TemplateButtonsReply  *ButtonPayload `json:"templateButtonsReplyMessage"`
	InteractiveButtonsRsp *ButtonPayload `json:"interactiveButtonsResponse"`
}

type TextMessageData struct {
	TextMessage string `json:"textMessage"`
}

type ExtendedText struct {
	Text string `json:"text"`
}

type ButtonPayload struct {
	SelectedButtonID   string `json:"selectedButtonId"`
	SelectedButtonText string `json:"selectedButtonText"`
	SelectedDisplayTxt string `json:"selectedDisplayText"`
	StanzaID           string `json:"stanzaId"`
	Title              string `json:"title"`
	Body               string `json:"body"`
}

// Incoming сообщает, что это входящее сообщение (а не статус и т.п.).
func (n *Notification) Incoming() bool {
	return n.TypeWebhook == "incomingMessageReceived"
}

// Chat возвращает идентификатор отправителя (7XXXXXXXXXX@c.us).
func (n *Notification) Chat() string {
	return n.SenderData.ChatID
}

// Text извлекает текст обычного сообщения.
func (n *Notification) Text() string {
	if n.MessageData.TextMessageData != nil {
		return strings.TrimSpace(n.MessageData.TextMessageData.TextMessage)
	}
	if n.MessageData.ExtendedText != nil {
		return strings.TrimSpace(n.MessageData.ExtendedText.Text)
	}
	return ""
}

// ButtonText извлекает подпись нажатой кнопки из любого из трёх
// форматов ответа.
func (n *Notification) ButtonText() string {
	for _, p := range []*ButtonPayload{
		n.MessageData.InteractiveButtonsRsp,
		n.MessageData.ButtonsResponse,
		n.MessageData.TemplateButtonsReply,
	} {
		if p == nil {
			continue
		}
		for _, candidate := range []string{p.SelectedDisplayTxt, p.SelectedButtonText, p.Title, p.Body} {
			if s := strings.TrimSpace(candidate); s != "" {
				return s
			}
		}
	}
	return ""
}
