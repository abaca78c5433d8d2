package bot

import (
	"log"

	"crmbot-backend/internal/admin"
	"crmbot-backend/internal/config"
	"crmbot-backend/internal/deals"
	"crmbot-backend/internal/domain"
	"crmbot-backend/internal/greenapi"
	"crmbot-backend/internal/reports"
	"crmbot-backend/internal/shifts"
	"crmbot-backend/internal/users"
)

const genericErrorText = "Что-то пошло не так. Попробуйте ещё раз или вернитесь в меню (0/1)."

// Bot маршрутизирует входящие сообщения WhatsApp в сервисы и
// отвечает текстом или меню с кнопками.
type Bot struct {
	sender greenapi.Sender
	users  *users.Service
	shifts *shifts.Service
	deals  *deals.Service
	admin  *admin.Service
	report *reports.Service

	// Номера с доступом к админ-меню (из конфигурации)
	adminPhones map[string]bool

	store *stateStore
	debug bool
}

func New(cfg *config.Config, sender greenapi.Sender, userSvc *users.Service, shiftSvc *shifts.Service, dealSvc *deals.Service, adminSvc *admin.Service, reportSvc *reports.Service) *Bot {
	adminPhones := make(map[string]bool, len(cfg.AdminPhones))
	for _, raw := range cfg.AdminPhones {
		if normalized, err := users.NormalizePhone(raw); err == nil {
			adminPhones[normalized] = true
		}
	}

	return &Bot{
		sender:      sender,
		users:       userSvc,
		shifts:      shiftSvc,
		deals:       dealSvc,
		admin:       adminSvc,
		report:      reportSvc,
		adminPhones: adminPhones,
		store:       newStateStore(),
		debug:       cfg.BotDebug,
	}
}

func (b *Bot) isAuthorizedAdmin(sender string) bool {
	return b.adminPhones[sender]
}

func (b *Bot) answer(chat, text string) {
	if err := b.sender.SendMessage(chat, text); err != nil {
		log.Printf("Не удалось отправить сообщение %s: %v", chat, err)
	}
}

func (b *Bot) sendMenu(chat, header, body string, buttons []string) {
	if err := b.sender.SendButtons(chat, header, body, buttons); err != nil {
		log.Printf("Не удалось отправить меню %s: %v", chat, err)
	}
}

// fail переводит ошибку в ответ пользователю. Доменные ошибки уходят
// текстом как есть; всё остальное - сбой инфраструктуры: пишем в лог,
// сбрасываем состояние и отвечаем общим сообщением, чтобы пользователь
// не застрял в диалоге.
func (b *Bot) fail(chat string, err error) {
	if domain.IsDomain(err) {
		b.answer(chat, err.Error())
		return
	}
	log.Printf("Ошибка обработки сообщения от %s: %v", chat, err)
	b.store.clear(chat)
	b.answer(chat, genericErrorText)
}
