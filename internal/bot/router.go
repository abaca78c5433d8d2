package bot

import (
	"log"
	"strings"

	"crmbot-backend/internal/greenapi"
)

const (
	menuHelpText        = "Отправьте 0 (админ-меню) или 1 (меню сотрудника)."
	adminForbiddenText  = "Недостаточно прав для открытия админ-меню."
	workerForbiddenText = "Нет доступа. Доступ выдаёт администратор."
)

var workerMenuButtons = []string{
	"Открыть смену",
	"Закрыть смену",
	"Новая операция",
	"Рассрочка",
	"Мой баланс",
	"Мои операции",
}

var adminMenuButtons = []string{
	"Добавить сотрудника",
	"Отключить сотрудника",
	"Корректировка баланса",
	"Удалить операцию",
	"Отчёт",
	"Сводка за сегодня",
}

var helpCommands = map[string]bool{"help": true, "меню": true, "menu": true}

// HandleNotification - единственная точка входа вебхука. Каждое
// сообщение обрабатывается целиком до ответа (последовательная модель
// в рамках одного отправителя).
func (b *Bot) HandleNotification(n *greenapi.Notification) {
	if !n.Incoming() {
		return
	}
	chat := n.Chat()
	if chat == "" {
		return
	}

	if txt := n.ButtonText(); txt != "" {
		if b.debug {
			log.Printf("кнопка: sender=%s text=%q", chat, txt)
		}
		b.handleButton(chat, txt)
		return
	}

	text := n.Text()
	if text == "" {
		return
	}
	if b.debug {
		log.Printf("сообщение: sender=%s text=%q", chat, text)
	}

	// Команды меню всегда работают и отменяют начатый диалог.
	if text == "0" || text == "1" {
		if st := b.store.get(chat); st != nil {
			b.store.clear(chat)
		}
		if text == "0" {
			b.openAdminMenu(chat)
		} else {
			b.openWorkerMenu(chat)
		}
		return
	}
	if helpCommands[strings.ToLower(text)] {
		b.answer(chat, menuHelpText)
		return
	}

	if st := b.store.get(chat); st != nil {
		b.step(chat, st, text)
		return
	}

	// Подписи кнопок, набранные текстом, работают как кнопки.
	b.handleButton(chat, text)
}

func (b *Bot) handleButton(chat, txt string) {
	for _, button := range adminMenuButtons {
		if txt == button {
			if !b.isAuthorizedAdmin(chat) {
				b.answer(chat, adminForbiddenText)
				return
			}
			b.adminButton(chat, txt)
			return
		}
	}
	for _, button := range workerMenuButtons {
		if txt == button {
			worker, err := b.users.GetActiveByPhone(chat)
			if err != nil {
				b.fail(chat, err)
				return
			}
			if worker == nil {
				b.answer(chat, workerForbiddenText)
				return
			}
			b.workerButton(chat, txt)
			return
		}
	}
	// Не команда и не кнопка - ничего не делаем, чтобы не отвечать на
	// каждое сообщение в чате.
}

func (b *Bot) openAdminMenu(chat string) {
	if !b.isAuthorizedAdmin(chat) {
		b.answer(chat, adminForbiddenText)
		return
	}
	b.sendMenu(chat, "Меню управления", "Админ-панель", adminMenuButtons)
}

func (b *Bot) openWorkerMenu(chat string) {
	worker, err := b.users.GetActiveByPhone(chat)
	if err != nil {
		b.fail(chat, err)
		return
	}
	if worker == nil {
		b.answer(chat, workerForbiddenText)
		return
	}
	b.sendMenu(chat, "Выберите действие", "👷 Меню сотрудника", workerMenuButtons)
}

// step передаёт текст в шаговую функцию активного сценария.
func (b *Bot) step(chat string, st state, text string) {
	switch s := st.(type) {
	case *openingShift:
		b.openShiftStep(chat, s, text)
	case *closingShift:
		b.closeShiftStep(chat, s, text)
	case *recordingDeal:
		b.dealStep(chat, s, text)
	case *recordingInstallment:
		b.installmentStep(chat, s, text)
	case *viewingDealDetails:
		b.dealDetailsStep(chat, text)
	case *adminAddingManager:
		b.adminGuard(chat, func() { b.addManagerStep(chat, text) })
	case *adminDisablingManager:
		b.adminGuard(chat, func() { b.disableManagerStep(chat, text) })
	case *adminAdjusting:
		b.adminGuard(chat, func() { b.adjustStep(chat, s, text) })
	case *adminDeletingDeal:
		b.adminGuard(chat, func() { b.deleteDealStep(chat, text) })
	case *adminReporting:
		b.adminGuard(chat, func() { b.reportStep(chat, text) })
	default:
		b.store.clear(chat)
	}
}

func (b *Bot) adminGuard(chat string, fn func()) {
	if !b.isAuthorizedAdmin(chat) {
		b.store.clear(chat)
		b.answer(chat, "Недостаточно прав для выполнения команды.")
		return
	}
	fn()
}
