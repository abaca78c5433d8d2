package bot

import (
	"crmbot-backend/internal/greenapi"

	"github.com/gofiber/fiber/v2"
)

// WebhookHandler принимает уведомления green-api. Отвечаем 200 сразу
// после обработки: green-api повторяет доставку при любом другом
// статусе, а повторная обработка операций нам не нужна.
func WebhookHandler(b *Bot) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var n greenapi.Notification
		if err := c.BodyParser(&n); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Некорректное тело вебхука")
		}

		b.HandleNotification(&n)
		return c.SendStatus(fiber.StatusOK)
	}
}
