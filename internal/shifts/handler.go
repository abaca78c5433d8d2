package shifts

import (
	"github.com/gofiber/fiber/v2"
)

// CloseAllHandler принудительно закрывает все открытые смены.
// Вызывается по крону в конце рабочего дня.
func CloseAllHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		closed, err := svc.CloseAllOpen()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Не удалось закрыть смены")
		}
		return c.JSON(fiber.Map{"closed": closed})
	}
}
