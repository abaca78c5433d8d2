package auth

import (
	"crmbot-backend/internal/config"
	"crmbot-backend/internal/database"
	"crmbot-backend/internal/models"
	"crmbot-backend/internal/users"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type SetPasswordRequest struct {
	Password string `json:"password"`
}

// LoginHandler выдаёт JWT для админ-API. Входит только админ с
// установленным паролем; сотрудники работают через WhatsApp.
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Некорректное тело запроса")
		}

		phone, err := users.NormalizePhone(body.Phone)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Неверный номер или пароль")
		}

		var user models.User
		if err := database.DB.Where("phone = ? AND role = ? AND is_active = ?",
			phone, models.RoleAdmin, true).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Неверный номер или пароль")
		}
		if user.PasswordHash == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Пароль не установлен")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Неверный номер или пароль")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Не удалось создать токен")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user": fiber.Map{
				"id":    user.ID,
				"phone": user.Phone,
				"name":  user.Name,
				"role":  user.Role,
			},
		})
	}
}

// SetPasswordHandler устанавливает пароль текущему админу.
func SetPasswordHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SetPasswordRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Некорректное тело запроса")
		}
		if len(body.Password) < 8 {
			return fiber.NewError(fiber.StatusBadRequest, "Пароль должен быть не короче 8 символов")
		}

		userID, ok := c.Locals(CtxUserIDKey).(uint)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Пользователь не определён")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Не удалось захэшировать пароль")
		}

		if err := database.DB.Model(&models.User{}).
			Where("id = ?", userID).
			Update("password_hash", string(hash)).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Не удалось сохранить пароль")
		}

		return c.JSON(fiber.Map{"ok": true})
	}
}

// MeHandler возвращает данные текущего пользователя по токену.
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals(CtxUserIDKey).(uint)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Пользователь не определён")
		}

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Пользователь не найден")
		}

		return c.JSON(fiber.Map{
			"user_id": user.ID,
			"phone":   user.Phone,
			"name":    user.Name,
			"role":    user.Role,
		})
	}
}
