package users

import (
	"crmbot-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
)

type workerResponse struct {
	ID       uint   `json:"id"`
	Phone    string `json:"phone"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

type createWorkerRequest struct {
	Phone string `json:"phone"`
	Name  string `json:"name"`
}

// ListWorkersHandler возвращает всех активных сотрудников.
func ListWorkersHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		workers, err := svc.ListManagers()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Не удалось получить список сотрудников")
		}
		resp := make([]workerResponse, 0, len(workers))
		for _, w := range workers {
			resp = append(resp, workerResponse{
				ID:       w.ID,
				Phone:    w.Phone,
				Name:     w.Name,
				Role:     string(w.Role),
				IsActive: w.IsActive,
			})
		}
		return c.JSON(resp)
	}
}

// CreateWorkerHandler регистрирует нового сотрудника по номеру телефона.
func CreateWorkerHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createWorkerRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Неверный формат запроса")
		}
		worker, err := svc.AddManager(req.Phone, req.Name)
		if err != nil {
			if domain.IsDomain(err) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Не удалось добавить сотрудника")
		}
		return c.Status(fiber.StatusCreated).JSON(workerResponse{
			ID:       worker.ID,
			Phone:    worker.Phone,
			Name:     worker.Name,
			Role:     string(worker.Role),
			IsActive: worker.IsActive,
		})
	}
}

// DisableWorkerHandler отключает сотрудника (мягкая блокировка, без удаления).
func DisableWorkerHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		phone := c.Params("phone")
		worker, err := svc.DisableManager(phone)
		if err != nil {
			if domain.IsDomain(err) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Не удалось отключить сотрудника")
		}
		return c.JSON(workerResponse{
			ID:       worker.ID,
			Phone:    worker.Phone,
			Name:     worker.Name,
			Role:     string(worker.Role),
			IsActive: worker.IsActive,
		})
	}
}
