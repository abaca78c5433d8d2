package admin

import (
	"crmbot-backend/internal/deals"
	"crmbot-backend/internal/domain"
	"crmbot-backend/internal/models"
	"crmbot-backend/internal/shifts"
	"crmbot-backend/internal/users"

	"github.com/shopspring/decimal"
)

// Service - административные операции: управление сотрудниками,
// корректировки и удаление операций от имени админа.
type Service struct {
	users  *users.Service
	shifts *shifts.Service
	deals  *deals.Service
}

func NewService(userSvc *users.Service, shiftSvc *shifts.Service, dealSvc *deals.Service) *Service {
	return &Service{users: userSvc, shifts: shiftSvc, deals: dealSvc}
}

func (s *Service) AddManager(phone, name string) (*models.User, error) {
	return s.users.AddManager(phone, name)
}

func (s *Service) DisableManager(phone string) (*models.User, error) {
	return s.users.DisableManager(phone)
}

// AdjustWorkerBalance - корректировка баланса сотрудника админом.
// Корректировка может увести баланс в минус, это сознательное
// отличие от создания операции.
func (s *Service) AdjustWorkerBalance(admin *models.User, workerPhone string, delta decimal.Decimal, method models.PaymentMethod) (*models.Shift, error) {
	if admin.Role != models.RoleAdmin {
		return nil, domain.Validation("Только админ может корректировать баланс.")
	}
	worker, err := s.users.GetActiveByPhone(workerPhone)
	if err != nil {
		return nil, err
	}
	if worker == nil {
		return nil, domain.Validation("Сотрудник не найден или неактивен.")
	}
	return s.shifts.Adjust(worker, delta, method, admin)
}

// SoftDeleteDeal помечает операцию удалённой от имени админа.
func (s *Service) SoftDeleteDeal(admin *models.User, dealID uint) (*models.Deal, error) {
	return s.deals.SoftDelete(admin, dealID)
}
