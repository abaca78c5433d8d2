package deals

import (
	"errors"
	"fmt"
	"time"

	"crmbot-backend/internal/domain"
	"crmbot-backend/internal/models"
	"crmbot-backend/internal/timeutil"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service пишет денежные операции по открытой смене.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateParams - данные новой операции. Amount со знаком: плюс -
// поступление (без верхней границы), минус - списание (проверяется
// остаток по выбранному способу оплаты).
type CreateParams struct {
	Amount      decimal.Decimal
	Method      models.PaymentMethod
	Comment     string
	DealType    models.DealType
	Installment *InstallmentPlan
}

// Create создаёт операцию, сдвигает баланс смены и пишет строку
// DEAL_ISSUED в леджер - всё в одной транзакции, при любой ошибке
// состояние не меняется.
func (s *Service) Create(worker *models.User, p CreateParams) (*models.Deal, error) {
	if p.Amount.IsZero() {
		return nil, domain.Validation("Сумма операции должна быть отлична от 0.")
	}
	method := p.Method
	if method == "" {
		method = models.MethodCash
	}
	dealType := p.DealType
	if dealType == "" {
		dealType = models.DealOperation
	}

	var deal *models.Deal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var shift models.Shift
		err := tx.Where("worker_id = ? AND status = ?", worker.ID, models.ShiftOpen).
			First(&shift).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNoActiveShift
		}
		if err != nil {
			return fmt.Errorf("поиск активной смены: %w", err)
		}

		// Списание проверяем против остатка, пополнение - нет.
		// Это две разные бизнес-ветки, не одна проверка со знаком.
		if p.Amount.IsNegative() {
			target := shift.CurrentBalanceCash
			if method == models.MethodBank {
				target = shift.CurrentBalanceBank
			}
			if target.Add(p.Amount).IsNegative() {
				return domain.Validation("Недостаточно лимита для списания.")
			}
		}

		deal = &models.Deal{
			WorkerID:      &worker.ID,
			ShiftID:       &shift.ID,
			TotalAmount:   p.Amount,
			PaymentMethod: method,
			DealType:      dealType,
			Comment:       p.Comment,
		}
		if dealType == models.DealInstallment && p.Installment != nil {
			plan := p.Installment
			deal.ProductPrice = &plan.ProductPrice
			deal.MarkupPercent = &plan.MarkupPercent
			deal.MarkupAmount = &plan.MarkupAmount
			deal.InstallmentTermMonths = &plan.TermMonths
			deal.DownPaymentAmount = &plan.DownPayment
			deal.InstallmentTotal = &plan.Total
			deal.MonthlyPayment = &plan.MonthlyPayment
		}
		if err := tx.Create(deal).Error; err != nil {
			return fmt.Errorf("создание операции: %w", err)
		}

		if method == models.MethodBank {
			shift.CurrentBalanceBank = shift.CurrentBalanceBank.Add(p.Amount)
		} else {
			shift.CurrentBalanceCash = shift.CurrentBalanceCash.Add(p.Amount)
		}
		shift.CurrentBalance = shift.CurrentBalanceCash.Add(shift.CurrentBalanceBank)
		if err := tx.Save(&shift).Error; err != nil {
			return fmt.Errorf("обновление баланса: %w", err)
		}

		entry := models.CashTransaction{
			WorkerID:    worker.ID,
			ShiftID:     shift.ID,
			DealID:      &deal.ID,
			Type:        models.TxDealIssued,
			AmountDelta: p.Amount,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("запись леджера: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deal, nil
}

// CreateInstallment оформляет рассрочку: в леджер уходит списание на
// цену товара (total_amount = -price), расчётные поля сохраняются
// для показа.
func (s *Service) CreateInstallment(worker *models.User, plan *InstallmentPlan, method models.PaymentMethod, comment string) (*models.Deal, error) {
	return s.Create(worker, CreateParams{
		Amount:      plan.ProductPrice.Neg(),
		Method:      method,
		Comment:     comment,
		DealType:    models.DealInstallment,
		Installment: plan,
	})
}

// SoftDelete помечает операцию удалённой. Баланс смены намеренно не
// откатывается: удаление скрывает запись из списков и отчётов, леджер
// остаётся авторитетным.
func (s *Service) SoftDelete(admin *models.User, dealID uint) (*models.Deal, error) {
	if admin.Role != models.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	var deal models.Deal
	err := s.db.First(&deal, dealID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.Validation("Операция не найдена.")
	}
	if err != nil {
		return nil, fmt.Errorf("поиск операции: %w", err)
	}

	deal.IsDeleted = true
	if err := s.db.Save(&deal).Error; err != nil {
		return nil, fmt.Errorf("удаление операции: %w", err)
	}
	return &deal, nil
}

// Breakdown - остатки активной смены.
type Breakdown struct {
	Cash  decimal.Decimal
	Bank  decimal.Decimal
	Total decimal.Decimal
}

// BalanceBreakdown возвращает остатки нал/безнал/итого активной смены.
func (s *Service) BalanceBreakdown(worker *models.User) (*Breakdown, error) {
	var shift models.Shift
	err := s.db.Where("worker_id = ? AND status = ?", worker.ID, models.ShiftOpen).
		First(&shift).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNoActiveShift
	}
	if err != nil {
		return nil, fmt.Errorf("поиск активной смены: %w", err)
	}
	return &Breakdown{
		Cash:  shift.CurrentBalanceCash,
		Bank:  shift.CurrentBalanceBank,
		Total: shift.CurrentBalanceCash.Add(shift.CurrentBalanceBank),
	}, nil
}

// ActiveBalance возвращает суммарный остаток активной смены.
func (s *Service) ActiveBalance(worker *models.User) (decimal.Decimal, error) {
	b, err := s.BalanceBreakdown(worker)
	if err != nil {
		return decimal.Zero, err
	}
	return b.Total, nil
}

// ListWorkerDeals возвращает последние операции сотрудника, новые сверху.
func (s *Service) ListWorkerDeals(worker *models.User, limit int) ([]models.Deal, error) {
	var list []models.Deal
	err := s.db.Where("worker_id = ? AND is_deleted = ?", worker.ID, false).
		Order("created_at desc").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("список операций: %w", err)
	}
	return list, nil
}

// GetWorkerDeal возвращает операцию сотрудника по id или nil.
func (s *Service) GetWorkerDeal(worker *models.User, dealID uint) (*models.Deal, error) {
	var deal models.Deal
	err := s.db.Where("id = ? AND worker_id = ? AND is_deleted = ?", dealID, worker.ID, false).
		First(&deal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("поиск операции: %w", err)
	}
	return &deal, nil
}

// DealBrief - строка сводки за день для админа.
type DealBrief struct {
	ID            uint
	TotalAmount   decimal.Decimal
	PaymentMethod models.PaymentMethod
	DealType      models.DealType
	Comment       string
	CreatedAt     time.Time
	WorkerPhone   string
	WorkerName    string
}

// ListTodayDeals возвращает последние операции за сегодняшний день в
// бизнес-поясе (для меню удаления у админа).
func (s *Service) ListTodayDeals(limit int) ([]DealBrief, error) {
	start, end := timeutil.DayBounds(timeutil.Now())

	var rows []DealBrief
	err := s.db.Model(&models.Deal{}).
		Select(`deals.id, deals.total_amount, deals.payment_method, deals.deal_type,
			deals.comment, deals.created_at,
			COALESCE(users.phone, '') AS worker_phone,
			COALESCE(users.name, '') AS worker_name`).
		Joins("LEFT JOIN users ON users.id = deals.worker_id").
		Where("deals.is_deleted = ? AND deals.created_at >= ? AND deals.created_at <= ?", false, start, end).
		Order("deals.created_at desc").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("операции за сегодня: %w", err)
	}
	return rows, nil
}

// AddPayment фиксирует поступление оплаты по операции. На балансы
// смены не влияет.
func (s *Service) AddPayment(dealID uint, amount decimal.Decimal, paidAt time.Time) (*models.Payment, error) {
	if !amount.IsPositive() {
		return nil, domain.Validation("Сумма платежа должна быть больше 0.")
	}

	var deal models.Deal
	err := s.db.First(&deal, dealID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.Validation("Операция не найдена.")
	}
	if err != nil {
		return nil, fmt.Errorf("поиск операции: %w", err)
	}

	payment := models.Payment{
		DealID: deal.ID,
		Amount: amount,
		PaidAt: paidAt,
	}
	if err := s.db.Create(&payment).Error; err != nil {
		return nil, fmt.Errorf("сохранение платежа: %w", err)
	}
	return &payment, nil
}
