package shifts

import (
	"errors"
	"fmt"
	"time"

	"crmbot-backend/internal/domain"
	"crmbot-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service владеет жизненным циклом смен и балансами. Балансы меняются
// только здесь и в deals.Service, всегда вместе со строкой леджера и
// в одной транзакции.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// GetActive возвращает открытую смену сотрудника или nil.
func (s *Service) GetActive(workerID uint) (*models.Shift, error) {
	return getActive(s.db, workerID)
}

func getActive(tx *gorm.DB, workerID uint) (*models.Shift, error) {
	var shift models.Shift
	err := tx.Where("worker_id = ? AND status = ?", workerID, models.ShiftOpen).
		First(&shift).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("поиск активной смены: %w", err)
	}
	return &shift, nil
}

// Open открывает смену со стартовыми остатками нал/безнал и пишет
// транзакцию OPENING на их сумму.
func (s *Service) Open(worker *models.User, openingCash, openingBank decimal.Decimal) (*models.Shift, error) {
	if openingCash.IsNegative() || openingBank.IsNegative() {
		return nil, domain.Validation("Стартовые суммы не могут быть отрицательными.")
	}
	if openingCash.IsZero() && openingBank.IsZero() {
		return nil, domain.Validation("Стартовая сумма должна быть больше 0.")
	}

	var shift *models.Shift
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := getActive(tx, worker.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.Validation("У вас уже есть открытая смена.")
		}

		total := openingCash.Add(openingBank)
		shift = &models.Shift{
			WorkerID:           worker.ID,
			OpenedAt:           time.Now().UTC(),
			OpeningBalanceCash: openingCash,
			OpeningBalanceBank: openingBank,
			OpeningBalance:     total,
			CurrentBalanceCash: openingCash,
			CurrentBalanceBank: openingBank,
			CurrentBalance:     total,
			Status:             models.ShiftOpen,
		}
		if err := tx.Create(shift).Error; err != nil {
			return fmt.Errorf("создание смены: %w", err)
		}

		entry := models.CashTransaction{
			WorkerID:    worker.ID,
			ShiftID:     shift.ID,
			Type:        models.TxOpening,
			AmountDelta: total,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("запись леджера: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return shift, nil
}

// Adjust меняет баланс активной смены на delta (со знаком) по выбранному
// способу оплаты. Нижняя граница намеренно не проверяется: корректировка
// доступна только админу и может увести баланс в минус.
func (s *Service) Adjust(worker *models.User, delta decimal.Decimal, method models.PaymentMethod, createdBy *models.User) (*models.Shift, error) {
	var shift *models.Shift
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		shift, err = getActive(tx, worker.ID)
		if err != nil {
			return err
		}
		if shift == nil {
			return domain.ErrNoActiveShift
		}

		if method == models.MethodBank {
			shift.CurrentBalanceBank = shift.CurrentBalanceBank.Add(delta)
		} else {
			shift.CurrentBalanceCash = shift.CurrentBalanceCash.Add(delta)
		}
		shift.CurrentBalance = shift.CurrentBalanceCash.Add(shift.CurrentBalanceBank)
		if err := tx.Save(shift).Error; err != nil {
			return fmt.Errorf("сохранение смены: %w", err)
		}

		entry := models.CashTransaction{
			WorkerID:    worker.ID,
			ShiftID:     shift.ID,
			Type:        models.TxAdjustment,
			AmountDelta: delta,
		}
		if createdBy != nil {
			entry.CreatedBy = &createdBy.ID
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("запись леджера: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return shift, nil
}

// Close закрывает смену и фиксирует сверку: diff = ожидаемый остаток
// на момент закрытия минус заявленный. Закрытая смена терминальна,
// повторное закрытие вернёт ErrNoActiveShift.
func (s *Service) Close(worker *models.User, reportedCash, reportedBank decimal.Decimal) (*models.Shift, error) {
	var shift *models.Shift
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		shift, err = getActive(tx, worker.ID)
		if err != nil {
			return err
		}
		if shift == nil {
			return domain.ErrNoActiveShift
		}

		now := time.Now().UTC()
		cashDiff := shift.CurrentBalanceCash.Sub(reportedCash)
		bankDiff := shift.CurrentBalanceBank.Sub(reportedBank)

		shift.Status = models.ShiftClosed
		shift.ClosedAt = &now
		shift.ReportedCash = &reportedCash
		shift.ReportedBank = &reportedBank
		shift.ReportedAt = &now
		shift.CashDiff = &cashDiff
		shift.BankDiff = &bankDiff

		if err := tx.Save(shift).Error; err != nil {
			return fmt.Errorf("закрытие смены: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return shift, nil
}

// GetLastClosed возвращает последнюю закрытую смену сотрудника - чтобы
// при следующем открытии подсказать вчерашние остатки. Справочный
// запрос, не авторитетный.
func (s *Service) GetLastClosed(workerID uint) (*models.Shift, error) {
	var shift models.Shift
	err := s.db.Where("worker_id = ? AND status = ?", workerID, models.ShiftClosed).
		Order("closed_at desc").
		First(&shift).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("поиск закрытой смены: %w", err)
	}
	return &shift, nil
}

// CloseAllOpen закрывает все открытые смены (вечерний cron). Поля
// сверки не заполняются - остатки никто не заявлял. Повторный запуск
// безопасен: уже закрытые смены не трогаются.
func (s *Service) CloseAllOpen() (int, error) {
	now := time.Now().UTC()
	res := s.db.Model(&models.Shift{}).
		Where("status = ?", models.ShiftOpen).
		Updates(map[string]any{
			"status":    models.ShiftClosed,
			"closed_at": now,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("автозакрытие смен: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}
