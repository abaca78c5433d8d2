package reports

import (
	"fmt"
	"time"

	"crmbot-backend/internal/domain"
	"crmbot-backend/internal/models"
	"crmbot-backend/internal/timeutil"
	"crmbot-backend/internal/users"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Totals - свод по набору операций: всего, по направлению
// (выдачи/возвраты) и по способу оплаты.
type Totals struct {
	TotalCount  int
	NetSum      decimal.Decimal
	IssuedSum   decimal.Decimal
	IssuedCount int
	ReturnSum   decimal.Decimal
	ReturnCount int
	CashSum     decimal.Decimal
	CashCount   int
	BankSum     decimal.Decimal
	BankCount   int
}

func (t *Totals) add(amount decimal.Decimal, method models.PaymentMethod) {
	t.TotalCount++
	t.NetSum = t.NetSum.Add(amount)
	if amount.IsPositive() {
		t.IssuedSum = t.IssuedSum.Add(amount)
		t.IssuedCount++
	} else {
		t.ReturnSum = t.ReturnSum.Add(amount)
		t.ReturnCount++
	}
	if method == models.MethodBank {
		t.BankSum = t.BankSum.Add(amount)
		t.BankCount++
	} else {
		t.CashSum = t.CashSum.Add(amount)
		t.CashCount++
	}
}

// WorkerTotals - свод по одному сотруднику.
type WorkerTotals struct {
	Phone string
	Name  string
	Totals
}

// ShiftMismatch - расхождение при закрытии смены в отчётном окне.
type ShiftMismatch struct {
	ShiftID     uint
	WorkerPhone string
	WorkerName  string
	ClosedAt    time.Time
	CashDiff    decimal.Decimal
	BankDiff    decimal.Decimal
}

// DealsReport - агрегаты за период. Чистое чтение, состояние не меняет.
type DealsReport struct {
	Start   time.Time
	End     time.Time
	Overall Totals
	ByType  map[models.DealType]*Totals
	Workers []WorkerTotals

	Mismatches []ShiftMismatch
}

type Service struct {
	db    *gorm.DB
	users *users.Service
}

func NewService(db *gorm.DB, userSvc *users.Service) *Service {
	return &Service{db: db, users: userSvc}
}

type dealRow struct {
	TotalAmount   decimal.Decimal
	PaymentMethod models.PaymentMethod
	DealType      models.DealType
	WorkerPhone   string
	WorkerName    string
}

// BuildDealsReport строит свод по неудалённым операциям за включительный
// диапазон дат (границы - в бизнес-поясе), опционально по одному
// сотруднику.
func (s *Service) BuildDealsReport(start, end time.Time, workerPhone string) (*DealsReport, error) {
	lo, hi := timeutil.PeriodBounds(start, end)

	var workerID *uint
	if workerPhone != "" {
		worker, err := s.users.GetActiveByPhone(workerPhone)
		if err != nil {
			return nil, err
		}
		if worker == nil {
			return nil, domain.Validation("Сотрудник не найден или неактивен.")
		}
		workerID = &worker.ID
	}

	q := s.db.Model(&models.Deal{}).
		Select(`deals.total_amount, deals.payment_method, deals.deal_type,
			COALESCE(users.phone, '') AS worker_phone,
			COALESCE(users.name, '') AS worker_name`).
		Joins("LEFT JOIN users ON users.id = deals.worker_id").
		Where("deals.is_deleted = ? AND deals.created_at >= ? AND deals.created_at <= ?", false, lo, hi)
	if workerID != nil {
		q = q.Where("deals.worker_id = ?", *workerID)
	}

	var rows []dealRow
	if err := q.Order("deals.created_at asc").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("выборка операций: %w", err)
	}

	report := &DealsReport{
		Start:  start,
		End:    end,
		ByType: map[models.DealType]*Totals{},
	}
	byWorker := map[string]*WorkerTotals{}
	var workerOrder []string

	for _, row := range rows {
		report.Overall.add(row.TotalAmount, row.PaymentMethod)

		byType := report.ByType[row.DealType]
		if byType == nil {
			byType = &Totals{}
			report.ByType[row.DealType] = byType
		}
		byType.add(row.TotalAmount, row.PaymentMethod)

		wt := byWorker[row.WorkerPhone]
		if wt == nil {
			wt = &WorkerTotals{Phone: row.WorkerPhone, Name: row.WorkerName}
			byWorker[row.WorkerPhone] = wt
			workerOrder = append(workerOrder, row.WorkerPhone)
		}
		wt.add(row.TotalAmount, row.PaymentMethod)
	}
	for _, phone := range workerOrder {
		report.Workers = append(report.Workers, *byWorker[phone])
	}

	mismatches, err := s.shiftMismatches(lo, hi, workerID)
	if err != nil {
		return nil, err
	}
	report.Mismatches = mismatches

	return report, nil
}

// BuildTodaySummary - тот же отчёт за сегодняшний день.
func (s *Service) BuildTodaySummary() (*DealsReport, error) {
	today := timeutil.Now()
	return s.BuildDealsReport(today, today, "")
}

// Mismatches возвращает расхождения закрытых смен за включительный
// диапазон дат.
func (s *Service) Mismatches(start, end time.Time) ([]ShiftMismatch, error) {
	lo, hi := timeutil.PeriodBounds(start, end)
	return s.shiftMismatches(lo, hi, nil)
}

func (s *Service) shiftMismatches(lo, hi time.Time, workerID *uint) ([]ShiftMismatch, error) {
	type row struct {
		ID          uint
		ClosedAt    time.Time
		CashDiff    decimal.Decimal
		BankDiff    decimal.Decimal
		WorkerPhone string
		WorkerName  string
	}

	q := s.db.Model(&models.Shift{}).
		Select(`shifts.id, shifts.closed_at, shifts.cash_diff, shifts.bank_diff,
			COALESCE(users.phone, '') AS worker_phone,
			COALESCE(users.name, '') AS worker_name`).
		Joins("LEFT JOIN users ON users.id = shifts.worker_id").
		Where("shifts.status = ? AND shifts.closed_at >= ? AND shifts.closed_at <= ?", models.ShiftClosed, lo, hi).
		Where("(shifts.cash_diff IS NOT NULL AND shifts.cash_diff <> 0) OR (shifts.bank_diff IS NOT NULL AND shifts.bank_diff <> 0)")
	if workerID != nil {
		q = q.Where("shifts.worker_id = ?", *workerID)
	}

	var rows []row
	if err := q.Order("shifts.closed_at asc").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("выборка расхождений: %w", err)
	}

	out := make([]ShiftMismatch, 0, len(rows))
	for _, r := range rows {
		out = append(out, ShiftMismatch{
			ShiftID:     r.ID,
			WorkerPhone: r.WorkerPhone,
			WorkerName:  r.WorkerName,
			ClosedAt:    r.ClosedAt,
			CashDiff:    r.CashDiff,
			BankDiff:    r.BankDiff,
		})
	}
	return out, nil
}
