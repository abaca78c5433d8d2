package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ShiftStatus string

const (
	ShiftOpen   ShiftStatus = "open"
	ShiftClosed ShiftStatus = "closed"
)

type PaymentMethod string

const (
	MethodCash PaymentMethod = "cash" // наличные
	MethodBank PaymentMethod = "bank" // безнал
)

// Shift - кассовая смена сотрудника с раздельными балансами нал/безнал.
// У сотрудника может быть не больше одной открытой смены (частичный
// уникальный индекс создаётся в database.Init).
type Shift struct {
	ID       uint `gorm:"primaryKey"`
	WorkerID uint `gorm:"index;not null"`
	Worker   User `gorm:"constraint:OnDelete:CASCADE"`

	OpenedAt time.Time `gorm:"not null"`
	ClosedAt *time.Time

	OpeningBalanceCash decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	OpeningBalanceBank decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	OpeningBalance     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CurrentBalanceCash decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CurrentBalanceBank decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CurrentBalance     decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	// Сверка при закрытии: diff = ожидаемый остаток - заявленный.
	// Положительный diff означает недостачу.
	ReportedCash *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ReportedBank *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ReportedAt   *time.Time
	CashDiff     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	BankDiff     *decimal.Decimal `gorm:"type:decimal(12,2)"`

	Status ShiftStatus `gorm:"size:20;not null;default:open"`
}
