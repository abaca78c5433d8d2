package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DealType string

const (
	DealOperation   DealType = "operation"   // обычная выдача/возврат
	DealInstallment DealType = "installment" // рассрочка
)

// Deal - денежная операция по открытой смене. Сумма со знаком:
// плюс - поступление, минус - списание. После создания запись
// неизменяема, кроме флага IsDeleted.
type Deal struct {
	ID       uint   `gorm:"primaryKey"`
	WorkerID *uint  `gorm:"index"`
	Worker   *User  `gorm:"constraint:OnDelete:SET NULL"`
	ShiftID  *uint  `gorm:"index"`
	Shift    *Shift `gorm:"constraint:OnDelete:SET NULL"`

	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod PaymentMethod   `gorm:"size:20;not null;default:cash"`
	DealType      DealType        `gorm:"size:20;not null;default:operation"`
	Comment       string          `gorm:"size:255"`

	// Поля рассрочки (заполнены только при DealType == installment)
	ProductPrice          *decimal.Decimal `gorm:"type:decimal(12,2)"`
	MarkupPercent         *decimal.Decimal `gorm:"type:decimal(5,2)"`
	MarkupAmount          *decimal.Decimal `gorm:"type:decimal(12,2)"`
	InstallmentTermMonths *int
	DownPaymentAmount     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	InstallmentTotal      *decimal.Decimal `gorm:"type:decimal(12,2);column:installment_total_amount"`
	MonthlyPayment        *decimal.Decimal `gorm:"type:decimal(12,2);column:monthly_payment_amount"`

	IsDeleted bool `gorm:"not null;default:false;index"`
	CreatedAt time.Time
}
