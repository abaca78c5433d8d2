package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment - факт поступления оплаты по операции. На балансы смены
// не влияет, хранится отдельно от леджера.
type Payment struct {
	ID     uint `gorm:"primaryKey"`
	DealID uint `gorm:"index;not null"`
	Deal   Deal `gorm:"constraint:OnDelete:CASCADE"`

	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaidAt    time.Time       `gorm:"not null"`
	CreatedAt time.Time
}
