package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CashTransactionType string

const (
	TxOpening    CashTransactionType = "OPENING"
	TxDealIssued CashTransactionType = "DEAL_ISSUED"
	TxAdjustment CashTransactionType = "ADJUSTMENT"
)

// CashTransaction - неизменяемая строка леджера. Пишется при каждом
// изменении баланса смены и никогда не обновляется и не удаляется,
// чтобы история движений не зависела от мутабельной строки Shift.
type CashTransaction struct {
	ID       uint  `gorm:"primaryKey"`
	WorkerID uint  `gorm:"index;not null"`
	Worker   User  `gorm:"constraint:OnDelete:CASCADE"`
	ShiftID  uint  `gorm:"index;not null"`
	Shift    Shift `gorm:"constraint:OnDelete:CASCADE"`
	DealID   *uint `gorm:"index"`
	Deal     *Deal `gorm:"constraint:OnDelete:SET NULL"`

	// Кто инициировал (админ при корректировке)
	CreatedBy     *uint
	CreatedByUser *User `gorm:"foreignKey:CreatedBy;constraint:OnDelete:SET NULL"`

	Type        CashTransactionType `gorm:"size:20;not null"`
	AmountDelta decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time
}
