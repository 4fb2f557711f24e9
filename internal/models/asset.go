package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Asset represents something of value the user owns, such as property or gold.
type Asset struct {
	Base
	UserID        string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string          `gorm:"not null" json:"name"`
	Type          string          `gorm:"not null" json:"type"`
	PurchaseValue decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"purchase_value"`
	CurrentValue  decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"current_value"`
	PurchaseDate  time.Time       `gorm:"type:date;not null" json:"purchase_date"`
	Description   string          `json:"description"`
}

// ProfitLoss returns CurrentValue minus PurchaseValue.
func (a *Asset) ProfitLoss() decimal.Decimal {
	return a.CurrentValue.Sub(a.PurchaseValue)
}
