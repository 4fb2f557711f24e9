package models

import "github.com/shopspring/decimal"

// BankAccount represents a user's bank account.
// Balance is maintained by the user and is not derived from transactions.
type BankAccount struct {
	Base
	UserID        string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string          `gorm:"not null" json:"name"`
	BankName      string          `gorm:"not null" json:"bank_name"`
	AccountNumber string          `json:"account_number,omitempty"`
	Balance       decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0" json:"balance"`
}
