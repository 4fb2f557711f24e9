package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether t is income or expense.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Label returns the display label used for the type in charts and exports.
func (t TransactionType) Label() string {
	switch t {
	case TransactionTypeIncome:
		return "Pemasukan"
	case TransactionTypeExpense:
		return "Pengeluaran"
	default:
		return string(t)
	}
}

// Transaction represents a single income or expense entry.
//
// CategoryID and BankAccountID are plain references without foreign-key
// relationships: they may point at rows that were deleted since.
type Transaction struct {
	Base
	UserID          string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Type            TransactionType `gorm:"not null" json:"type"`
	Amount          decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"amount"`
	CategoryID      *string         `gorm:"type:uuid" json:"category_id"`
	BankAccountID   *string         `gorm:"type:uuid" json:"bank_account_id"`
	Description     string          `json:"description"`
	TransactionDate time.Time       `gorm:"type:date;not null;index" json:"transaction_date"`
}

// DateOnly truncates t to its calendar date at midnight UTC, the form
// transaction and purchase dates are stored in.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
