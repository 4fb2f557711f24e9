package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"dompet/internal/models"
	"dompet/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NewUserID returns a fresh user id. Users live in Supabase Auth, so there is no row to create.
func NewUserID() string {
	return uuid.New()
}

// Date returns midnight UTC for the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateTestCategory creates a category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
		Type:   categoryType,
		Color:  "#22c55e",
		Icon:   "tag",
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestBankAccount creates a bank account with the given balance.
func CreateTestBankAccount(t *testing.T, db *gorm.DB, userID string, balance int64) *models.BankAccount {
	t.Helper()

	account := &models.BankAccount{
		UserID:   userID,
		Name:     fmt.Sprintf("Test Account %d", nextID()),
		BankName: "BCA",
		Balance:  decimal.NewFromInt(balance),
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test bank account: %v", err)
	}
	return account
}

// CreateTestTransaction creates a transaction of the given type and amount on the given date.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID string, txType models.TransactionType, amount int64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:          userID,
		Type:            txType,
		Amount:          decimal.NewFromInt(amount),
		Description:     fmt.Sprintf("Test transaction %d", nextID()),
		TransactionDate: date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestAsset creates an asset with the given purchase and current values.
func CreateTestAsset(t *testing.T, db *gorm.DB, userID string, purchase, current int64) *models.Asset {
	t.Helper()

	asset := &models.Asset{
		UserID:        userID,
		Name:          fmt.Sprintf("Test Asset %d", nextID()),
		Type:          "gold",
		PurchaseValue: decimal.NewFromInt(purchase),
		CurrentValue:  decimal.NewFromInt(current),
		PurchaseDate:  Date(2024, time.January, 1),
	}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to create test asset: %v", err)
	}
	return asset
}
