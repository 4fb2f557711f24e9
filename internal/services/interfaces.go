package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"dompet/internal/models"
	"dompet/internal/pagination"
)

// TransactionFilter holds optional filter parameters for listing transactions.
// Dates are inclusive calendar dates.
type TransactionFilter struct {
	FromDate      *time.Time
	ToDate        *time.Time
	Type          *models.TransactionType
	CategoryID    *string
	BankAccountID *string
}

// TransactionInput carries the fields of a new transaction.
type TransactionInput struct {
	Type            models.TransactionType
	Amount          decimal.Decimal
	CategoryID      *string
	BankAccountID   *string
	Description     string
	TransactionDate time.Time
}

// TransactionUpdateFields holds optional fields for updating a transaction.
// For CategoryID and BankAccountID: nil = don't change, non-nil pointing to nil = clear,
// non-nil pointing to a value = set.
type TransactionUpdateFields struct {
	Type            *models.TransactionType
	Amount          *decimal.Decimal
	CategoryID      **string
	BankAccountID   **string
	Description     *string
	TransactionDate *time.Time
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(ctx context.Context, userID string, input TransactionInput) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]models.Transaction, error)
	GetUserTransactions(ctx context.Context, userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(ctx context.Context, userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, transactionID string, fields TransactionUpdateFields) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, transactionID string) error
}

// CategoryUpdateFields holds optional fields for updating a category.
type CategoryUpdateFields struct {
	Name  *string
	Color *string
	Icon  *string
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(ctx context.Context, userID, name string, categoryType models.CategoryType, color, icon string) (*models.Category, error)
	ListCategories(ctx context.Context, userID string, categoryType *models.CategoryType) ([]models.Category, error)
	GetCategoryByID(ctx context.Context, userID, categoryID string) (*models.Category, error)
	UpdateCategory(ctx context.Context, userID, categoryID string, fields CategoryUpdateFields) (*models.Category, error)
	DeleteCategory(ctx context.Context, userID, categoryID string) error
}

// BankAccountInput carries the fields of a new bank account.
type BankAccountInput struct {
	Name          string
	BankName      string
	AccountNumber string
	Balance       decimal.Decimal
}

// BankAccountUpdateFields holds optional fields for updating a bank account.
type BankAccountUpdateFields struct {
	Name          *string
	BankName      *string
	AccountNumber *string
	Balance       *decimal.Decimal
}

// BankAccountServicer defines the contract for bank-account business logic.
type BankAccountServicer interface {
	CreateBankAccount(ctx context.Context, userID string, input BankAccountInput) (*models.BankAccount, error)
	ListBankAccounts(ctx context.Context, userID string) ([]models.BankAccount, error)
	GetBankAccountByID(ctx context.Context, userID, accountID string) (*models.BankAccount, error)
	UpdateBankAccount(ctx context.Context, userID, accountID string, fields BankAccountUpdateFields) (*models.BankAccount, error)
	DeleteBankAccount(ctx context.Context, userID, accountID string) error
}

// AssetInput carries the fields of a new asset.
type AssetInput struct {
	Name          string
	Type          string
	PurchaseValue decimal.Decimal
	CurrentValue  decimal.Decimal
	PurchaseDate  time.Time
	Description   string
}

// AssetUpdateFields holds optional fields for updating an asset.
type AssetUpdateFields struct {
	Name          *string
	Type          *string
	PurchaseValue *decimal.Decimal
	CurrentValue  *decimal.Decimal
	PurchaseDate  *time.Time
	Description   *string
}

// AssetServicer defines the contract for asset business logic.
type AssetServicer interface {
	CreateAsset(ctx context.Context, userID string, input AssetInput) (*models.Asset, error)
	ListAssets(ctx context.Context, userID string) ([]models.Asset, error)
	GetAssetByID(ctx context.Context, userID, assetID string) (*models.Asset, error)
	UpdateAsset(ctx context.Context, userID, assetID string, fields AssetUpdateFields) (*models.Asset, error)
	DeleteAsset(ctx context.Context, userID, assetID string) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ctx context.Context, userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
