package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "dompet/internal/errors"
	"dompet/internal/models"
	"dompet/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db                 *gorm.DB
	categoryService    CategoryServicer
	bankAccountService BankAccountServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, categoryService CategoryServicer, bankAccountService BankAccountServicer) TransactionServicer {
	return &transactionService{
		db:                 db,
		categoryService:    categoryService,
		bankAccountService: bankAccountService,
	}
}

// CreateTransaction creates a new income or expense entry for a user.
// Bank account balances are not touched.
func (s *transactionService) CreateTransaction(ctx context.Context, userID string, input TransactionInput) (*models.Transaction, error) {
	if !input.Type.Valid() {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if !input.Amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	if err := s.checkReferences(ctx, userID, input.Type, input.CategoryID, input.BankAccountID); err != nil {
		return nil, err
	}

	date := input.TransactionDate
	if date.IsZero() {
		date = time.Now()
	}

	transaction := &models.Transaction{
		UserID:          userID,
		Type:            input.Type,
		Amount:          input.Amount,
		CategoryID:      input.CategoryID,
		BankAccountID:   input.BankAccountID,
		Description:     input.Description,
		TransactionDate: models.DateOnly(date),
	}

	if err := s.db.WithContext(ctx).Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// checkReferences enforces the entry-time invariants: a referenced category must
// belong to the user and match the transaction type, and a referenced bank account
// must belong to the user.
func (s *transactionService) checkReferences(ctx context.Context, userID string, txType models.TransactionType, categoryID, bankAccountID *string) error {
	if categoryID != nil {
		category, err := s.categoryService.GetCategoryByID(ctx, userID, *categoryID)
		if err != nil {
			return err
		}
		if string(category.Type) != string(txType) {
			return apperrors.ErrCategoryTypeMismatch
		}
	}

	if bankAccountID != nil {
		if _, err := s.bankAccountService.GetBankAccountByID(ctx, userID, *bankAccountID); err != nil {
			return err
		}
	}

	return nil
}

// ListTransactions returns every transaction of a user matching the filter,
// newest first. The report engine paginates this list in memory.
func (s *transactionService) ListTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]models.Transaction, error) {
	q := s.db.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", userID)
	q = applyTransactionFilters(q, filter)

	var transactions []models.Transaction
	if err := q.Order("transaction_date DESC").Order("created_at DESC").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	return transactions, nil
}

// GetUserTransactions retrieves a paginated, filtered list of transactions for a user.
func (s *transactionService) GetUserTransactions(ctx context.Context, userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("transaction_date DESC").
		Order("created_at DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("transaction_date >= ?", models.DateOnly(*f.FromDate))
	}
	if f.ToDate != nil {
		q = q.Where("transaction_date <= ?", models.DateOnly(*f.ToDate))
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.BankAccountID != nil {
		q = q.Where("bank_account_id = ?", *f.BankAccountID)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(ctx context.Context, userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction applies the given changes to an existing transaction.
// The resulting transaction must still satisfy the entry-time invariants.
func (s *transactionService) UpdateTransaction(ctx context.Context, userID, transactionID string, fields TransactionUpdateFields) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}

	updated := *transaction
	if fields.Type != nil {
		if !fields.Type.Valid() {
			return nil, apperrors.ErrInvalidTransactionType
		}
		updated.Type = *fields.Type
	}
	if fields.Amount != nil {
		if !fields.Amount.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		updated.Amount = *fields.Amount
	}
	if fields.CategoryID != nil {
		updated.CategoryID = *fields.CategoryID
	}
	if fields.BankAccountID != nil {
		updated.BankAccountID = *fields.BankAccountID
	}
	if fields.Description != nil {
		updated.Description = *fields.Description
	}
	if fields.TransactionDate != nil {
		updated.TransactionDate = models.DateOnly(*fields.TransactionDate)
	}

	// A type change re-validates an unchanged category as well.
	categoryToCheck := updated.CategoryID
	if fields.CategoryID == nil && fields.Type == nil {
		categoryToCheck = nil
	}
	accountToCheck := updated.BankAccountID
	if fields.BankAccountID == nil {
		accountToCheck = nil
	}
	if err := s.checkReferences(ctx, userID, updated.Type, categoryToCheck, accountToCheck); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(transaction).Select(
		"Type", "Amount", "CategoryID", "BankAccountID", "Description", "TransactionDate",
	).Updates(&updated).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &updated, nil
}

// DeleteTransaction permanently deletes a transaction.
func (s *transactionService) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(ctx, userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
