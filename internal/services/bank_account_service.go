package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "dompet/internal/errors"
	"dompet/internal/models"
)

// bankAccountService handles bank-account business logic.
type bankAccountService struct {
	db *gorm.DB
}

// NewBankAccountService creates a new BankAccountServicer.
func NewBankAccountService(db *gorm.DB) BankAccountServicer {
	return &bankAccountService{db: db}
}

// CreateBankAccount creates a new bank account for a user
func (s *bankAccountService) CreateBankAccount(ctx context.Context, userID string, input BankAccountInput) (*models.BankAccount, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}
	bankName := strings.TrimSpace(input.BankName)
	if bankName == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "bank name is required")
	}

	account := &models.BankAccount{
		UserID:        userID,
		Name:          name,
		BankName:      bankName,
		AccountNumber: strings.TrimSpace(input.AccountNumber),
		Balance:       input.Balance,
	}

	if err := s.db.WithContext(ctx).Create(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return account, nil
}

// ListBankAccounts returns all bank accounts of a user ordered by name.
func (s *bankAccountService) ListBankAccounts(ctx context.Context, userID string) ([]models.BankAccount, error) {
	var accounts []models.BankAccount
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("name ASC").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if accounts == nil {
		accounts = []models.BankAccount{}
	}
	return accounts, nil
}

// GetBankAccountByID retrieves a bank account by ID for a specific user
func (s *bankAccountService) GetBankAccountByID(ctx context.Context, userID, accountID string) (*models.BankAccount, error) {
	var account models.BankAccount
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBankAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// UpdateBankAccount updates an existing bank account, including its stored balance.
func (s *bankAccountService) UpdateBankAccount(ctx context.Context, userID, accountID string, fields BankAccountUpdateFields) (*models.BankAccount, error) {
	account, err := s.GetBankAccountByID(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Name != nil {
		name := strings.TrimSpace(*fields.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
		}
		updates["name"] = name
	}
	if fields.BankName != nil {
		bankName := strings.TrimSpace(*fields.BankName)
		if bankName == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "bank name is required")
		}
		updates["bank_name"] = bankName
	}
	if fields.AccountNumber != nil {
		updates["account_number"] = strings.TrimSpace(*fields.AccountNumber)
	}
	if fields.Balance != nil {
		updates["balance"] = *fields.Balance
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(account).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return account, nil
}

// DeleteBankAccount permanently deletes a bank account. Transactions that
// referenced it are reported without an account afterwards.
func (s *bankAccountService) DeleteBankAccount(ctx context.Context, userID, accountID string) error {
	account, err := s.GetBankAccountByID(ctx, userID, accountID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(account).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
