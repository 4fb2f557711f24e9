package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"dompet/internal/models"
	"dompet/internal/pagination"
	"dompet/internal/testutil"
)

func newTransactionService(t *testing.T) (TransactionServicer, func()) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := NewTransactionService(db, NewCategoryService(db), NewBankAccountService(db))
	return svc, func() { testutil.TeardownTestDB(t, db) }
}

func TestCreateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("valid_expense", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db), NewBankAccountService(db))
		userID := testutil.NewUserID()
		cat := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense)
		acct := testutil.CreateTestBankAccount(t, db, userID, 100000)

		tx, err := svc.CreateTransaction(ctx, userID, TransactionInput{
			Type:            models.TransactionTypeExpense,
			Amount:          decimal.NewFromInt(50000),
			CategoryID:      &cat.ID,
			BankAccountID:   &acct.ID,
			Description:     "Makan siang",
			TransactionDate: time.Date(2024, 5, 3, 18, 30, 0, 0, time.UTC),
		})
		testutil.AssertNoError(t, err)

		if tx.ID == "" {
			t.Fatal("expected transaction ID")
		}
		if !tx.TransactionDate.Equal(testutil.Date(2024, 5, 3)) {
			t.Errorf("expected date truncated to 2024-05-03, got %v", tx.TransactionDate)
		}

		// Balances are stored values and never follow transactions.
		var reloaded models.BankAccount
		testutil.AssertNoError(t, db.First(&reloaded, "id = ?", acct.ID).Error)
		testutil.AssertDecimal(t, reloaded.Balance, 100000)
	})

	t.Run("zero_amount", func(t *testing.T) {
		svc, done := newTransactionService(t)
		defer done()

		_, err := svc.CreateTransaction(ctx, testutil.NewUserID(), TransactionInput{
			Type:   models.TransactionTypeIncome,
			Amount: decimal.Zero,
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("negative_amount", func(t *testing.T) {
		svc, done := newTransactionService(t)
		defer done()

		_, err := svc.CreateTransaction(ctx, testutil.NewUserID(), TransactionInput{
			Type:   models.TransactionTypeIncome,
			Amount: decimal.NewFromInt(-10),
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("invalid_type", func(t *testing.T) {
		svc, done := newTransactionService(t)
		defer done()

		_, err := svc.CreateTransaction(ctx, testutil.NewUserID(), TransactionInput{
			Type:   "transfer",
			Amount: decimal.NewFromInt(10),
		})
		testutil.AssertAppError(t, err, "INVALID_TRANSACTION_TYPE")
	})

	t.Run("category_type_mismatch", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db), NewBankAccountService(db))
		userID := testutil.NewUserID()
		cat := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense)

		_, err := svc.CreateTransaction(ctx, userID, TransactionInput{
			Type:       models.TransactionTypeIncome,
			Amount:     decimal.NewFromInt(10),
			CategoryID: &cat.ID,
		})
		testutil.AssertAppError(t, err, "CATEGORY_TYPE_MISMATCH")
	})

	t.Run("other_users_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db), NewBankAccountService(db))
		cat := testutil.CreateTestCategory(t, db, testutil.NewUserID(), models.CategoryTypeExpense)

		_, err := svc.CreateTransaction(ctx, testutil.NewUserID(), TransactionInput{
			Type:       models.TransactionTypeExpense,
			Amount:     decimal.NewFromInt(10),
			CategoryID: &cat.ID,
		})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("other_users_bank_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db), NewBankAccountService(db))
		acct := testutil.CreateTestBankAccount(t, db, testutil.NewUserID(), 0)

		_, err := svc.CreateTransaction(ctx, testutil.NewUserID(), TransactionInput{
			Type:          models.TransactionTypeExpense,
			Amount:        decimal.NewFromInt(10),
			BankAccountID: &acct.ID,
		})
		testutil.AssertAppError(t, err, "BANK_ACCOUNT_NOT_FOUND")
	})

	t.Run("default_date_when_zero", func(t *testing.T) {
		svc, done := newTransactionService(t)
		defer done()

		tx, err := svc.CreateTransaction(ctx, testutil.NewUserID(), TransactionInput{
			Type:   models.TransactionTypeIncome,
			Amount: decimal.NewFromInt(10),
		})
		testutil.AssertNoError(t, err)
		if tx.TransactionDate.IsZero() {
			t.Error("expected date to default to today")
		}
	})
}

func TestListTransactions(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTransactionService(db, NewCategoryService(db), NewBankAccountService(db))

	userID := testutil.NewUserID()
	other := testutil.NewUserID()
	testutil.CreateTestTransaction(t, db, userID, models.TransactionTypeIncome, 100, testutil.Date(2024, 4, 30))
	testutil.CreateTestTransaction(t, db, userID, models.TransactionTypeExpense, 200, testutil.Date(2024, 5, 1))
	testutil.CreateTestTransaction(t, db, userID, models.TransactionTypeExpense, 300, testutil.Date(2024, 5, 31))
	testutil.CreateTestTransaction(t, db, userID, models.TransactionTypeIncome, 400, testutil.Date(2024, 6, 1))
	testutil.CreateTestTransaction(t, db, other, models.TransactionTypeIncome, 999, testutil.Date(2024, 5, 15))

	t.Run("scoped_to_user_newest_first", func(t *testing.T) {
		txs, err := svc.ListTransactions(ctx, userID, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if len(txs) != 4 {
			t.Fatalf("expected 4 transactions, got %d", len(txs))
		}
		testutil.AssertDecimal(t, txs[0].Amount, 400)
		testutil.AssertDecimal(t, txs[3].Amount, 100)
	})

	t.Run("inclusive_date_range", func(t *testing.T) {
		from := testutil.Date(2024, 5, 1)
		to := testutil.Date(2024, 5, 31)
		txs, err := svc.ListTransactions(ctx, userID, TransactionFilter{FromDate: &from, ToDate: &to})
		testutil.AssertNoError(t, err)
		if len(txs) != 2 {
			t.Fatalf("expected 2 transactions in May, got %d", len(txs))
		}
	})

	t.Run("type_filter", func(t *testing.T) {
		income := models.TransactionTypeIncome
		txs, err := svc.ListTransactions(ctx, userID, TransactionFilter{Type: &income})
		testutil.AssertNoError(t, err)
		if len(txs) != 2 {
			t.Fatalf("expected 2 income transactions, got %d", len(txs))
		}
	})

	t.Run("empty_result_is_not_nil", func(t *testing.T) {
		txs, err := svc.ListTransactions(ctx, testutil.NewUserID(), TransactionFilter{})
		testutil.AssertNoError(t, err)
		if txs == nil || len(txs) != 0 {
			t.Errorf("expected empty slice, got %v", txs)
		}
	})
}

func TestGetUserTransactions(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTransactionService(db, NewCategoryService(db), NewBankAccountService(db))

	userID := testutil.NewUserID()
	for i := 1; i <= 5; i++ {
		testutil.CreateTestTransaction(t, db, userID, models.TransactionTypeExpense, int64(i*100), testutil.Date(2024, 5, i))
	}

	result, err := svc.GetUserTransactions(ctx, userID, pagination.PageRequest{Page: 2, PageSize: 2}, TransactionFilter{})
	testutil.AssertNoError(t, err)

	if result.TotalItems != 5 || result.TotalPages != 3 {
		t.Errorf("unexpected metadata: %+v", result)
	}
	if len(result.Data) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Data))
	}
	testutil.AssertDecimal(t, result.Data[0].Amount, 300)
}

func TestUpdateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("change_amount_and_clear_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db), NewBankAccountService(db))
		userID := testutil.NewUserID()
		cat := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense)

		tx, err := svc.CreateTransaction(ctx, userID, TransactionInput{
			Type: models.TransactionTypeExpense, Amount: decimal.NewFromInt(100), CategoryID: &cat.ID,
		})
		testutil.AssertNoError(t, err)

		amount := decimal.NewFromInt(250)
		var noCategory *string
		updated, err := svc.UpdateTransaction(ctx, userID, tx.ID, TransactionUpdateFields{
			Amount:     &amount,
			CategoryID: &noCategory,
		})
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, updated.Amount, 250)

		reloaded, err := svc.GetTransactionByID(ctx, userID, tx.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, reloaded.Amount, 250)
		if reloaded.CategoryID != nil {
			t.Errorf("expected category to be cleared, got %v", *reloaded.CategoryID)
		}
	})

	t.Run("type_change_revalidates_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db), NewBankAccountService(db))
		userID := testutil.NewUserID()
		cat := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense)

		tx, err := svc.CreateTransaction(ctx, userID, TransactionInput{
			Type: models.TransactionTypeExpense, Amount: decimal.NewFromInt(100), CategoryID: &cat.ID,
		})
		testutil.AssertNoError(t, err)

		income := models.TransactionTypeIncome
		_, err = svc.UpdateTransaction(ctx, userID, tx.ID, TransactionUpdateFields{Type: &income})
		testutil.AssertAppError(t, err, "CATEGORY_TYPE_MISMATCH")
	})

	t.Run("not_found", func(t *testing.T) {
		svc, done := newTransactionService(t)
		defer done()

		desc := "x"
		_, err := svc.UpdateTransaction(ctx, testutil.NewUserID(), testutil.NewUserID(), TransactionUpdateFields{Description: &desc})
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestDeleteTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes_permanently", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db), NewBankAccountService(db))
		userID := testutil.NewUserID()
		tx := testutil.CreateTestTransaction(t, db, userID, models.TransactionTypeIncome, 100, testutil.Date(2024, 5, 1))

		testutil.AssertNoError(t, svc.DeleteTransaction(ctx, userID, tx.ID))

		var count int64
		db.Model(&models.Transaction{}).Where("id = ?", tx.ID).Count(&count)
		if count != 0 {
			t.Errorf("expected row to be gone, found %d", count)
		}
	})

	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db), NewBankAccountService(db))
		tx := testutil.CreateTestTransaction(t, db, testutil.NewUserID(), models.TransactionTypeIncome, 100, testutil.Date(2024, 5, 1))

		err := svc.DeleteTransaction(ctx, testutil.NewUserID(), tx.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}
