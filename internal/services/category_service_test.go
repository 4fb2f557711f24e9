package services

import (
	"context"
	"testing"

	"dompet/internal/models"
	"dompet/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		userID := testutil.NewUserID()

		cat, err := svc.CreateCategory(ctx, userID, "  Makanan  ", models.CategoryTypeExpense, "#FF0000", "utensils")
		testutil.AssertNoError(t, err)

		if cat.ID == "" {
			t.Fatal("expected category ID")
		}
		if cat.Name != "Makanan" {
			t.Errorf("expected trimmed name Makanan, got %q", cat.Name)
		}
		if cat.Color != "#FF0000" {
			t.Errorf("expected color #FF0000, got %s", cat.Color)
		}
	})

	t.Run("default_color", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		cat, err := svc.CreateCategory(ctx, testutil.NewUserID(), "Gaji", models.CategoryTypeIncome, "", "")
		testutil.AssertNoError(t, err)
		if cat.Color != "#6b7280" {
			t.Errorf("expected default color, got %s", cat.Color)
		}
	})

	t.Run("duplicate_name_same_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		userID := testutil.NewUserID()

		_, err := svc.CreateCategory(ctx, userID, "Lainnya", models.CategoryTypeExpense, "", "")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCategory(ctx, userID, "Lainnya", models.CategoryTypeExpense, "", "")
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY")
	})

	t.Run("same_name_other_type_or_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		userID := testutil.NewUserID()

		_, err := svc.CreateCategory(ctx, userID, "Lainnya", models.CategoryTypeExpense, "", "")
		testutil.AssertNoError(t, err)
		_, err = svc.CreateCategory(ctx, userID, "Lainnya", models.CategoryTypeIncome, "", "")
		testutil.AssertNoError(t, err)
		_, err = svc.CreateCategory(ctx, testutil.NewUserID(), "Lainnya", models.CategoryTypeExpense, "", "")
		testutil.AssertNoError(t, err)
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		_, err := svc.CreateCategory(ctx, testutil.NewUserID(), "   ", models.CategoryTypeExpense, "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("invalid_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		_, err := svc.CreateCategory(ctx, testutil.NewUserID(), "Transfer", "transfer", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestListCategories(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)
	userID := testutil.NewUserID()

	for _, c := range []struct {
		name string
		typ  models.CategoryType
	}{
		{"Transportasi", models.CategoryTypeExpense},
		{"Gaji", models.CategoryTypeIncome},
		{"Belanja", models.CategoryTypeExpense},
	} {
		_, err := svc.CreateCategory(ctx, userID, c.name, c.typ, "", "")
		testutil.AssertNoError(t, err)
	}
	testutil.CreateTestCategory(t, db, testutil.NewUserID(), models.CategoryTypeExpense)

	t.Run("all_sorted_by_name", func(t *testing.T) {
		cats, err := svc.ListCategories(ctx, userID, nil)
		testutil.AssertNoError(t, err)
		if len(cats) != 3 {
			t.Fatalf("expected 3 categories, got %d", len(cats))
		}
		if cats[0].Name != "Belanja" || cats[2].Name != "Transportasi" {
			t.Errorf("unexpected order: %s, %s, %s", cats[0].Name, cats[1].Name, cats[2].Name)
		}
	})

	t.Run("by_type", func(t *testing.T) {
		expense := models.CategoryTypeExpense
		cats, err := svc.ListCategories(ctx, userID, &expense)
		testutil.AssertNoError(t, err)
		if len(cats) != 2 {
			t.Fatalf("expected 2 expense categories, got %d", len(cats))
		}
	})
}

func TestUpdateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("rename", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		userID := testutil.NewUserID()
		cat := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense)

		name := "Hiburan"
		color := "#123456"
		updated, err := svc.UpdateCategory(ctx, userID, cat.ID, CategoryUpdateFields{Name: &name, Color: &color})
		testutil.AssertNoError(t, err)
		if updated.Name != "Hiburan" || updated.Color != "#123456" {
			t.Errorf("unexpected category after update: %+v", updated)
		}
	})

	t.Run("rename_to_existing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		userID := testutil.NewUserID()
		first := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense)
		second := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense)

		_, err := svc.UpdateCategory(ctx, userID, second.ID, CategoryUpdateFields{Name: &first.Name})
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		name := "x"
		_, err := svc.UpdateCategory(ctx, testutil.NewUserID(), testutil.NewUserID(), CategoryUpdateFields{Name: &name})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestDeleteCategory(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)
	userID := testutil.NewUserID()
	cat := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense)

	tx := testutil.CreateTestTransaction(t, db, userID, models.TransactionTypeExpense, 100, testutil.Date(2024, 5, 1))
	testutil.AssertNoError(t, db.Model(tx).Update("category_id", cat.ID).Error)

	testutil.AssertNoError(t, svc.DeleteCategory(ctx, userID, cat.ID))

	_, err := svc.GetCategoryByID(ctx, userID, cat.ID)
	testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")

	// The transaction keeps its now-dangling reference.
	var reloaded models.Transaction
	testutil.AssertNoError(t, db.First(&reloaded, "id = ?", tx.ID).Error)
	if reloaded.CategoryID == nil || *reloaded.CategoryID != cat.ID {
		t.Errorf("expected category_id %s to be kept, got %v", cat.ID, reloaded.CategoryID)
	}
}
