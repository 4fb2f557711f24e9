package report

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dompet/internal/models"
)

func ptr(s string) *string { return &s }

func day(d int) time.Time { return time.Date(2024, time.May, d, 0, 0, 0, 0, time.UTC) }

func newTx(id string, typ models.TransactionType, amount int64, d int, desc string, categoryID, accountID *string) models.Transaction {
	tx := models.Transaction{
		Type:            typ,
		Amount:          decimal.NewFromInt(amount),
		Description:     desc,
		TransactionDate: day(d),
		CategoryID:      categoryID,
		BankAccountID:   accountID,
	}
	tx.ID = id
	return tx
}

func fixtures() ([]models.Transaction, Lookup) {
	food := models.Category{Name: "makan", Type: models.CategoryTypeExpense, Color: "#f00"}
	food.ID = "food"
	salary := models.Category{Name: "Gaji", Type: models.CategoryTypeIncome}
	salary.ID = "salary"
	bca := models.BankAccount{Name: "BCA Utama"}
	bca.ID = "bca"

	txs := []models.Transaction{
		newTx("t1", models.TransactionTypeIncome, 5000, 1, "Gaji Mei", ptr("salary"), ptr("bca")),
		newTx("t2", models.TransactionTypeExpense, 200, 3, "Nasi Padang", ptr("food"), nil),
		newTx("t3", models.TransactionTypeExpense, 150, 3, "Kopi", ptr("deleted"), ptr("bca")),
		newTx("t4", models.TransactionTypeExpense, 900, 10, "Bensin", nil, ptr("closed")),
	}
	return txs, NewLookup([]models.Category{food, salary}, []models.BankAccount{bca})
}

func ids(txs []models.Transaction) []string {
	out := make([]string, len(txs))
	for i, tx := range txs {
		out[i] = tx.ID
	}
	return out
}

func TestApply(t *testing.T) {
	txs, _ := fixtures()
	from, to := day(2), day(3)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"empty_filter_matches_all", Filter{}, []string{"t1", "t2", "t3", "t4"}},
		{"explicit_all", Filter{Type: All, CategoryID: All, BankAccountID: All}, []string{"t1", "t2", "t3", "t4"}},
		{"inclusive_dates", Filter{From: &from, To: &to}, []string{"t2", "t3"}},
		{"type", Filter{Type: "income"}, []string{"t1"}},
		{"category", Filter{CategoryID: "food"}, []string{"t2"}},
		{"account", Filter{BankAccountID: "bca"}, []string{"t1", "t3"}},
		{"no_account", Filter{BankAccountID: NoAccount}, []string{"t2"}},
		{"search_case_insensitive", Filter{Search: "  nasi "}, []string{"t2"}},
		{"combined", Filter{Type: "expense", BankAccountID: "bca", Search: "kop"}, []string{"t3"}},
		{"no_match", Filter{Search: "zzz"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(txs, tt.filter)))
		})
	}
}

func TestSort(t *testing.T) {
	txs, lookup := fixtures()

	tests := []struct {
		key  SortKey
		dir  Direction
		want []string
	}{
		{SortByDate, Asc, []string{"t1", "t2", "t3", "t4"}},
		{SortByDate, Desc, []string{"t4", "t2", "t3", "t1"}},
		{SortByAmount, Asc, []string{"t3", "t2", "t4", "t1"}},
		{SortByAmount, Desc, []string{"t1", "t4", "t2", "t3"}},
		{SortByType, Asc, []string{"t2", "t3", "t4", "t1"}},
		{SortByDescription, Asc, []string{"t4", "t1", "t3", "t2"}},
		// Missing joins sort as "", ahead of resolved names; "Gaji" < "makan" case-insensitively.
		{SortByCategory, Asc, []string{"t3", "t4", "t1", "t2"}},
		{SortByCategory, Desc, []string{"t2", "t1", "t3", "t4"}},
		{SortByAccount, Asc, []string{"t2", "t4", "t1", "t3"}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%s", tt.key, tt.dir), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Sort(txs, tt.key, tt.dir, lookup)))
		})
	}

	t.Run("does_not_mutate_input", func(t *testing.T) {
		Sort(txs, SortByAmount, Asc, lookup)
		assert.Equal(t, []string{"t1", "t2", "t3", "t4"}, ids(txs))
	})
}

func TestParseSortKeyAndDirection(t *testing.T) {
	k, ok := ParseSortKey("Category")
	assert.True(t, ok)
	assert.Equal(t, SortByCategory, k)
	_, ok = ParseSortKey("user_id")
	assert.False(t, ok)

	d, ok := ParseDirection("DESC")
	assert.True(t, ok)
	assert.Equal(t, Desc, d)
	_, ok = ParseDirection("up")
	assert.False(t, ok)
}

func TestPaginate(t *testing.T) {
	var txs []models.Transaction
	for i := 1; i <= 23; i++ {
		txs = append(txs, newTx(fmt.Sprintf("t%02d", i), models.TransactionTypeExpense, int64(i), 1, "", nil, nil))
	}

	t.Run("pages_reconstruct_list", func(t *testing.T) {
		first := Paginate(txs, 1, 10)
		require.Equal(t, 3, first.TotalPages)

		var all []models.Transaction
		for p := 1; p <= first.TotalPages; p++ {
			page := Paginate(txs, p, 10)
			assert.LessOrEqual(t, len(page.Data), 10)
			all = append(all, page.Data...)
		}
		assert.Equal(t, ids(txs), ids(all))
	})

	t.Run("out_of_range_clamps", func(t *testing.T) {
		high := Paginate(txs, 99, 10)
		assert.Equal(t, 3, high.Page)
		assert.Len(t, high.Data, 3)

		low := Paginate(txs, -4, 10)
		assert.Equal(t, 1, low.Page)
		assert.Len(t, low.Data, 10)
	})

	t.Run("empty", func(t *testing.T) {
		page := Paginate(nil, 3, 10)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 0, page.TotalPages)
		assert.NotNil(t, page.Data)
		assert.Empty(t, page.Data)
	})

	t.Run("default_page_size", func(t *testing.T) {
		page := Paginate(txs, 1, 0)
		assert.Equal(t, DefaultPageSize, page.PageSize)
	})
}

func TestRun(t *testing.T) {
	txs, lookup := fixtures()

	view := Run(txs, Query{
		Filter:   Filter{Type: "expense"},
		SortKey:  SortByAmount,
		Page:     1,
		PageSize: 2,
	}, lookup)

	// Totals cover the whole filtered set, not just the page.
	assert.Equal(t, 3, view.Totals.Count)
	assert.True(t, view.Totals.TotalExpense.Equal(decimal.NewFromInt(1250)))
	assert.True(t, view.Totals.TotalIncome.IsZero())
	assert.True(t, view.Totals.Net.Equal(decimal.NewFromInt(-1250)))

	require.Len(t, view.Rows.Data, 2)
	assert.Equal(t, int64(3), view.Rows.TotalItems)
	assert.Equal(t, 2, view.Rows.TotalPages)

	first := view.Rows.Data[0]
	assert.Equal(t, "t4", first.ID)
	assert.Equal(t, FallbackCategoryName, first.CategoryName)
	assert.Equal(t, FallbackAccountName, first.BankAccountName)
	assert.Equal(t, "Rp 900", first.FormattedAmount)

	second := view.Rows.Data[1]
	assert.Equal(t, "makan", second.CategoryName)
	assert.Equal(t, "#f00", second.CategoryColor)

	assert.Equal(t, []string{"t4", "t2", "t3"}, ids(view.Sorted))
}

func TestRunDefaultsToNewestFirst(t *testing.T) {
	txs, lookup := fixtures()
	view := Run(txs, Query{}, lookup)
	assert.Equal(t, []string{"t4", "t2", "t3", "t1"}, ids(view.Sorted))
	assert.Equal(t, DefaultPageSize, view.Rows.PageSize)
}
