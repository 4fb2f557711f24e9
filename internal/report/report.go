// Package report implements the transaction report table: filtering,
// sorting, totals and in-memory pagination over a user's transactions.
package report

import (
	"github.com/shopspring/decimal"

	"dompet/internal/models"
	"dompet/internal/money"
	"dompet/internal/pagination"
)

// DefaultPageSize is the report table's page size when none is requested.
const DefaultPageSize = 10

// Query describes one report table request.
type Query struct {
	Filter    Filter
	SortKey   SortKey
	Direction Direction
	Page      int
	PageSize  int
}

// Totals are computed over the filtered set, not the visible page.
type Totals struct {
	Count        int             `json:"count"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Net          decimal.Decimal `json:"net"`
}

// Row is a transaction with its joined display values.
type Row struct {
	models.Transaction
	CategoryName    string `json:"category_name"`
	CategoryColor   string `json:"category_color,omitempty"`
	BankAccountName string `json:"bank_account_name"`
	FormattedAmount string `json:"formatted_amount"`
}

// View is the result of running a query.
type View struct {
	Rows   pagination.PageResponse[Row] `json:"rows"`
	Totals Totals                       `json:"totals"`

	// Sorted holds every filtered transaction in display order. Exports use it.
	Sorted []models.Transaction `json:"-"`
}

// ComputeTotals sums income and expense over txs.
func ComputeTotals(txs []models.Transaction) Totals {
	t := Totals{Count: len(txs)}
	for _, tx := range txs {
		switch tx.Type {
		case models.TransactionTypeIncome:
			t.TotalIncome = t.TotalIncome.Add(tx.Amount)
		case models.TransactionTypeExpense:
			t.TotalExpense = t.TotalExpense.Add(tx.Amount)
		}
	}
	t.Net = t.TotalIncome.Sub(t.TotalExpense)
	return t
}

// Paginate returns one page of txs. Out-of-range pages clamp to the nearest valid page.
func Paginate(txs []models.Transaction, page, pageSize int) pagination.PageResponse[models.Transaction] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return pagination.Slice(txs, page, pageSize)
}

// Run filters, sorts, totals and paginates txs.
func Run(txs []models.Transaction, q Query, lookup Lookup) View {
	if q.SortKey == "" {
		q.SortKey = SortByDate
	}
	if q.Direction == "" {
		q.Direction = Desc
	}

	filtered := Apply(txs, q.Filter)
	sorted := Sort(filtered, q.SortKey, q.Direction, lookup)
	page := Paginate(sorted, q.Page, q.PageSize)

	rows := make([]Row, len(page.Data))
	for i, tx := range page.Data {
		rows[i] = NewRow(tx, lookup)
	}

	return View{
		Rows: pagination.PageResponse[Row]{
			Data:       rows,
			Page:       page.Page,
			PageSize:   page.PageSize,
			TotalItems: page.TotalItems,
			TotalPages: page.TotalPages,
		},
		Totals: ComputeTotals(filtered),
		Sorted: sorted,
	}
}

// NewRow joins tx with its display values.
func NewRow(tx models.Transaction, lookup Lookup) Row {
	row := Row{
		Transaction:     tx,
		CategoryName:    lookup.CategoryName(tx),
		BankAccountName: lookup.AccountName(tx),
		FormattedAmount: money.Format(tx.Amount),
	}
	if c, ok := lookup.Category(tx); ok {
		row.CategoryColor = c.Color
	}
	return row
}
