// Package aggregate derives the dashboard view models from already-fetched
// transactions, categories, bank accounts and assets. Every function is pure:
// it never fails, never mutates its inputs, and returns empty (non-nil)
// results for empty input.
package aggregate

import (
	"github.com/shopspring/decimal"

	"dompet/internal/models"
	"dompet/internal/period"
)

// UncategorizedID is the synthetic id of the uncategorized bucket.
const UncategorizedID = "uncategorized"

// UncategorizedColor is used for the uncategorized bucket in charts.
const UncategorizedColor = "#9ca3af"

// PeriodSummary holds the headline totals of a dashboard.
type PeriodSummary struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	TotalBalance decimal.Decimal `json:"total_balance"`
	TotalAssets  decimal.Decimal `json:"total_assets"`
}

// CategorySlice is one category's total in a pie chart.
type CategorySlice struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
	Color string          `json:"color"`
}

// ComparisonRow compares one total between the current and previous month.
type ComparisonRow struct {
	Name           string          `json:"name"`
	CurrentPeriod  decimal.Decimal `json:"current_period"`
	PreviousPeriod decimal.Decimal `json:"previous_period"`
}

// DailyPoint holds the income and expense of one calendar day.
type DailyPoint struct {
	Date    string          `json:"date"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// CategorySummaryRow is one row of the category summary table.
type CategorySummaryRow struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Net          decimal.Decimal `json:"net"`
}

// Input is everything a dashboard is computed from.
type Input struct {
	Transactions []models.Transaction
	Categories   []models.Category
	BankAccounts []models.BankAccount
	Assets       []models.Asset
}

// Dashboard is the complete view model for one period.
type Dashboard struct {
	Period          period.Range         `json:"period"`
	Summary         PeriodSummary        `json:"summary"`
	IncomeSlices    []CategorySlice      `json:"income_slices"`
	ExpenseSlices   []CategorySlice      `json:"expense_slices"`
	Comparison      []ComparisonRow      `json:"comparison"`
	DailyTrend      []DailyPoint         `json:"daily_trend"`
	CategorySummary []CategorySummaryRow `json:"category_summary"`
	GrandTotal      CategorySummaryRow   `json:"grand_total"`
}

// AdviceSummary is the current month's digest sent to the advice service.
type AdviceSummary struct {
	Month              string          `json:"month"`
	TotalIncome        decimal.Decimal `json:"total_income"`
	TotalExpense       decimal.Decimal `json:"total_expense"`
	TopExpenseCategory string          `json:"top_expense_category"`
	TopExpenseAmount   decimal.Decimal `json:"top_expense_amount"`
}

// UncategorizedLabel returns the bucket name for transactions of the given
// type without a resolvable category. Labels differ per type so income and
// expense buckets never share a key.
func UncategorizedLabel(txType models.TransactionType) string {
	return "Uncategorized (" + txType.Label() + ")"
}
