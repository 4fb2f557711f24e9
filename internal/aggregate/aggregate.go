package aggregate

import (
	"sort"
	"time"

	"dompet/internal/models"
	"dompet/internal/period"
)

const (
	trendWindowDays = 30
	trendShownDays  = 15
)

// CategorySlices sums transactions of txType by category, largest first.
// Transactions whose category is missing or unknown fall into the
// uncategorized bucket. A category of the wrong type is used as found.
// Buckets with a zero total are dropped.
func CategorySlices(txs []models.Transaction, cats []models.Category, txType models.TransactionType) []CategorySlice {
	byID := indexCategories(cats)

	slices := []CategorySlice{}
	// The uncategorized bucket is tracked apart from pos so that no real
	// category id can merge into it.
	pos := make(map[string]int)
	uncategorized := -1
	for _, tx := range txs {
		if tx.Type != txType {
			continue
		}

		var cat models.Category
		found := false
		if tx.CategoryID != nil {
			cat, found = byID[*tx.CategoryID]
		}

		i := uncategorized
		if found {
			p, ok := pos[cat.ID]
			if !ok {
				p = len(slices)
				pos[cat.ID] = p
				slices = append(slices, CategorySlice{ID: cat.ID, Name: cat.Name, Color: cat.Color})
			}
			i = p
		} else if uncategorized < 0 {
			uncategorized = len(slices)
			slices = append(slices, CategorySlice{ID: UncategorizedID, Name: UncategorizedLabel(txType), Color: UncategorizedColor})
			i = uncategorized
		}
		slices[i].Value = slices[i].Value.Add(tx.Amount)
	}

	result := make([]CategorySlice, 0, len(slices))
	for _, s := range slices {
		if s.Value.IsPositive() {
			result = append(result, s)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Value.GreaterThan(result[j].Value)
	})
	return result
}

// Compare returns exactly two rows, Income then Expense, each comparing the
// calendar month containing now with the month before it.
func Compare(txs []models.Transaction, now time.Time) []ComparisonRow {
	current := period.MonthRange(now, 0)
	previous := period.MonthRange(now, -1)

	income := ComparisonRow{Name: "Income"}
	expense := ComparisonRow{Name: "Expense"}
	for _, tx := range txs {
		var row *ComparisonRow
		switch tx.Type {
		case models.TransactionTypeIncome:
			row = &income
		case models.TransactionTypeExpense:
			row = &expense
		default:
			continue
		}

		switch {
		case current.Contains(tx.TransactionDate):
			row.CurrentPeriod = row.CurrentPeriod.Add(tx.Amount)
		case previous.Contains(tx.TransactionDate):
			row.PreviousPeriod = row.PreviousPeriod.Add(tx.Amount)
		}
	}
	return []ComparisonRow{income, expense}
}

// DailySeries returns one point per day for the 30 days ending on now's
// date, oldest first, including days without activity.
func DailySeries(txs []models.Transaction, now time.Time) []DailyPoint {
	days := period.LastDays(now, trendWindowDays).Days()

	points := make([]DailyPoint, len(days))
	index := make(map[string]int, len(days))
	for i, d := range days {
		key := period.DateKey(d)
		points[i] = DailyPoint{Date: key}
		index[key] = i
	}

	for _, tx := range txs {
		i, ok := index[period.DateKey(tx.TransactionDate)]
		if !ok {
			continue
		}
		switch tx.Type {
		case models.TransactionTypeIncome:
			points[i].Income = points[i].Income.Add(tx.Amount)
		case models.TransactionTypeExpense:
			points[i].Expense = points[i].Expense.Add(tx.Amount)
		}
	}
	return points
}

// DailyTrend returns the most recent 15 days of DailySeries.
func DailyTrend(txs []models.Transaction, now time.Time) []DailyPoint {
	series := DailySeries(txs, now)
	return series[len(series)-trendShownDays:]
}

// CategorySummary cross-tabulates txs against the union of income and
// expense categories plus one uncategorized row. Rows where both totals
// are zero are dropped. Every transaction lands in exactly one row.
func CategorySummary(txs []models.Transaction, incomeCats, expenseCats []models.Category) []CategorySummaryRow {
	var rows []CategorySummaryRow
	pos := make(map[string]int)
	for _, group := range [][]models.Category{incomeCats, expenseCats} {
		for _, cat := range group {
			if _, ok := pos[cat.ID]; ok {
				continue
			}
			pos[cat.ID] = len(rows)
			rows = append(rows, CategorySummaryRow{ID: cat.ID, Name: cat.Name})
		}
	}
	uncategorized := len(rows)
	rows = append(rows, CategorySummaryRow{ID: UncategorizedID, Name: "Uncategorized"})

	for _, tx := range txs {
		i := uncategorized
		if tx.CategoryID != nil {
			if p, ok := pos[*tx.CategoryID]; ok {
				i = p
			}
		}
		switch tx.Type {
		case models.TransactionTypeIncome:
			rows[i].TotalIncome = rows[i].TotalIncome.Add(tx.Amount)
		case models.TransactionTypeExpense:
			rows[i].TotalExpense = rows[i].TotalExpense.Add(tx.Amount)
		}
	}

	result := []CategorySummaryRow{}
	for _, row := range rows {
		if row.TotalIncome.IsZero() && row.TotalExpense.IsZero() {
			continue
		}
		row.Net = row.TotalIncome.Sub(row.TotalExpense)
		result = append(result, row)
	}
	return result
}

// GrandTotal sums the rows of a category summary.
func GrandTotal(rows []CategorySummaryRow) CategorySummaryRow {
	total := CategorySummaryRow{ID: "total", Name: "Total"}
	for _, row := range rows {
		total.TotalIncome = total.TotalIncome.Add(row.TotalIncome)
		total.TotalExpense = total.TotalExpense.Add(row.TotalExpense)
	}
	total.Net = total.TotalIncome.Sub(total.TotalExpense)
	return total
}

// Summarize computes the headline totals. Income and expense come from txs,
// balance is the sum of stored bank balances and assets the sum of current
// asset values.
func Summarize(txs []models.Transaction, accounts []models.BankAccount, assets []models.Asset) PeriodSummary {
	var s PeriodSummary
	for _, tx := range txs {
		switch tx.Type {
		case models.TransactionTypeIncome:
			s.TotalIncome = s.TotalIncome.Add(tx.Amount)
		case models.TransactionTypeExpense:
			s.TotalExpense = s.TotalExpense.Add(tx.Amount)
		}
	}
	for _, a := range accounts {
		s.TotalBalance = s.TotalBalance.Add(a.Balance)
	}
	for _, a := range assets {
		s.TotalAssets = s.TotalAssets.Add(a.CurrentValue)
	}
	return s
}

// Build computes the full dashboard for rng. Period totals, pie slices and
// the category summary use the transactions inside rng; the month
// comparison and daily trend are anchored on now.
func Build(in Input, now time.Time, rng period.Range) Dashboard {
	inRange := InRange(in.Transactions, rng)

	var incomeCats, expenseCats []models.Category
	for _, c := range in.Categories {
		if c.Type == models.CategoryTypeIncome {
			incomeCats = append(incomeCats, c)
		} else {
			expenseCats = append(expenseCats, c)
		}
	}

	summary := CategorySummary(inRange, incomeCats, expenseCats)
	return Dashboard{
		Period:          rng,
		Summary:         Summarize(inRange, in.BankAccounts, in.Assets),
		IncomeSlices:    CategorySlices(inRange, in.Categories, models.TransactionTypeIncome),
		ExpenseSlices:   CategorySlices(inRange, in.Categories, models.TransactionTypeExpense),
		Comparison:      Compare(in.Transactions, now),
		DailyTrend:      DailyTrend(in.Transactions, now),
		CategorySummary: summary,
		GrandTotal:      GrandTotal(summary),
	}
}

// AdviceInput digests the current calendar month for the advice service.
func AdviceInput(txs []models.Transaction, cats []models.Category, now time.Time) AdviceSummary {
	month := period.MonthRange(now, 0)
	current := InRange(txs, month)
	totals := Summarize(current, nil, nil)

	summary := AdviceSummary{
		Month:        month.Start.Format("2006-01"),
		TotalIncome:  totals.TotalIncome,
		TotalExpense: totals.TotalExpense,
	}
	if slices := CategorySlices(current, cats, models.TransactionTypeExpense); len(slices) > 0 {
		summary.TopExpenseCategory = slices[0].Name
		summary.TopExpenseAmount = slices[0].Value
	}
	return summary
}

// InRange returns the transactions dated within rng, in input order.
func InRange(txs []models.Transaction, rng period.Range) []models.Transaction {
	result := []models.Transaction{}
	for _, tx := range txs {
		if rng.Contains(tx.TransactionDate) {
			result = append(result, tx)
		}
	}
	return result
}

func indexCategories(cats []models.Category) map[string]models.Category {
	byID := make(map[string]models.Category, len(cats))
	for _, c := range cats {
		if _, ok := byID[c.ID]; !ok {
			byID[c.ID] = c
		}
	}
	return byID
}
