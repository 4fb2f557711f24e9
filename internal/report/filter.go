package report

import (
	"strings"
	"time"

	"dompet/internal/models"
	"dompet/internal/period"
)

// Filter values that disable a dimension or match transactions without an account.
const (
	All       = "all"
	NoAccount = "none"
)

// Filter selects the transactions shown in the report table. Empty string
// fields behave like All.
type Filter struct {
	From          *time.Time
	To            *time.Time
	Type          string
	CategoryID    string
	BankAccountID string
	Search        string
}

// Match reports whether tx satisfies every predicate of f.
func (f Filter) Match(tx models.Transaction) bool {
	date := period.DateKey(tx.TransactionDate)
	if f.From != nil && date < period.DateKey(*f.From) {
		return false
	}
	if f.To != nil && date > period.DateKey(*f.To) {
		return false
	}

	if !isAll(f.Type) && string(tx.Type) != f.Type {
		return false
	}

	if !isAll(f.CategoryID) && (tx.CategoryID == nil || *tx.CategoryID != f.CategoryID) {
		return false
	}

	switch {
	case isAll(f.BankAccountID):
	case f.BankAccountID == NoAccount:
		if tx.BankAccountID != nil {
			return false
		}
	default:
		if tx.BankAccountID == nil || *tx.BankAccountID != f.BankAccountID {
			return false
		}
	}

	if search := strings.TrimSpace(f.Search); search != "" {
		if !strings.Contains(strings.ToLower(tx.Description), strings.ToLower(search)) {
			return false
		}
	}
	return true
}

// Apply returns the transactions matching f, in input order.
func Apply(txs []models.Transaction, f Filter) []models.Transaction {
	result := []models.Transaction{}
	for _, tx := range txs {
		if f.Match(tx) {
			result = append(result, tx)
		}
	}
	return result
}

func isAll(v string) bool {
	return v == "" || v == All
}
