package report

import (
	"sort"
	"strings"

	"dompet/internal/models"
)

// SortKey names a sortable report column.
type SortKey string

const (
	SortByDate        SortKey = "date"
	SortByType        SortKey = "type"
	SortByAmount      SortKey = "amount"
	SortByDescription SortKey = "description"
	SortByCategory    SortKey = "category"
	SortByAccount     SortKey = "account"
)

// Direction is the sort order.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseSortKey validates a sort key from a query string.
func ParseSortKey(s string) (SortKey, bool) {
	switch k := SortKey(strings.ToLower(s)); k {
	case SortByDate, SortByType, SortByAmount, SortByDescription, SortByCategory, SortByAccount:
		return k, true
	}
	return "", false
}

// ParseDirection validates a sort direction from a query string.
func ParseDirection(s string) (Direction, bool) {
	switch d := Direction(strings.ToLower(s)); d {
	case Asc, Desc:
		return d, true
	}
	return "", false
}

// Sort returns a sorted copy of txs. Category and account keys compare the
// lower-cased resolved names, with unresolved references sorting as "".
// Ties keep their input order.
func Sort(txs []models.Transaction, key SortKey, dir Direction, lookup Lookup) []models.Transaction {
	sorted := make([]models.Transaction, len(txs))
	copy(sorted, txs)

	compare := comparator(key, lookup)
	sort.SliceStable(sorted, func(i, j int) bool {
		c := compare(sorted[i], sorted[j])
		if dir == Desc {
			return c > 0
		}
		return c < 0
	})
	return sorted
}

func comparator(key SortKey, lookup Lookup) func(a, b models.Transaction) int {
	switch key {
	case SortByType:
		return func(a, b models.Transaction) int { return strings.Compare(string(a.Type), string(b.Type)) }
	case SortByAmount:
		return func(a, b models.Transaction) int { return a.Amount.Cmp(b.Amount) }
	case SortByDescription:
		return func(a, b models.Transaction) int {
			return strings.Compare(strings.ToLower(a.Description), strings.ToLower(b.Description))
		}
	case SortByCategory:
		name := func(tx models.Transaction) string {
			if c, ok := lookup.Category(tx); ok {
				return strings.ToLower(c.Name)
			}
			return ""
		}
		return func(a, b models.Transaction) int { return strings.Compare(name(a), name(b)) }
	case SortByAccount:
		name := func(tx models.Transaction) string {
			if acct, ok := lookup.BankAccount(tx); ok {
				return strings.ToLower(acct.Name)
			}
			return ""
		}
		return func(a, b models.Transaction) int { return strings.Compare(name(a), name(b)) }
	default:
		return func(a, b models.Transaction) int { return a.TransactionDate.Compare(b.TransactionDate) }
	}
}
