package report

import "dompet/internal/models"

// Display names used when a transaction's category or bank account cannot be resolved.
const (
	FallbackCategoryName = "Uncategorized"
	FallbackAccountName  = "Tunai/Lainnya"
)

// Lookup resolves the category and bank account a transaction refers to.
// A reference to a missing record is not an error; it resolves to the fallback name.
type Lookup struct {
	categories map[string]models.Category
	accounts   map[string]models.BankAccount
}

// NewLookup indexes categories and bank accounts by id.
func NewLookup(categories []models.Category, accounts []models.BankAccount) Lookup {
	l := Lookup{
		categories: make(map[string]models.Category, len(categories)),
		accounts:   make(map[string]models.BankAccount, len(accounts)),
	}
	for _, c := range categories {
		l.categories[c.ID] = c
	}
	for _, a := range accounts {
		l.accounts[a.ID] = a
	}
	return l
}

// Category returns the category tx refers to, if it exists.
func (l Lookup) Category(tx models.Transaction) (models.Category, bool) {
	if tx.CategoryID == nil {
		return models.Category{}, false
	}
	c, ok := l.categories[*tx.CategoryID]
	return c, ok
}

// BankAccount returns the bank account tx refers to, if it exists.
func (l Lookup) BankAccount(tx models.Transaction) (models.BankAccount, bool) {
	if tx.BankAccountID == nil {
		return models.BankAccount{}, false
	}
	a, ok := l.accounts[*tx.BankAccountID]
	return a, ok
}

// CategoryName returns the display name of tx's category.
func (l Lookup) CategoryName(tx models.Transaction) string {
	if c, ok := l.Category(tx); ok {
		return c.Name
	}
	return FallbackCategoryName
}

// AccountName returns the display name of tx's bank account.
func (l Lookup) AccountName(tx models.Transaction) string {
	if a, ok := l.BankAccount(tx); ok {
		return a.Name
	}
	return FallbackAccountName
}

// CategoryNameByID resolves a category id, for describing filters.
func (l Lookup) CategoryNameByID(id string) (string, bool) {
	c, ok := l.categories[id]
	return c.Name, ok
}

// AccountNameByID resolves a bank account id, for describing filters.
func (l Lookup) AccountNameByID(id string) (string, bool) {
	a, ok := l.accounts[id]
	return a.Name, ok
}
