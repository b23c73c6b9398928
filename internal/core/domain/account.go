package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account represents a chart-of-accounts entry as supplied by the external
// account directory. The engine treats it as immutable: it is resolved once
// per posting attempt and never written back.
type Account struct {
	AccountID    string      `json:"accountID"`    // Primary Key (e.g., UUID)
	Code         string      `json:"code"`         // User-facing account code
	Name         string      `json:"name"`         // User-defined name
	AccountType  AccountType `json:"accountType"`  // ASSET, LIABILITY, etc.
	CurrencyCode string      `json:"currencyCode"` // Account's posting currency (NON-NULL)
	IsActive     bool        `json:"isActive"`     // Inactive accounts reject new postings
}
