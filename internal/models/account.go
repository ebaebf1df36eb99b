package models

// AccountType represents the kind of account
type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeCreditCard AccountType = "credit_card"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeCash       AccountType = "cash"
	AccountTypeLoan       AccountType = "loan"
	AccountTypeOther      AccountType = "other"
)

// AccountTypes lists every valid account kind.
var AccountTypes = []AccountType{
	AccountTypeChecking, AccountTypeSavings, AccountTypeCreditCard,
	AccountTypeInvestment, AccountTypeCash, AccountTypeLoan, AccountTypeOther,
}

// Account represents a financial account. Deleting an account deletes every
// transaction that references it.
type Account struct {
	Base
	Name           string      `gorm:"not null" json:"name"`
	Type           AccountType `gorm:"not null" json:"type"`
	Institution    *string     `json:"institution"`
	Currency       string      `gorm:"not null" json:"currency"`
	CurrentBalance float64     `gorm:"not null" json:"currentBalance"`
	IsActive       bool        `gorm:"not null" json:"isActive"`
	Notes          *string     `json:"notes"`
	Color          *string     `json:"color"`
	SortOrder      int         `gorm:"not null" json:"sortOrder"`
	UpdatedAt      string      `gorm:"not null" json:"updatedAt"`
}
