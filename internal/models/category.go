package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeExpense  CategoryType = "expense"
	CategoryTypeIncome   CategoryType = "income"
	CategoryTypeTransfer CategoryType = "transfer"
)

// Category represents a transaction category. Categories form a tree through
// ParentID. Deleting a category clears ParentID on its children and
// CategoryID on its transactions, and deletes its budgets.
type Category struct {
	Base
	Name      string       `gorm:"not null" json:"name"`
	Icon      *string      `json:"icon"`
	Color     *string      `json:"color"`
	ParentID  *string      `json:"parentId"`
	Type      CategoryType `gorm:"not null" json:"type"`
	IsSystem  bool         `gorm:"not null" json:"isSystem"`
	SortOrder int          `gorm:"not null" json:"sortOrder"`
}
