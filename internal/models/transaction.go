package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeTransfer TransactionType = "transfer"
)

// TransactionStatus represents the clearing state of a transaction
type TransactionStatus string

const (
	TransactionStatusCleared    TransactionStatus = "cleared"
	TransactionStatusPending    TransactionStatus = "pending"
	TransactionStatusReconciled TransactionStatus = "reconciled"
)

// Transaction represents a dated, signed movement of money on an account.
// Negative amounts are outflows and positive amounts are inflows.
type Transaction struct {
	Base
	AccountID           string            `gorm:"not null" json:"accountId"`
	CategoryID          *string           `json:"categoryId"`
	Date                string            `gorm:"not null" json:"date"`
	Amount              float64           `gorm:"not null" json:"amount"`
	Description         string            `gorm:"not null" json:"description"`
	OriginalDescription *string           `json:"originalDescription"`
	Notes               *string           `json:"notes"`
	Type                TransactionType   `gorm:"not null" json:"type"`
	Status              TransactionStatus `gorm:"not null" json:"status"`
	Currency            string            `gorm:"not null" json:"currency"`
	IsRecurring         bool              `gorm:"not null" json:"isRecurring"`
	RecurringID         *string           `json:"recurringId"`
	ImportBatchID       *string           `json:"importBatchId"`
	Tags                Tags              `json:"tags"`
	ExcludeFromBudget   bool              `gorm:"not null" json:"excludeFromBudget"`
	UpdatedAt           string            `gorm:"not null" json:"updatedAt"`

	// Display names joined from accounts and categories on read.
	AccountName  *string `gorm:"->;-:migration" json:"accountName,omitempty"`
	CategoryName *string `gorm:"->;-:migration" json:"categoryName,omitempty"`
}

// Tags is an ordered list of free-text labels stored as a JSON array.
type Tags []string

// Value implements driver.Valuer. A nil list is stored as an empty array.
func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (t *Tags) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*t = Tags{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("tags: unsupported column type %T", src)
	}
	if len(raw) == 0 {
		*t = Tags{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("tags: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*t = out
	return nil
}

// MarshalJSON renders a nil list as [].
func (t Tags) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(t))
}
