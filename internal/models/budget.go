package models

// BudgetPeriod represents the period type for a budget
type BudgetPeriod string

const (
	BudgetPeriodWeekly  BudgetPeriod = "weekly"
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

// DefaultAlertThreshold is the fraction of a budget at which the UI warns.
const DefaultAlertThreshold = 0.8

// Budget represents a spending target for one category over a recurring
// period. StartDate and EndDate bound when the budget applies; the window
// spending is measured over is derived from Period and a reference date.
// Rollover and AlertThreshold are stored for clients and are not used by the
// spending calculation.
type Budget struct {
	Base
	CategoryID     string       `gorm:"not null" json:"categoryId"`
	Amount         float64      `gorm:"not null" json:"amount"`
	Period         BudgetPeriod `gorm:"not null" json:"period"`
	Currency       string       `gorm:"not null" json:"currency"`
	StartDate      string       `gorm:"not null" json:"startDate"`
	EndDate        *string      `json:"endDate"`
	Rollover       bool         `gorm:"not null" json:"rollover"`
	AlertThreshold float64      `gorm:"not null" json:"alertThreshold"`
	IsActive       bool         `gorm:"not null" json:"isActive"`
	UpdatedAt      string       `gorm:"not null" json:"updatedAt"`

	CategoryName *string `gorm:"->;-:migration" json:"categoryName,omitempty"`
}
