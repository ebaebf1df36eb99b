package services

import (
	"time"

	"dispend/internal/models"
	"dispend/internal/pagination"
	"dispend/internal/patch"
)

// CreateAccountInput holds the fields accepted when creating an account.
// Omitted optional fields take their documented defaults.
type CreateAccountInput struct {
	Name           string             `json:"name" binding:"required,min=1,max=100"`
	Type           models.AccountType `json:"type" binding:"required,account_type"`
	Institution    *string            `json:"institution" binding:"omitempty,max=100"`
	Currency       string             `json:"currency" binding:"omitempty,iso4217"`
	CurrentBalance *float64           `json:"currentBalance"`
	IsActive       *bool              `json:"isActive"`
	Notes          *string            `json:"notes" binding:"omitempty,max=1000"`
	Color          *string            `json:"color" binding:"omitempty,hex_color"`
	SortOrder      *int               `json:"sortOrder" binding:"omitempty,gte=0"`
}

// UpdateAccountInput holds a sparse account update. Only fields present in
// the input are written; nullable fields may be cleared with null.
type UpdateAccountInput struct {
	Name           patch.Field[string]  `json:"name" binding:"omitempty,min=1,max=100"`
	Type           patch.Field[string]  `json:"type" binding:"omitempty,account_type"`
	Institution    patch.Field[string]  `json:"institution" binding:"omitempty,max=100"`
	Currency       patch.Field[string]  `json:"currency" binding:"omitempty,iso4217"`
	CurrentBalance patch.Field[float64] `json:"currentBalance"`
	IsActive       patch.Field[bool]    `json:"isActive"`
	Notes          patch.Field[string]  `json:"notes" binding:"omitempty,max=1000"`
	Color          patch.Field[string]  `json:"color" binding:"omitempty,hex_color"`
	SortOrder      patch.Field[int]     `json:"sortOrder" binding:"omitempty,gte=0"`
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	ListAccounts() ([]models.Account, error)
	GetAccount(id string) (*models.Account, error)
	CreateAccount(input CreateAccountInput) (*models.Account, error)
	UpdateAccount(id string, input UpdateAccountInput) (*models.Account, error)
	DeleteAccount(id string) error
}

// CreateCategoryInput holds the fields accepted when creating a category.
type CreateCategoryInput struct {
	Name      string              `json:"name" binding:"required,min=1,max=100"`
	Type      models.CategoryType `json:"type" binding:"required,category_type"`
	Icon      *string             `json:"icon" binding:"omitempty,max=50"`
	Color     *string             `json:"color" binding:"omitempty,hex_color"`
	ParentID  *string             `json:"parentId"`
	SortOrder *int                `json:"sortOrder" binding:"omitempty,gte=0"`
}

// UpdateCategoryInput holds a sparse category update. A category's type is
// fixed at creation and cannot be updated.
type UpdateCategoryInput struct {
	Name      patch.Field[string] `json:"name" binding:"omitempty,min=1,max=100"`
	Icon      patch.Field[string] `json:"icon" binding:"omitempty,max=50"`
	Color     patch.Field[string] `json:"color" binding:"omitempty,hex_color"`
	ParentID  patch.Field[string] `json:"parentId"`
	SortOrder patch.Field[int]    `json:"sortOrder" binding:"omitempty,gte=0"`
}

// CategoryNode is a category with its children, as assembled for tree views.
type CategoryNode struct {
	models.Category
	Children []*CategoryNode `json:"children"`
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	ListCategories() ([]models.Category, error)
	GetCategoryTree() ([]*CategoryNode, error)
	GetCategory(id string) (*models.Category, error)
	CreateCategory(input CreateCategoryInput) (*models.Category, error)
	UpdateCategory(id string, input UpdateCategoryInput) (*models.Category, error)
	DeleteCategory(id string) error
}

// CreateTransactionInput holds the fields accepted when creating a transaction.
type CreateTransactionInput struct {
	AccountID           string                   `json:"accountId" binding:"required"`
	CategoryID          *string                  `json:"categoryId"`
	Date                string                   `json:"date" binding:"required,iso_date"`
	Amount              float64                  `json:"amount"`
	Description         string                   `json:"description" binding:"required,max=500"`
	OriginalDescription *string                  `json:"originalDescription" binding:"omitempty,max=500"`
	Notes               *string                  `json:"notes" binding:"omitempty,max=1000"`
	Type                models.TransactionType   `json:"type" binding:"required,transaction_type"`
	Status              models.TransactionStatus `json:"status" binding:"omitempty,transaction_status"`
	Currency            string                   `json:"currency" binding:"omitempty,iso4217"`
	IsRecurring         bool                     `json:"isRecurring"`
	RecurringID         *string                  `json:"recurringId"`
	Tags                []string                 `json:"tags" binding:"omitempty,max=20,dive,min=1,max=50"`
	ExcludeFromBudget   bool                     `json:"excludeFromBudget"`
}

// UpdateTransactionInput holds a sparse transaction update.
type UpdateTransactionInput struct {
	AccountID         patch.Field[string]   `json:"accountId"`
	CategoryID        patch.Field[string]   `json:"categoryId"`
	Date              patch.Field[string]   `json:"date" binding:"omitempty,iso_date"`
	Amount            patch.Field[float64]  `json:"amount"`
	Description       patch.Field[string]   `json:"description" binding:"omitempty,max=500"`
	Notes             patch.Field[string]   `json:"notes" binding:"omitempty,max=1000"`
	Type              patch.Field[string]   `json:"type" binding:"omitempty,transaction_type"`
	Status            patch.Field[string]   `json:"status" binding:"omitempty,transaction_status"`
	Tags              patch.Field[[]string] `json:"tags" binding:"omitempty,max=20"`
	ExcludeFromBudget patch.Field[bool]     `json:"excludeFromBudget"`
}

// TransactionFilter holds optional filter parameters for listing
// transactions. Every set predicate must match.
type TransactionFilter struct {
	AccountID  *string
	CategoryID *string
	Type       *models.TransactionType
	Status     *models.TransactionStatus
	StartDate  *string
	EndDate    *string
	Search     *string
	MinAmount  *float64
	MaxAmount  *float64
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	ListTransactions(filter TransactionFilter, page pagination.ListRequest) (*pagination.ListResponse[models.Transaction], error)
	GetTransaction(id string) (*models.Transaction, error)
	CreateTransaction(input CreateTransactionInput) (*models.Transaction, error)
	UpdateTransaction(id string, input UpdateTransactionInput) (*models.Transaction, error)
	DeleteTransaction(id string) error
	BulkDeleteTransactions(ids []string) (int64, error)
}

// CreateBudgetInput holds the fields accepted when creating a budget.
type CreateBudgetInput struct {
	CategoryID     string              `json:"categoryId" binding:"required"`
	Amount         float64             `json:"amount" binding:"gte=0"`
	Period         models.BudgetPeriod `json:"period" binding:"required,budget_period"`
	Currency       string              `json:"currency" binding:"omitempty,iso4217"`
	StartDate      string              `json:"startDate" binding:"required,iso_date"`
	EndDate        *string             `json:"endDate" binding:"omitempty,iso_date"`
	Rollover       *bool               `json:"rollover"`
	AlertThreshold *float64            `json:"alertThreshold" binding:"omitempty,gt=0,lte=1"`
}

// UpdateBudgetInput holds a sparse budget update.
type UpdateBudgetInput struct {
	Amount         patch.Field[float64] `json:"amount" binding:"omitempty,gte=0"`
	Period         patch.Field[string]  `json:"period" binding:"omitempty,budget_period"`
	EndDate        patch.Field[string]  `json:"endDate" binding:"omitempty,iso_date"`
	Rollover       patch.Field[bool]    `json:"rollover"`
	AlertThreshold patch.Field[float64] `json:"alertThreshold" binding:"omitempty,gt=0,lte=1"`
	IsActive       patch.Field[bool]    `json:"isActive"`
}

// BudgetSpending reports how much of a budget has been spent in the period
// window containing the reference date.
type BudgetSpending struct {
	BudgetID       string              `json:"budgetId"`
	CategoryID     string              `json:"categoryId"`
	CategoryName   string              `json:"categoryName"`
	BudgetAmount   float64             `json:"budgetAmount"`
	Spent          float64             `json:"spent"`
	Remaining      float64             `json:"remaining"`
	PercentUsed    float64             `json:"percentUsed"`
	Period         models.BudgetPeriod `json:"period"`
	Currency       string              `json:"currency"`
	PeriodStart    string              `json:"periodStart"`
	PeriodEnd      string              `json:"periodEnd"`
	AlertThreshold float64             `json:"alertThreshold"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	ListBudgets() ([]models.Budget, error)
	GetBudget(id string) (*models.Budget, error)
	CreateBudget(input CreateBudgetInput) (*models.Budget, error)
	UpdateBudget(id string, input UpdateBudgetInput) (*models.Budget, error)
	DeleteBudget(id string) error
	GetSpending(referenceDate *time.Time) ([]BudgetSpending, error)
}

// CategorySpending is the expense total for one category over a date range.
type CategorySpending struct {
	CategoryID    *string `json:"categoryId"`
	CategoryName  string  `json:"categoryName"`
	CategoryColor *string `json:"categoryColor"`
	Amount        float64 `json:"amount"`
	Count         int64   `json:"count"`
}

// MonthSummary holds income and expense totals for one calendar month.
type MonthSummary struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
}

// ReportServicer defines the contract for read-only ledger reports.
type ReportServicer interface {
	SpendingByCategory(startDate, endDate string) ([]CategorySpending, error)
	MonthlySummary(months int, referenceDate *time.Time) ([]MonthSummary, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(action, resourceType, resourceID, ipAddress string, changes map[string]any)
}

// MaintenanceServicer defines the contract for store maintenance tasks.
type MaintenanceServicer interface {
	Backup() (string, error)
}

// SessionServicer verifies the owner passphrase used to open a session.
type SessionServicer interface {
	Enabled() bool
	VerifyPassphrase(passphrase string) error
}
