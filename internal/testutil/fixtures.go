package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"dispend/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

func stamp() string {
	return models.Timestamp(time.Now())
}

// StrPtr returns a pointer to s.
func StrPtr(s string) *string {
	return &s
}

// CreateTestAccount creates an active checking account with zero balance.
func CreateTestAccount(t *testing.T, db *gorm.DB) *models.Account {
	t.Helper()

	now := stamp()
	account := &models.Account{
		Base:      models.Base{CreatedAt: now},
		Name:      fmt.Sprintf("Test Account %d", nextID()),
		Type:      models.AccountTypeChecking,
		Currency:  "CAD",
		IsActive:  true,
		UpdatedAt: now,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestCategory creates a user-defined root category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, catType models.CategoryType) *models.Category {
	t.Helper()
	return createCategory(t, db, fmt.Sprintf("Test Category %d", nextID()), catType, nil, false)
}

// CreateTestNamedCategory creates a user-defined root category with the given name.
func CreateTestNamedCategory(t *testing.T, db *gorm.DB, name string, catType models.CategoryType) *models.Category {
	t.Helper()
	return createCategory(t, db, name, catType, nil, false)
}

// CreateTestChildCategory creates a user-defined category under parent.
func CreateTestChildCategory(t *testing.T, db *gorm.DB, parent *models.Category) *models.Category {
	t.Helper()
	return createCategory(t, db, fmt.Sprintf("Test Subcategory %d", nextID()), parent.Type, &parent.ID, false)
}

// CreateTestSystemCategory creates a protected root category.
func CreateTestSystemCategory(t *testing.T, db *gorm.DB, catType models.CategoryType) *models.Category {
	t.Helper()
	return createCategory(t, db, fmt.Sprintf("System Category %d", nextID()), catType, nil, true)
}

func createCategory(t *testing.T, db *gorm.DB, name string, catType models.CategoryType, parentID *string, system bool) *models.Category {
	t.Helper()

	category := &models.Category{
		Base:     models.Base{CreatedAt: stamp()},
		Name:     name,
		Type:     catType,
		ParentID: parentID,
		IsSystem: system,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a cleared transaction on the given account.
func CreateTestTransaction(t *testing.T, db *gorm.DB, accountID string, categoryID *string, txType models.TransactionType, amount float64, date string) *models.Transaction {
	t.Helper()

	now := stamp()
	tx := &models.Transaction{
		Base:        models.Base{CreatedAt: now},
		AccountID:   accountID,
		CategoryID:  categoryID,
		Date:        date,
		Amount:      amount,
		Description: fmt.Sprintf("Test Transaction %d", nextID()),
		Type:        txType,
		Status:      models.TransactionStatusCleared,
		Currency:    "CAD",
		Tags:        models.Tags{},
		UpdatedAt:   now,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates an active budget for the category.
func CreateTestBudget(t *testing.T, db *gorm.DB, categoryID string, period models.BudgetPeriod, amount float64) *models.Budget {
	t.Helper()

	now := stamp()
	budget := &models.Budget{
		Base:           models.Base{CreatedAt: now},
		CategoryID:     categoryID,
		Amount:         amount,
		Period:         period,
		Currency:       "CAD",
		StartDate:      "2020-01-01",
		AlertThreshold: models.DefaultAlertThreshold,
		IsActive:       true,
		UpdatedAt:      now,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}
