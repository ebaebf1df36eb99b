package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "dispend/internal/errors"
	"dispend/internal/models"
)

var hundred = decimal.NewFromInt(100)

// budgetService handles budget-related business logic.
type budgetService struct {
	db              *gorm.DB
	defaultCurrency string
	location        *time.Location
}

// NewBudgetService creates a new BudgetServicer. Period windows are computed
// on the calendar of loc.
func NewBudgetService(db *gorm.DB, defaultCurrency string, loc *time.Location) BudgetServicer {
	if loc == nil {
		loc = time.Local
	}
	return &budgetService{db: db, defaultCurrency: defaultCurrency, location: loc}
}

// withCategoryName selects budgets together with their category's name.
func withCategoryName(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Budget{}).
		Select("budgets.*, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = budgets.category_id")
}

// ListBudgets returns all budgets ordered by category name.
func (s *budgetService) ListBudgets() ([]models.Budget, error) {
	var budgets []models.Budget
	err := withCategoryName(s.db).
		Order("categories.name ASC, budgets.created_at ASC, budgets.id ASC").
		Find(&budgets).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// GetBudget retrieves a budget by ID.
func (s *budgetService) GetBudget(id string) (*models.Budget, error) {
	var budget models.Budget
	if err := withCategoryName(s.db).Where("budgets.id = ?", id).Take(&budget).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrBudgetNotFound)
	}
	return &budget, nil
}

// CreateBudget creates a budget for an existing category.
func (s *budgetService) CreateBudget(input CreateBudgetInput) (*models.Budget, error) {
	if input.Amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget amount cannot be negative")
	}
	if err := rejectBlank("endDate", input.EndDate); err != nil {
		return nil, err
	}
	if _, err := PeriodWindowFor(input.Period, time.Now()); err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "period must be weekly, monthly or yearly")
	}

	var count int64
	if err := s.db.Model(&models.Category{}).Where("id = ?", input.CategoryID).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return nil, apperrors.ErrCategoryNotFound
	}

	now := timestamp()
	budget := &models.Budget{
		Base:           models.Base{CreatedAt: now},
		CategoryID:     input.CategoryID,
		Amount:         input.Amount,
		Period:         input.Period,
		Currency:       input.Currency,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		AlertThreshold: models.DefaultAlertThreshold,
		IsActive:       true,
		UpdatedAt:      now,
	}
	if budget.Currency == "" {
		budget.Currency = s.defaultCurrency
	}
	if input.Rollover != nil {
		budget.Rollover = *input.Rollover
	}
	if input.AlertThreshold != nil {
		budget.AlertThreshold = *input.AlertThreshold
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	created, err := s.GetBudget(budget.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrBudgetNotFound) {
			return nil, apperrors.ErrCreationFailed
		}
		return nil, err
	}
	return created, nil
}

// UpdateBudget applies a sparse update and returns the stored row.
func (s *budgetService) UpdateBudget(id string, input UpdateBudgetInput) (*models.Budget, error) {
	if _, err := s.GetBudget(id); err != nil {
		return nil, err
	}

	updates := map[string]any{"updated_at": timestamp()}
	if err := firstError(
		setIfPresent(updates, "amount", input.Amount),
		setIfPresent(updates, "period", input.Period),
		setIfPresent(updates, "rollover", input.Rollover),
		setIfPresent(updates, "alert_threshold", input.AlertThreshold),
		setIfPresent(updates, "is_active", input.IsActive),
		setNullable(updates, "end_date", input.EndDate),
	); err != nil {
		return nil, err
	}

	if input.Amount.HasValue() && input.Amount.Value < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget amount cannot be negative")
	}
	if input.Period.HasValue() {
		if _, err := PeriodWindowFor(models.BudgetPeriod(input.Period.Value), time.Now()); err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "period must be weekly, monthly or yearly")
		}
	}

	if err := s.db.Model(&models.Budget{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var updated models.Budget
	if err := withCategoryName(s.db).Where("budgets.id = ?", id).Take(&updated).Error; err != nil {
		return nil, rereadError(err, apperrors.ErrConsistency)
	}
	return &updated, nil
}

// DeleteBudget deletes a budget.
func (s *budgetService) DeleteBudget(id string) error {
	if _, err := s.GetBudget(id); err != nil {
		return err
	}
	if err := s.db.Where("id = ?", id).Delete(&models.Budget{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetSpending reports spending against every active budget for the period
// window containing referenceDate, or the current time when nil. Only
// expense transactions in the budget's category that are not excluded from
// budgeting count, by absolute amount.
func (s *budgetService) GetSpending(referenceDate *time.Time) ([]BudgetSpending, error) {
	ref := time.Now()
	if referenceDate != nil {
		ref = *referenceDate
	}
	ref = ref.In(s.location)

	var budgets []models.Budget
	err := withCategoryName(s.db).
		Where("budgets.is_active = ?", true).
		Order("categories.name ASC, budgets.created_at ASC, budgets.id ASC").
		Find(&budgets).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	results := make([]BudgetSpending, 0, len(budgets))
	if len(budgets) == 0 {
		return results, nil
	}

	for _, b := range budgets {
		window, err := PeriodWindowFor(b.Period, ref)
		if err != nil {
			return nil, err
		}

		spent, err := s.spentInWindow(b.CategoryID, window)
		if err != nil {
			return nil, err
		}

		results = append(results, spendingFor(b, window, spent))
	}
	return results, nil
}

func (s *budgetService) spentInWindow(categoryID string, window PeriodWindow) (decimal.Decimal, error) {
	var total float64
	err := s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(ABS(amount)), 0)").
		Where("category_id = ?", categoryID).
		Where("type = ?", models.TransactionTypeExpense).
		Where("exclude_from_budget = ?", false).
		Where("date >= ? AND date <= ?", window.Start, window.End).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return decimal.NewFromFloat(total), nil
}

// spendingFor derives the remaining amount, floored at zero, and the percent
// used rounded to two places. A zero budget reports zero percent.
func spendingFor(b models.Budget, window PeriodWindow, spent decimal.Decimal) BudgetSpending {
	amount := decimal.NewFromFloat(b.Amount)

	remaining := amount.Sub(spent)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	percent := decimal.Zero
	if amount.IsPositive() {
		percent = spent.Div(amount).Mul(hundred).Round(2)
	}

	name := ""
	if b.CategoryName != nil {
		name = *b.CategoryName
	}

	return BudgetSpending{
		BudgetID:       b.ID,
		CategoryID:     b.CategoryID,
		CategoryName:   name,
		BudgetAmount:   b.Amount,
		Spent:          spent.InexactFloat64(),
		Remaining:      remaining.InexactFloat64(),
		PercentUsed:    percent.InexactFloat64(),
		Period:         b.Period,
		Currency:       b.Currency,
		PeriodStart:    window.Start,
		PeriodEnd:      window.End,
		AlertThreshold: b.AlertThreshold,
	}
}
