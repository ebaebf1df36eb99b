package services

import (
	"time"

	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "dispend/internal/errors"
	"dispend/internal/models"
)

// UncategorizedLabel names the bucket for expenses without a category.
const UncategorizedLabel = "Uncategorized"

// MaxSummaryMonths bounds the monthly summary window.
const MaxSummaryMonths = 36

// reportService computes read-only aggregates over the ledger.
type reportService struct {
	db       *gorm.DB
	location *time.Location
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB, loc *time.Location) ReportServicer {
	if loc == nil {
		loc = time.Local
	}
	return &reportService{db: db, location: loc}
}

// SpendingByCategory totals budgeted expenses per category between the two
// dates inclusive, largest first.
func (s *reportService) SpendingByCategory(startDate, endDate string) ([]CategorySpending, error) {
	if err := checkDateRange(startDate, endDate); err != nil {
		return nil, err
	}

	var rows []struct {
		CategoryID    *string
		CategoryName  *string
		CategoryColor *string
		Amount        float64
		Count         int64
	}
	err := s.db.Model(&models.Transaction{}).
		Select(`transactions.category_id AS category_id,
			categories.name AS category_name,
			categories.color AS category_color,
			COALESCE(SUM(ABS(transactions.amount)), 0) AS amount,
			COUNT(*) AS count`).
		Joins("LEFT JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.type = ?", models.TransactionTypeExpense).
		Where("transactions.exclude_from_budget = ?", false).
		Where("transactions.date >= ? AND transactions.date <= ?", startDate, endDate).
		Group("transactions.category_id, categories.name, categories.color").
		Order("amount DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	out := make([]CategorySpending, 0, len(rows))
	for _, r := range rows {
		name := UncategorizedLabel
		if r.CategoryName != nil {
			name = *r.CategoryName
		}
		out = append(out, CategorySpending{
			CategoryID:    r.CategoryID,
			CategoryName:  name,
			CategoryColor: r.CategoryColor,
			Amount:        decimal.NewFromFloat(r.Amount).Round(2).InexactFloat64(),
			Count:         r.Count,
		})
	}
	return out, nil
}

// MonthlySummary returns income and expense totals for the given number of
// calendar months ending with the month of referenceDate, oldest first.
// Months without activity are reported as zeros.
func (s *reportService) MonthlySummary(months int, referenceDate *time.Time) ([]MonthSummary, error) {
	if months < 1 || months > MaxSummaryMonths {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "months must be between 1 and 36")
	}

	ref := time.Now()
	if referenceDate != nil {
		ref = *referenceDate
	}
	cal := now.With(ref.In(s.location))
	last := cal.BeginningOfMonth()
	first := last.AddDate(0, -(months - 1), 0)
	end := cal.EndOfMonth()

	var rows []struct {
		Month    string
		Income   float64
		Expenses float64
	}
	err := s.db.Model(&models.Transaction{}).
		Select(`substr(date, 1, 7) AS month,
			COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS income,
			COALESCE(SUM(CASE WHEN type = ? THEN ABS(amount) ELSE 0 END), 0) AS expenses`,
			models.TransactionTypeIncome, models.TransactionTypeExpense).
		Where("date >= ? AND date <= ?", models.Date(first), models.Date(end)).
		Group("substr(date, 1, 7)").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	byMonth := make(map[string]int, len(rows))
	for i, r := range rows {
		byMonth[r.Month] = i
	}

	out := make([]MonthSummary, 0, months)
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		key := m.Format("2006-01")
		summary := MonthSummary{Month: key}
		if i, ok := byMonth[key]; ok {
			income := decimal.NewFromFloat(rows[i].Income).Round(2)
			expenses := decimal.NewFromFloat(rows[i].Expenses).Round(2)
			summary.Income = income.InexactFloat64()
			summary.Expenses = expenses.InexactFloat64()
			summary.Net = income.Sub(expenses).InexactFloat64()
		}
		out = append(out, summary)
	}
	return out, nil
}

func checkDateRange(startDate, endDate string) error {
	start, err := time.Parse(models.DateLayout, startDate)
	if err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "startDate must be YYYY-MM-DD")
	}
	end, err := time.Parse(models.DateLayout, endDate)
	if err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "endDate must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "endDate must not be before startDate")
	}
	return nil
}
