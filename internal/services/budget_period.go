package services

import (
	"time"

	"github.com/jinzhu/now"

	apperrors "dispend/internal/errors"
	"dispend/internal/models"
)

// PeriodWindow is the inclusive date range a budget's spending is measured
// over for one reference date.
type PeriodWindow struct {
	Start string
	End   string
}

// PeriodWindowFor computes the window of the given period containing ref.
// Weeks run Monday to Sunday. The calendar is read in ref's location.
func PeriodWindowFor(period models.BudgetPeriod, ref time.Time) (PeriodWindow, error) {
	cal := (&now.Config{WeekStartDay: time.Monday, TimeLocation: ref.Location()}).With(ref)

	var start, end time.Time
	switch period {
	case models.BudgetPeriodWeekly:
		start, end = cal.BeginningOfWeek(), cal.EndOfWeek()
	case models.BudgetPeriodMonthly:
		start, end = cal.BeginningOfMonth(), cal.EndOfMonth()
	case models.BudgetPeriodYearly:
		start, end = cal.BeginningOfYear(), cal.EndOfYear()
	default:
		return PeriodWindow{}, apperrors.WithMessage(apperrors.ErrInvalidPeriod, "unknown budget period "+string(period))
	}
	return PeriodWindow{Start: models.Date(start), End: models.Date(end)}, nil
}
