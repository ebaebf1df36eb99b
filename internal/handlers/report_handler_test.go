package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"dispend/internal/services"
)

type mockReportService struct {
	byCategoryFn func(start, end string) ([]services.CategorySpending, error)
	monthlyFn    func(months int, ref *time.Time) ([]services.MonthSummary, error)
}

func (m *mockReportService) SpendingByCategory(start, end string) ([]services.CategorySpending, error) {
	if m.byCategoryFn != nil {
		return m.byCategoryFn(start, end)
	}
	return []services.CategorySpending{}, nil
}

func (m *mockReportService) MonthlySummary(months int, ref *time.Time) ([]services.MonthSummary, error) {
	if m.monthlyFn != nil {
		return m.monthlyFn(months, ref)
	}
	return []services.MonthSummary{}, nil
}

var _ services.ReportServicer = (*mockReportService)(nil)

func setupReportRouter(handler *ReportHandler) *gin.Engine {
	r := gin.New()
	r.GET("/reports/spending-by-category", handler.SpendingByCategory)
	r.GET("/reports/monthly-summary", handler.MonthlySummary)
	return r
}

func TestReportHandler_SpendingByCategory(t *testing.T) {
	t.Run("requires both dates", func(t *testing.T) {
		r := setupReportRouter(NewReportHandler(&mockReportService{}, time.UTC))

		rec := doRequest(r, "GET", "/reports/spending-by-category?startDate=2024-01-01", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("passes the range through", func(t *testing.T) {
		var gotStart, gotEnd string
		svc := &mockReportService{
			byCategoryFn: func(start, end string) ([]services.CategorySpending, error) {
				gotStart, gotEnd = start, end
				return []services.CategorySpending{{CategoryName: "Rent", Amount: 1500, Count: 1}}, nil
			},
		}
		r := setupReportRouter(NewReportHandler(svc, time.UTC))

		rec := doRequest(r, "GET", "/reports/spending-by-category?startDate=2024-01-01&endDate=2024-01-31", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotStart != "2024-01-01" || gotEnd != "2024-01-31" {
			t.Errorf("unexpected range %s..%s", gotStart, gotEnd)
		}
	})
}

func TestReportHandler_MonthlySummary(t *testing.T) {
	t.Run("defaults to twelve months", func(t *testing.T) {
		var gotMonths int
		svc := &mockReportService{
			monthlyFn: func(months int, _ *time.Time) ([]services.MonthSummary, error) {
				gotMonths = months
				return []services.MonthSummary{}, nil
			},
		}
		r := setupReportRouter(NewReportHandler(svc, time.UTC))

		rec := doRequest(r, "GET", "/reports/monthly-summary", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotMonths != 12 {
			t.Errorf("expected 12 months, got %d", gotMonths)
		}
	})

	t.Run("rejects too many months", func(t *testing.T) {
		r := setupReportRouter(NewReportHandler(&mockReportService{}, time.UTC))

		rec := doRequest(r, "GET", "/reports/monthly-summary?months=60", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
