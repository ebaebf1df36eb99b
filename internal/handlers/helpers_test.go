package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"dispend/internal/models"
	"dispend/internal/pagination"
	"dispend/internal/services"
	"dispend/internal/validator"
)

// --- mock services ---

type auditEntry struct {
	action       string
	resourceType string
	resourceID   string
	changes      map[string]any
}

type mockAuditService struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (m *mockAuditService) Log(action, resourceType, resourceID, _ string, changes map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, auditEntry{action, resourceType, resourceID, changes})
}

type mockAccountService struct {
	listFn   func() ([]models.Account, error)
	getFn    func(id string) (*models.Account, error)
	createFn func(in services.CreateAccountInput) (*models.Account, error)
	updateFn func(id string, in services.UpdateAccountInput) (*models.Account, error)
	deleteFn func(id string) error
}

func (m *mockAccountService) ListAccounts() ([]models.Account, error) {
	if m.listFn != nil {
		return m.listFn()
	}
	return []models.Account{}, nil
}

func (m *mockAccountService) GetAccount(id string) (*models.Account, error) {
	if m.getFn != nil {
		return m.getFn(id)
	}
	return &models.Account{Base: models.Base{ID: id}}, nil
}

func (m *mockAccountService) CreateAccount(in services.CreateAccountInput) (*models.Account, error) {
	if m.createFn != nil {
		return m.createFn(in)
	}
	return &models.Account{}, nil
}

func (m *mockAccountService) UpdateAccount(id string, in services.UpdateAccountInput) (*models.Account, error) {
	if m.updateFn != nil {
		return m.updateFn(id, in)
	}
	return &models.Account{Base: models.Base{ID: id}}, nil
}

func (m *mockAccountService) DeleteAccount(id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(id)
	}
	return nil
}

type mockCategoryService struct {
	listFn   func() ([]models.Category, error)
	treeFn   func() ([]*services.CategoryNode, error)
	getFn    func(id string) (*models.Category, error)
	createFn func(in services.CreateCategoryInput) (*models.Category, error)
	updateFn func(id string, in services.UpdateCategoryInput) (*models.Category, error)
	deleteFn func(id string) error
}

func (m *mockCategoryService) ListCategories() ([]models.Category, error) {
	if m.listFn != nil {
		return m.listFn()
	}
	return []models.Category{}, nil
}

func (m *mockCategoryService) GetCategoryTree() ([]*services.CategoryNode, error) {
	if m.treeFn != nil {
		return m.treeFn()
	}
	return []*services.CategoryNode{}, nil
}

func (m *mockCategoryService) GetCategory(id string) (*models.Category, error) {
	if m.getFn != nil {
		return m.getFn(id)
	}
	return &models.Category{Base: models.Base{ID: id}}, nil
}

func (m *mockCategoryService) CreateCategory(in services.CreateCategoryInput) (*models.Category, error) {
	if m.createFn != nil {
		return m.createFn(in)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) UpdateCategory(id string, in services.UpdateCategoryInput) (*models.Category, error) {
	if m.updateFn != nil {
		return m.updateFn(id, in)
	}
	return &models.Category{Base: models.Base{ID: id}}, nil
}

func (m *mockCategoryService) DeleteCategory(id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(id)
	}
	return nil
}

type mockTransactionService struct {
	listFn       func(f services.TransactionFilter, page pagination.ListRequest) (*pagination.ListResponse[models.Transaction], error)
	getFn        func(id string) (*models.Transaction, error)
	createFn     func(in services.CreateTransactionInput) (*models.Transaction, error)
	updateFn     func(id string, in services.UpdateTransactionInput) (*models.Transaction, error)
	deleteFn     func(id string) error
	bulkDeleteFn func(ids []string) (int64, error)
}

func (m *mockTransactionService) ListTransactions(f services.TransactionFilter, page pagination.ListRequest) (*pagination.ListResponse[models.Transaction], error) {
	if m.listFn != nil {
		return m.listFn(f, page)
	}
	resp := pagination.NewListResponse([]models.Transaction{}, 0)
	return &resp, nil
}

func (m *mockTransactionService) GetTransaction(id string) (*models.Transaction, error) {
	if m.getFn != nil {
		return m.getFn(id)
	}
	return &models.Transaction{Base: models.Base{ID: id}}, nil
}

func (m *mockTransactionService) CreateTransaction(in services.CreateTransactionInput) (*models.Transaction, error) {
	if m.createFn != nil {
		return m.createFn(in)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) UpdateTransaction(id string, in services.UpdateTransactionInput) (*models.Transaction, error) {
	if m.updateFn != nil {
		return m.updateFn(id, in)
	}
	return &models.Transaction{Base: models.Base{ID: id}}, nil
}

func (m *mockTransactionService) DeleteTransaction(id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(id)
	}
	return nil
}

func (m *mockTransactionService) BulkDeleteTransactions(ids []string) (int64, error) {
	if m.bulkDeleteFn != nil {
		return m.bulkDeleteFn(ids)
	}
	return int64(len(ids)), nil
}

type mockBudgetService struct {
	listFn     func() ([]models.Budget, error)
	getFn      func(id string) (*models.Budget, error)
	createFn   func(in services.CreateBudgetInput) (*models.Budget, error)
	updateFn   func(id string, in services.UpdateBudgetInput) (*models.Budget, error)
	deleteFn   func(id string) error
	spendingFn func(ref *time.Time) ([]services.BudgetSpending, error)
}

func (m *mockBudgetService) ListBudgets() ([]models.Budget, error) {
	if m.listFn != nil {
		return m.listFn()
	}
	return []models.Budget{}, nil
}

func (m *mockBudgetService) GetBudget(id string) (*models.Budget, error) {
	if m.getFn != nil {
		return m.getFn(id)
	}
	return &models.Budget{Base: models.Base{ID: id}}, nil
}

func (m *mockBudgetService) CreateBudget(in services.CreateBudgetInput) (*models.Budget, error) {
	if m.createFn != nil {
		return m.createFn(in)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) UpdateBudget(id string, in services.UpdateBudgetInput) (*models.Budget, error) {
	if m.updateFn != nil {
		return m.updateFn(id, in)
	}
	return &models.Budget{Base: models.Base{ID: id}}, nil
}

func (m *mockBudgetService) DeleteBudget(id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(id)
	}
	return nil
}

func (m *mockBudgetService) GetSpending(ref *time.Time) ([]services.BudgetSpending, error) {
	if m.spendingFn != nil {
		return m.spendingFn(ref)
	}
	return []services.BudgetSpending{}, nil
}

// verify interface compliance
var (
	_ services.AuditServicer       = (*mockAuditService)(nil)
	_ services.AccountServicer     = (*mockAccountService)(nil)
	_ services.CategoryServicer    = (*mockCategoryService)(nil)
	_ services.TransactionServicer = (*mockTransactionService)(nil)
	_ services.BudgetServicer      = (*mockBudgetService)(nil)
)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}
