package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"dispend/internal/app"
	"dispend/internal/config"
	"dispend/internal/database"
	"dispend/internal/logger"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

func testConfig() *config.Config {
	return &config.Config{
		Env:              "test",
		Port:             "8080",
		DBDriver:         config.DriverSQLite,
		DefaultCurrency:  "CAD",
		Timezone:         "UTC",
		JWTExpirationDur: time.Hour,
	}
}

// setupAppWith builds the application over an isolated in-memory store.
func setupAppWith(t *testing.T, cfg *config.Config, seed bool) *testApp {
	t.Helper()

	n := dbCounter.Add(1)
	a, err := app.New(cfg, app.Options{
		Database: database.MemoryConfig(fmt.Sprintf("integrationdb%d", n)),
		SkipSeed: !seed,
	})
	if err != nil {
		t.Fatalf("failed to build application: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })

	return &testApp{DB: a.Manager.DB(), Router: a.Router}
}

// setupApp creates an unseeded application with authentication disabled.
func setupApp(t *testing.T) *testApp {
	t.Helper()
	return setupAppWith(t, testConfig(), false)
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// mustStatus fails the test unless the response has the expected status.
func mustStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// errorCode extracts error.code from an error envelope.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := parseJSON(t, rec)
	detail, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	return detail["code"].(string)
}

// createEntity posts body and returns the id of the entity under key.
func (app *testApp) createEntity(t *testing.T, path, key, body string) string {
	t.Helper()
	rec := app.request(http.MethodPost, path, body, "")
	mustStatus(t, rec, http.StatusCreated)
	return parseJSON(t, rec)[key].(map[string]interface{})["id"].(string)
}

func (app *testApp) createAccount(t *testing.T, name string) string {
	t.Helper()
	return app.createEntity(t, "/api/v1/accounts", "account",
		fmt.Sprintf(`{"name":%q,"type":"checking"}`, name))
}

func (app *testApp) createCategory(t *testing.T, name, typ string) string {
	t.Helper()
	return app.createEntity(t, "/api/v1/categories", "category",
		fmt.Sprintf(`{"name":%q,"type":%q}`, name, typ))
}

func (app *testApp) createExpense(t *testing.T, accountID, categoryID string, amount float64, date, description string) string {
	t.Helper()
	return app.createEntity(t, "/api/v1/transactions", "transaction",
		fmt.Sprintf(`{"accountId":%q,"categoryId":%q,"type":"expense","amount":%v,"date":%q,"description":%q}`,
			accountID, categoryID, amount, date, description))
}
