package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"dompet/internal/cache"
	"dompet/internal/config"
	"dompet/internal/dashboard"
	"dompet/internal/logger"
	"dompet/internal/middleware"
	"dompet/internal/services"
	"dompet/internal/testutil"
	"dompet/internal/validator"
)

const hookKey = "test-hook-key"

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
	config.Set(&config.Config{Env: "test", SupabaseJWTSecret: "router-test-secret"})
}

type testApp struct {
	router *gin.Engine
	cache  *cache.MemoryStore
}

func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	categoryService := services.NewCategoryService(db)
	bankAccountService := services.NewBankAccountService(db)
	transactionService := services.NewTransactionService(db, categoryService, bankAccountService)
	assetService := services.NewAssetService(db)

	store := cache.NewMemoryStore()
	dashboardService := dashboard.NewService(dashboard.Deps{
		Transactions: transactionService,
		Categories:   categoryService,
		BankAccounts: bankAccountService,
		Assets:       assetService,
		Cache:        store,
		Clock:        func() time.Time { return time.Date(2024, time.May, 20, 10, 0, 0, 0, time.UTC) },
	})

	return &testApp{
		router: New(Deps{
			Transactions:  transactionService,
			Categories:    categoryService,
			BankAccounts:  bankAccountService,
			Assets:        assetService,
			Audit:         services.NewAuditService(db),
			Dashboard:     dashboardService,
			WebhookAPIKey: hookKey,
		}),
		cache: store,
	}
}

func token(t *testing.T, userID string) string {
	t.Helper()
	tok, err := middleware.GenerateAccessToken(userID, "user@example.com", time.Hour)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return tok
}

func (a *testApp) do(t *testing.T, method, path, tok, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var result map[string]interface{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
			t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
		}
	}
	return rec, result
}

func idOf(t *testing.T, body map[string]interface{}, key string) string {
	t.Helper()
	obj, ok := body[key].(map[string]interface{})
	if !ok {
		t.Fatalf("expected %q object in %v", key, body)
	}
	return obj["id"].(string)
}

func TestRouter_ReportingFlow(t *testing.T) {
	app := setupApp(t)
	userID := testutil.NewUserID()
	tok := token(t, userID)

	rec, body := app.do(t, "POST", "/api/v1/categories", tok, `{"name":"Makan","type":"expense","color":"#ef4444"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category: %d %s", rec.Code, rec.Body.String())
	}
	foodID := idOf(t, body, "category")

	rec, body = app.do(t, "POST", "/api/v1/categories", tok, `{"name":"Gaji","type":"income"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category: %d", rec.Code)
	}
	salaryID := idOf(t, body, "category")

	rec, body = app.do(t, "POST", "/api/v1/bank-accounts", tok, `{"name":"Tabungan","bank_name":"BCA","balance":"1000000"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create bank account: %d %s", rec.Code, rec.Body.String())
	}
	accountID := idOf(t, body, "bank_account")

	for _, payload := range []string{
		`{"type":"income","amount":"8000000","category_id":"` + salaryID + `","bank_account_id":"` + accountID + `","description":"Gaji Mei","transaction_date":"2024-05-01"}`,
		`{"type":"expense","amount":"50000","category_id":"` + foodID + `","description":"Makan siang","transaction_date":"2024-05-20"}`,
		`{"type":"expense","amount":"25000","description":"Parkir","transaction_date":"2024-04-15"}`,
	} {
		if rec, _ := app.do(t, "POST", "/api/v1/transactions", tok, payload); rec.Code != http.StatusCreated {
			t.Fatalf("create transaction: %d %s", rec.Code, rec.Body.String())
		}
	}

	t.Run("dashboard summarizes the month", func(t *testing.T) {
		rec, body := app.do(t, "GET", "/api/v1/dashboard?period=this-month", tok, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("dashboard: %d %s", rec.Code, rec.Body.String())
		}
		summary := body["summary"].(map[string]interface{})
		if summary["total_income"] != "8000000" || summary["total_expense"] != "50000" {
			t.Errorf("unexpected summary %v", summary)
		}
		if summary["total_balance"] != "1000000" {
			t.Errorf("balance should be the stored bank balance, got %v", summary["total_balance"])
		}
		display := body["display"].(map[string]interface{})
		if display["total_income"] != "Rp 8.000.000" {
			t.Errorf("unexpected display %v", display)
		}
		comparison := body["comparison"].([]interface{})
		expense := comparison[1].(map[string]interface{})
		if expense["current_period"] != "50000" || expense["previous_period"] != "25000" {
			t.Errorf("unexpected comparison %v", expense)
		}
	})

	t.Run("report filters and totals", func(t *testing.T) {
		rec, body := app.do(t, "GET", "/api/v1/reports/transactions?type=expense&sort=amount&dir=asc", tok, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("report: %d %s", rec.Code, rec.Body.String())
		}
		totals := body["totals"].(map[string]interface{})
		if totals["count"].(float64) != 2 || totals["total_expense"] != "75000" {
			t.Errorf("unexpected totals %v", totals)
		}
		rows := body["rows"].(map[string]interface{})["data"].([]interface{})
		first := rows[0].(map[string]interface{})
		if first["description"] != "Parkir" || first["category_name"] != "Uncategorized" || first["bank_account_name"] != "Tunai/Lainnya" {
			t.Errorf("unexpected first row %v", first)
		}
	})

	t.Run("csv export", func(t *testing.T) {
		rec, _ := app.do(t, "GET", "/api/v1/reports/transactions/export/csv?from=2024-05-01&to=2024-05-31", tok, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("csv: %d %s", rec.Code, rec.Body.String())
		}
		out := rec.Body.String()
		if !strings.HasPrefix(out, "\uFEFF") {
			t.Error("expected byte order mark")
		}
		if !strings.Contains(out, `"Makan siang"`) || strings.Contains(out, "Parkir") {
			t.Errorf("unexpected csv body:\n%s", out)
		}
	})

	t.Run("html document export", func(t *testing.T) {
		rec, _ := app.do(t, "GET", "/api/v1/reports/transactions/export/document", tok, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("document: %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Laporan Transaksi") {
			t.Error("expected document title")
		}
	})

	t.Run("pdf without renderer is rejected", func(t *testing.T) {
		rec, _ := app.do(t, "GET", "/api/v1/reports/transactions/export/document?format=pdf", tok, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("advice degrades without a provider", func(t *testing.T) {
		rec, body := app.do(t, "GET", "/api/v1/advice", tok, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("advice: %d", rec.Code)
		}
		if body["available"] != false {
			t.Errorf("expected available=false, got %v", body["available"])
		}
	})

	t.Run("mutation invalidates cached dashboard", func(t *testing.T) {
		if rec, _ := app.do(t, "GET", "/api/v1/dashboard", tok, ""); rec.Code != http.StatusOK {
			t.Fatalf("dashboard: %d", rec.Code)
		}
		if app.cache.Len() == 0 {
			t.Fatal("expected cached entries")
		}

		rec, _ := app.do(t, "DELETE", "/api/v1/categories/"+foodID, tok, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("delete category: %d", rec.Code)
		}
		if app.cache.Len() != 0 {
			t.Errorf("expected cache to be empty, has %d entries", app.cache.Len())
		}

		_, body := app.do(t, "GET", "/api/v1/dashboard", tok, "")
		slices := body["expense_slices"].([]interface{})
		slice := slices[0].(map[string]interface{})
		if slice["name"] != "Uncategorized (Pengeluaran)" {
			t.Errorf("deleted category should fall back to uncategorized, got %v", slice["name"])
		}
	})

	t.Run("other users see nothing", func(t *testing.T) {
		other := token(t, testutil.NewUserID())
		_, body := app.do(t, "GET", "/api/v1/reports/transactions", other, "")
		totals := body["totals"].(map[string]interface{})
		if totals["count"].(float64) != 0 {
			t.Errorf("expected no rows for another user, got %v", totals)
		}
	})
}

func TestRouter_Auth(t *testing.T) {
	app := setupApp(t)

	t.Run("protected routes require a token", func(t *testing.T) {
		for _, path := range []string{"/api/v1/dashboard", "/api/v1/reports/transactions", "/api/v1/transactions", "/api/v1/advice"} {
			rec, body := app.do(t, "GET", path, "", "")
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("%s: expected 401, got %d", path, rec.Code)
				continue
			}
			if errObj, _ := body["error"].(map[string]interface{}); errObj["code"] != "UNAUTHORIZED" {
				t.Errorf("%s: unexpected body %v", path, body)
			}
		}
	})

	t.Run("health is public", func(t *testing.T) {
		rec, _ := app.do(t, "GET", "/api/health", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		rec, _ := app.do(t, "OPTIONS", "/api/v1/dashboard", "", "")
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})
}

func TestRouter_WebhookInvalidate(t *testing.T) {
	app := setupApp(t)
	userID := testutil.NewUserID()
	tok := token(t, userID)

	if rec, _ := app.do(t, "GET", "/api/v1/dashboard", tok, ""); rec.Code != http.StatusOK {
		t.Fatalf("dashboard: %d", rec.Code)
	}
	if app.cache.Len() == 0 {
		t.Fatal("expected cached entries")
	}

	payload := `{"type":"INSERT","table":"transactions","record":{"user_id":"` + userID + `"}}`

	req := httptest.NewRequest("POST", "/api/v1/hooks/invalidate", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", rec.Code)
	}

	req = httptest.NewRequest("POST", "/api/v1/hooks/invalidate", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", hookKey)
	rec = httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	if app.cache.Len() != 0 {
		t.Errorf("expected cache to be empty, has %d entries", app.cache.Len())
	}
}
