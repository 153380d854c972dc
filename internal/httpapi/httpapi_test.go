package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tillpoint/backend/internal/cache"
	"tillpoint/backend/internal/domain"
	"tillpoint/backend/internal/service"
	"tillpoint/backend/internal/store/memory"
)

type testEnv struct {
	handler   http.Handler
	api       *API
	csrfToken string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := memory.NewSeeded()
	svc := service.New(repo, cache.NoopCatalogCache{}, time.Minute, nil)
	auth := NewAuthManager("test-secret", time.Hour, repo)
	api := New(svc, auth, "*", nil)
	handler := api.Handler()

	env := &testEnv{handler: handler, api: api}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/csrf-token", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("csrf token fetch status = %d", rec.Code)
	}
	var csrfResp struct {
		CSRFToken string `json:"csrf_token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &csrfResp); err != nil {
		t.Fatalf("decode csrf token: %v", err)
	}
	env.csrfToken = csrfResp.CSRFToken
	return env
}

func (e *testEnv) login(t *testing.T, username string, password string) string {
	t.Helper()
	body, _ := json.Marshal(domain.LoginRequest{Username: username, Password: password})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s status = %d body = %s", username, rec.Code, rec.Body.String())
	}
	var resp domain.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp.AccessToken
}

func (e *testEnv) do(t *testing.T, method string, path string, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-CSRF-Token", e.csrfToken)
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	body, _ := json.Marshal(domain.LoginRequest{Username: "admin", Password: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestMissingBearerTokenIsUnauthorized(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/v1/products", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestMutationRequiresCSRFToken(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "admin", "admin123")

	body, _ := json.Marshal(map[string]any{"name": "No CSRF"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 without csrf token", rec.Code)
	}
}

func TestCashierCannotRecordStockMovements(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "cashier", "cashier123")

	rec := env.do(t, http.MethodPost, "/api/v1/stock-movements", token, map[string]any{
		"product_id":    "prod_missing",
		"quantity":      1,
		"movement_type": "incoming",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestProductLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "admin", "admin123")

	rec := env.do(t, http.MethodPost, "/api/v1/products", token, map[string]any{
		"name":                    "HTTP Beans",
		"price_with_vat":          "12.10",
		"price_without_vat":       "10",
		"measurement_of_quantity": "1",
		"unit":                    "kg",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d body = %s", rec.Code, rec.Body.String())
	}
	var createResp struct {
		Product domain.Product `json:"product"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &createResp); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	productID := createResp.Product.ID

	rec = env.do(t, http.MethodPatch, "/api/v1/products/"+productID, token, map[string]any{
		"name": "Renamed Beans",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d body = %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodDelete, "/api/v1/products/"+productID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/products/"+productID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var getResp struct {
		Product domain.Product `json:"product"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &getResp); err != nil {
		t.Fatalf("decode get: %v", err)
	}
	if getResp.Product.IsActive {
		t.Fatal("product should be inactive after delete")
	}
}

func TestMovementEndpointUpdatesAverage(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "admin", "admin123")

	rec := env.do(t, http.MethodPost, "/api/v1/products", token, map[string]any{
		"name":                    "Ledger Beans",
		"price_with_vat":          "12.10",
		"price_without_vat":       "10",
		"measurement_of_quantity": "1",
		"unit":                    "kg",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create product status = %d", rec.Code)
	}
	var createResp struct {
		Product domain.Product `json:"product"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &createResp); err != nil {
		t.Fatalf("decode create: %v", err)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/stock-movements", token, map[string]any{
		"product_id":    createResp.Product.ID,
		"quantity":      4,
		"movement_type": "incoming",
		"import_price":  "2.50",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("movement status = %d body = %s", rec.Code, rec.Body.String())
	}
	var result domain.StockMovementResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode movement result: %v", err)
	}
	if result.Product.InventoryCount == nil || *result.Product.InventoryCount != 4 {
		t.Fatalf("inventory count = %v, want 4", result.Product.InventoryCount)
	}
	if result.Product.AveragePrice.String() != "2.5" {
		t.Fatalf("average price = %s, want 2.5", result.Product.AveragePrice)
	}
}

func TestSaleAndTipOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.login(t, "admin", "admin123")
	cashierToken := env.login(t, "cashier", "cashier123")

	rec := env.do(t, http.MethodPost, "/api/v1/products", adminToken, map[string]any{
		"name":                    "Till Beans",
		"price_with_vat":          "10",
		"price_without_vat":       "8.26",
		"measurement_of_quantity": "1",
		"unit":                    "pc",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create product status = %d", rec.Code)
	}
	var createResp struct {
		Product domain.Product `json:"product"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &createResp); err != nil {
		t.Fatalf("decode create: %v", err)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/sales", cashierToken, map[string]any{
		"total_amount": "20",
		"items": []map[string]any{
			{"product_id": createResp.Product.ID, "quantity": 2, "price": "10"},
		},
		"payment_type": "cash",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("sale status = %d body = %s", rec.Code, rec.Body.String())
	}
	var saleResp struct {
		Sale domain.Sale `json:"sale"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &saleResp); err != nil {
		t.Fatalf("decode sale: %v", err)
	}
	if saleResp.Sale.Cashier != "cashier" {
		t.Fatalf("cashier = %s, want cashier", saleResp.Sale.Cashier)
	}

	rec = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/sales/%s/tip", saleResp.Sale.ID), cashierToken, map[string]any{
		"tip": "1.50",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("tip status = %d body = %s", rec.Code, rec.Body.String())
	}
}

func TestDailySummaryOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	cashierToken := env.login(t, "cashier", "cashier123")

	rec := env.do(t, http.MethodPost, "/api/v1/daily-summaries/calculate", cashierToken, map[string]any{
		"actual_cash": "0",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("calculate status = %d body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Summary domain.DailySummary `json:"summary"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if resp.Summary.Cashier != "cashier" {
		t.Fatalf("cashier = %s, want cashier", resp.Summary.Cashier)
	}

	// Listing is a back-office view.
	rec = env.do(t, http.MethodGet, "/api/v1/daily-summaries", cashierToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("cashier list status = %d, want 403", rec.Code)
	}

	adminToken := env.login(t, "admin", "admin123")
	rec = env.do(t, http.MethodGet, "/api/v1/daily-summaries", adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin list status = %d", rec.Code)
	}
}

func TestUnknownSaleIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "admin", "admin123")
	rec := env.do(t, http.MethodGet, "/api/v1/sales/sale_missing", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "admin", "admin123")
	rec := env.do(t, http.MethodPut, "/api/v1/products", token, map[string]any{})
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestUnknownJSONFieldRejected(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "admin", "admin123")
	rec := env.do(t, http.MethodPost, "/api/v1/categories", token, map[string]any{
		"name":    "Drinks",
		"unknown": true,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDailySummaryCalculateRequiresActualCash(t *testing.T) {
	env := newTestEnv(t)
	cashierToken := env.login(t, "cashier", "cashier123")
	adminToken := env.login(t, "admin", "admin123")

	rec := env.do(t, http.MethodPost, "/api/v1/daily-summaries/calculate", cashierToken, map[string]any{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing actual_cash status = %d, want 400", rec.Code)
	}

	// The rejected request must not have written a summary.
	rec = env.do(t, http.MethodGet, "/api/v1/daily-summaries", adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var resp struct {
		Summaries []domain.DailySummary `json:"summaries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode summaries: %v", err)
	}
	if len(resp.Summaries) != 0 {
		t.Fatalf("summaries = %d, want 0", len(resp.Summaries))
	}
}

func TestBusinessSettingsOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.login(t, "admin", "admin123")
	cashierToken := env.login(t, "cashier", "cashier123")

	rec := env.do(t, http.MethodPut, "/api/v1/settings", adminToken, map[string]any{
		"business_name": "Potraviny U Lip",
		"euro_rate":     "25.1234",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d body = %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/api/v1/settings", cashierToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var resp struct {
		Settings domain.BusinessSettings `json:"settings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if resp.Settings.BusinessName != "Potraviny U Lip" {
		t.Fatalf("business name = %s", resp.Settings.BusinessName)
	}

	rec = env.do(t, http.MethodPut, "/api/v1/settings", cashierToken, map[string]any{
		"business_name": "Hijacked",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("cashier update status = %d, want 403", rec.Code)
	}
}
