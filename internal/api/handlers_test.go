package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-bff/internal/auth"
	"storefront-bff/internal/models"
	"storefront-bff/internal/services"
	"storefront-bff/internal/session"
)

type fakeProducts struct {
	createCalls int
	updateCalls int
	getCalls    int
	lastCreated models.Product
	lastUpdated models.Product
	product     models.Product
	err         error
}

func (f *fakeProducts) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	f.createCalls++
	f.lastCreated = p
	if f.err != nil {
		return models.Product{}, f.err
	}
	p.ID = 42
	return p, nil
}

func (f *fakeProducts) GetProduct(ctx context.Context, id string) (models.Product, error) {
	f.getCalls++
	return f.product, f.err
}

func (f *fakeProducts) UpdateProduct(ctx context.Context, id string, p models.Product) (models.Product, error) {
	f.updateCalls++
	f.lastUpdated = p
	if f.err != nil {
		return models.Product{}, f.err
	}
	return p, nil
}

type fakeSignup struct {
	calls int
	last  models.SignupForm
	err   error
}

func (f *fakeSignup) Signup(ctx context.Context, form models.SignupForm) error {
	f.calls++
	f.last = form
	return f.err
}

type fakeHistory struct {
	resp models.HistoryResponse
	err  error
}

func (f *fakeHistory) Assemble(ctx context.Context) (models.HistoryResponse, error) {
	return f.resp, f.err
}

type fakeSessions struct {
	username string
	setErr   error
}

func (f *fakeSessions) Username(ctx context.Context) (string, error) {
	if f.username == "" {
		return "", session.ErrNoSession
	}
	return f.username, nil
}

func (f *fakeSessions) SetUsername(ctx context.Context, username string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.username = username
	return nil
}

func (f *fakeSessions) Clear(ctx context.Context) error {
	f.username = ""
	return nil
}

type fakeLimiter struct {
	limited bool
}

func (f *fakeLimiter) IsRateLimited(ctx context.Context, ip string) bool {
	return f.limited
}

type testEnv struct {
	handler  *Handler
	products *fakeProducts
	signup   *fakeSignup
	history  *fakeHistory
	sessions *fakeSessions
	limiter  *fakeLimiter
}

func newTestEnv() *testEnv {
	env := &testEnv{
		products: &fakeProducts{},
		signup:   &fakeSignup{},
		history:  &fakeHistory{},
		sessions: &fakeSessions{},
		limiter:  &fakeLimiter{},
	}
	env.handler = NewHandler(
		env.products,
		env.signup,
		env.history,
		env.sessions,
		env.limiter,
		auth.NewStaticVerifier("admin", "admin12345"),
		auth.NewIssuer("test-secret"),
	)
	return env
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestSubmitProductMissingFields(t *testing.T) {
	payloads := []string{
		`{"description": "d", "price": "10", "quantity": "1", "category": "c"}`,
		`{"name": "n", "quantity": "1", "category": "c"}`,
		`{"name": "n", "price": "10", "category": "c"}`,
		`{"name": "n", "price": "10", "quantity": "1"}`,
		`{}`,
	}

	for _, payload := range payloads {
		env := newTestEnv()
		req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(payload))
		rec := httptest.NewRecorder()

		env.handler.SubmitProduct(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "payload %s", payload)
		body := decodeBody(t, rec)
		assert.Equal(t, "All fields except description are required.", body["error"])
		assert.Zero(t, env.products.createCalls, "validation failure must issue no request")
	}
}

func TestSubmitProductDescriptionOptional(t *testing.T) {
	env := newTestEnv()
	payload := `{"name": "Phone", "price": "499.99", "quantity": "3", "category": "Electronics"}`
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(payload))
	rec := httptest.NewRecorder()

	env.handler.SubmitProduct(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, env.products.createCalls)
}

func TestSubmitProductCoercesNumbers(t *testing.T) {
	env := newTestEnv()
	payload := `{"name": "Phone", "description": "Nice", "price": "499.99", "quantity": "3", "category": "Electronics"}`
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(payload))
	rec := httptest.NewRecorder()

	env.handler.SubmitProduct(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 499.99, env.products.lastCreated.Price)
	assert.Equal(t, 3, env.products.lastCreated.Quantity)

	body := decodeBody(t, rec)
	assert.Equal(t, "/admindashboard", body["redirect"])
	assert.NotContains(t, body, "error")
}

func TestSubmitProductBadNumbers(t *testing.T) {
	tests := []struct {
		payload string
		message string
	}{
		{`{"name": "n", "price": "abc", "quantity": "1", "category": "c"}`, "Price must be a non-negative number."},
		{`{"name": "n", "price": "-5", "quantity": "1", "category": "c"}`, "Price must be a non-negative number."},
		{`{"name": "n", "price": "10", "quantity": "1.5", "category": "c"}`, "Quantity must be a non-negative integer."},
		{`{"name": "n", "price": "10", "quantity": "-1", "category": "c"}`, "Quantity must be a non-negative integer."},
	}

	for _, tt := range tests {
		env := newTestEnv()
		req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(tt.payload))
		rec := httptest.NewRecorder()

		env.handler.SubmitProduct(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, tt.message, decodeBody(t, rec)["error"])
		assert.Zero(t, env.products.createCalls)
	}
}

func TestSubmitProductBackendFailure(t *testing.T) {
	env := newTestEnv()
	env.products.err = errors.New("connection refused")

	payload := `{"name": "Phone", "price": "499.99", "quantity": "3", "category": "Electronics"}`
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(payload))
	rec := httptest.NewRecorder()

	env.handler.SubmitProduct(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Failed to add product.", decodeBody(t, rec)["error"])
}

func TestLoadProduct(t *testing.T) {
	env := newTestEnv()
	env.products.product = models.Product{
		ID: 5, Name: "Phone", Description: "Nice", Price: 499.99, Quantity: 3, Category: "Electronics",
	}

	req := httptest.NewRequest(http.MethodGet, "/api/products/5", nil)
	req.SetPathValue("id", "5")
	rec := httptest.NewRecorder()

	env.handler.LoadProduct(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var form models.ProductForm
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&form))
	assert.Equal(t, "Phone", form.Name)
	assert.Equal(t, "499.99", form.Price)
	assert.Equal(t, "3", form.Quantity)
	assert.Equal(t, "Electronics", form.Category)
}

func TestLoadProductNotFound(t *testing.T) {
	env := newTestEnv()
	env.products.err = services.ErrNotFound

	req := httptest.NewRequest(http.MethodGet, "/api/products/99", nil)
	req.SetPathValue("id", "99")
	rec := httptest.NewRecorder()

	env.handler.LoadProduct(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Failed to load product for editing.", decodeBody(t, rec)["error"])
}

func TestUpdateProduct(t *testing.T) {
	env := newTestEnv()
	payload := `{"name": "Phone v2", "price": "599.99", "quantity": "2", "category": "Electronics"}`
	req := httptest.NewRequest(http.MethodPut, "/api/products/5", strings.NewReader(payload))
	req.SetPathValue("id", "5")
	rec := httptest.NewRecorder()

	env.handler.UpdateProduct(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, env.products.updateCalls)
	assert.Equal(t, 599.99, env.products.lastUpdated.Price)
	assert.Equal(t, "/admindashboard", decodeBody(t, rec)["redirect"])
}

func TestUpdateProductValidation(t *testing.T) {
	env := newTestEnv()
	req := httptest.NewRequest(http.MethodPut, "/api/products/5", strings.NewReader(`{"name": ""}`))
	req.SetPathValue("id", "5")
	rec := httptest.NewRecorder()

	env.handler.UpdateProduct(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "All fields except description are required.", decodeBody(t, rec)["error"])
	assert.Zero(t, env.products.updateCalls)
}

func TestOrderHistory(t *testing.T) {
	env := newTestEnv()
	env.history.resp = models.HistoryResponse{
		Username: "alice",
		Rows: []models.HistoryRow{
			{Order: models.Order{ID: 1}, Product: models.Product{Name: "Phone"}, DeliveryDate: "23rd March 2021"},
		},
	}

	rec := httptest.NewRecorder()
	env.handler.OrderHistory(rec, httptest.NewRequest(http.MethodGet, "/api/orders/history", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.HistoryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "alice", resp.Username)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "23rd March 2021", resp.Rows[0].DeliveryDate)
}

func TestOrderHistoryFailure(t *testing.T) {
	env := newTestEnv()
	env.history.err = errors.New("order service down")

	rec := httptest.NewRecorder()
	env.handler.OrderHistory(rec, httptest.NewRequest(http.MethodGet, "/api/orders/history", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Failed to load order history.", decodeBody(t, rec)["error"])
}

func TestSignup(t *testing.T) {
	env := newTestEnv()
	payload := `{"username": "alice", "email": "alice@example.com", "password": "secret", "firstName": "Alice", "lastName": "Smith"}`
	req := httptest.NewRequest(http.MethodPost, "/api/signup", strings.NewReader(payload))
	rec := httptest.NewRecorder()

	env.handler.Signup(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "alice", env.signup.last.Username)

	body := decodeBody(t, rec)
	assert.Equal(t, "User registered successfully!", body["message"])
	assert.Equal(t, "/dashboard", body["redirect"])
	assert.Equal(t, float64(1200), body["redirectAfterMs"])
}

func TestSignupMissingFields(t *testing.T) {
	env := newTestEnv()
	payload := `{"username": "alice", "password": "secret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/signup", strings.NewReader(payload))
	rec := httptest.NewRecorder()

	env.handler.Signup(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Signup failed", decodeBody(t, rec)["error"])
	assert.Zero(t, env.signup.calls)
}

func TestSignupBackendFailure(t *testing.T) {
	env := newTestEnv()
	env.signup.err = errors.New("auth service down")

	payload := `{"username": "alice", "email": "alice@example.com", "password": "secret", "firstName": "Alice", "lastName": "Smith"}`
	req := httptest.NewRequest(http.MethodPost, "/api/signup", strings.NewReader(payload))
	rec := httptest.NewRecorder()

	env.handler.Signup(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Signup failed", decodeBody(t, rec)["error"])
}

func TestSignupRateLimited(t *testing.T) {
	env := newTestEnv()
	env.limiter.limited = true

	req := httptest.NewRequest(http.MethodPost, "/api/signup", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	env.handler.Signup(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Zero(t, env.signup.calls)
}

func TestAdminLogin(t *testing.T) {
	env := newTestEnv()
	payload := `{"username": "admin", "password": "admin12345"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(payload))
	rec := httptest.NewRecorder()

	env.handler.AdminLogin(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "/admindashboard", body["redirect"])
}

func TestAdminLoginWrongCredentials(t *testing.T) {
	payloads := []string{
		`{"username": "admin", "password": "wrong"}`,
		`{"username": "root", "password": "admin12345"}`,
		`{"username": "", "password": ""}`,
	}

	for _, payload := range payloads {
		env := newTestEnv()
		req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(payload))
		rec := httptest.NewRecorder()

		env.handler.AdminLogin(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "payload %s", payload)
		body := decodeBody(t, rec)
		assert.Equal(t, "Incorrect admin username or password.", body["error"])
		assert.NotContains(t, body, "token")
	}
}

func TestStartAndEndSession(t *testing.T) {
	env := newTestEnv()

	req := httptest.NewRequest(http.MethodPost, "/api/session", strings.NewReader(`{"username": "alice"}`))
	rec := httptest.NewRecorder()
	env.handler.StartSession(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", env.sessions.username)

	rec = httptest.NewRecorder()
	env.handler.EndSession(rec, httptest.NewRequest(http.MethodDelete, "/api/session", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, env.sessions.username)
}

func TestStartSessionRequiresUsername(t *testing.T) {
	env := newTestEnv()
	req := httptest.NewRequest(http.MethodPost, "/api/session", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	env.handler.StartSession(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutSummary(t *testing.T) {
	env := newTestEnv()
	req := httptest.NewRequest(http.MethodGet, "/api/checkout/summary?amount=123456", nil)
	rec := httptest.NewRecorder()

	env.handler.CheckoutSummary(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "1,234.56", body["total"])
}

func TestCheckoutSummaryDefaultsToZero(t *testing.T) {
	env := newTestEnv()
	req := httptest.NewRequest(http.MethodGet, "/api/checkout/summary", nil)
	rec := httptest.NewRecorder()

	env.handler.CheckoutSummary(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0.00", decodeBody(t, rec)["total"])
}

func TestCheckoutSummaryBadAmount(t *testing.T) {
	env := newTestEnv()
	req := httptest.NewRequest(http.MethodGet, "/api/checkout/summary?amount=abc", nil)
	rec := httptest.NewRecorder()

	env.handler.CheckoutSummary(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
