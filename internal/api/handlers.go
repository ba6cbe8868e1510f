package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"storefront-bff/internal/auth"
	"storefront-bff/internal/checkout"
	"storefront-bff/internal/models"
	"storefront-bff/internal/services"
	"storefront-bff/internal/session"
)

// Message shown when a required product field is missing. One
// aggregate sentence, not per-field detail.
const msgProductFieldsRequired = "All fields except description are required."

const (
	msgAddProductFailed  = "Failed to add product."
	msgEditProductFailed = "Failed to update product."
	msgLoadProductFailed = "Failed to load product for editing."
	msgSignupFailed      = "Signup failed"
	msgSignupOK          = "User registered successfully!"
	msgAdminLoginFailed  = "Incorrect admin username or password."
	msgHistoryFailed     = "Failed to load order history."
)

// ProductService is the slice of the service client the product forms
// need.
type ProductService interface {
	CreateProduct(ctx context.Context, p models.Product) (models.Product, error)
	GetProduct(ctx context.Context, id string) (models.Product, error)
	UpdateProduct(ctx context.Context, id string, p models.Product) (models.Product, error)
}

// SignupService forwards registrations to the auth backend.
type SignupService interface {
	Signup(ctx context.Context, form models.SignupForm) error
}

// HistoryAssembler builds the order-history view.
type HistoryAssembler interface {
	Assemble(ctx context.Context) (models.HistoryResponse, error)
}

// RateLimiter is the per-IP limiter applied to signup.
type RateLimiter interface {
	IsRateLimited(ctx context.Context, ip string) bool
}

type Handler struct {
	products ProductService
	signup   SignupService
	history  HistoryAssembler
	sessions session.Store
	limiter  RateLimiter
	verifier auth.Verifier
	issuer   *auth.Issuer
	validate *validator.Validate
}

func NewHandler(
	products ProductService,
	signup SignupService,
	history HistoryAssembler,
	sessions session.Store,
	limiter RateLimiter,
	verifier auth.Verifier,
	issuer *auth.Issuer,
) *Handler {
	return &Handler{
		products: products,
		signup:   signup,
		history:  history,
		sessions: sessions,
		limiter:  limiter,
		verifier: verifier,
		issuer:   issuer,
		validate: validator.New(),
	}
}

// SubmitProduct handles the add-product form. Validation runs before
// any round trip: a missing required field answers immediately with
// the aggregate message and the backend never hears about it.
func (h *Handler) SubmitProduct(w http.ResponseWriter, r *http.Request) {
	var form models.ProductForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, http.StatusBadRequest, msgProductFieldsRequired)
		return
	}

	product, ok := h.coerceProduct(w, form)
	if !ok {
		return
	}

	created, err := h.products.CreateProduct(r.Context(), product)
	if err != nil {
		slog.Error("Create product failed", "error", err)
		respondError(w, http.StatusBadGateway, msgAddProductFailed)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"product":  created,
		"redirect": "/admindashboard",
	})
}

// LoadProduct serves the edit form's initial fetch, mapping the
// resource back to text-typed fields.
func (h *Handler) LoadProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	product, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, services.ErrNotFound) {
			status = http.StatusNotFound
		}
		slog.Error("Load product failed", "id", id, "error", err)
		respondError(w, status, msgLoadProductFailed)
		return
	}

	respondJSON(w, http.StatusOK, models.ProductForm{
		Name:        product.Name,
		Description: product.Description,
		Price:       strconv.FormatFloat(product.Price, 'f', -1, 64),
		Quantity:    strconv.Itoa(product.Quantity),
		Category:    product.Category,
	})
}

// UpdateProduct handles the edit-product save, same validation and
// coercion as create.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var form models.ProductForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, http.StatusBadRequest, msgProductFieldsRequired)
		return
	}

	product, ok := h.coerceProduct(w, form)
	if !ok {
		return
	}

	updated, err := h.products.UpdateProduct(r.Context(), id, product)
	if err != nil {
		slog.Error("Update product failed", "id", id, "error", err)
		respondError(w, http.StatusBadGateway, msgEditProductFailed)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"product":  updated,
		"redirect": "/admindashboard",
	})
}

// coerceProduct validates the form and coerces the numeric fields from
// text. It writes the error response itself and reports whether the
// caller may proceed.
func (h *Handler) coerceProduct(w http.ResponseWriter, form models.ProductForm) (models.Product, bool) {
	if err := h.validate.Struct(form); err != nil {
		respondError(w, http.StatusBadRequest, msgProductFieldsRequired)
		return models.Product{}, false
	}

	price, err := strconv.ParseFloat(form.Price, 64)
	if err != nil || price < 0 {
		respondError(w, http.StatusBadRequest, "Price must be a non-negative number.")
		return models.Product{}, false
	}

	quantity, err := strconv.Atoi(form.Quantity)
	if err != nil || quantity < 0 {
		respondError(w, http.StatusBadRequest, "Quantity must be a non-negative integer.")
		return models.Product{}, false
	}

	return models.Product{
		Name:        form.Name,
		Description: form.Description,
		Price:       price,
		Quantity:    quantity,
		Category:    form.Category,
	}, true
}

// OrderHistory serves the assembled order-history view for the current
// session user.
func (h *Handler) OrderHistory(w http.ResponseWriter, r *http.Request) {
	response, err := h.history.Assemble(r.Context())
	if err != nil {
		slog.Error("Order history assembly failed", "error", err)
		respondError(w, http.StatusBadGateway, msgHistoryFailed)
		return
	}

	respondJSON(w, http.StatusOK, response)
}

// Signup forwards the registration form to the auth service. The
// failure message is deliberately generic: no backend detail leaks.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	if h.limiter.IsRateLimited(r.Context(), clientIP(r)) {
		slog.Warn("Rate limit exceeded", "ip", clientIP(r))
		respondError(w, http.StatusTooManyRequests, "Too many requests")
		return
	}

	var form models.SignupForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, http.StatusBadRequest, msgSignupFailed)
		return
	}
	if err := h.validate.Struct(form); err != nil {
		respondError(w, http.StatusBadRequest, msgSignupFailed)
		return
	}

	if err := h.signup.Signup(r.Context(), form); err != nil {
		slog.Error("Signup failed", "username", form.Username, "error", err)
		respondError(w, http.StatusBadGateway, msgSignupFailed)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message":         msgSignupOK,
		"redirect":        "/dashboard",
		"redirectAfterMs": 1200,
	})
}

// AdminLogin is the admin gate: a credential pair in, a grant or the
// generic denial out.
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondError(w, http.StatusBadRequest, msgAdminLoginFailed)
		return
	}

	if !h.verifier.Verify(creds.Username, creds.Password) {
		respondError(w, http.StatusUnauthorized, msgAdminLoginFailed)
		return
	}

	token, err := h.issuer.Issue(creds.Username)
	if err != nil {
		slog.Error("Token issuance failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"token":    token,
		"redirect": "/admindashboard",
	})
}

// StartSession records the signed-in username, the single process-wide
// identity the order-history view reads.
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Username == "" {
		respondError(w, http.StatusBadRequest, "username is required")
		return
	}

	if err := h.sessions.SetUsername(r.Context(), body.Username); err != nil {
		slog.Error("Session write failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"username": body.Username})
}

// EndSession clears the session identity at logout.
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(r.Context()); err != nil {
		slog.Error("Session clear failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CheckoutSummary renders the checkout view for an amount in minor
// units. No network calls, no state beyond the query parameter.
func (h *Handler) CheckoutSummary(w http.ResponseWriter, r *http.Request) {
	var amount int64
	if raw := r.URL.Query().Get("amount"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "amount must be an integer of minor units")
			return
		}
		amount = parsed
	}

	respondJSON(w, http.StatusOK, checkout.NewSummary(amount))
}

// Health is the liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func clientIP(r *http.Request) string {
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
