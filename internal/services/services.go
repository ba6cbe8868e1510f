package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"storefront-bff/internal/config"
	"storefront-bff/internal/models"
	"storefront-bff/internal/resilience"
)

var (
	// ErrNotFound marks a single-resource fetch that the backend
	// answered with 404.
	ErrNotFound = errors.New("resource not found")
	// ErrRemote marks any other non-2xx response.
	ErrRemote = errors.New("remote service rejected request")
)

// ServiceClient performs the REST round trips against the backend
// services. Reads are retried; writes never are, the caller decides
// whether to resubmit.
type ServiceClient struct {
	cfg       *config.Config
	client    *http.Client
	catalogCB *resilience.CircuitBreaker
}

func NewServiceClient(cfg *config.Config) *ServiceClient {
	return &ServiceClient{
		cfg: cfg,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		catalogCB: resilience.NewCircuitBreaker("product-catalog", 3, 10*time.Second),
	}
}

func (s *ServiceClient) fetchJSON(ctx context.Context, url string, target any) error {
	return resilience.Retry(ctx, 3, 500*time.Millisecond, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return ErrNotFound
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("%w: status %d", ErrRemote, resp.StatusCode)
		}

		return json.NewDecoder(resp.Body).Decode(target)
	})
}

func (s *ServiceClient) sendJSON(ctx context.Context, method, url string, body, target any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrRemote, resp.StatusCode)
	}

	if target != nil {
		// Some backends answer writes with an empty body.
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
	}
	return nil
}

func (s *ServiceClient) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	url := s.cfg.Resolve("product", "/products")
	var created models.Product
	if err := s.sendJSON(ctx, http.MethodPost, url, p, &created); err != nil {
		return models.Product{}, err
	}
	return created, nil
}

func (s *ServiceClient) GetProduct(ctx context.Context, id string) (models.Product, error) {
	url := s.cfg.Resolve("product", "/products/"+id)
	var product models.Product
	if err := s.fetchJSON(ctx, url, &product); err != nil {
		return models.Product{}, err
	}
	return product, nil
}

func (s *ServiceClient) UpdateProduct(ctx context.Context, id string, p models.Product) (models.Product, error) {
	url := s.cfg.Resolve("product", "/products/"+id)
	var updated models.Product
	if err := s.sendJSON(ctx, http.MethodPut, url, p, &updated); err != nil {
		return models.Product{}, err
	}
	return updated, nil
}

// ListProducts fetches the full catalog. It runs behind a circuit
// breaker; callers degrade to placeholder rows while it is open.
func (s *ServiceClient) ListProducts(ctx context.Context) ([]models.Product, error) {
	url := s.cfg.Resolve("product", "/products")

	result, err := s.catalogCB.Execute(func() (any, error) {
		var products []models.Product
		if err := s.fetchJSON(ctx, url, &products); err != nil {
			return nil, err
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.Product), nil
}

func (s *ServiceClient) ListOrders(ctx context.Context) ([]models.Order, error) {
	url := s.cfg.Resolve("order", "/orders")
	var orders []models.Order
	if err := s.fetchJSON(ctx, url, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Signup forwards the registration form to the auth service. No retry:
// a replayed signup is not idempotent.
func (s *ServiceClient) Signup(ctx context.Context, form models.SignupForm) error {
	url := s.cfg.Resolve("auth", "/signup")
	return s.sendJSON(ctx, http.MethodPost, url, form, nil)
}
