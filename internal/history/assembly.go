package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"storefront-bff/internal/models"
	"storefront-bff/internal/session"
)

// Backend is the slice of the service client the assembly needs.
type Backend interface {
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
}

// Assembler builds the order-history view: the current user's orders
// joined with their products across two independently-owned services.
type Assembler struct {
	svc      Backend
	sessions session.Store
	now      func() time.Time
}

func NewAssembler(svc Backend, sessions session.Store) *Assembler {
	return &Assembler{
		svc:      svc,
		sessions: sessions,
		now:      time.Now,
	}
}

// Assemble runs the chain once per view entry. No session username
// means an empty result and zero round trips. An orders-fetch failure
// aborts the whole assembly; a catalog-fetch failure only degrades the
// rows to placeholder products.
func (a *Assembler) Assemble(ctx context.Context) (models.HistoryResponse, error) {
	username, err := a.sessions.Username(ctx)
	if errors.Is(err, session.ErrNoSession) {
		return models.HistoryResponse{Rows: []models.HistoryRow{}}, nil
	}
	if err != nil {
		return models.HistoryResponse{}, fmt.Errorf("read session: %w", err)
	}

	all, err := a.svc.ListOrders(ctx)
	if err != nil {
		return models.HistoryResponse{}, fmt.Errorf("fetch orders: %w", err)
	}

	orders := filterByUsername(all, username)

	products := map[int64]models.Product{}
	if ids := distinctProductIDs(orders); len(ids) > 0 {
		catalog, err := a.svc.ListProducts(ctx)
		if err != nil {
			slog.Warn("Product catalog unavailable, degrading to placeholders", "error", err)
		} else {
			for _, p := range catalog {
				products[p.ID] = p
			}
		}
	}

	return models.HistoryResponse{
		Username: username,
		Rows:     Join(orders, products, a.now()),
	}, nil
}

// filterByUsername keeps rows belonging to username, preserving the
// server's order.
func filterByUsername(orders []models.Order, username string) []models.Order {
	filtered := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.Username == username {
			filtered = append(filtered, o)
		}
	}
	return filtered
}

// distinctProductIDs collects the distinct product ids referenced by
// the orders. Orders without a product reference are skipped, so an
// all-unreferenced list costs no catalog round trip.
func distinctProductIDs(orders []models.Order) []int64 {
	seen := make(map[int64]struct{})
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		if o.ProductID == nil {
			continue
		}
		if _, ok := seen[*o.ProductID]; ok {
			continue
		}
		seen[*o.ProductID] = struct{}{}
		ids = append(ids, *o.ProductID)
	}
	return ids
}

// Join pairs each order with its product from the keyed catalog. A
// lookup miss substitutes a zero-value placeholder product; a single
// missing product never fails the row.
func Join(orders []models.Order, products map[int64]models.Product, now time.Time) []models.HistoryRow {
	rows := make([]models.HistoryRow, 0, len(orders))
	for _, o := range orders {
		var product models.Product
		if o.ProductID != nil {
			product = products[*o.ProductID]
		}
		rows = append(rows, models.HistoryRow{
			Order:        o,
			Product:      product,
			DeliveryDate: DeliveryDate(o.PlacedAt(), now),
		})
	}
	return rows
}
