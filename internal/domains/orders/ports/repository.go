package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/domain"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrStaleOrder means the order changed since it was read.
	ErrStaleOrder = errors.New("order was modified concurrently")
)

// Repository persists orders. Orders are never deleted.
type Repository interface {
	NextID(ctx context.Context) (int64, error)
	// Save inserts an order with Version zero, or updates the stored order only
	// while its version still equals order.Version. Either way the returned
	// order carries the new version; a lost race yields ErrStaleOrder.
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	CountByClient(ctx context.Context, clientID int64) (int, error)
	CountByProduct(ctx context.Context, productID int64) (int, error)
}
