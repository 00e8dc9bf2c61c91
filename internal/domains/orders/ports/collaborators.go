package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/domain"
)

var (
	ErrClientNotFound    = errors.New("client not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrProductInactive   = errors.New("product is inactive")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Product is the live catalog view the engine needs for stock decisions.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Active      bool
}

// Snapshot copies the product fields stored on an order line.
func (p Product) Snapshot() domain.ProductSnapshot {
	return domain.ProductSnapshot{ID: p.ID, Name: p.Name, Description: p.Description, Price: p.Price}
}

// Catalog is the product catalog as seen by the order engine.
type Catalog interface {
	// GetProduct returns ErrProductNotFound for unknown ids.
	GetProduct(ctx context.Context, id int64) (*Product, error)
	// Reserve deducts quantity from stock, failing with ErrInsufficientStock.
	Reserve(ctx context.Context, productID int64, quantity int) error
	// Release returns quantity to stock.
	Release(ctx context.Context, productID int64, quantity int) error
}

// Directory is the client directory as seen by the order engine. It is read-only.
type Directory interface {
	// GetClient returns ErrClientNotFound for unknown ids.
	GetClient(ctx context.Context, id int64) (*domain.ClientSnapshot, error)
}
