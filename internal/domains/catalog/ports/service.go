package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-order-desk/internal/domains/catalog/domain"
)

// Statistics summarizes the catalog.
type Statistics struct {
	Total          int
	Active         int
	Inactive       int
	OutOfStock     int
	LowStock       int
	InventoryValue decimal.Decimal
	MostExpensive  *domain.Product
	Cheapest       *domain.Product
}

// Service exposes the product catalog use cases to adapters.
type Service interface {
	Create(ctx context.Context, details domain.Details) (*ProductProjection, error)
	Update(ctx context.Context, id int64, details domain.Details) (*ProductProjection, error)
	GetByID(ctx context.Context, id int64) (*ProductProjection, error)
	List(ctx context.Context, activeOnly bool) ([]*ProductProjection, error)
	SearchByName(ctx context.Context, term string) ([]*ProductProjection, error)
	LowStock(ctx context.Context, threshold int) ([]*ProductProjection, error)
	OutOfStock(ctx context.Context) ([]*ProductProjection, error)
	Activate(ctx context.Context, id int64) (*ProductProjection, error)
	Deactivate(ctx context.Context, id int64) (*ProductProjection, error)
	AdjustStock(ctx context.Context, id int64, amount int, mode domain.StockMode) (*ProductProjection, error)
	Delete(ctx context.Context, id int64) error
	Statistics(ctx context.Context, lowStockThreshold int) (*Statistics, error)
}
