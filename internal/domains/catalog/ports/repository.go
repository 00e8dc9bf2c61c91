package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-order-desk/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-order-desk/internal/shared/projection"
)

var ErrNotFound = errors.New("product not found")

// ProductProjection is a product plus persistence metadata.
type ProductProjection = projection.Projection[*domain.Product]

// Repository persists products. Save never overwrites the stock of a stored
// product; stock only changes through MoveStock and SetStock.
type Repository interface {
	NextID(ctx context.Context) (int64, error)
	Save(ctx context.Context, product *domain.Product) (*ProductProjection, error)
	// MoveStock adds delta to stock as one atomic step. A negative delta that
	// would leave stock below zero fails with domain.ErrInsufficientStock.
	MoveStock(ctx context.Context, id int64, delta int) (*ProductProjection, error)
	SetStock(ctx context.Context, id int64, stock int) (*ProductProjection, error)
	GetByID(ctx context.Context, id int64) (*ProductProjection, error)
	List(ctx context.Context) ([]*ProductProjection, error)
	Delete(ctx context.Context, id int64) error
}

// OrderReferences reports how many orders contain a product.
type OrderReferences interface {
	CountByProduct(ctx context.Context, productID int64) (int, error)
}
