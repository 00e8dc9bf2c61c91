package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-order-desk/internal/domains/quotations/domain"
)

var (
	ErrClientNotFound  = errors.New("client not found")
	ErrProductNotFound = errors.New("product not found")
	ErrProductInactive = errors.New("product is inactive")
)

// Product is the catalog view used for pricing.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Active      bool
}

func (p Product) Snapshot() domain.ProductSnapshot {
	return domain.ProductSnapshot{ID: p.ID, Name: p.Name, Description: p.Description, Price: p.Price}
}

type Catalog interface {
	GetProduct(ctx context.Context, id int64) (*Product, error)
}

type Directory interface {
	GetClient(ctx context.Context, id int64) (*domain.ClientSnapshot, error)
}
