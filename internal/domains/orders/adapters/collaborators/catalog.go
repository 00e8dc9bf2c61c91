package collaborators

import (
	"context"
	"errors"
	"fmt"

	catalogdomain "github.com/Apurer/go-gin-order-desk/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/go-gin-order-desk/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/ports"
)

var _ ports.Catalog = (*Catalog)(nil)

// Catalog exposes the product catalog service through the order engine's port.
type Catalog struct {
	products catalogports.Service
}

func NewCatalog(products catalogports.Service) *Catalog {
	return &Catalog{products: products}
}

func (c *Catalog) GetProduct(ctx context.Context, id int64) (*ports.Product, error) {
	result, err := c.products.GetByID(ctx, id)
	if err != nil {
		return nil, translateCatalogError(err, id)
	}
	p := result.Entity
	return &ports.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Active:      p.Active,
	}, nil
}

// Reserve deducts stock through a remove adjustment.
func (c *Catalog) Reserve(ctx context.Context, productID int64, quantity int) error {
	_, err := c.products.AdjustStock(ctx, productID, quantity, catalogdomain.StockRemove)
	return translateCatalogError(err, productID)
}

// Release returns stock through an add adjustment.
func (c *Catalog) Release(ctx context.Context, productID int64, quantity int) error {
	_, err := c.products.AdjustStock(ctx, productID, quantity, catalogdomain.StockAdd)
	return translateCatalogError(err, productID)
}

func translateCatalogError(err error, productID int64) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, catalogports.ErrNotFound):
		return fmt.Errorf("%w: %d", ports.ErrProductNotFound, productID)
	case errors.Is(err, catalogdomain.ErrInsufficientStock):
		return fmt.Errorf("%w: %w", ports.ErrInsufficientStock, err)
	default:
		return err
	}
}
