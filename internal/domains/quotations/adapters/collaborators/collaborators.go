package collaborators

import (
	"context"
	"errors"
	"fmt"

	catalogports "github.com/Apurer/go-gin-order-desk/internal/domains/catalog/ports"
	clientports "github.com/Apurer/go-gin-order-desk/internal/domains/clients/ports"
	"github.com/Apurer/go-gin-order-desk/internal/domains/quotations/domain"
	"github.com/Apurer/go-gin-order-desk/internal/domains/quotations/ports"
)

var (
	_ ports.Catalog   = (*Catalog)(nil)
	_ ports.Directory = (*Directory)(nil)
)

// Catalog prices quotation items from the product catalog.
type Catalog struct {
	products catalogports.Service
}

func NewCatalog(products catalogports.Service) *Catalog {
	return &Catalog{products: products}
}

func (c *Catalog) GetProduct(ctx context.Context, id int64) (*ports.Product, error) {
	result, err := c.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogports.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ports.ErrProductNotFound, id)
		}
		return nil, err
	}
	p := result.Entity
	return &ports.Product{ID: p.ID, Name: p.Name, Description: p.Description, Price: p.Price, Active: p.Active}, nil
}

// Directory resolves quotation clients.
type Directory struct {
	clients clientports.Service
}

func NewDirectory(clients clientports.Service) *Directory {
	return &Directory{clients: clients}
}

func (d *Directory) GetClient(ctx context.Context, id int64) (*domain.ClientSnapshot, error) {
	result, err := d.clients.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, clientports.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ports.ErrClientNotFound, id)
		}
		return nil, err
	}
	return &domain.ClientSnapshot{ID: result.Entity.ID, Name: result.Entity.Name, Email: result.Entity.Email}, nil
}
