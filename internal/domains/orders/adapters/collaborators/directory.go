package collaborators

import (
	"context"
	"errors"
	"fmt"

	clientports "github.com/Apurer/go-gin-order-desk/internal/domains/clients/ports"
	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/ports"
)

var _ ports.Directory = (*Directory)(nil)

// Directory exposes the client service through the order engine's port.
type Directory struct {
	clients clientports.Service
}

func NewDirectory(clients clientports.Service) *Directory {
	return &Directory{clients: clients}
}

// GetClient snapshots the client, using the delivery address when one is set.
func (d *Directory) GetClient(ctx context.Context, id int64) (*domain.ClientSnapshot, error) {
	result, err := d.clients.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, clientports.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ports.ErrClientNotFound, id)
		}
		return nil, err
	}
	c := result.Entity
	return &domain.ClientSnapshot{
		ID:      c.ID,
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Address: c.DeliveryAddress(),
	}, nil
}
