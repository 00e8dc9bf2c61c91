package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-order-desk/internal/domains/clients/domain"
	"github.com/Apurer/go-gin-order-desk/internal/shared/projection"
)

var ErrNotFound = errors.New("client not found")

// ClientProjection is a client plus persistence metadata.
type ClientProjection = projection.Projection[*domain.Client]

// Repository persists clients.
type Repository interface {
	NextID(ctx context.Context) (int64, error)
	Save(ctx context.Context, client *domain.Client) (*ClientProjection, error)
	GetByID(ctx context.Context, id int64) (*ClientProjection, error)
	List(ctx context.Context) ([]*ClientProjection, error)
	Delete(ctx context.Context, id int64) error
}

// OrderReferences reports how many orders point at a client.
type OrderReferences interface {
	CountByClient(ctx context.Context, clientID int64) (int, error)
}
