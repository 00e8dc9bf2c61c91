package ports

import (
	"context"

	"github.com/Apurer/go-gin-order-desk/internal/domains/clients/domain"
)

// Statistics summarizes the client directory.
type Statistics struct {
	Total         int
	WithOrders    int
	WithoutOrders int
}

// Service exposes the client directory use cases to adapters.
type Service interface {
	Register(ctx context.Context, profile domain.Profile) (*ClientProjection, error)
	Update(ctx context.Context, id int64, profile domain.Profile) (*ClientProjection, error)
	GetByID(ctx context.Context, id int64) (*ClientProjection, error)
	List(ctx context.Context) ([]*ClientProjection, error)
	SearchByName(ctx context.Context, term string) ([]*ClientProjection, error)
	FindByEmail(ctx context.Context, email string) (*ClientProjection, error)
	Delete(ctx context.Context, id int64) error
	Statistics(ctx context.Context) (*Statistics, error)
}
