package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-order-desk/internal/domains/quotations/domain"
)

var ErrNotFound = errors.New("quotation not found")

// Repository persists quotations.
type Repository interface {
	NextID(ctx context.Context) (int64, error)
	Save(ctx context.Context, quotation *domain.Quotation) (*domain.Quotation, error)
	GetByID(ctx context.Context, id int64) (*domain.Quotation, error)
	List(ctx context.Context) ([]*domain.Quotation, error)
}
