package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/Apurer/go-gin-order-desk/internal/domains/quotations/domain"
	"github.com/Apurer/go-gin-order-desk/internal/domains/quotations/ports"
	"github.com/Apurer/go-gin-order-desk/internal/shared/sequence"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory quotation persistence adapter.
type Repository struct {
	mu         sync.RWMutex
	quotations map[int64]*domain.Quotation
	sequence   *sequence.Memory
}

func NewRepository() *Repository {
	return &Repository{
		quotations: map[int64]*domain.Quotation{},
		sequence:   sequence.NewMemory(),
	}
}

func (r *Repository) NextID(ctx context.Context) (int64, error) {
	return r.sequence.Next(ctx, sequence.KindQuotations)
}

func (r *Repository) Save(_ context.Context, quotation *domain.Quotation) (*domain.Quotation, error) {
	if quotation == nil {
		return nil, errors.New("quotation is nil")
	}
	if quotation.ID <= 0 {
		return nil, errors.New("quotation id must be assigned before saving")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sequence.Observe(sequence.KindQuotations, quotation.ID)
	r.quotations[quotation.ID] = quotation.Clone()
	return quotation.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Quotation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	quotation, ok := r.quotations[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return quotation.Clone(), nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Quotation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Quotation, 0, len(r.quotations))
	for _, quotation := range r.quotations {
		list = append(list, quotation.Clone())
	}
	return list, nil
}
