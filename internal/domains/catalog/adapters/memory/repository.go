package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Apurer/go-gin-order-desk/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-order-desk/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-order-desk/internal/shared/projection"
	"github.com/Apurer/go-gin-order-desk/internal/shared/sequence"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory product persistence adapter.
type Repository struct {
	mu       sync.RWMutex
	products map[int64]*ports.ProductProjection
	sequence *sequence.Memory
	now      func() time.Time
}

func NewRepository() *Repository {
	return &Repository{
		products: map[int64]*ports.ProductProjection{},
		sequence: sequence.NewMemory(),
		now:      time.Now,
	}
}

// WithClock overrides the metadata time source.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *Repository) NextID(ctx context.Context) (int64, error) {
	return r.sequence.Next(ctx, sequence.KindProducts)
}

func (r *Repository) Save(_ context.Context, product *domain.Product) (*ports.ProductProjection, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if product.ID <= 0 {
		return nil, errors.New("product id must be assigned before saving")
	}
	clone := *product
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	meta := projection.Metadata{CreatedAt: now, UpdatedAt: now}
	if existing, ok := r.products[clone.ID]; ok {
		meta.CreatedAt = existing.Metadata.CreatedAt
		clone.Stock = existing.Entity.Stock
	}
	r.sequence.Observe(sequence.KindProducts, clone.ID)
	stored := &ports.ProductProjection{Entity: &clone, Metadata: meta}
	r.products[clone.ID] = stored
	return cloneProjection(stored), nil
}

func (r *Repository) MoveStock(_ context.Context, id int64, delta int) (*ports.ProductProjection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if stored.Entity.Stock+delta < 0 {
		return nil, fmt.Errorf("%w: %q has %d, requested %d", domain.ErrInsufficientStock, stored.Entity.Name, stored.Entity.Stock, -delta)
	}
	stored.Entity.Stock += delta
	stored.Metadata.UpdatedAt = r.now()
	return cloneProjection(stored), nil
}

func (r *Repository) SetStock(_ context.Context, id int64, stock int) (*ports.ProductProjection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	stored.Entity.Stock = stock
	stored.Metadata.UpdatedAt = r.now()
	return cloneProjection(stored), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*ports.ProductProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneProjection(stored), nil
}

func (r *Repository) List(_ context.Context) ([]*ports.ProductProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*ports.ProductProjection, 0, len(r.products))
	for _, stored := range r.products {
		list = append(list, cloneProjection(stored))
	}
	return list, nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func cloneProjection(p *ports.ProductProjection) *ports.ProductProjection {
	entity := *p.Entity
	return &ports.ProductProjection{Entity: &entity, Metadata: p.Metadata}
}
