package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-order-desk/internal/shared/sequence"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter.
type Repository struct {
	mu       sync.RWMutex
	orders   map[int64]*domain.Order
	sequence *sequence.Memory
}

func NewRepository() *Repository {
	return &Repository{
		orders:   map[int64]*domain.Order{},
		sequence: sequence.NewMemory(),
	}
}

func (r *Repository) NextID(ctx context.Context) (int64, error) {
	return r.sequence.Next(ctx, sequence.KindOrders)
}

func (r *Repository) Save(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if order.ID <= 0 {
		return nil, errors.New("order id must be assigned before saving")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, exists := r.orders[order.ID]
	switch {
	case order.Version == 0 && exists:
		return nil, fmt.Errorf("%w: order %d already exists", ports.ErrStaleOrder, order.ID)
	case order.Version != 0 && (!exists || stored.Version != order.Version):
		return nil, fmt.Errorf("%w: order %d was read at version %d", ports.ErrStaleOrder, order.ID, order.Version)
	}
	next := order.Clone()
	next.Version++
	r.sequence.Observe(sequence.KindOrders, order.ID)
	r.orders[order.ID] = next
	return next.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return order.Clone(), nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		list = append(list, order.Clone())
	}
	return list, nil
}

func (r *Repository) CountByClient(_ context.Context, clientID int64) (int, error) {
	return r.count(func(o *domain.Order) bool { return o.Client.ID == clientID }), nil
}

func (r *Repository) CountByProduct(_ context.Context, productID int64) (int, error) {
	return r.count(func(o *domain.Order) bool { return o.ContainsProduct(productID) }), nil
}

func (r *Repository) count(match func(*domain.Order) bool) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, order := range r.orders {
		if match(order) {
			n++
		}
	}
	return n
}
