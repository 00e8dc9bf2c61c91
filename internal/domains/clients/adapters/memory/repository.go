package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Apurer/go-gin-order-desk/internal/domains/clients/domain"
	"github.com/Apurer/go-gin-order-desk/internal/domains/clients/ports"
	"github.com/Apurer/go-gin-order-desk/internal/shared/projection"
	"github.com/Apurer/go-gin-order-desk/internal/shared/sequence"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory client persistence adapter.
type Repository struct {
	mu       sync.RWMutex
	clients  map[int64]*ports.ClientProjection
	sequence *sequence.Memory
	now      func() time.Time
}

func NewRepository() *Repository {
	return &Repository{
		clients:  map[int64]*ports.ClientProjection{},
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
	return r.sequence.Next(ctx, sequence.KindClients)
}

func (r *Repository) Save(_ context.Context, client *domain.Client) (*ports.ClientProjection, error) {
	if client == nil {
		return nil, errors.New("client is nil")
	}
	if client.ID <= 0 {
		return nil, errors.New("client id must be assigned before saving")
	}
	clone := *client
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	meta := projection.Metadata{CreatedAt: now, UpdatedAt: now}
	if existing, ok := r.clients[clone.ID]; ok {
		meta.CreatedAt = existing.Metadata.CreatedAt
	}
	r.sequence.Observe(sequence.KindClients, clone.ID)
	stored := &ports.ClientProjection{Entity: &clone, Metadata: meta}
	r.clients[clone.ID] = stored
	return cloneProjection(stored), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*ports.ClientProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.clients[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneProjection(stored), nil
}

func (r *Repository) List(_ context.Context) ([]*ports.ClientProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*ports.ClientProjection, 0, len(r.clients))
	for _, stored := range r.clients {
		list = append(list, cloneProjection(stored))
	}
	return list, nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.clients, id)
	return nil
}

func cloneProjection(p *ports.ClientProjection) *ports.ClientProjection {
	entity := *p.Entity
	return &ports.ClientProjection{Entity: &entity, Metadata: p.Metadata}
}
