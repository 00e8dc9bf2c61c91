package application

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Apurer/go-gin-order-desk/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-order-desk/internal/domains/catalog/ports"
)

// DefaultLowStockThreshold is used when callers pass a non-positive threshold.
const DefaultLowStockThreshold = 5

// Service orchestrates the product catalog use cases. Descriptive writes are
// serialized in-process; stock moves are atomic in the repository, so several
// processes may adjust the same product.
type Service struct {
	mu   sync.Mutex
	repo ports.Repository
	refs ports.OrderReferences
}

// Option customizes the service.
type Option func(*Service)

// WithOrderReferences lets the service refuse deleting products used by orders.
func WithOrderReferences(refs ports.OrderReferences) Option {
	return func(s *Service) {
		s.refs = refs
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, refs: noReferences{}}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Create validates and stores a new active product with a unique name.
func (s *Service) Create(ctx context.Context, details domain.Details) (*ports.ProductProjection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureNameAvailable(ctx, details.Name, 0); err != nil {
		return nil, err
	}
	id, err := s.repo.NextID(ctx)
	if err != nil {
		return nil, err
	}
	product, err := domain.NewProduct(id, details)
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, product)
}

// Update replaces the editable attributes of a product.
func (s *Service) Update(ctx context.Context, id int64, details domain.Details) (*ports.ProductProjection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameAvailable(ctx, details.Name, id); err != nil {
		return nil, err
	}
	if err := existing.Entity.Update(details); err != nil {
		return nil, mapError(err)
	}
	if _, err := s.repo.Save(ctx, existing.Entity); err != nil {
		return nil, err
	}
	return s.repo.SetStock(ctx, id, details.Stock)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*ports.ProductProjection, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns products sorted by name, optionally only the active ones.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]*ports.ProductProjection, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return filterSorted(products, func(p *domain.Product) bool {
		return !activeOnly || p.Active
	}), nil
}

// SearchByName matches a case-insensitive substring of the product name.
func (s *Service) SearchByName(ctx context.Context, term string) ([]*ports.ProductProjection, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(strings.TrimSpace(term))
	return filterSorted(products, func(p *domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), term)
	}), nil
}

// LowStock lists active products with stock at or below threshold.
func (s *Service) LowStock(ctx context.Context, threshold int) ([]*ports.ProductProjection, error) {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return filterSorted(products, func(p *domain.Product) bool {
		return p.Active && p.Stock <= threshold
	}), nil
}

// OutOfStock lists active products with no units left.
func (s *Service) OutOfStock(ctx context.Context) ([]*ports.ProductProjection, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return filterSorted(products, func(p *domain.Product) bool {
		return p.Active && p.Stock == 0
	}), nil
}

func (s *Service) Activate(ctx context.Context, id int64) (*ports.ProductProjection, error) {
	return s.mutate(ctx, id, (*domain.Product).Activate)
}

func (s *Service) Deactivate(ctx context.Context, id int64) (*ports.ProductProjection, error) {
	return s.mutate(ctx, id, (*domain.Product).Deactivate)
}

// AdjustStock adds, removes or sets units. Removal never drives stock
// negative: the snapshot check reports the common case and the repository
// enforces it atomically.
func (s *Service) AdjustStock(ctx context.Context, id int64, amount int, mode domain.StockMode) (*ports.ProductProjection, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := current.Entity.AdjustStock(amount, mode); err != nil {
		return nil, mapError(err)
	}
	switch mode {
	case domain.StockAdd:
		return s.repo.MoveStock(ctx, id, amount)
	case domain.StockRemove:
		return s.repo.MoveStock(ctx, id, -amount)
	default:
		return s.repo.SetStock(ctx, id, amount)
	}
}

// Delete removes a product no order refers to.
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	count, err := s.refs.CountByProduct(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: product %d appears in %d order(s)", ErrInUse, id, count)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) mutate(ctx context.Context, id int64, apply func(*domain.Product) error) (*ports.ProductProjection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(existing.Entity); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, existing.Entity)
}

func (s *Service) ensureNameAvailable(ctx context.Context, name string, selfID int64) error {
	products, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	for _, p := range products {
		if p.Entity.ID != selfID && p.Entity.SameName(name) {
			return fmt.Errorf("%w: %s", ErrDuplicateName, strings.TrimSpace(name))
		}
	}
	return nil
}

func filterSorted(products []*ports.ProductProjection, keep func(*domain.Product) bool) []*ports.ProductProjection {
	result := make([]*ports.ProductProjection, 0, len(products))
	for _, p := range products {
		if keep(p.Entity) {
			result = append(result, p)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return strings.ToLower(result[i].Entity.Name) < strings.ToLower(result[j].Entity.Name)
	})
	return result
}

type noReferences struct{}

func (noReferences) CountByProduct(context.Context, int64) (int, error) { return 0, nil }

var _ ports.Service = (*Service)(nil)
