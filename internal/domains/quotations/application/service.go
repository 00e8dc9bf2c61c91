package application

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-order-desk/internal/domains/quotations/domain"
	"github.com/Apurer/go-gin-order-desk/internal/domains/quotations/ports"
)

// Service manages quotations. Mutations run one at a time.
type Service struct {
	mu              sync.Mutex
	repo            ports.Repository
	catalog         ports.Catalog
	directory       ports.Directory
	defaultValidity int
	now             func() time.Time
}

type Option func(*Service)

// WithDefaultValidity sets the validity used when Create receives zero days.
func WithDefaultValidity(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.defaultValidity = days
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo ports.Repository, catalog ports.Catalog, directory ports.Directory, opts ...Option) *Service {
	s := &Service{
		repo:            repo,
		catalog:         catalog,
		directory:       directory,
		defaultValidity: domain.DefaultValidityDays,
		now:             time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) Create(ctx context.Context, input ports.CreateInput) (*domain.Quotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, err := s.directory.GetClient(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}
	validity := input.ValidityDays
	if validity == 0 {
		validity = s.defaultValidity
	}
	id, err := s.repo.NextID(ctx)
	if err != nil {
		return nil, err
	}
	quotation, err := domain.NewQuotation(id, *client, s.now(), validity, input.DiscountPercent, input.Notes)
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, quotation)
}

// AddItem quotes a product at its catalog price or at CustomPrice. Stock is not checked.
func (s *Service) AddItem(ctx context.Context, input ports.AddItemInput) (*domain.Quotation, error) {
	return s.mutate(ctx, input.QuotationID, func(q *domain.Quotation) error {
		if err := q.CheckEditable(); err != nil {
			return err
		}
		product, err := s.catalog.GetProduct(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if !product.Active {
			return fmt.Errorf("%w: %q", ports.ErrProductInactive, product.Name)
		}
		price := product.Price
		if input.CustomPrice != nil {
			price = *input.CustomPrice
		}
		return q.AddItem(product.Snapshot(), input.Quantity, price)
	})
}

func (s *Service) RemoveItem(ctx context.Context, quotationID, productID int64) (*domain.Quotation, error) {
	return s.mutate(ctx, quotationID, func(q *domain.Quotation) error {
		return q.RemoveItem(productID)
	})
}

func (s *Service) SetDiscount(ctx context.Context, quotationID int64, percent decimal.Decimal) (*domain.Quotation, error) {
	return s.mutate(ctx, quotationID, func(q *domain.Quotation) error {
		return q.SetDiscount(percent)
	})
}

func (s *Service) ChangeStatus(ctx context.Context, quotationID int64, target domain.Status) (*domain.Quotation, error) {
	return s.mutate(ctx, quotationID, func(q *domain.Quotation) error {
		return q.Transition(target)
	})
}

func (s *Service) Approve(ctx context.Context, quotationID int64) (*domain.Quotation, error) {
	return s.ChangeStatus(ctx, quotationID, domain.StatusApproved)
}

func (s *Service) Reject(ctx context.Context, quotationID int64) (*domain.Quotation, error) {
	return s.ChangeStatus(ctx, quotationID, domain.StatusRejected)
}

// ExpireOverdue moves every pending quotation past its validity to expired and
// returns how many changed.
func (s *Service) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quotations, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	expired := 0
	for _, q := range quotations {
		if q.Status != domain.StatusPending || !q.Expired(now) {
			continue
		}
		if err := q.Transition(domain.StatusExpired); err != nil {
			return expired, err
		}
		if _, err := s.repo.Save(ctx, q); err != nil {
			return expired, err
		}
		expired++
	}
	return expired, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Quotation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*domain.Quotation, error) {
	return s.filter(ctx, func(*domain.Quotation) bool { return true })
}

func (s *Service) ListByClient(ctx context.Context, clientID int64) ([]*domain.Quotation, error) {
	return s.filter(ctx, func(q *domain.Quotation) bool { return q.Client.ID == clientID })
}

func (s *Service) ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Quotation, error) {
	if !status.Valid() {
		return nil, mapError(fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status))
	}
	return s.filter(ctx, func(q *domain.Quotation) bool { return q.Status == status })
}

// ListByPeriod returns quotations created within [from, to].
func (s *Service) ListByPeriod(ctx context.Context, from, to time.Time) ([]*domain.Quotation, error) {
	if to.Before(from) {
		return nil, mapError(ErrInvalidPeriod)
	}
	return s.filter(ctx, func(q *domain.Quotation) bool {
		return !q.CreatedAt.Before(from) && !q.CreatedAt.After(to)
	})
}

func (s *Service) Statistics(ctx context.Context) (*ports.Statistics, error) {
	quotations, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	stats := &ports.Statistics{
		Total:         len(quotations),
		CountByStatus: make(map[domain.Status]int, len(domain.Statuses)),
		QuotedValue:   decimal.Zero,
		ApprovedValue: decimal.Zero,
		ApprovalRate:  decimal.Zero,
	}
	for _, status := range domain.Statuses {
		stats.CountByStatus[status] = 0
	}
	for _, q := range quotations {
		stats.CountByStatus[q.Status]++
		total := q.Total()
		stats.QuotedValue = stats.QuotedValue.Add(total)
		if q.Status == domain.StatusApproved {
			stats.ApprovedValue = stats.ApprovedValue.Add(total)
		}
	}
	approved := stats.CountByStatus[domain.StatusApproved]
	if decided := approved + stats.CountByStatus[domain.StatusRejected]; decided > 0 {
		stats.ApprovalRate = decimal.NewFromInt(int64(approved*100)).DivRound(decimal.NewFromInt(int64(decided)), 2)
	}
	return stats, nil
}

func (s *Service) mutate(ctx context.Context, id int64, apply func(*domain.Quotation) error) (*domain.Quotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quotation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(quotation); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, quotation)
}

// filter returns matches newest first.
func (s *Service) filter(ctx context.Context, keep func(*domain.Quotation) bool) ([]*domain.Quotation, error) {
	quotations, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]*domain.Quotation, 0, len(quotations))
	for _, q := range quotations {
		if keep(q) {
			matched = append(matched, q)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID > b.ID
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return matched, nil
}

var _ ports.Service = (*Service)(nil)
