package application

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Apurer/go-gin-order-desk/internal/domains/clients/domain"
	"github.com/Apurer/go-gin-order-desk/internal/domains/clients/ports"
)

// Service orchestrates the client directory use cases.
type Service struct {
	mu   sync.Mutex
	repo ports.Repository
	refs ports.OrderReferences
	now  func() time.Time
}

// Option customizes the service.
type Option func(*Service)

// WithOrderReferences lets the service refuse deleting clients that still have orders.
func WithOrderReferences(refs ports.OrderReferences) Option {
	return func(s *Service) {
		s.refs = refs
	}
}

// WithClock overrides the registration time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the client directory with its repository.
func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, refs: noReferences{}, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Register validates and stores a new client. Emails are unique regardless of case.
func (s *Service) Register(ctx context.Context, profile domain.Profile) (*ports.ClientProjection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureEmailAvailable(ctx, profile.Email, 0); err != nil {
		return nil, err
	}
	id, err := s.repo.NextID(ctx)
	if err != nil {
		return nil, err
	}
	client, err := domain.NewClient(id, profile, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, client)
}

// Update replaces the profile of an existing client.
func (s *Service) Update(ctx context.Context, id int64, profile domain.Profile) (*ports.ClientProjection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureEmailAvailable(ctx, profile.Email, id); err != nil {
		return nil, err
	}
	if err := existing.Entity.UpdateProfile(profile); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, existing.Entity)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*ports.ClientProjection, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns every client sorted by name.
func (s *Service) List(ctx context.Context) ([]*ports.ClientProjection, error) {
	clients, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sortByName(clients)
	return clients, nil
}

// SearchByName matches a case-insensitive substring of the client name.
func (s *Service) SearchByName(ctx context.Context, term string) ([]*ports.ClientProjection, error) {
	clients, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(strings.TrimSpace(term))
	matches := make([]*ports.ClientProjection, 0, len(clients))
	for _, client := range clients {
		if strings.Contains(strings.ToLower(client.Entity.Name), term) {
			matches = append(matches, client)
		}
	}
	return matches, nil
}

// FindByEmail looks a client up by email, ignoring case.
func (s *Service) FindByEmail(ctx context.Context, email string) (*ports.ClientProjection, error) {
	clients, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, client := range clients {
		if client.Entity.SameEmail(email) {
			return client, nil
		}
	}
	return nil, ports.ErrNotFound
}

// Delete removes a client that has no orders.
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	count, err := s.refs.CountByClient(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: client %d has %d order(s)", ErrInUse, id, count)
	}
	return s.repo.Delete(ctx, id)
}

// Statistics counts clients with and without orders.
func (s *Service) Statistics(ctx context.Context) (*ports.Statistics, error) {
	clients, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	stats := &ports.Statistics{Total: len(clients)}
	for _, client := range clients {
		count, err := s.refs.CountByClient(ctx, client.Entity.ID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			stats.WithOrders++
		}
	}
	stats.WithoutOrders = stats.Total - stats.WithOrders
	return stats, nil
}

func (s *Service) ensureEmailAvailable(ctx context.Context, email string, selfID int64) error {
	clients, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	for _, client := range clients {
		if client.Entity.ID != selfID && client.Entity.SameEmail(email) {
			return fmt.Errorf("%w: %s", ErrDuplicateEmail, strings.ToLower(strings.TrimSpace(email)))
		}
	}
	return nil
}

func sortByName(clients []*ports.ClientProjection) {
	sort.SliceStable(clients, func(i, j int) bool {
		return strings.ToLower(clients[i].Entity.Name) < strings.ToLower(clients[j].Entity.Name)
	})
}

type noReferences struct{}

func (noReferences) CountByClient(context.Context, int64) (int, error) { return 0, nil }

var _ ports.Service = (*Service)(nil)
