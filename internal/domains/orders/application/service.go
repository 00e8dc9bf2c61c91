package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/ports"
)

const cancelNotePrefix = "[CANCELLED]"

// Service orchestrates order creation, line edits and the status lifecycle
// together with the stock reservations it implies. Mutating use cases run one
// at a time within a process; across processes the repository rejects writes
// based on a stale read with ErrStaleOrder, and applied stock moves are undone.
type Service struct {
	mu          sync.Mutex
	repo        ports.Repository
	catalog     ports.Catalog
	directory   ports.Directory
	idempotency ports.IdempotencyStore
	events      ports.EventPublisher
	now         func() time.Time
}

// Option customizes the service.
type Option func(*Service)

// WithIdempotencyStore enables replay-safe order creation.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

// WithEventPublisher ships domain events after successful writes.
func WithEventPublisher(publisher ports.EventPublisher) Option {
	return func(s *Service) {
		if publisher != nil {
			s.events = publisher
		}
	}
}

// WithClock overrides the time source used for creation timestamps and reports.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the order engine with its collaborators.
func NewService(repo ports.Repository, catalog ports.Catalog, directory ports.Directory, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		catalog:   catalog,
		directory: directory,
		events:    ports.NoopPublisher{},
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateOrder opens an empty pending order for an existing client. With an
// idempotency key the key is claimed for the new order id before the order is
// stored, so a replay or a concurrent duplicate resolves to the same order.
func (s *Service) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.TrimSpace(input.IdempotencyKey)
	var fingerprint string
	var id int64
	if key != "" && s.idempotency != nil {
		var err error
		fingerprint, err = FingerprintCreateOrder(input)
		if err != nil {
			return nil, err
		}
		existing, err := s.idempotency.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			if existing.RequestHash != fingerprint {
				return nil, fmt.Errorf("%w: key %q was used for a different request", ports.ErrIdempotencyConflict, key)
			}
			order, err := s.repo.GetByID(ctx, existing.OrderID)
			if !errors.Is(err, ports.ErrNotFound) {
				return order, err
			}
			// claimed earlier but never stored: finish it under the claimed id
			id = existing.OrderID
		}
	}

	client, err := s.directory.GetClient(ctx, input.ClientID)
	if err != nil {
		return nil, mapError(err)
	}
	if id == 0 {
		if id, err = s.repo.NextID(ctx); err != nil {
			return nil, err
		}
		if fingerprint != "" {
			if id, err = s.claimKey(ctx, key, fingerprint, id); err != nil {
				return nil, err
			}
		}
	}
	order, err := domain.NewOrder(id, *client, s.now(), input.Notes)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, order)
	if err != nil {
		if fingerprint != "" && errors.Is(err, ports.ErrStaleOrder) {
			return s.repo.GetByID(ctx, id)
		}
		return nil, err
	}
	s.publish(ctx, domain.OrderCreated{BaseEvent: s.baseEvent(saved.ID), ClientID: saved.Client.ID})
	return saved, nil
}

// claimKey ties key to id. When another request with the same payload claimed
// the key first, its order id is returned instead.
func (s *Service) claimKey(ctx context.Context, key, fingerprint string, id int64) (int64, error) {
	claimed, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{Key: key, RequestHash: fingerprint, OrderID: id})
	switch {
	case err == nil:
		return id, nil
	case !errors.Is(err, ports.ErrIdempotencyConflict):
		return 0, err
	case claimed != nil && claimed.RequestHash == fingerprint:
		return claimed.OrderID, nil
	default:
		return 0, fmt.Errorf("%w: key %q was used for a different request", ports.ErrIdempotencyConflict, key)
	}
}

// AddLine adds quantity units of a product, merging into an existing line.
// Availability is checked against the cumulative quantity on this order;
// stock itself is not touched.
func (s *Service) AddLine(ctx context.Context, orderID, productID int64, quantity int) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.CheckEditable(); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, mapError(domain.ErrInvalidQuantity)
	}
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, fmt.Errorf("%w: %q", ports.ErrProductInactive, product.Name)
	}
	requested := order.QuantityOf(productID) + quantity
	if requested > product.Stock {
		return nil, fmt.Errorf("%w: %q has %d in stock, order needs %d", ports.ErrInsufficientStock, product.Name, product.Stock, requested)
	}
	if err := order.AddLine(product.Snapshot(), quantity); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, order)
	if err != nil {
		return nil, err
	}
	line, _ := saved.Line(productID)
	s.publish(ctx, domain.OrderLineAdded{
		BaseEvent: s.baseEvent(saved.ID),
		ProductID: productID,
		Quantity:  quantity,
		LineTotal: line.Subtotal().StringFixed(2),
	})
	return saved, nil
}

// RemoveLine drops the whole line of a product. Units already reserved for
// that line go back to stock.
func (s *Service) RemoveLine(ctx context.Context, orderID, productID int64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	removed, err := order.RemoveLine(productID)
	if err != nil {
		return nil, mapError(err)
	}
	var moves []stockMove
	if removed.Reserved > 0 {
		move := stockMove{productID: productID, quantity: removed.Reserved}
		if err := s.applyMove(ctx, move); err != nil {
			return nil, err
		}
		moves = append(moves, move)
	}
	saved, err := s.repo.Save(ctx, order)
	if err != nil {
		return nil, errors.Join(err, s.compensate(ctx, moves))
	}
	s.publish(ctx, domain.OrderLineRemoved{
		BaseEvent: s.baseEvent(saved.ID),
		ProductID: productID,
		Quantity:  removed.Quantity,
		Released:  removed.Reserved,
	})
	return saved, nil
}

// ChangeStatus moves an order along the lifecycle, reserving or releasing stock
// as the transition requires. Reservation is all-or-nothing.
func (s *Service) ChangeStatus(ctx context.Context, input ports.ChangeStatusInput) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.repo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, order, input.Target, "")
}

// Cancel cancels an order that is neither delivered nor already cancelled and
// records the reason in the notes.
func (s *Service) Cancel(ctx context.Context, input ports.CancelInput) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.repo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status == domain.StatusDelivered || order.Status == domain.StatusCancelled {
		return nil, fmt.Errorf("%w: cannot cancel order in status %s", domain.ErrInvalidTransition, order.Status)
	}
	note := cancelNotePrefix
	if reason := strings.TrimSpace(input.Reason); reason != "" {
		note += " " + reason
	}
	return s.transition(ctx, order, domain.StatusCancelled, note)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) transition(ctx context.Context, order *domain.Order, target domain.Status, note string) (*domain.Order, error) {
	from := order.Status
	effect, err := domain.PlanTransition(from, target)
	if err != nil {
		return nil, mapError(err)
	}
	moves, err := s.applyStockEffect(ctx, order, effect)
	if err != nil {
		return nil, err
	}
	order.AppendNote(note)
	order.ApplyTransition(target, effect)
	saved, err := s.repo.Save(ctx, order)
	if err != nil {
		return nil, errors.Join(err, s.compensate(ctx, moves))
	}
	s.publish(ctx, domain.OrderStatusChanged{
		BaseEvent: s.baseEvent(saved.ID),
		From:      from,
		To:        target,
		Effect:    effect.String(),
		Reason:    note,
	})
	return saved, nil
}

func (s *Service) baseEvent(orderID int64) domain.BaseEvent {
	return domain.BaseEvent{OrderID: orderID, Timestamp: s.now()}
}

// publish never fails the use case; publishers report their own failures.
func (s *Service) publish(ctx context.Context, event domain.Event) {
	_ = s.events.Publish(ctx, event)
}

var _ ports.Service = (*Service)(nil)
