package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/adapters/memory"
	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/ports"
)

type fakeCatalog struct {
	products    map[int64]*ports.Product
	failReserve map[int64]error
}

func newFakeCatalog(products ...ports.Product) *fakeCatalog {
	c := &fakeCatalog{products: map[int64]*ports.Product{}, failReserve: map[int64]error{}}
	for i := range products {
		p := products[i]
		c.products[p.ID] = &p
	}
	return c
}

func (c *fakeCatalog) GetProduct(_ context.Context, id int64) (*ports.Product, error) {
	p, ok := c.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ports.ErrProductNotFound, id)
	}
	copy := *p
	return &copy, nil
}

func (c *fakeCatalog) Reserve(_ context.Context, id int64, quantity int) error {
	if err := c.failReserve[id]; err != nil {
		return err
	}
	p, ok := c.products[id]
	if !ok {
		return ports.ErrProductNotFound
	}
	if p.Stock < quantity {
		return ports.ErrInsufficientStock
	}
	p.Stock -= quantity
	return nil
}

func (c *fakeCatalog) Release(_ context.Context, id int64, quantity int) error {
	p, ok := c.products[id]
	if !ok {
		return ports.ErrProductNotFound
	}
	p.Stock += quantity
	return nil
}

func (c *fakeCatalog) stock(id int64) int {
	return c.products[id].Stock
}

type fakeDirectory map[int64]domain.ClientSnapshot

func (d fakeDirectory) GetClient(_ context.Context, id int64) (*domain.ClientSnapshot, error) {
	client, ok := d[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ports.ErrClientNotFound, id)
	}
	return &client, nil
}

type recordingPublisher struct {
	events []domain.Event
}

func (p *recordingPublisher) Publish(_ context.Context, events ...domain.Event) error {
	p.events = append(p.events, events...)
	return errors.New("broker unavailable")
}

func (p *recordingPublisher) names() []string {
	names := make([]string, 0, len(p.events))
	for _, e := range p.events {
		names = append(names, e.EventName())
	}
	return names
}

type failingSaveRepo struct {
	*memory.Repository
	fail bool
}

func (r *failingSaveRepo) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if r.fail {
		return nil, errors.New("disk full")
	}
	return r.Repository.Save(ctx, order)
}

// interleavingRepo runs another writer right before the next Save, the way a
// second process can commit between this one's read and write.
type interleavingRepo struct {
	ports.Repository
	beforeSave func()
}

func (r *interleavingRepo) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if hook := r.beforeSave; hook != nil {
		r.beforeSave = nil
		hook()
	}
	return r.Repository.Save(ctx, order)
}

// forgetfulKeys hides stored keys from Get, as a replica sees them when it
// checks a key just before another replica claims it.
type forgetfulKeys struct {
	ports.IdempotencyStore
}

func (forgetfulKeys) Get(context.Context, string) (*ports.IdempotencyRecord, error) {
	return nil, nil
}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

type fixture struct {
	svc       *Service
	catalog   *fakeCatalog
	repo      *failingSaveRepo
	publisher *recordingPublisher
	clock     *clock
}

func newFixture(products ...ports.Product) *fixture {
	f := &fixture{
		catalog:   newFakeCatalog(products...),
		repo:      &failingSaveRepo{Repository: memory.NewRepository()},
		publisher: &recordingPublisher{},
		clock:     &clock{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)},
	}
	directory := fakeDirectory{
		1: {ID: 1, Name: "Ana Souza", Email: "ana@example.com"},
		2: {ID: 2, Name: "Bruno Lima", Email: "bruno@example.com"},
	}
	f.svc = NewService(f.repo, f.catalog, directory,
		WithIdempotencyStore(memory.NewIdempotencyStore()),
		WithEventPublisher(f.publisher),
		WithClock(f.clock.Now),
	)
	return f
}

func product(id int64, name, price string, stock int) ports.Product {
	return ports.Product{ID: id, Name: name, Price: decimal.RequireFromString(price), Stock: stock, Active: true}
}

func (f *fixture) createOrder(t *testing.T, clientID int64) *domain.Order {
	t.Helper()
	order, err := f.svc.CreateOrder(context.Background(), ports.CreateOrderInput{ClientID: clientID})
	require.NoError(t, err)
	return order
}

func (f *fixture) advance(t *testing.T, orderID int64, statuses ...domain.Status) {
	t.Helper()
	for _, status := range statuses {
		_, err := f.svc.ChangeStatus(context.Background(), ports.ChangeStatusInput{OrderID: orderID, Target: status})
		require.NoError(t, err)
	}
}

func TestOrderLifecycleReservesAndReleasesStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(product(1, "P1", "20.00", 10))

	order := f.createOrder(t, 1)
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Equal(t, "0.00", order.Total().StringFixed(2))

	order, err := f.svc.AddLine(ctx, order.ID, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, "80.00", order.Total().StringFixed(2))
	assert.Equal(t, 10, f.catalog.stock(1))

	order, err = f.svc.ChangeStatus(ctx, ports.ChangeStatusInput{OrderID: order.ID, Target: domain.StatusProcessing})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, order.Status)
	assert.Equal(t, 6, f.catalog.stock(1))
	assert.Equal(t, 4, order.Lines[0].Reserved)

	order, err = f.svc.ChangeStatus(ctx, ports.ChangeStatusInput{OrderID: order.ID, Target: domain.StatusCancelled})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, order.Status)
	assert.Equal(t, 10, f.catalog.stock(1))

	_, err = f.svc.AddLine(ctx, order.ID, 1, 1)
	require.ErrorIs(t, err, domain.ErrOrderNotEditable)
	assert.Contains(t, err.Error(), "cannot edit")

	assert.Equal(t, []string{
		"orders.order.created",
		"orders.order.line_added",
		"orders.order.status_changed",
		"orders.order.status_changed",
	}, f.publisher.names())
}

func TestShippingKeepsStockDeducted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(product(1, "P1", "20.00", 10))
	order := f.createOrder(t, 1)
	_, err := f.svc.AddLine(ctx, order.ID, 1, 3)
	require.NoError(t, err)

	f.advance(t, order.ID, domain.StatusProcessing, domain.StatusShipped, domain.StatusDelivered)
	assert.Equal(t, 7, f.catalog.stock(1))

	_, err = f.svc.ChangeStatus(ctx, ports.ChangeStatusInput{OrderID: order.ID, Target: domain.StatusCancelled})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.svc.Cancel(ctx, ports.CancelInput{OrderID: order.ID, Reason: "late"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, 7, f.catalog.stock(1))
}

func TestChangeStatusRejectsSkippedAndUnknownStatuses(t *testing.T) {
	ctx := context.Background()
	f := newFixture(product(1, "P1", "20.00", 10))
	order := f.createOrder(t, 1)

	_, err := f.svc.ChangeStatus(ctx, ports.ChangeStatusInput{OrderID: order.ID, Target: domain.StatusShipped})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.svc.ChangeStatus(ctx, ports.ChangeStatusInput{OrderID: order.ID, Target: domain.Status("lost")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.ChangeStatus(ctx, ports.ChangeStatusInput{OrderID: 404, Target: domain.StatusProcessing})
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestReservationIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(product(1, "P1", "20.00", 10), product(2, "P2", "5.00", 3))
	order := f.createOrder(t, 1)
	_, err := f.svc.AddLine(ctx, order.ID, 1, 4)
	require.NoError(t, err)
	_, err = f.svc.AddLine(ctx, order.ID, 2, 2)
	require.NoError(t, err)

	f.catalog.products[2].Stock = 1

	_, err = f.svc.ChangeStatus(ctx, ports.ChangeStatusInput{OrderID: order.ID, Target: domain.StatusProcessing})
	require.ErrorIs(t, err, ports.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "P2")
	assert.Equal(t, 10, f.catalog.stock(1))
	assert.Equal(t, 1, f.catalog.stock(2))

	stored, err := f.svc.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
}

func TestReservationCompensatesWhenDeductionFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(product(1, "P1", "20.00", 10), product(2, "P2", "5.00", 3))
	order := f.createOrder(t, 1)
	_, err := f.svc.AddLine(ctx, order.ID, 1, 4)
	require.NoError(t, err)
	_, err = f.svc.AddLine(ctx, order.ID, 2, 2)
	require.NoError(t, err)

	f.catalog.failReserve[2] = errors.New("catalog offline")

	_, err = f.svc.ChangeStatus(ctx, ports.ChangeStatusInput{OrderID: order.ID, Target: domain.StatusProcessing})
	require.Error(t, err)
	assert.Equal(t, 10, f.catalog.stock(1))
	assert.Equal(t, 3, f.catalog.stock(2))
}

func TestReservationCompensatesWhenSaveFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(product(1, "P1", "20.00", 10))
	order := f.createOrder(t, 1)
	_, err := f.svc.AddLine(ctx, order.ID, 1, 4)
	require.NoError(t, err)

	f.repo.fail = true
	_, err = f.svc.ChangeStatus(ctx, ports.ChangeStatusInput{OrderID: order.ID, Target: domain.StatusProcessing})
	require.Error(t, err)
	assert.Equal(t, 10, f.catalog.stock(1))
}

func TestAddLineChecksCumulativeStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(product(1, "P1", "20.00", 5))
	order := f.createOrder(t, 1)

	order, err := f.svc.AddLine(ctx, order.ID, 1, 3)
	require.NoError(t, err)
	_, err = f.svc.AddLine(ctx, order.ID, 1, 3)
	assert.ErrorIs(t, err, ports.ErrInsufficientStock)

	order, err = f.svc.AddLine(ctx, order.ID, 1, 2)
	require.NoError(t, err)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, 5, order.Lines[0].Quantity)
	assert.Equal(t, 5, f.catalog.stock(1))
}

func TestAddLineValidatesInput(t *testing.T) {
	ctx := context.Background()
	inactive := product(2, "Old", "1.00", 10)
	inactive.Active = false
	f := newFixture(product(1, "P1", "20.00", 5), inactive)
	order := f.createOrder(t, 1)

	_, err := f.svc.AddLine(ctx, order.ID, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.svc.AddLine(ctx, order.ID, 2, 1)
	assert.ErrorIs(t, err, ports.ErrProductInactive)
	_, err = f.svc.AddLine(ctx, order.ID, 9, 1)
	assert.ErrorIs(t, err, ports.ErrProductNotFound)
	_, err = f.svc.AddLine(ctx, 404, 1, 1)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestUnitPriceIsCapturedAtAddTime(t *testing.T) {
	ctx := context.Background()
	f := newFixture(product(1, "P1", "20.00", 10))
	order := f.createOrder(t, 1)
	_, err := f.svc.AddLine(ctx, order.ID, 1, 2)
	require.NoError(t, err)

	f.catalog.products[1].Price = decimal.RequireFromString("25.00")

	order, err = f.svc.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "40.00", order.Total().StringFixed(2))
}

func TestProcessingOrderEditsTrackReservations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(product(1, "P1", "20.00", 10), product(2, "P2", "5.00", 10))
	order := f.createOrder(t, 1)
	_, err := f.svc.AddLine(ctx, order.ID, 1, 4)
	require.NoError(t, err)
	f.advance(t, order.ID, domain.StatusProcessing)
	assert.Equal(t, 6, f.catalog.stock(1))

	order, err = f.svc.AddLine(ctx, order.ID, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 10, f.catalog.stock(2))
	line, ok := order.Line(2)
	require.True(t, ok)
	assert.Zero(t, line.Reserved)

	order, err = f.svc.RemoveLine(ctx, order.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 10, f.catalog.stock(1))
	assert.False(t, order.ContainsProduct(1))

	_, err = f.svc.Cancel(ctx, ports.CancelInput{OrderID: order.ID})
	require.NoError(t, err)
	assert.Equal(t, 10, f.catalog.stock(1))
	assert.Equal(t, 10, f.catalog.stock(2))

	_, err = f.svc.RemoveLine(ctx, order.ID, 2)
	assert.ErrorIs(t, err, domain.ErrOrderNotEditable)
}

func TestRemoveLineMissingProduct(t *testing.T) {
	f := newFixture(product(1, "P1", "20.00", 10))
	order := f.createOrder(t, 1)
	_, err := f.svc.RemoveLine(context.Background(), order.ID, 1)
	assert.ErrorIs(t, err, domain.ErrLineNotFound)
}

func TestCancelAppendsReason(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	order, err := f.svc.CreateOrder(ctx, ports.CreateOrderInput{ClientID: 1, Notes: "rush"})
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, ports.CancelInput{OrderID: order.ID, Reason: "client changed mind"})
	require.NoError(t, err)
	assert.Equal(t, "rush\n[CANCELLED] client changed mind", cancelled.Notes)

	stored, err := f.svc.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, cancelled.Notes, stored.Notes)

	_, err = f.svc.Cancel(ctx, ports.CancelInput{OrderID: order.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCreateOrderRequiresKnownClient(t *testing.T) {
	f := newFixture()
	_, err := f.svc.CreateOrder(context.Background(), ports.CreateOrderInput{ClientID: 99})
	assert.ErrorIs(t, err, ports.ErrClientNotFound)
}

func TestCreateOrderIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	input := ports.CreateOrderInput{ClientID: 1, Notes: "first", IdempotencyKey: "abc"}

	first, err := f.svc.CreateOrder(ctx, input)
	require.NoError(t, err)
	replay, err := f.svc.CreateOrder(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, first.ID, replay.ID)

	all, err := f.svc.List(ctx, ports.SortByDateDesc)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	input.Notes = "second"
	_, err = f.svc.CreateOrder(ctx, input)
	assert.ErrorIs(t, err, ports.ErrIdempotencyConflict)
}

func TestCreateOrderFromRacingReplicasYieldsOneOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	keys := memory.NewIdempotencyStore()
	directory := fakeDirectory{1: {ID: 1, Name: "Ana Souza", Email: "ana@example.com"}}
	first := NewService(f.repo, f.catalog, directory, WithIdempotencyStore(keys))
	second := NewService(f.repo, f.catalog, directory, WithIdempotencyStore(forgetfulKeys{keys}))
	input := ports.CreateOrderInput{ClientID: 1, Notes: "first", IdempotencyKey: "abc"}

	winner, err := first.CreateOrder(ctx, input)
	require.NoError(t, err)
	loser, err := second.CreateOrder(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, winner.ID, loser.ID)

	all, err := f.repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	input.Notes = "second"
	_, err = second.CreateOrder(ctx, input)
	assert.ErrorIs(t, err, ports.ErrIdempotencyConflict)
}

func TestCreateOrderRetryFinishesClaimedKey(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	input := ports.CreateOrderInput{ClientID: 2, IdempotencyKey: "retry-me"}

	f.repo.fail = true
	_, err := f.svc.CreateOrder(ctx, input)
	require.Error(t, err)

	f.repo.fail = false
	order, err := f.svc.CreateOrder(ctx, input)
	require.NoError(t, err)
	replay, err := f.svc.CreateOrder(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, order.ID, replay.ID)

	all, err := f.repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestEmptyOrderMovesToProcessingWithoutTouchingStock(t *testing.T) {
	f := newFixture(product(1, "P1", "20.00", 10))
	order := f.createOrder(t, 1)

	updated, err := f.svc.ChangeStatus(context.Background(), ports.ChangeStatusInput{OrderID: order.ID, Target: domain.StatusProcessing})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, updated.Status)
	assert.Empty(t, updated.Lines)
	assert.Equal(t, 10, f.catalog.stock(1))
}

// raceFixture wires an API-side and a worker-side service to one store, each
// with its own in-process lock.
func raceFixture(t *testing.T) (api, worker *Service, shared *interleavingRepo, catalog *fakeCatalog, orderID int64) {
	t.Helper()
	ctx := context.Background()
	catalog = newFakeCatalog(product(1, "P1", "20.00", 10))
	repo := memory.NewRepository()
	shared = &interleavingRepo{Repository: repo}
	directory := fakeDirectory{1: {ID: 1, Name: "Ana Souza", Email: "ana@example.com"}}
	api = NewService(shared, catalog, directory)
	worker = NewService(repo, catalog, directory)

	order, err := api.CreateOrder(ctx, ports.CreateOrderInput{ClientID: 1})
	require.NoError(t, err)
	_, err = api.AddLine(ctx, order.ID, 1, 4)
	require.NoError(t, err)
	_, err = worker.ChangeStatus(ctx, ports.ChangeStatusInput{OrderID: order.ID, Target: domain.StatusProcessing})
	require.NoError(t, err)
	require.Equal(t, 6, catalog.stock(1))
	return api, worker, shared, catalog, order.ID
}

func TestAddLineLosesToConcurrentCancel(t *testing.T) {
	ctx := context.Background()
	api, worker, shared, catalog, orderID := raceFixture(t)

	shared.beforeSave = func() {
		_, err := worker.Cancel(ctx, ports.CancelInput{OrderID: orderID, Reason: "client changed mind"})
		require.NoError(t, err)
	}
	_, err := api.AddLine(ctx, orderID, 1, 2)
	require.ErrorIs(t, err, ports.ErrStaleOrder)

	stored, err := api.GetByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, stored.Status)
	assert.Equal(t, 4, stored.QuantityOf(1))
	assert.Equal(t, 10, catalog.stock(1))

	_, err = worker.Cancel(ctx, ports.CancelInput{OrderID: orderID})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, 10, catalog.stock(1))
}

func TestRemoveLineLosesToConcurrentCancel(t *testing.T) {
	ctx := context.Background()
	api, worker, shared, catalog, orderID := raceFixture(t)

	shared.beforeSave = func() {
		_, err := worker.Cancel(ctx, ports.CancelInput{OrderID: orderID})
		require.NoError(t, err)
	}
	_, err := api.RemoveLine(ctx, orderID, 1)
	require.ErrorIs(t, err, ports.ErrStaleOrder)

	stored, err := api.GetByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, stored.Status)
	assert.Equal(t, 10, catalog.stock(1))
}

func TestListingAndFilters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(product(1, "P1", "20.00", 100))
	start := f.clock.now

	a := f.createOrder(t, 2)
	f.clock.now = start.Add(24 * time.Hour)
	b := f.createOrder(t, 1)
	f.clock.now = start.Add(48 * time.Hour)
	c := f.createOrder(t, 1)

	_, err := f.svc.AddLine(ctx, a.ID, 1, 1)
	require.NoError(t, err)
	_, err = f.svc.AddLine(ctx, c.ID, 1, 5)
	require.NoError(t, err)
	f.advance(t, b.ID, domain.StatusProcessing)

	ids := func(orders []*domain.Order) []int64 {
		out := make([]int64, 0, len(orders))
		for _, o := range orders {
			out = append(out, o.ID)
		}
		return out
	}

	byDate, err := f.svc.List(ctx, ports.SortByDateDesc)
	require.NoError(t, err)
	assert.Equal(t, []int64{c.ID, b.ID, a.ID}, ids(byDate))

	byClient, err := f.svc.List(ctx, ports.SortByClientName)
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID, c.ID, a.ID}, ids(byClient))

	byStatus, err := f.svc.List(ctx, ports.SortByStatus)
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID, c.ID, b.ID}, ids(byStatus))

	byTotal, err := f.svc.List(ctx, ports.SortByTotalDesc)
	require.NoError(t, err)
	assert.Equal(t, []int64{c.ID, a.ID, b.ID}, ids(byTotal))

	_, err = f.svc.List(ctx, ports.SortKey("price"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	forClient, err := f.svc.ListByClient(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{c.ID, b.ID}, ids(forClient))

	processing, err := f.svc.ListByStatus(ctx, domain.StatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID}, ids(processing))

	inRange, err := f.svc.ListByPeriod(ctx, start, start.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID, a.ID}, ids(inRange))

	_, err = f.svc.ListByPeriod(ctx, start, start.Add(-time.Hour))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseSortKey(t *testing.T) {
	key, err := ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, ports.SortByDateDesc, key)

	key, err = ParseSortKey(" Total ")
	require.NoError(t, err)
	assert.Equal(t, ports.SortByTotalDesc, key)

	_, err = ParseSortKey("name")
	assert.ErrorIs(t, err, ErrInvalidSortKey)
}

func TestStatisticsCountOnlyDeliveredRevenue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(product(1, "P1", "20.00", 100), product(2, "P2", "3.00", 100))

	o1 := f.createOrder(t, 1)
	_, err := f.svc.AddLine(ctx, o1.ID, 1, 2)
	require.NoError(t, err)
	f.advance(t, o1.ID, domain.StatusProcessing, domain.StatusShipped, domain.StatusDelivered)

	o2 := f.createOrder(t, 2)
	_, err = f.svc.AddLine(ctx, o2.ID, 2, 5)
	require.NoError(t, err)
	f.advance(t, o2.ID, domain.StatusProcessing, domain.StatusShipped, domain.StatusDelivered)

	o3 := f.createOrder(t, 2)
	_, err = f.svc.AddLine(ctx, o3.ID, 1, 10)
	require.NoError(t, err)

	o4 := f.createOrder(t, 1)
	_, err = f.svc.Cancel(ctx, ports.CancelInput{OrderID: o4.ID})
	require.NoError(t, err)

	stats, err := f.svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalOrders)
	assert.Equal(t, 2, stats.CountByStatus[domain.StatusDelivered])
	assert.Equal(t, 1, stats.CountByStatus[domain.StatusPending])
	assert.Equal(t, 1, stats.CountByStatus[domain.StatusCancelled])
	assert.Equal(t, 0, stats.CountByStatus[domain.StatusShipped])
	assert.Equal(t, "55.00", stats.Revenue.StringFixed(2))
	assert.Equal(t, 2, stats.DeliveredOrders)
	assert.Equal(t, "27.50", stats.AverageOrderValue.StringFixed(2))
	assert.Equal(t, "55.00", stats.RevenueByMonth["2026-03"].StringFixed(2))

	require.NotNil(t, stats.TopClient)
	assert.Equal(t, int64(1), stats.TopClient.ClientID)
	assert.Equal(t, 2, stats.TopClient.Orders)

	require.NotNil(t, stats.TopProduct)
	assert.Equal(t, int64(2), stats.TopProduct.ProductID)
	assert.Equal(t, 5, stats.TopProduct.Quantity)
}

func TestStatisticsWithoutOrders(t *testing.T) {
	f := newFixture()
	stats, err := f.svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalOrders)
	assert.True(t, stats.AverageOrderValue.IsZero())
	assert.Nil(t, stats.TopClient)
	assert.Nil(t, stats.TopProduct)
}

func TestSalesReportCoversTrailingWindow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(product(1, "P1", "20.00", 100), product(2, "P2", "3.00", 100))
	now := f.clock.now

	deliver := func(createdAt time.Time, productID int64, qty int) {
		f.clock.now = createdAt
		order := f.createOrder(t, 1)
		_, err := f.svc.AddLine(ctx, order.ID, productID, qty)
		require.NoError(t, err)
		f.advance(t, order.ID, domain.StatusProcessing, domain.StatusShipped, domain.StatusDelivered)
	}
	deliver(now.AddDate(0, 0, -1), 1, 1)
	deliver(now.AddDate(0, 0, -1), 2, 4)
	deliver(now.AddDate(0, 0, -3), 2, 2)
	deliver(now.AddDate(0, 0, -30), 1, 9)

	f.clock.now = now.AddDate(0, 0, -2)
	f.createOrder(t, 2)
	f.clock.now = now

	report, err := f.svc.SalesReport(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Orders)
	assert.Equal(t, "38.00", report.Revenue.StringFixed(2))
	assert.Equal(t, "12.67", report.AverageTicket.StringFixed(2))
	require.Len(t, report.Daily, 2)
	assert.Equal(t, "2026-03-09", report.Daily[0].Date)
	assert.Equal(t, 2, report.Daily[0].Orders)
	assert.Equal(t, "2026-03-07", report.Daily[1].Date)
	require.Len(t, report.TopProducts, 2)
	assert.Equal(t, int64(2), report.TopProducts[0].ProductID)
	assert.Equal(t, 6, report.TopProducts[0].Quantity)
	assert.Equal(t, "18.00", report.TopProducts[0].Revenue.StringFixed(2))

	_, err = f.svc.SalesReport(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
