package observability

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/go-gin-order-desk/internal/domains/orders/adapters/observability/service"

// Service decorates the order engine with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core order service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateOrder", trace.WithAttributes(
		attribute.Int64("client.id", input.ClientID),
		attribute.Bool("idempotency.key_present", input.IdempotencyKey != ""),
	))
	defer span.End()

	s.logInfo(ctx, "creating order", slog.Int64("client.id", input.ClientID))
	result, err := s.inner.CreateOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create order", slog.Int64("client.id", input.ClientID))
	}
	span.SetAttributes(attribute.Int64("order.id", result.ID))
	s.metrics.recordOrderCreated(ctx)
	s.logInfo(ctx, "order created", slog.Int64("order.id", result.ID), slog.Int64("client.id", input.ClientID))
	return result, nil
}

func (s *Service) AddLine(ctx context.Context, orderID, productID int64, quantity int) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.AddLine", trace.WithAttributes(
		attribute.Int64("order.id", orderID),
		attribute.Int64("product.id", productID),
		attribute.Int("line.quantity", quantity),
	))
	defer span.End()

	s.logInfo(ctx, "adding order line", slog.Int64("order.id", orderID), slog.Int64("product.id", productID), slog.Int("line.quantity", quantity))
	result, err := s.inner.AddLine(ctx, orderID, productID, quantity)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add order line", slog.Int64("order.id", orderID), slog.Int64("product.id", productID))
	}
	s.metrics.recordLineMutation(ctx, "add")
	span.SetAttributes(attribute.String("order.total", result.Total().StringFixed(2)))
	return result, nil
}

func (s *Service) RemoveLine(ctx context.Context, orderID, productID int64) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.RemoveLine", trace.WithAttributes(
		attribute.Int64("order.id", orderID),
		attribute.Int64("product.id", productID),
	))
	defer span.End()

	s.logInfo(ctx, "removing order line", slog.Int64("order.id", orderID), slog.Int64("product.id", productID))
	result, err := s.inner.RemoveLine(ctx, orderID, productID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to remove order line", slog.Int64("order.id", orderID), slog.Int64("product.id", productID))
	}
	s.metrics.recordLineMutation(ctx, "remove")
	return result, nil
}

func (s *Service) ChangeStatus(ctx context.Context, input ports.ChangeStatusInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ChangeStatus", trace.WithAttributes(
		attribute.Int64("order.id", input.OrderID),
		attribute.String("status", string(input.Target)),
	))
	defer span.End()

	s.logInfo(ctx, "changing order status", slog.Int64("order.id", input.OrderID), slog.String("status", string(input.Target)))
	result, err := s.inner.ChangeStatus(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to change order status", slog.Int64("order.id", input.OrderID), slog.String("status", string(input.Target)))
	}
	s.metrics.recordTransition(ctx, result.Status)
	s.logInfo(ctx, "order status changed", slog.Int64("order.id", result.ID), slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) Cancel(ctx context.Context, input ports.CancelInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Cancel", trace.WithAttributes(attribute.Int64("order.id", input.OrderID)))
	defer span.End()

	s.logInfo(ctx, "cancelling order", slog.Int64("order.id", input.OrderID), slog.String("reason", input.Reason))
	result, err := s.inner.Cancel(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to cancel order", slog.Int64("order.id", input.OrderID))
	}
	s.metrics.recordTransition(ctx, result.Status)
	s.logInfo(ctx, "order cancelled", slog.Int64("order.id", result.ID))
	return result, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	result, err := s.inner.GetByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	return result, nil
}

func (s *Service) List(ctx context.Context, sortBy ports.SortKey) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.List", trace.WithAttributes(attribute.String("sort", string(sortBy))))
	defer span.End()

	result, err := s.inner.List(ctx, sortBy)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("order.count", len(result)))
	return result, nil
}

func (s *Service) ListByClient(ctx context.Context, clientID int64) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListByClient", trace.WithAttributes(attribute.Int64("client.id", clientID)))
	defer span.End()

	result, err := s.inner.ListByClient(ctx, clientID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list client orders", slog.Int64("client.id", clientID))
	}
	span.SetAttributes(attribute.Int("order.count", len(result)))
	return result, nil
}

func (s *Service) ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListByStatus", trace.WithAttributes(attribute.String("status", string(status))))
	defer span.End()

	result, err := s.inner.ListByStatus(ctx, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders by status", slog.String("status", string(status)))
	}
	span.SetAttributes(attribute.Int("order.count", len(result)))
	return result, nil
}

func (s *Service) ListByPeriod(ctx context.Context, from, to time.Time) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListByPeriod", trace.WithAttributes(
		attribute.String("period.from", from.Format(time.RFC3339)),
		attribute.String("period.to", to.Format(time.RFC3339)),
	))
	defer span.End()

	result, err := s.inner.ListByPeriod(ctx, from, to)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders by period")
	}
	span.SetAttributes(attribute.Int("order.count", len(result)))
	return result, nil
}

func (s *Service) Statistics(ctx context.Context) (*ports.Statistics, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Statistics")
	defer span.End()

	result, err := s.inner.Statistics(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to compute order statistics")
	}
	return result, nil
}

func (s *Service) SalesReport(ctx context.Context, days int) (*ports.SalesReport, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.SalesReport", trace.WithAttributes(attribute.Int("report.days", days)))
	defer span.End()

	result, err := s.inner.SalesReport(ctx, days)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to build sales report", slog.Int("report.days", days))
	}
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	ordersCreated     metric.Int64Counter
	statusTransitions metric.Int64Counter
	linesMutated      metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersCreated, _ := m.Int64Counter("orders.service.orders_created", metric.WithDescription("Number of orders opened"))
	statusTransitions, _ := m.Int64Counter("orders.service.status_transitions", metric.WithDescription("Number of order status transitions"))
	linesMutated, _ := m.Int64Counter("orders.service.lines_mutated", metric.WithDescription("Number of order line additions and removals"))
	return serviceMetrics{
		ordersCreated:     ordersCreated,
		statusTransitions: statusTransitions,
		linesMutated:      linesMutated,
	}
}

func (m serviceMetrics) recordOrderCreated(ctx context.Context) {
	if m.ordersCreated != nil {
		m.ordersCreated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordTransition(ctx context.Context, to domain.Status) {
	if m.statusTransitions != nil {
		m.statusTransitions.Add(ctx, 1, metric.WithAttributes(attribute.String("to", string(to))))
	}
}

func (m serviceMetrics) recordLineMutation(ctx context.Context, op string) {
	if m.linesMutated != nil {
		m.linesMutated.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
	}
}

var _ ports.Service = (*Service)(nil)
