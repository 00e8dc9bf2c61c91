package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-gin-order-desk/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-order-desk/internal/domains/catalog/ports"
)

const tracerName = "github.com/Apurer/go-gin-order-desk/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
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

// New wraps the core catalog service.
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

func (s *Service) Create(ctx context.Context, details domain.Details) (*ports.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Create", trace.WithAttributes(attribute.String("product.name", details.Name)))
	defer span.End()

	s.logInfo(ctx, "creating product", slog.String("product.name", details.Name), slog.Int("product.stock", details.Stock))
	result, err := s.inner.Create(ctx, details)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create product", slog.String("product.name", details.Name))
	}
	span.SetAttributes(attribute.Int64("product.id", result.Entity.ID))
	s.logInfo(ctx, "product created", slog.Int64("product.id", result.Entity.ID))
	return result, nil
}

func (s *Service) Update(ctx context.Context, id int64, details domain.Details) (*ports.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Update", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	s.logInfo(ctx, "updating product", slog.Int64("product.id", id))
	result, err := s.inner.Update(ctx, id, details)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update product", slog.Int64("product.id", id))
	}
	return result, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*ports.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetByID", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	result, err := s.inner.GetByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load product", slog.Int64("product.id", id))
	}
	return result, nil
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]*ports.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.List", trace.WithAttributes(attribute.Bool("product.active_only", activeOnly)))
	defer span.End()

	result, err := s.inner.List(ctx, activeOnly)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list products")
	}
	span.SetAttributes(attribute.Int("product.count", len(result)))
	return result, nil
}

func (s *Service) SearchByName(ctx context.Context, term string) ([]*ports.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.SearchByName", trace.WithAttributes(attribute.String("search.term", term)))
	defer span.End()

	result, err := s.inner.SearchByName(ctx, term)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to search products")
	}
	span.SetAttributes(attribute.Int("product.count", len(result)))
	return result, nil
}

func (s *Service) LowStock(ctx context.Context, threshold int) ([]*ports.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.LowStock", trace.WithAttributes(attribute.Int("stock.threshold", threshold)))
	defer span.End()

	result, err := s.inner.LowStock(ctx, threshold)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list low stock products")
	}
	span.SetAttributes(attribute.Int("product.count", len(result)))
	return result, nil
}

func (s *Service) OutOfStock(ctx context.Context) ([]*ports.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.OutOfStock")
	defer span.End()

	result, err := s.inner.OutOfStock(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list out of stock products")
	}
	span.SetAttributes(attribute.Int("product.count", len(result)))
	return result, nil
}

func (s *Service) Activate(ctx context.Context, id int64) (*ports.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Activate", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	result, err := s.inner.Activate(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to activate product", slog.Int64("product.id", id))
	}
	s.logInfo(ctx, "product activated", slog.Int64("product.id", id))
	return result, nil
}

func (s *Service) Deactivate(ctx context.Context, id int64) (*ports.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Deactivate", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	result, err := s.inner.Deactivate(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to deactivate product", slog.Int64("product.id", id))
	}
	s.logInfo(ctx, "product deactivated", slog.Int64("product.id", id))
	return result, nil
}

func (s *Service) AdjustStock(ctx context.Context, id int64, amount int, mode domain.StockMode) (*ports.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.AdjustStock",
		trace.WithAttributes(attribute.Int64("product.id", id), attribute.Int("stock.amount", amount), attribute.String("stock.mode", string(mode))))
	defer span.End()

	s.logInfo(ctx, "adjusting stock", slog.Int64("product.id", id), slog.Int("stock.amount", amount), slog.String("stock.mode", string(mode)))
	result, err := s.inner.AdjustStock(ctx, id, amount, mode)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to adjust stock", slog.Int64("product.id", id), slog.String("stock.mode", string(mode)))
	}
	s.metrics.recordStockAdjustment(ctx, mode)
	s.logInfo(ctx, "stock adjusted", slog.Int64("product.id", id), slog.Int("product.stock", result.Entity.Stock))
	return result, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Delete", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	s.logInfo(ctx, "deleting product", slog.Int64("product.id", id))
	if err := s.inner.Delete(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete product", slog.Int64("product.id", id))
	}
	s.logInfo(ctx, "product deleted", slog.Int64("product.id", id))
	return nil
}

func (s *Service) Statistics(ctx context.Context, lowStockThreshold int) (*ports.Statistics, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Statistics")
	defer span.End()

	result, err := s.inner.Statistics(ctx, lowStockThreshold)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to compute catalog statistics")
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
	stockAdjustments metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	stockAdjustments, _ := m.Int64Counter("catalog.service.stock_adjustments", metric.WithDescription("Number of stock adjustments applied"))
	return serviceMetrics{stockAdjustments: stockAdjustments}
}

func (m serviceMetrics) recordStockAdjustment(ctx context.Context, mode domain.StockMode) {
	if m.stockAdjustments != nil {
		m.stockAdjustments.Add(ctx, 1, metric.WithAttributes(attribute.String("stock.mode", string(mode))))
	}
}

var _ ports.Service = (*Service)(nil)
