package observability

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-gin-order-desk/internal/domains/quotations/domain"
	"github.com/Apurer/go-gin-order-desk/internal/domains/quotations/ports"
)

const tracerName = "github.com/Apurer/go-gin-order-desk/internal/domains/quotations/adapters/observability/service"

// Service decorates the quotation service with tracing, logging, and metrics.
type Service struct {
	inner    ports.Service
	tracer   trace.Tracer
	logger   *slog.Logger
	outcomes metric.Int64Counter
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
		if m != nil {
			s.outcomes, _ = m.Int64Counter("quotations.service.outcomes", metric.WithDescription("Number of quotations leaving pending"))
		}
	}
}

func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{inner: inner}
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

func (s *Service) Create(ctx context.Context, input ports.CreateInput) (*domain.Quotation, error) {
	ctx, span := s.tracer.Start(ctx, "QuotationService.Create", trace.WithAttributes(attribute.Int64("client.id", input.ClientID)))
	defer span.End()

	result, err := s.inner.Create(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create quotation", slog.Int64("client.id", input.ClientID))
	}
	s.logInfo(ctx, "quotation created", slog.Int64("quotation.id", result.ID), slog.Int64("client.id", input.ClientID))
	return result, nil
}

func (s *Service) AddItem(ctx context.Context, input ports.AddItemInput) (*domain.Quotation, error) {
	ctx, span := s.tracer.Start(ctx, "QuotationService.AddItem", trace.WithAttributes(
		attribute.Int64("quotation.id", input.QuotationID),
		attribute.Int64("product.id", input.ProductID),
	))
	defer span.End()

	result, err := s.inner.AddItem(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add quotation item", slog.Int64("quotation.id", input.QuotationID))
	}
	return result, nil
}

func (s *Service) RemoveItem(ctx context.Context, quotationID, productID int64) (*domain.Quotation, error) {
	ctx, span := s.tracer.Start(ctx, "QuotationService.RemoveItem", trace.WithAttributes(attribute.Int64("quotation.id", quotationID)))
	defer span.End()

	result, err := s.inner.RemoveItem(ctx, quotationID, productID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to remove quotation item", slog.Int64("quotation.id", quotationID))
	}
	return result, nil
}

func (s *Service) SetDiscount(ctx context.Context, quotationID int64, percent decimal.Decimal) (*domain.Quotation, error) {
	ctx, span := s.tracer.Start(ctx, "QuotationService.SetDiscount", trace.WithAttributes(attribute.Int64("quotation.id", quotationID)))
	defer span.End()

	result, err := s.inner.SetDiscount(ctx, quotationID, percent)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to set quotation discount", slog.Int64("quotation.id", quotationID))
	}
	return result, nil
}

func (s *Service) ChangeStatus(ctx context.Context, quotationID int64, target domain.Status) (*domain.Quotation, error) {
	ctx, span := s.tracer.Start(ctx, "QuotationService.ChangeStatus", trace.WithAttributes(
		attribute.Int64("quotation.id", quotationID),
		attribute.String("status", string(target)),
	))
	defer span.End()

	result, err := s.inner.ChangeStatus(ctx, quotationID, target)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to change quotation status", slog.Int64("quotation.id", quotationID))
	}
	s.recordOutcome(ctx, result.Status, 1)
	s.logInfo(ctx, "quotation status changed", slog.Int64("quotation.id", quotationID), slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) Approve(ctx context.Context, quotationID int64) (*domain.Quotation, error) {
	return s.ChangeStatus(ctx, quotationID, domain.StatusApproved)
}

func (s *Service) Reject(ctx context.Context, quotationID int64) (*domain.Quotation, error) {
	return s.ChangeStatus(ctx, quotationID, domain.StatusRejected)
}

func (s *Service) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	ctx, span := s.tracer.Start(ctx, "QuotationService.ExpireOverdue")
	defer span.End()

	count, err := s.inner.ExpireOverdue(ctx, now)
	if err != nil {
		return count, s.handleError(ctx, span, err, "failed to expire quotations", slog.Int("quotation.expired", count))
	}
	span.SetAttributes(attribute.Int("quotation.expired", count))
	s.recordOutcome(ctx, domain.StatusExpired, int64(count))
	s.logInfo(ctx, "overdue quotations expired", slog.Int("quotation.expired", count))
	return count, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Quotation, error) {
	ctx, span := s.tracer.Start(ctx, "QuotationService.GetByID", trace.WithAttributes(attribute.Int64("quotation.id", id)))
	defer span.End()

	result, err := s.inner.GetByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load quotation", slog.Int64("quotation.id", id))
	}
	return result, nil
}

func (s *Service) List(ctx context.Context) ([]*domain.Quotation, error) {
	return s.list(ctx, "QuotationService.List", func(ctx context.Context) ([]*domain.Quotation, error) {
		return s.inner.List(ctx)
	})
}

func (s *Service) ListByClient(ctx context.Context, clientID int64) ([]*domain.Quotation, error) {
	return s.list(ctx, "QuotationService.ListByClient", func(ctx context.Context) ([]*domain.Quotation, error) {
		return s.inner.ListByClient(ctx, clientID)
	})
}

func (s *Service) ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Quotation, error) {
	return s.list(ctx, "QuotationService.ListByStatus", func(ctx context.Context) ([]*domain.Quotation, error) {
		return s.inner.ListByStatus(ctx, status)
	})
}

func (s *Service) ListByPeriod(ctx context.Context, from, to time.Time) ([]*domain.Quotation, error) {
	return s.list(ctx, "QuotationService.ListByPeriod", func(ctx context.Context) ([]*domain.Quotation, error) {
		return s.inner.ListByPeriod(ctx, from, to)
	})
}

func (s *Service) Statistics(ctx context.Context) (*ports.Statistics, error) {
	ctx, span := s.tracer.Start(ctx, "QuotationService.Statistics")
	defer span.End()

	result, err := s.inner.Statistics(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to compute quotation statistics")
	}
	return result, nil
}

func (s *Service) list(ctx context.Context, name string, fn func(context.Context) ([]*domain.Quotation, error)) ([]*domain.Quotation, error) {
	ctx, span := s.tracer.Start(ctx, name)
	defer span.End()

	result, err := fn(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list quotations")
	}
	span.SetAttributes(attribute.Int("quotation.count", len(result)))
	return result, nil
}

func (s *Service) recordOutcome(ctx context.Context, status domain.Status, n int64) {
	if s.outcomes != nil && n > 0 {
		s.outcomes.Add(ctx, n, metric.WithAttributes(attribute.String("status", string(status))))
	}
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

var _ ports.Service = (*Service)(nil)
