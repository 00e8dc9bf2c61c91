package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-gin-order-desk/internal/domains/clients/domain"
	"github.com/Apurer/go-gin-order-desk/internal/domains/clients/ports"
)

const tracerName = "github.com/Apurer/go-gin-order-desk/internal/domains/clients/adapters/observability/service"

// Service decorates the client directory with tracing, logging, and metrics.
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

// New wraps the core client service.
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

func (s *Service) Register(ctx context.Context, profile domain.Profile) (*ports.ClientProjection, error) {
	ctx, span := s.tracer.Start(ctx, "ClientService.Register")
	defer span.End()

	s.logInfo(ctx, "registering client", slog.String("client.name", profile.Name))
	result, err := s.inner.Register(ctx, profile)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register client")
	}
	span.SetAttributes(attribute.Int64("client.id", result.Entity.ID))
	s.metrics.recordRegistered(ctx)
	s.logInfo(ctx, "client registered", slog.Int64("client.id", result.Entity.ID))
	return result, nil
}

func (s *Service) Update(ctx context.Context, id int64, profile domain.Profile) (*ports.ClientProjection, error) {
	ctx, span := s.tracer.Start(ctx, "ClientService.Update", trace.WithAttributes(attribute.Int64("client.id", id)))
	defer span.End()

	s.logInfo(ctx, "updating client", slog.Int64("client.id", id))
	result, err := s.inner.Update(ctx, id, profile)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update client", slog.Int64("client.id", id))
	}
	return result, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*ports.ClientProjection, error) {
	ctx, span := s.tracer.Start(ctx, "ClientService.GetByID", trace.WithAttributes(attribute.Int64("client.id", id)))
	defer span.End()

	result, err := s.inner.GetByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load client", slog.Int64("client.id", id))
	}
	return result, nil
}

func (s *Service) List(ctx context.Context) ([]*ports.ClientProjection, error) {
	ctx, span := s.tracer.Start(ctx, "ClientService.List")
	defer span.End()

	result, err := s.inner.List(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list clients")
	}
	span.SetAttributes(attribute.Int("client.count", len(result)))
	return result, nil
}

func (s *Service) SearchByName(ctx context.Context, term string) ([]*ports.ClientProjection, error) {
	ctx, span := s.tracer.Start(ctx, "ClientService.SearchByName", trace.WithAttributes(attribute.String("search.term", term)))
	defer span.End()

	result, err := s.inner.SearchByName(ctx, term)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to search clients")
	}
	span.SetAttributes(attribute.Int("client.count", len(result)))
	return result, nil
}

func (s *Service) FindByEmail(ctx context.Context, email string) (*ports.ClientProjection, error) {
	ctx, span := s.tracer.Start(ctx, "ClientService.FindByEmail")
	defer span.End()

	result, err := s.inner.FindByEmail(ctx, email)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to find client by email")
	}
	return result, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "ClientService.Delete", trace.WithAttributes(attribute.Int64("client.id", id)))
	defer span.End()

	s.logInfo(ctx, "deleting client", slog.Int64("client.id", id))
	if err := s.inner.Delete(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete client", slog.Int64("client.id", id))
	}
	s.logInfo(ctx, "client deleted", slog.Int64("client.id", id))
	return nil
}

func (s *Service) Statistics(ctx context.Context) (*ports.Statistics, error) {
	ctx, span := s.tracer.Start(ctx, "ClientService.Statistics")
	defer span.End()

	result, err := s.inner.Statistics(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to compute client statistics")
	}
	return result, nil
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

type serviceMetrics struct {
	registered metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	registered, _ := m.Int64Counter("clients.service.clients_registered", metric.WithDescription("Number of clients registered"))
	return serviceMetrics{registered: registered}
}

func (m serviceMetrics) recordRegistered(ctx context.Context) {
	if m.registered != nil {
		m.registered.Add(ctx, 1)
	}
}

var _ ports.Service = (*Service)(nil)
