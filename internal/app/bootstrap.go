// Package app wires the order desk services for every process.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	catalogmemory "github.com/Apurer/go-gin-order-desk/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/Apurer/go-gin-order-desk/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/Apurer/go-gin-order-desk/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/go-gin-order-desk/internal/domains/catalog/application"
	catalogports "github.com/Apurer/go-gin-order-desk/internal/domains/catalog/ports"
	clientmemory "github.com/Apurer/go-gin-order-desk/internal/domains/clients/adapters/memory"
	clientobs "github.com/Apurer/go-gin-order-desk/internal/domains/clients/adapters/observability"
	clientpostgres "github.com/Apurer/go-gin-order-desk/internal/domains/clients/adapters/persistence/postgres"
	clientsapp "github.com/Apurer/go-gin-order-desk/internal/domains/clients/application"
	clientsports "github.com/Apurer/go-gin-order-desk/internal/domains/clients/ports"
	orderredis "github.com/Apurer/go-gin-order-desk/internal/domains/orders/adapters/cache/redis"
	ordercollaborators "github.com/Apurer/go-gin-order-desk/internal/domains/orders/adapters/collaborators"
	ordermemory "github.com/Apurer/go-gin-order-desk/internal/domains/orders/adapters/memory"
	orderkafka "github.com/Apurer/go-gin-order-desk/internal/domains/orders/adapters/messaging/kafka"
	orderobs "github.com/Apurer/go-gin-order-desk/internal/domains/orders/adapters/observability"
	orderpostgres "github.com/Apurer/go-gin-order-desk/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/Apurer/go-gin-order-desk/internal/domains/orders/application"
	ordersports "github.com/Apurer/go-gin-order-desk/internal/domains/orders/ports"
	quotationcollaborators "github.com/Apurer/go-gin-order-desk/internal/domains/quotations/adapters/collaborators"
	quotationmemory "github.com/Apurer/go-gin-order-desk/internal/domains/quotations/adapters/memory"
	quotationobs "github.com/Apurer/go-gin-order-desk/internal/domains/quotations/adapters/observability"
	quotationpostgres "github.com/Apurer/go-gin-order-desk/internal/domains/quotations/adapters/persistence/postgres"
	quotationsapp "github.com/Apurer/go-gin-order-desk/internal/domains/quotations/application"
	quotationsports "github.com/Apurer/go-gin-order-desk/internal/domains/quotations/ports"
	"github.com/Apurer/go-gin-order-desk/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-gin-order-desk/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-order-desk/internal/platform/postgres"
)

// Desk holds the decorated services of the four bounded contexts.
type Desk struct {
	Clients    clientsports.Service
	Catalog    catalogports.Service
	Orders     ordersports.Service
	Quotations quotationsports.Service

	logger  *slog.Logger
	closers []func()
}

type repositories struct {
	clients     clientsports.Repository
	catalog     catalogports.Repository
	orders      ordersports.Repository
	quotations  quotationsports.Repository
	idempotency ordersports.IdempotencyStore
}

// Bootstrap builds the desk from cfg. Postgres, Redis and Kafka are optional:
// each one that is not configured or not reachable falls back to its
// in-process counterpart.
func Bootstrap(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (*Desk, error) {
	logger := instruments.EffectiveLogger()
	desk := &Desk{logger: logger}

	repos, err := desk.buildRepositories(ctx, cfg)
	if err != nil {
		desk.Close()
		return nil, err
	}
	if store := desk.buildRedisIdempotency(ctx, cfg); store != nil {
		repos.idempotency = store
	}
	publisher := desk.buildPublisher(cfg)

	desk.Clients = clientobs.New(
		clientsapp.NewService(repos.clients, clientsapp.WithOrderReferences(repos.orders)),
		clientobs.WithLogger(logger),
		clientobs.WithTracer(instruments.Tracer("internal.clients.application")),
		clientobs.WithMeter(instruments.Meter("internal.clients.application")),
	)
	desk.Catalog = catalogobs.New(
		catalogapp.NewService(repos.catalog, catalogapp.WithOrderReferences(repos.orders)),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	desk.Orders = orderobs.New(
		ordersapp.NewService(
			repos.orders,
			ordercollaborators.NewCatalog(desk.Catalog),
			ordercollaborators.NewDirectory(desk.Clients),
			ordersapp.WithIdempotencyStore(repos.idempotency),
			ordersapp.WithEventPublisher(publisher),
		),
		orderobs.WithLogger(logger),
		orderobs.WithTracer(instruments.Tracer("internal.orders.application")),
		orderobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	desk.Quotations = quotationobs.New(
		quotationsapp.NewService(
			repos.quotations,
			quotationcollaborators.NewCatalog(desk.Catalog),
			quotationcollaborators.NewDirectory(desk.Clients),
			quotationsapp.WithDefaultValidity(cfg.QuotationValidityDays),
		),
		quotationobs.WithLogger(logger),
		quotationobs.WithTracer(instruments.Tracer("internal.quotations.application")),
		quotationobs.WithMeter(instruments.Meter("internal.quotations.application")),
	)
	return desk, nil
}

// Close releases connections in reverse order of acquisition.
func (d *Desk) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}

func (d *Desk) buildRepositories(ctx context.Context, cfg Config) (repositories, error) {
	db, cleanup := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, d.logger)
	d.closers = append(d.closers, cleanup)
	if db == nil {
		return memoryRepositories(), nil
	}
	if err := migrations.Run(db); err != nil {
		return repositories{}, fmt.Errorf("failed to migrate order desk schema: %w", err)
	}
	d.logger.Info("order desk repositories configured with postgres")
	return postgresRepositories(db), nil
}

func memoryRepositories() repositories {
	return repositories{
		clients:     clientmemory.NewRepository(),
		catalog:     catalogmemory.NewRepository(),
		orders:      ordermemory.NewRepository(),
		quotations:  quotationmemory.NewRepository(),
		idempotency: ordermemory.NewIdempotencyStore(),
	}
}

func postgresRepositories(db *gorm.DB) repositories {
	ids := platformpostgres.NewSequence(db)
	return repositories{
		clients:     clientpostgres.NewRepository(db, ids),
		catalog:     catalogpostgres.NewRepository(db, ids),
		orders:      orderpostgres.NewRepository(db, ids),
		quotations:  quotationpostgres.NewRepository(db, ids),
		idempotency: orderpostgres.NewIdempotencyStore(db),
	}
}

func (d *Desk) buildRedisIdempotency(ctx context.Context, cfg Config) ordersports.IdempotencyStore {
	if cfg.RedisAddr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		d.logger.Warn("redis unavailable, keeping the default idempotency store",
			slog.String("addr", cfg.RedisAddr), slog.String("error", err.Error()))
		_ = rdb.Close()
		return nil
	}
	d.closers = append(d.closers, func() { _ = rdb.Close() })
	d.logger.Info("order idempotency keys stored in redis", slog.String("addr", cfg.RedisAddr))
	return orderredis.NewIdempotencyStore(rdb, cfg.IdempotencyTTL())
}

func (d *Desk) buildPublisher(cfg Config) ordersports.EventPublisher {
	if cfg.KafkaBrokers == "" {
		return ordersports.NoopPublisher{}
	}
	publisher, err := orderkafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaOrderEventsTopic, d.logger)
	if err != nil {
		d.logger.Warn("kafka unavailable, order events will not be published", slog.String("error", err.Error()))
		return ordersports.NoopPublisher{}
	}
	d.closers = append(d.closers, func() { publisher.Close(5 * time.Second) })
	d.logger.Info("order events published to kafka", slog.String("topic", cfg.KafkaOrderEventsTopic))
	return publisher
}

// ConnectTemporal dials the Temporal frontend with tracing and slog bridged in.
func ConnectTemporal(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: instruments.Tracer("temporal-client"),
	})
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(instruments.EffectiveLogger()),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}
