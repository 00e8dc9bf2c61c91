package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	deskserver "github.com/Apurer/go-gin-order-desk/go"
	"github.com/Apurer/go-gin-order-desk/internal/app"
	orderworkflows "github.com/Apurer/go-gin-order-desk/internal/domains/orders/adapters/workflows"
	ordersports "github.com/Apurer/go-gin-order-desk/internal/domains/orders/ports"
	platformobservability "github.com/Apurer/go-gin-order-desk/internal/platform/observability"
)

const serviceName = "order-desk-api"

// Run boots the order desk HTTP API with observability, repositories, and workflows wired.
func Run(ctx context.Context) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Settings{
		ServiceName: serviceName,
		Environment: cfg.Environment,
		LogLevel:    cfg.LogLevel,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	desk, err := app.Bootstrap(ctx, cfg, instruments)
	if err != nil {
		return err
	}
	defer desk.Close()

	var workflows ordersports.WorkflowOrchestrator = orderworkflows.NewInlineOrderWorkflows(desk.Orders)
	if temporalClient, err := app.ConnectTemporal(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, running order transitions inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		workflows = orderworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	handlers := deskserver.ApiHandleFunctions{
		ClientAPI:    deskserver.NewClientAPI(desk.Clients),
		ProductAPI:   deskserver.NewProductAPI(desk.Catalog, cfg.LowStockThreshold),
		OrderAPI:     deskserver.NewOrderAPI(desk.Orders, workflows),
		QuotationAPI: deskserver.NewQuotationAPI(desk.Quotations),
	}
	engine := gin.Default()
	engine.Use(otelgin.Middleware(serviceName))
	router := deskserver.NewRouterWithGinEngine(engine, handlers)

	addr := cfg.Addr()
	logger.Info("Order desk API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("Order desk API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}
