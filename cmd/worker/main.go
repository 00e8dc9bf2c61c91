package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-order-desk/internal/app"
	orderactivities "github.com/Apurer/go-gin-order-desk/internal/durable/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-gin-order-desk/internal/durable/temporal/workflows/orders"
	platformobservability "github.com/Apurer/go-gin-order-desk/internal/platform/observability"
)

func main() {
	ctx := context.Background()
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Settings{
		ServiceName: "order-desk-worker",
		Environment: cfg.Environment,
		LogLevel:    cfg.LogLevel,
	})
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
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
		logger.Error("failed to bootstrap order desk", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer desk.Close()
	activities := orderactivities.NewActivities(desk.Orders)

	temporalClient, err := app.ConnectTemporal(cfg, instruments)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderLifecycleTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.StatusTransitionWorkflow, workflow.RegisterOptions{Name: orderworkflows.StatusTransitionWorkflowName})
	w.RegisterActivityWithOptions(activities.ApplyTransition, activity.RegisterOptions{Name: orderactivities.ApplyTransitionActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderLifecycleTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
