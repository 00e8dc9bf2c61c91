package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-gin-order-desk/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/go-gin-order-desk/internal/durable/temporal/activities/orders"
)

// RunOrderTransitionSequence executes the activities for one order status change.
func RunOrderTransitionSequence(ctx workflow.Context, cmd ordersports.TransitionCommand) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order transition sequence started", "orderId", cmd.OrderID, "target", cmd.Target)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var order domain.Order
	err := workflow.ExecuteActivity(ctx, orderactivities.ApplyTransitionActivityName, cmd).Get(ctx, &order)
	if err != nil {
		logger.Error("order transition sequence failed", "orderId", cmd.OrderID, "error", err)
		return nil, err
	}
	logger.Info("order transition sequence completed", "orderId", order.ID, "status", order.Status)
	return &order, nil
}
