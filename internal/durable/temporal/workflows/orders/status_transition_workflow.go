package orders

import (
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-gin-order-desk/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-order-desk/internal/durable/temporal/sequences"
)

const (
	// StatusTransitionWorkflowName is the public identifier for registering the workflow.
	StatusTransitionWorkflowName = "orders.workflows.StatusTransition"
	// OrderLifecycleTaskQueue is the queue consumed by the worker processing order workflows.
	OrderLifecycleTaskQueue = "ORDER_LIFECYCLE"
)

// StatusTransitionWorkflowInput carries the command plus the trace of the request that started it.
type StatusTransitionWorkflowInput struct {
	Command ordersports.TransitionCommand
	TraceID string
}

// StatusTransitionWorkflow applies one order status change and its stock effect.
func StatusTransitionWorkflow(ctx workflow.Context, input StatusTransitionWorkflowInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	orderID := input.Command.OrderID
	logger.Info("StatusTransitionWorkflow started", withTraceID(input.TraceID, "orderId", orderID, "target", input.Command.Target)...)
	order, err := sequences.RunOrderTransitionSequence(ctx, input.Command)
	if err != nil {
		logger.Error("StatusTransitionWorkflow failed", withTraceID(input.TraceID, "orderId", orderID, "error", err)...)
		return nil, err
	}
	logger.Info("StatusTransitionWorkflow completed", withTraceID(input.TraceID, "orderId", orderID, "status", order.Status)...)
	return order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
