package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/go-gin-order-desk/internal/durable/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-gin-order-desk/internal/durable/temporal/workflows/orders"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalOrderWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineOrderWorkflows)(nil)
)

// TemporalOrderWorkflows starts order status transitions on a Temporal cluster.
type TemporalOrderWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalOrderWorkflows wires a Temporal client into the orchestrator.
func NewTemporalOrderWorkflows(c client.Client) *TemporalOrderWorkflows {
	return &TemporalOrderWorkflows{client: c, taskQueue: orderworkflows.OrderLifecycleTaskQueue}
}

// ChangeStatus runs the transition workflow and waits for its result.
func (o *TemporalOrderWorkflows) ChangeStatus(ctx context.Context, input ports.ChangeStatusInput) (*domain.Order, error) {
	return o.execute(ctx, ports.TransitionCommand{OrderID: input.OrderID, Target: input.Target})
}

// Cancel runs the transition workflow in cancel mode.
func (o *TemporalOrderWorkflows) Cancel(ctx context.Context, input ports.CancelInput) (*domain.Order, error) {
	return o.execute(ctx, ports.TransitionCommand{
		OrderID: input.OrderID,
		Target:  domain.StatusCancelled,
		Cancel:  true,
		Reason:  input.Reason,
	})
}

func (o *TemporalOrderWorkflows) execute(ctx context.Context, cmd ports.TransitionCommand) (*domain.Order, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := buildTransitionWorkflowID(cmd, traceComponent)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.StatusTransitionWorkflow,
		orderworkflows.StatusTransitionWorkflowInput{Command: cmd, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return nil, err
		}
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	var order domain.Order
	if err := run.Get(ctx, &order); err != nil {
		return nil, orderactivities.RestoreError(err)
	}
	return &order, nil
}

// InlineOrderWorkflows executes transitions directly on the service, used when Temporal is disabled.
type InlineOrderWorkflows struct {
	service ports.Service
}

// NewInlineOrderWorkflows wraps the orders service for synchronous execution.
func NewInlineOrderWorkflows(service ports.Service) *InlineOrderWorkflows {
	return &InlineOrderWorkflows{service: service}
}

func (o *InlineOrderWorkflows) ChangeStatus(ctx context.Context, input ports.ChangeStatusInput) (*domain.Order, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order workflows not configured")
	}
	return o.service.ChangeStatus(ctx, input)
}

func (o *InlineOrderWorkflows) Cancel(ctx context.Context, input ports.CancelInput) (*domain.Order, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order workflows not configured")
	}
	return o.service.Cancel(ctx, input)
}

func buildTransitionWorkflowID(cmd ports.TransitionCommand, traceComponent string) string {
	target := string(cmd.Target)
	if cmd.Cancel {
		target = "cancel"
	}
	return fmt.Sprintf("order-%d-%s-%s", cmd.OrderID, target, traceComponent)
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() || !spanCtx.TraceID().IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
