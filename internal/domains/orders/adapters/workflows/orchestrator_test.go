package workflows

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/ports"
)

type stubService struct {
	ports.Service
	lastCancel ports.CancelInput
}

func (s *stubService) ChangeStatus(_ context.Context, input ports.ChangeStatusInput) (*domain.Order, error) {
	return &domain.Order{ID: input.OrderID, Status: input.Target}, nil
}

func (s *stubService) Cancel(_ context.Context, input ports.CancelInput) (*domain.Order, error) {
	s.lastCancel = input
	return &domain.Order{ID: input.OrderID, Status: domain.StatusCancelled}, nil
}

func TestInlineOrderWorkflowsDelegateToService(t *testing.T) {
	service := &stubService{}
	orchestrator := NewInlineOrderWorkflows(service)

	order, err := orchestrator.ChangeStatus(context.Background(), ports.ChangeStatusInput{OrderID: 4, Target: domain.StatusShipped})
	require.NoError(t, err)
	require.Equal(t, domain.StatusShipped, order.Status)

	order, err = orchestrator.Cancel(context.Background(), ports.CancelInput{OrderID: 4, Reason: "lost"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusCancelled, order.Status)
	require.Equal(t, "lost", service.lastCancel.Reason)
}

func TestUnconfiguredOrchestratorsFail(t *testing.T) {
	_, err := NewInlineOrderWorkflows(nil).ChangeStatus(context.Background(), ports.ChangeStatusInput{OrderID: 1})
	require.Error(t, err)
	_, err = NewTemporalOrderWorkflows(nil).Cancel(context.Background(), ports.CancelInput{OrderID: 1})
	require.Error(t, err)
}

func TestTransitionWorkflowID(t *testing.T) {
	require.Equal(t, "order-9-processing-trace",
		buildTransitionWorkflowID(ports.TransitionCommand{OrderID: 9, Target: domain.StatusProcessing}, "trace"))
	require.Equal(t, "order-9-cancel-trace",
		buildTransitionWorkflowID(ports.TransitionCommand{OrderID: 9, Target: domain.StatusCancelled, Cancel: true}, "trace"))
	require.Empty(t, workflowTraceID(context.Background()))
	require.Contains(t, workflowTraceComponent(context.Background()), "fallback-")
}
