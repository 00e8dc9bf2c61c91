package orders

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-gin-order-desk/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/go-gin-order-desk/internal/durable/temporal/activities/orders"
)

func newWorkflowEnv(t *testing.T) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterWorkflowWithOptions(StatusTransitionWorkflow, workflow.RegisterOptions{Name: StatusTransitionWorkflowName})
	env.RegisterActivityWithOptions(orderactivities.NewActivities(nil).ApplyTransition, activity.RegisterOptions{
		Name: orderactivities.ApplyTransitionActivityName,
	})
	return env
}

func TestStatusTransitionWorkflowReturnsUpdatedOrder(t *testing.T) {
	env := newWorkflowEnv(t)
	cmd := ordersports.TransitionCommand{OrderID: 7, Target: domain.StatusProcessing}
	env.OnActivity(orderactivities.ApplyTransitionActivityName, mock.Anything, cmd).
		Return(&domain.Order{ID: 7, Status: domain.StatusProcessing}, nil).Once()

	env.ExecuteWorkflow(StatusTransitionWorkflowName, StatusTransitionWorkflowInput{Command: cmd, TraceID: "abc"})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var order domain.Order
	require.NoError(t, env.GetWorkflowResult(&order))
	require.Equal(t, int64(7), order.ID)
	require.Equal(t, domain.StatusProcessing, order.Status)
	env.AssertExpectations(t)
}

func TestStatusTransitionWorkflowDoesNotRetryBusinessErrors(t *testing.T) {
	env := newWorkflowEnv(t)
	cmd := ordersports.TransitionCommand{OrderID: 7, Target: domain.StatusDelivered}
	env.OnActivity(orderactivities.ApplyTransitionActivityName, mock.Anything, cmd).
		Return(nil, temporal.NewNonRetryableApplicationError(
			"invalid status transition: pending -> delivered",
			orderactivities.ErrTypeInvalidTransition,
			nil,
		)).Once()

	env.ExecuteWorkflow(StatusTransitionWorkflowName, StatusTransitionWorkflowInput{Command: cmd})

	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)
	restored := orderactivities.RestoreError(err)
	require.ErrorIs(t, restored, domain.ErrInvalidTransition)
	require.Contains(t, restored.Error(), "pending -> delivered")
	env.AssertExpectations(t)
}

func TestStatusTransitionWorkflowRetriesInfrastructureErrors(t *testing.T) {
	env := newWorkflowEnv(t)
	cmd := ordersports.TransitionCommand{OrderID: 3, Target: domain.StatusCancelled, Cancel: true, Reason: "late"}
	env.OnActivity(orderactivities.ApplyTransitionActivityName, mock.Anything, cmd).
		Return(nil, errors.New("connection reset")).Once()
	env.OnActivity(orderactivities.ApplyTransitionActivityName, mock.Anything, cmd).
		Return(&domain.Order{ID: 3, Status: domain.StatusCancelled}, nil).Once()

	env.ExecuteWorkflow(StatusTransitionWorkflowName, StatusTransitionWorkflowInput{Command: cmd})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	env.AssertExpectations(t)
}

// lostReplyService commits the first transition but fails to answer, like a
// worker that crashed right after the database commit.
type lostReplyService struct {
	ordersports.Service
	order *domain.Order
	calls int
}

func (s *lostReplyService) ChangeStatus(_ context.Context, input ordersports.ChangeStatusInput) (*domain.Order, error) {
	s.calls++
	if s.order.Status == input.Target {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, s.order.Status, input.Target)
	}
	s.order.Status = input.Target
	if s.calls == 1 {
		return nil, errors.New("context deadline exceeded")
	}
	current := *s.order
	return &current, nil
}

func (s *lostReplyService) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	if id != s.order.ID {
		return nil, ordersports.ErrNotFound
	}
	current := *s.order
	return &current, nil
}

func TestStatusTransitionWorkflowAcceptsTransitionCommittedByEarlierAttempt(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	service := &lostReplyService{order: &domain.Order{ID: 9, Status: domain.StatusPending}}
	env.RegisterWorkflowWithOptions(StatusTransitionWorkflow, workflow.RegisterOptions{Name: StatusTransitionWorkflowName})
	env.RegisterActivityWithOptions(orderactivities.NewActivities(service).ApplyTransition, activity.RegisterOptions{
		Name: orderactivities.ApplyTransitionActivityName,
	})

	cmd := ordersports.TransitionCommand{OrderID: 9, Target: domain.StatusProcessing}
	env.ExecuteWorkflow(StatusTransitionWorkflowName, StatusTransitionWorkflowInput{Command: cmd})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var order domain.Order
	require.NoError(t, env.GetWorkflowResult(&order))
	require.Equal(t, domain.StatusProcessing, order.Status)
	require.Equal(t, 2, service.calls)
}
