package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	ordersapp "github.com/Apurer/go-gin-order-desk/internal/domains/orders/application"
	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-gin-order-desk/internal/domains/orders/ports"
)

const (
	// ApplyTransitionActivityName moves an order to its target status with the matching stock effect.
	ApplyTransitionActivityName = "orders.activities.ApplyTransition"
)

// Error types carried by non-retryable application errors.
const (
	ErrTypeNotFound          = "OrderNotFound"
	ErrTypeInvalidInput      = "InvalidInput"
	ErrTypeInvalidTransition = "InvalidTransition"
	ErrTypeNotEditable       = "OrderNotEditable"
	ErrTypeInsufficientStock = "InsufficientStock"
	ErrTypeProductNotFound   = "ProductNotFound"
)

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service ordersports.Service
}

func NewActivities(service ordersports.Service) *Activities {
	return &Activities{service: service}
}

// ApplyTransition runs one status change. Business rule violations are not retried.
func (a *Activities) ApplyTransition(ctx context.Context, cmd ordersports.TransitionCommand) (*domain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order transition activity not initialized", "orderId", cmd.OrderID)
		return nil, errors.New("order transition activity not initialized")
	}
	logger.Info("ApplyTransition activity started", "orderId", cmd.OrderID, "target", cmd.Target, "cancel", cmd.Cancel)

	var (
		order *domain.Order
		err   error
	)
	if cmd.Cancel {
		order, err = a.service.Cancel(ctx, ordersports.CancelInput{OrderID: cmd.OrderID, Reason: cmd.Reason})
	} else {
		order, err = a.service.ChangeStatus(ctx, ordersports.ChangeStatusInput{OrderID: cmd.OrderID, Target: cmd.Target})
	}
	if err != nil {
		if applied := a.alreadyApplied(ctx, cmd, err); applied != nil {
			logger.Info("ApplyTransition already applied by an earlier attempt", "orderId", applied.ID, "status", applied.Status)
			return applied, nil
		}
		logger.Error("ApplyTransition activity failed", "orderId", cmd.OrderID, "error", err)
		return nil, classify(err)
	}
	logger.Info("ApplyTransition activity completed", "orderId", order.ID, "status", order.Status)
	return order, nil
}

// alreadyApplied recognizes a retry whose earlier attempt committed the
// transition but never reported back: the order already sits at the target.
func (a *Activities) alreadyApplied(ctx context.Context, cmd ordersports.TransitionCommand, err error) *domain.Order {
	if activity.GetInfo(ctx).Attempt <= 1 || !errors.Is(err, domain.ErrInvalidTransition) {
		return nil
	}
	order, getErr := a.service.GetByID(ctx, cmd.OrderID)
	if getErr != nil {
		return nil
	}
	target := cmd.Target
	if cmd.Cancel {
		target = domain.StatusCancelled
	}
	if order.Status != target {
		return nil
	}
	return order
}

var businessErrors = []struct {
	errType  string
	sentinel error
}{
	{ErrTypeNotFound, ordersports.ErrNotFound},
	{ErrTypeInvalidInput, ordersapp.ErrInvalidInput},
	{ErrTypeInvalidTransition, domain.ErrInvalidTransition},
	{ErrTypeNotEditable, domain.ErrOrderNotEditable},
	{ErrTypeInsufficientStock, ordersports.ErrInsufficientStock},
	{ErrTypeProductNotFound, ordersports.ErrProductNotFound},
}

// classify marks business failures as non-retryable so the workflow fails fast.
func classify(err error) error {
	for _, known := range businessErrors {
		if errors.Is(err, known.sentinel) {
			return temporal.NewNonRetryableApplicationError(err.Error(), known.errType, err)
		}
	}
	return err
}

// RestoreError turns an application error raised by ApplyTransition back into
// an error matching the original sentinel. Other errors are returned as is.
func RestoreError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	for _, known := range businessErrors {
		if appErr.Type() == known.errType {
			return &businessError{message: appErr.Error(), sentinel: known.sentinel}
		}
	}
	return err
}

type businessError struct {
	message  string
	sentinel error
}

func (e *businessError) Error() string { return e.message }

func (e *businessError) Unwrap() error { return e.sentinel }
