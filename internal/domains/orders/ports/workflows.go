package ports

import (
	"context"

	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/domain"
)

// TransitionCommand is the durable form of a status change. Cancel routes the
// command through the cancel use case, which also records Reason.
type TransitionCommand struct {
	OrderID int64
	Target  domain.Status
	Cancel  bool
	Reason  string
}

// WorkflowOrchestrator runs stock-affecting order transitions, durably when available.
type WorkflowOrchestrator interface {
	ChangeStatus(ctx context.Context, input ChangeStatusInput) (*domain.Order, error)
	Cancel(ctx context.Context, input CancelInput) (*domain.Order, error)
}
