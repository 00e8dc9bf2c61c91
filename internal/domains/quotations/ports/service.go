package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-order-desk/internal/domains/quotations/domain"
)

type CreateInput struct {
	ClientID        int64
	ValidityDays    int
	DiscountPercent decimal.Decimal
	Notes           string
}

// AddItemInput adds a product; a nil CustomPrice quotes the catalog price.
type AddItemInput struct {
	QuotationID int64
	ProductID   int64
	Quantity    int
	CustomPrice *decimal.Decimal
}

// Statistics summarizes quotations. ApprovalRate is a percentage over decided quotations.
type Statistics struct {
	Total         int
	CountByStatus map[domain.Status]int
	QuotedValue   decimal.Decimal
	ApprovedValue decimal.Decimal
	ApprovalRate  decimal.Decimal
}

// Service exposes quotation use cases to adapters.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*domain.Quotation, error)
	AddItem(ctx context.Context, input AddItemInput) (*domain.Quotation, error)
	RemoveItem(ctx context.Context, quotationID, productID int64) (*domain.Quotation, error)
	SetDiscount(ctx context.Context, quotationID int64, percent decimal.Decimal) (*domain.Quotation, error)
	ChangeStatus(ctx context.Context, quotationID int64, target domain.Status) (*domain.Quotation, error)
	Approve(ctx context.Context, quotationID int64) (*domain.Quotation, error)
	Reject(ctx context.Context, quotationID int64) (*domain.Quotation, error)
	ExpireOverdue(ctx context.Context, now time.Time) (int, error)
	GetByID(ctx context.Context, id int64) (*domain.Quotation, error)
	List(ctx context.Context) ([]*domain.Quotation, error)
	ListByClient(ctx context.Context, clientID int64) ([]*domain.Quotation, error)
	ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Quotation, error)
	ListByPeriod(ctx context.Context, from, to time.Time) ([]*domain.Quotation, error)
	Statistics(ctx context.Context) (*Statistics, error)
}
