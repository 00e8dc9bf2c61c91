package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/domain"
)

// SortKey selects the ordering of order listings.
type SortKey string

const (
	SortByDateDesc   SortKey = "date"
	SortByClientName SortKey = "client"
	SortByStatus     SortKey = "status"
	SortByTotalDesc  SortKey = "total"
)

// CreateOrderInput opens a new order for a client.
type CreateOrderInput struct {
	ClientID       int64
	Notes          string
	IdempotencyKey string
}

// ChangeStatusInput requests a status transition.
type ChangeStatusInput struct {
	OrderID int64
	Target  domain.Status
}

// CancelInput cancels an order with an optional reason.
type CancelInput struct {
	OrderID int64
	Reason  string
}

// ClientRanking names the client with most orders.
type ClientRanking struct {
	ClientID int64
	Name     string
	Orders   int
}

// ProductRanking names a product by delivered quantity.
type ProductRanking struct {
	ProductID int64
	Name      string
	Quantity  int
	Revenue   decimal.Decimal
}

// Statistics aggregates all orders. Revenue only counts delivered orders.
type Statistics struct {
	TotalOrders       int
	CountByStatus     map[domain.Status]int
	Revenue           decimal.Decimal
	DeliveredOrders   int
	AverageOrderValue decimal.Decimal
	RevenueByMonth    map[string]decimal.Decimal
	TopClient         *ClientRanking
	TopProduct        *ProductRanking
}

// DailySales is one day of a sales report.
type DailySales struct {
	Date    string
	Orders  int
	Revenue decimal.Decimal
}

// SalesReport summarizes delivered orders created within a trailing window.
type SalesReport struct {
	From          time.Time
	To            time.Time
	Orders        int
	Revenue       decimal.Decimal
	AverageTicket decimal.Decimal
	Daily         []DailySales
	TopProducts   []ProductRanking
}

// Service exposes the order engine use cases to adapters.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	AddLine(ctx context.Context, orderID, productID int64, quantity int) (*domain.Order, error)
	RemoveLine(ctx context.Context, orderID, productID int64) (*domain.Order, error)
	ChangeStatus(ctx context.Context, input ChangeStatusInput) (*domain.Order, error)
	Cancel(ctx context.Context, input CancelInput) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context, sortBy SortKey) ([]*domain.Order, error)
	ListByClient(ctx context.Context, clientID int64) ([]*domain.Order, error)
	ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Order, error)
	ListByPeriod(ctx context.Context, from, to time.Time) ([]*domain.Order, error)
	Statistics(ctx context.Context) (*Statistics, error)
	SalesReport(ctx context.Context, days int) (*SalesReport, error)
}
