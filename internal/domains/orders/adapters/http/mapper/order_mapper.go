package mapper

import (
	"sort"
	"time"

	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/ports"
)

// CreateOrderRequest is the body of POST /orders.
type CreateOrderRequest struct {
	ClientID int64  `json:"clientId"`
	Notes    string `json:"notes"`
}

// AddLineRequest is the body of POST /orders/:orderId/lines.
type AddLineRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// StatusRequest is the body of POST /orders/:orderId/status.
type StatusRequest struct {
	Status string `json:"status"`
}

// CancelRequest is the body of POST /orders/:orderId/cancel.
type CancelRequest struct {
	Reason string `json:"reason"`
}

type Client struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

type Line struct {
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	Subtotal    string `json:"subtotal"`
	Reserved    int    `json:"reserved"`
}

// Order is the response representation of an order. Money is a decimal string.
type Order struct {
	ID           int64     `json:"id"`
	Client       Client    `json:"client"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	Notes        string    `json:"notes,omitempty"`
	Lines        []Line    `json:"lines"`
	ItemCount    int       `json:"itemCount"`
	Total        string    `json:"total"`
	NextStatuses []string  `json:"nextStatuses"`
}

type ClientRanking struct {
	ClientID int64  `json:"clientId"`
	Name     string `json:"name"`
	Orders   int    `json:"orders"`
}

type ProductRanking struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Revenue   string `json:"revenue"`
}

type MonthlyRevenue struct {
	Month   string `json:"month"`
	Revenue string `json:"revenue"`
}

// Statistics is the response body of GET /orders/statistics.
type Statistics struct {
	TotalOrders       int              `json:"totalOrders"`
	CountByStatus     map[string]int   `json:"countByStatus"`
	Revenue           string           `json:"revenue"`
	DeliveredOrders   int              `json:"deliveredOrders"`
	AverageOrderValue string           `json:"averageOrderValue"`
	RevenueByMonth    []MonthlyRevenue `json:"revenueByMonth"`
	TopClient         *ClientRanking   `json:"topClient,omitempty"`
	TopProduct        *ProductRanking  `json:"topProduct,omitempty"`
}

type DailySales struct {
	Date    string `json:"date"`
	Orders  int    `json:"orders"`
	Revenue string `json:"revenue"`
}

// SalesReport is the response body of GET /orders/reports/sales.
type SalesReport struct {
	From          time.Time        `json:"from"`
	To            time.Time        `json:"to"`
	Orders        int              `json:"orders"`
	Revenue       string           `json:"revenue"`
	AverageTicket string           `json:"averageTicket"`
	Daily         []DailySales     `json:"daily"`
	TopProducts   []ProductRanking `json:"topProducts"`
}

func ToCreateOrderInput(req CreateOrderRequest, idempotencyKey string) ports.CreateOrderInput {
	return ports.CreateOrderInput{ClientID: req.ClientID, Notes: req.Notes, IdempotencyKey: idempotencyKey}
}

func FromDomain(o *domain.Order) Order {
	if o == nil {
		return Order{}
	}
	lines := make([]Line, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, Line{
			ProductID:   l.Product.ID,
			ProductName: l.Product.Name,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice.StringFixed(2),
			Subtotal:    l.Subtotal().StringFixed(2),
			Reserved:    l.Reserved,
		})
	}
	next := make([]string, 0, 2)
	for _, s := range o.Status.NextStatuses() {
		next = append(next, string(s))
	}
	return Order{
		ID: o.ID,
		Client: Client{
			ID:      o.Client.ID,
			Name:    o.Client.Name,
			Email:   o.Client.Email,
			Phone:   o.Client.Phone,
			Address: o.Client.Address,
		},
		Status:       string(o.Status),
		CreatedAt:    o.CreatedAt,
		Notes:        o.Notes,
		Lines:        lines,
		ItemCount:    o.ItemCount(),
		Total:        o.Total().StringFixed(2),
		NextStatuses: next,
	}
}

func FromDomainList(orders []*domain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, FromDomain(o))
	}
	return out
}

func FromStatistics(s *ports.Statistics) Statistics {
	if s == nil {
		return Statistics{}
	}
	counts := make(map[string]int, len(s.CountByStatus))
	for status, n := range s.CountByStatus {
		counts[string(status)] = n
	}
	months := make([]MonthlyRevenue, 0, len(s.RevenueByMonth))
	for month, revenue := range s.RevenueByMonth {
		months = append(months, MonthlyRevenue{Month: month, Revenue: revenue.StringFixed(2)})
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })

	out := Statistics{
		TotalOrders:       s.TotalOrders,
		CountByStatus:     counts,
		Revenue:           s.Revenue.StringFixed(2),
		DeliveredOrders:   s.DeliveredOrders,
		AverageOrderValue: s.AverageOrderValue.StringFixed(2),
		RevenueByMonth:    months,
	}
	if s.TopClient != nil {
		out.TopClient = &ClientRanking{ClientID: s.TopClient.ClientID, Name: s.TopClient.Name, Orders: s.TopClient.Orders}
	}
	if s.TopProduct != nil {
		top := fromProductRanking(*s.TopProduct)
		out.TopProduct = &top
	}
	return out
}

func FromSalesReport(r *ports.SalesReport) SalesReport {
	if r == nil {
		return SalesReport{}
	}
	daily := make([]DailySales, 0, len(r.Daily))
	for _, d := range r.Daily {
		daily = append(daily, DailySales{Date: d.Date, Orders: d.Orders, Revenue: d.Revenue.StringFixed(2)})
	}
	top := make([]ProductRanking, 0, len(r.TopProducts))
	for _, p := range r.TopProducts {
		top = append(top, fromProductRanking(p))
	}
	return SalesReport{
		From:          r.From,
		To:            r.To,
		Orders:        r.Orders,
		Revenue:       r.Revenue.StringFixed(2),
		AverageTicket: r.AverageTicket.StringFixed(2),
		Daily:         daily,
		TopProducts:   top,
	}
}

func fromProductRanking(p ports.ProductRanking) ProductRanking {
	return ProductRanking{ProductID: p.ProductID, Name: p.Name, Quantity: p.Quantity, Revenue: p.Revenue.StringFixed(2)}
}
