package mapper

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-order-desk/internal/domains/quotations/domain"
	"github.com/Apurer/go-gin-order-desk/internal/domains/quotations/ports"
)

// CreateQuotationRequest is the body of POST /quotations. Discount is a decimal string.
type CreateQuotationRequest struct {
	ClientID        int64  `json:"clientId"`
	ValidityDays    int    `json:"validityDays"`
	DiscountPercent string `json:"discountPercent"`
	Notes           string `json:"notes"`
}

type AddItemRequest struct {
	ProductID   int64  `json:"productId"`
	Quantity    int    `json:"quantity"`
	CustomPrice string `json:"customPrice,omitempty"`
}

type DiscountRequest struct {
	DiscountPercent string `json:"discountPercent"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type Item struct {
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	Subtotal    string `json:"subtotal"`
}

type Quotation struct {
	ID              int64     `json:"id"`
	ClientID        int64     `json:"clientId"`
	ClientName      string    `json:"clientName"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	ValidUntil      time.Time `json:"validUntil"`
	ValidityDays    int       `json:"validityDays"`
	DiscountPercent string    `json:"discountPercent"`
	Notes           string    `json:"notes,omitempty"`
	Items           []Item    `json:"items"`
	Subtotal        string    `json:"subtotal"`
	Discount        string    `json:"discount"`
	Total           string    `json:"total"`
}

type Statistics struct {
	Total         int            `json:"total"`
	CountByStatus map[string]int `json:"countByStatus"`
	QuotedValue   string         `json:"quotedValue"`
	ApprovedValue string         `json:"approvedValue"`
	ApprovalRate  string         `json:"approvalRate"`
}

// ExpireResult is the response of POST /quotations/expire.
type ExpireResult struct {
	Expired int `json:"expired"`
}

func ToCreateInput(req CreateQuotationRequest) (ports.CreateInput, error) {
	discount, err := parseDecimal(req.DiscountPercent, "discountPercent")
	if err != nil {
		return ports.CreateInput{}, err
	}
	return ports.CreateInput{
		ClientID:        req.ClientID,
		ValidityDays:    req.ValidityDays,
		DiscountPercent: discount,
		Notes:           req.Notes,
	}, nil
}

func ToAddItemInput(quotationID int64, req AddItemRequest) (ports.AddItemInput, error) {
	input := ports.AddItemInput{QuotationID: quotationID, ProductID: req.ProductID, Quantity: req.Quantity}
	if strings.TrimSpace(req.CustomPrice) != "" {
		price, err := parseDecimal(req.CustomPrice, "customPrice")
		if err != nil {
			return ports.AddItemInput{}, err
		}
		input.CustomPrice = &price
	}
	return input, nil
}

func ToDiscount(req DiscountRequest) (decimal.Decimal, error) {
	return parseDecimal(req.DiscountPercent, "discountPercent")
}

func FromDomain(q *domain.Quotation) Quotation {
	if q == nil {
		return Quotation{}
	}
	items := make([]Item, 0, len(q.Items))
	for _, it := range q.Items {
		items = append(items, Item{
			ProductID:   it.Product.ID,
			ProductName: it.Product.Name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice.StringFixed(2),
			Subtotal:    it.Subtotal().StringFixed(2),
		})
	}
	return Quotation{
		ID:              q.ID,
		ClientID:        q.Client.ID,
		ClientName:      q.Client.Name,
		Status:          string(q.Status),
		CreatedAt:       q.CreatedAt,
		ValidUntil:      q.ValidUntil(),
		ValidityDays:    q.ValidityDays,
		DiscountPercent: q.DiscountPercent.StringFixed(2),
		Notes:           q.Notes,
		Items:           items,
		Subtotal:        q.Subtotal().StringFixed(2),
		Discount:        q.Discount().StringFixed(2),
		Total:           q.Total().StringFixed(2),
	}
}

func FromDomainList(quotations []*domain.Quotation) []Quotation {
	out := make([]Quotation, 0, len(quotations))
	for _, q := range quotations {
		out = append(out, FromDomain(q))
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
	return Statistics{
		Total:         s.Total,
		CountByStatus: counts,
		QuotedValue:   s.QuotedValue.StringFixed(2),
		ApprovedValue: s.ApprovedValue.StringFixed(2),
		ApprovalRate:  s.ApprovalRate.StringFixed(2),
	}
}

// parseDecimal treats an empty string as zero.
func parseDecimal(raw, field string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s %q is not a decimal number", field, raw)
	}
	return d, nil
}
