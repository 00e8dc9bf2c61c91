package mapper

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-order-desk/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-order-desk/internal/domains/catalog/ports"
)

// ProductPayload is the request body for creating or updating a product.
type ProductPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
}

// StockAdjustment is the request body of the stock endpoint.
type StockAdjustment struct {
	Amount int    `json:"amount"`
	Mode   string `json:"mode"`
}

// Product is the response representation of a product. Money is a decimal string.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Stock       int       `json:"stock"`
	Active      bool      `json:"active"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Statistics is the response body of the catalog summary.
type Statistics struct {
	Total          int      `json:"total"`
	Active         int      `json:"active"`
	Inactive       int      `json:"inactive"`
	OutOfStock     int      `json:"outOfStock"`
	LowStock       int      `json:"lowStock"`
	InventoryValue string   `json:"inventoryValue"`
	MostExpensive  *Product `json:"mostExpensive,omitempty"`
	Cheapest       *Product `json:"cheapest,omitempty"`
}

// ToDetails parses the payload price and builds domain details.
func ToDetails(payload ProductPayload) (domain.Details, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(payload.Price))
	if err != nil {
		return domain.Details{}, fmt.Errorf("price %q is not a decimal number", payload.Price)
	}
	return domain.Details{
		Name:        payload.Name,
		Description: payload.Description,
		Price:       price,
		Stock:       payload.Stock,
	}, nil
}

func FromProjection(p *ports.ProductProjection) Product {
	if p == nil || p.Entity == nil {
		return Product{}
	}
	product := FromDomain(p.Entity)
	product.UpdatedAt = p.Metadata.UpdatedAt
	return product
}

func FromDomain(p *domain.Product) Product {
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Stock:       p.Stock,
		Active:      p.Active,
	}
}

func FromProjectionList(list []*ports.ProductProjection) []Product {
	result := make([]Product, 0, len(list))
	for _, p := range list {
		result = append(result, FromProjection(p))
	}
	return result
}

func FromStatistics(stats *ports.Statistics) Statistics {
	if stats == nil {
		return Statistics{}
	}
	out := Statistics{
		Total:          stats.Total,
		Active:         stats.Active,
		Inactive:       stats.Inactive,
		OutOfStock:     stats.OutOfStock,
		LowStock:       stats.LowStock,
		InventoryValue: stats.InventoryValue.StringFixed(2),
	}
	if stats.MostExpensive != nil {
		p := FromDomain(stats.MostExpensive)
		out.MostExpensive = &p
	}
	if stats.Cheapest != nil {
		p := FromDomain(stats.Cheapest)
		out.Cheapest = &p
	}
	return out
}
