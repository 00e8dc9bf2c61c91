package application

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-order-desk/internal/domains/catalog/ports"
)

// Statistics aggregates stock and value figures. Inventory value and the price
// extremes only consider active products.
func (s *Service) Statistics(ctx context.Context, lowStockThreshold int) (*ports.Statistics, error) {
	if lowStockThreshold <= 0 {
		lowStockThreshold = DefaultLowStockThreshold
	}
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	stats := &ports.Statistics{Total: len(products), InventoryValue: decimal.Zero}
	for _, p := range sortByID(products) {
		product := p.Entity
		if !product.Active {
			stats.Inactive++
			continue
		}
		stats.Active++
		if product.Stock == 0 {
			stats.OutOfStock++
		}
		if product.Stock <= lowStockThreshold {
			stats.LowStock++
		}
		stats.InventoryValue = stats.InventoryValue.Add(product.InventoryValue())
		if stats.MostExpensive == nil || product.Price.GreaterThan(stats.MostExpensive.Price) {
			stats.MostExpensive = product
		}
		if stats.Cheapest == nil || product.Price.LessThan(stats.Cheapest.Price) {
			stats.Cheapest = product
		}
	}
	return stats, nil
}

// sortByID makes tie-breaking on equal prices deterministic: the oldest product wins.
func sortByID(products []*ports.ProductProjection) []*ports.ProductProjection {
	sorted := append([]*ports.ProductProjection(nil), products...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Entity.ID < sorted[j].Entity.ID })
	return sorted
}
