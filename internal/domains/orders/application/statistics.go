package application

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/ports"
)

const monthKeyLayout = "2006-01"

// Statistics aggregates every stored order. Only delivered orders count as revenue.
func (s *Service) Statistics(ctx context.Context) (*ports.Statistics, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })

	stats := &ports.Statistics{
		TotalOrders:       len(orders),
		CountByStatus:     make(map[domain.Status]int, len(domain.Statuses)),
		Revenue:           decimal.Zero,
		AverageOrderValue: decimal.Zero,
		RevenueByMonth:    map[string]decimal.Decimal{},
	}
	for _, status := range domain.Statuses {
		stats.CountByStatus[status] = 0
	}

	var delivered []*domain.Order
	for _, order := range orders {
		stats.CountByStatus[order.Status]++
		if order.Status != domain.StatusDelivered {
			continue
		}
		delivered = append(delivered, order)
		total := order.Total()
		stats.Revenue = stats.Revenue.Add(total)
		month := order.CreatedAt.Format(monthKeyLayout)
		stats.RevenueByMonth[month] = stats.RevenueByMonth[month].Add(total)
	}
	stats.DeliveredOrders = len(delivered)
	stats.AverageOrderValue = average(stats.Revenue, len(delivered))
	stats.TopClient = topClient(orders)
	if ranking := rankProducts(delivered); len(ranking) > 0 {
		top := ranking[0]
		stats.TopProduct = &top
	}
	return stats, nil
}

func average(sum decimal.Decimal, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return sum.DivRound(decimal.NewFromInt(int64(count)), 2)
}

// topClient expects orders in ascending id order so ties go to the client who ordered first.
func topClient(orders []*domain.Order) *ports.ClientRanking {
	var (
		counts = map[int64]*ports.ClientRanking{}
		seen   []int64
	)
	for _, order := range orders {
		ranking, ok := counts[order.Client.ID]
		if !ok {
			ranking = &ports.ClientRanking{ClientID: order.Client.ID, Name: order.Client.Name}
			counts[order.Client.ID] = ranking
			seen = append(seen, order.Client.ID)
		}
		ranking.Orders++
	}
	var best *ports.ClientRanking
	for _, id := range seen {
		if best == nil || counts[id].Orders > best.Orders {
			best = counts[id]
		}
	}
	return best
}

// rankProducts orders products by delivered quantity, then revenue, then id.
func rankProducts(orders []*domain.Order) []ports.ProductRanking {
	byProduct := map[int64]*ports.ProductRanking{}
	for _, order := range orders {
		for _, line := range order.Lines {
			ranking, ok := byProduct[line.Product.ID]
			if !ok {
				ranking = &ports.ProductRanking{ProductID: line.Product.ID, Name: line.Product.Name, Revenue: decimal.Zero}
				byProduct[line.Product.ID] = ranking
			}
			ranking.Quantity += line.Quantity
			ranking.Revenue = ranking.Revenue.Add(line.Subtotal())
		}
	}
	ranked := make([]ports.ProductRanking, 0, len(byProduct))
	for _, ranking := range byProduct {
		ranked = append(ranked, *ranking)
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		if !a.Revenue.Equal(b.Revenue) {
			return a.Revenue.GreaterThan(b.Revenue)
		}
		return a.ProductID < b.ProductID
	})
	return ranked
}
