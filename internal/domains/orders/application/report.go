package application

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/ports"
)

const (
	dayKeyLayout      = "2006-01-02"
	reportTopProducts = 10
)

// SalesReport summarizes delivered orders created in the trailing window of days.
func (s *Service) SalesReport(ctx context.Context, days int) (*ports.SalesReport, error) {
	if days <= 0 {
		return nil, mapError(fmt.Errorf("%w: got %d", ErrInvalidWindow, days))
	}
	to := s.now()
	from := to.AddDate(0, 0, -days)

	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	report := &ports.SalesReport{From: from, To: to, Revenue: decimal.Zero, AverageTicket: decimal.Zero}
	daily := map[string]*ports.DailySales{}
	var delivered []*domain.Order
	for _, order := range orders {
		if order.Status != domain.StatusDelivered || order.CreatedAt.Before(from) || order.CreatedAt.After(to) {
			continue
		}
		delivered = append(delivered, order)
		total := order.Total()
		report.Revenue = report.Revenue.Add(total)

		key := order.CreatedAt.Format(dayKeyLayout)
		day, ok := daily[key]
		if !ok {
			day = &ports.DailySales{Date: key, Revenue: decimal.Zero}
			daily[key] = day
		}
		day.Orders++
		day.Revenue = day.Revenue.Add(total)
	}
	report.Orders = len(delivered)
	report.AverageTicket = average(report.Revenue, len(delivered))

	report.Daily = make([]ports.DailySales, 0, len(daily))
	for _, day := range daily {
		report.Daily = append(report.Daily, *day)
	}
	sort.Slice(report.Daily, func(i, j int) bool { return report.Daily[i].Date > report.Daily[j].Date })

	report.TopProducts = rankProducts(delivered)
	if len(report.TopProducts) > reportTopProducts {
		report.TopProducts = report.TopProducts[:reportTopProducts]
	}
	return report, nil
}
