package application

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/ports"
)

// ParseSortKey accepts the listing sort keys; empty means newest first.
func ParseSortKey(raw string) (ports.SortKey, error) {
	switch key := ports.SortKey(strings.ToLower(strings.TrimSpace(raw))); key {
	case "":
		return ports.SortByDateDesc, nil
	case ports.SortByDateDesc, ports.SortByClientName, ports.SortByStatus, ports.SortByTotalDesc:
		return key, nil
	default:
		return "", mapError(fmt.Errorf("%w: %q", ErrInvalidSortKey, raw))
	}
}

func (s *Service) List(ctx context.Context, sortBy ports.SortKey) ([]*domain.Order, error) {
	if sortBy == "" {
		sortBy = ports.SortByDateDesc
	}
	less, ok := orderings[sortBy]
	if !ok {
		return nil, mapError(fmt.Errorf("%w: %q", ErrInvalidSortKey, sortBy))
	}
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sortOrders(orders, less)
	return orders, nil
}

func (s *Service) ListByClient(ctx context.Context, clientID int64) ([]*domain.Order, error) {
	return s.filter(ctx, func(o *domain.Order) bool { return o.Client.ID == clientID })
}

func (s *Service) ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Order, error) {
	if !status.Valid() {
		return nil, mapError(fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status))
	}
	return s.filter(ctx, func(o *domain.Order) bool { return o.Status == status })
}

// ListByPeriod returns orders created within [from, to], both ends inclusive.
func (s *Service) ListByPeriod(ctx context.Context, from, to time.Time) ([]*domain.Order, error) {
	if to.Before(from) {
		return nil, mapError(ErrInvalidPeriod)
	}
	return s.filter(ctx, func(o *domain.Order) bool {
		return !o.CreatedAt.Before(from) && !o.CreatedAt.After(to)
	})
}

func (s *Service) filter(ctx context.Context, keep func(*domain.Order) bool) ([]*domain.Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]*domain.Order, 0, len(orders))
	for _, order := range orders {
		if keep(order) {
			matched = append(matched, order)
		}
	}
	sortOrders(matched, newestFirst)
	return matched, nil
}

type orderLess func(a, b *domain.Order) bool

var orderings = map[ports.SortKey]orderLess{
	ports.SortByDateDesc: newestFirst,
	ports.SortByClientName: func(a, b *domain.Order) bool {
		return strings.ToLower(a.Client.Name) < strings.ToLower(b.Client.Name)
	},
	ports.SortByStatus: func(a, b *domain.Order) bool {
		return statusRank(a.Status) < statusRank(b.Status)
	},
	ports.SortByTotalDesc: func(a, b *domain.Order) bool {
		return a.Total().GreaterThan(b.Total())
	},
}

func newestFirst(a, b *domain.Order) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID > b.ID
	}
	return a.CreatedAt.After(b.CreatedAt)
}

// sortOrders applies less and falls back to ascending id for equal keys.
func sortOrders(orders []*domain.Order, less orderLess) {
	sort.SliceStable(orders, func(i, j int) bool {
		a, b := orders[i], orders[j]
		if less(a, b) {
			return true
		}
		if less(b, a) {
			return false
		}
		return a.ID < b.ID
	})
}

func statusRank(status domain.Status) int {
	for i, s := range domain.Statuses {
		if s == status {
			return i
		}
	}
	return len(domain.Statuses)
}
