package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/ports"
)

// stockMove is one applied catalog adjustment. reserve deducts, otherwise it releases.
type stockMove struct {
	productID int64
	quantity  int
	reserve   bool
}

func (m stockMove) inverse() stockMove {
	return stockMove{productID: m.productID, quantity: m.quantity, reserve: !m.reserve}
}

// applyStockEffect performs the catalog side of a transition and returns the
// moves it applied. On failure every applied move has already been undone.
func (s *Service) applyStockEffect(ctx context.Context, order *domain.Order, effect domain.StockEffect) ([]stockMove, error) {
	var planned []stockMove
	switch effect {
	case domain.EffectReserve:
		if err := s.checkAvailability(ctx, order); err != nil {
			return nil, err
		}
		for _, line := range order.Lines {
			planned = append(planned, stockMove{productID: line.Product.ID, quantity: line.Quantity, reserve: true})
		}
	case domain.EffectRelease:
		for _, line := range order.Lines {
			if line.Reserved > 0 {
				planned = append(planned, stockMove{productID: line.Product.ID, quantity: line.Reserved})
			}
		}
	default:
		return nil, nil
	}

	applied := make([]stockMove, 0, len(planned))
	for _, move := range planned {
		if err := s.applyMove(ctx, move); err != nil {
			return nil, errors.Join(err, s.compensate(ctx, applied))
		}
		applied = append(applied, move)
	}
	return applied, nil
}

// checkAvailability verifies every line against fresh stock before anything is deducted.
func (s *Service) checkAvailability(ctx context.Context, order *domain.Order) error {
	var shortages []string
	for _, line := range order.Lines {
		product, err := s.catalog.GetProduct(ctx, line.Product.ID)
		if err != nil {
			return err
		}
		if product.Stock < line.Quantity {
			shortages = append(shortages, fmt.Sprintf("%q has %d in stock, order needs %d", product.Name, product.Stock, line.Quantity))
		}
	}
	if len(shortages) > 0 {
		return fmt.Errorf("%w: %s", ports.ErrInsufficientStock, strings.Join(shortages, "; "))
	}
	return nil
}

func (s *Service) applyMove(ctx context.Context, move stockMove) error {
	if move.reserve {
		return s.catalog.Reserve(ctx, move.productID, move.quantity)
	}
	return s.catalog.Release(ctx, move.productID, move.quantity)
}

// compensate undoes applied moves in reverse order.
func (s *Service) compensate(ctx context.Context, applied []stockMove) error {
	var errs []error
	for i := len(applied) - 1; i >= 0; i-- {
		if err := s.applyMove(ctx, applied[i].inverse()); err != nil {
			errs = append(errs, fmt.Errorf("compensating stock for product %d: %w", applied[i].productID, err))
		}
	}
	return errors.Join(errs...)
}
