package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrInvalidSortKey is returned for unknown listing orders.
	ErrInvalidSortKey = errors.New("sort key must be date, client, status or total")
	// ErrInvalidPeriod is returned when a date range ends before it starts.
	ErrInvalidPeriod = errors.New("period end is before its start")
	// ErrInvalidWindow is returned for non-positive report windows.
	ErrInvalidWindow = errors.New("report window must be at least one day")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInvalidStatus) ||
		errors.Is(err, domain.ErrInvalidClient) ||
		errors.Is(err, domain.ErrInvalidProduct) ||
		errors.Is(err, ErrInvalidSortKey) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidWindow) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
