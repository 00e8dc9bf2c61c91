package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-order-desk/internal/domains/quotations/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid quotation input")
	// ErrInvalidPeriod is returned when a date range ends before it starts.
	ErrInvalidPeriod = errors.New("period end is before its start")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidClient) ||
		errors.Is(err, domain.ErrInvalidProduct) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInvalidPrice) ||
		errors.Is(err, domain.ErrInvalidValidity) ||
		errors.Is(err, domain.ErrInvalidDiscount) ||
		errors.Is(err, domain.ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidPeriod) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
