package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-order-desk/internal/domains/catalog/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid product input")
	// ErrDuplicateName is returned when another product already uses the name.
	ErrDuplicateName = errors.New("product name already exists")
	// ErrInUse is returned when deleting a product referenced by orders.
	ErrInUse = errors.New("product is referenced by orders")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNameTooShort) ||
		errors.Is(err, domain.ErrDescriptionTooShort) ||
		errors.Is(err, domain.ErrPriceNotPositive) ||
		errors.Is(err, domain.ErrNegativeStock) ||
		errors.Is(err, domain.ErrInvalidAmount) ||
		errors.Is(err, domain.ErrInvalidStockMode) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
