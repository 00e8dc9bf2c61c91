package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-order-desk/internal/domains/clients/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid client input")
	// ErrDuplicateEmail is returned when another client already uses the email.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInUse is returned when deleting a client that still has orders.
	ErrInUse = errors.New("client has orders")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNameTooShort) ||
		errors.Is(err, domain.ErrInvalidEmail) ||
		errors.Is(err, domain.ErrInvalidPhone) ||
		errors.Is(err, domain.ErrAddressTooShort) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
