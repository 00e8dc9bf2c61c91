package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Apurer/go-gin-order-desk/internal/shared/statemachine"
)

// Status enumerates quotation outcomes.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
)

var Statuses = []Status{StatusPending, StatusApproved, StatusRejected, StatusExpired}

var (
	ErrInvalidStatus     = errors.New("quotation status is invalid")
	ErrInvalidTransition = errors.New("invalid quotation status transition")
)

var lifecycle = statemachine.NewTable(map[Status][]Status{
	StatusPending: {StatusApproved, StatusRejected, StatusExpired},
})

func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return status, nil
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusExpired:
		return true
	default:
		return false
	}
}

// Decided reports whether the client answered the quotation.
func (s Status) Decided() bool {
	return s == StatusApproved || s == StatusRejected
}

func (s Status) NextStatuses() []Status {
	return lifecycle.Targets(s)
}

// CheckTransition validates from -> to.
func CheckTransition(from, to Status) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	if !lifecycle.Allows(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
