package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Apurer/go-gin-order-desk/internal/shared/statemachine"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

var (
	ErrInvalidStatus     = errors.New("order status is invalid")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// StockEffect is what a transition does to catalog stock.
type StockEffect int

const (
	EffectNone StockEffect = iota
	// EffectReserve deducts every line quantity from stock.
	EffectReserve
	// EffectRelease returns every reserved quantity to stock.
	EffectRelease
)

func (e StockEffect) String() string {
	switch e {
	case EffectReserve:
		return "reserve"
	case EffectRelease:
		return "release"
	default:
		return "none"
	}
}

var lifecycle = statemachine.NewTable(map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
})

type edge struct{ from, to Status }

var stockEffects = map[edge]StockEffect{
	{StatusPending, StatusProcessing}:   EffectReserve,
	{StatusProcessing, StatusCancelled}: EffectRelease,
}

// ParseStatus accepts the five status tokens, case-insensitively.
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return status, nil
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// Editable reports whether lines may still change in this status.
func (s Status) Editable() bool {
	return s == StatusPending || s == StatusProcessing
}

// Terminal reports whether the status has no outgoing transition.
func (s Status) Terminal() bool {
	return lifecycle.IsTerminal(s)
}

// NextStatuses lists the statuses reachable from s.
func (s Status) NextStatuses() []Status {
	return lifecycle.Targets(s)
}

// PlanTransition validates from -> to and returns its stock effect.
func PlanTransition(from, to Status) (StockEffect, error) {
	if !to.Valid() {
		return EffectNone, fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	if !lifecycle.Allows(from, to) {
		return EffectNone, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return stockEffects[edge{from, to}], nil
}
