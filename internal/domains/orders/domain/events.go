package domain

import "time"

// Event is the base interface for all order domain events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
	AggregateID() int64
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	OrderID   int64     `json:"orderId"`
	Timestamp time.Time `json:"timestamp"`
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID returns the order the event belongs to.
func (e BaseEvent) AggregateID() int64 {
	return e.OrderID
}

// OrderCreated is raised when a new order is opened for a client.
type OrderCreated struct {
	BaseEvent
	ClientID int64 `json:"clientId"`
}

func (e OrderCreated) EventName() string {
	return "orders.order.created"
}

// OrderLineAdded is raised when units of a product are added to an order.
type OrderLineAdded struct {
	BaseEvent
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"lineTotal"`
}

func (e OrderLineAdded) EventName() string {
	return "orders.order.line_added"
}

// OrderLineRemoved is raised when a product line is dropped from an order.
type OrderLineRemoved struct {
	BaseEvent
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
	Released  int   `json:"released"`
}

func (e OrderLineRemoved) EventName() string {
	return "orders.order.line_removed"
}

// OrderStatusChanged is raised after a successful transition.
type OrderStatusChanged struct {
	BaseEvent
	From   Status `json:"from"`
	To     Status `json:"to"`
	Effect string `json:"stockEffect"`
	Reason string `json:"reason,omitempty"`
}

func (e OrderStatusChanged) EventName() string {
	return "orders.order.status_changed"
}
