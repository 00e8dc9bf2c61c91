// Package sequence allocates monotonic numeric identifiers per record kind.
package sequence

import (
	"context"
	"sync"
)

// Kind names an independent identifier sequence.
type Kind string

const (
	KindClients    Kind = "clients"
	KindProducts   Kind = "products"
	KindOrders     Kind = "orders"
	KindQuotations Kind = "quotations"
)

// Generator hands out the next identifier for a kind. Sequences start at 1.
type Generator interface {
	Next(ctx context.Context, kind Kind) (int64, error)
}

// Memory is a process-local Generator.
type Memory struct {
	mu      sync.Mutex
	current map[Kind]int64
}

// NewMemory returns an empty in-memory generator.
func NewMemory() *Memory {
	return &Memory{current: map[Kind]int64{}}
}

// Next increments and returns the counter for kind.
func (m *Memory) Next(_ context.Context, kind Kind) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current[kind]++
	return m.current[kind], nil
}

// Observe raises the counter for kind so it never hands out id or anything below it.
func (m *Memory) Observe(kind Kind, id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id > m.current[kind] {
		m.current[kind] = id
	}
}

var _ Generator = (*Memory)(nil)
