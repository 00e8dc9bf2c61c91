package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/ports"
)

const keyPrefix = "order-desk:idempotency:"

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore keeps order creation keys in Redis. Keys expire after ttl,
// after which a retry creates a new order.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: ttl, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (s *IdempotencyStore) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	raw, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get idempotency key: %w", err)
	}
	var record ports.IdempotencyRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decode idempotency record: %w", err)
	}
	return &record, nil
}

// Save claims the key with SETNX. A lost race compares against the stored record.
func (s *IdempotencyStore) Save(ctx context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	now := s.now()
	record.CreatedAt = now
	record.UpdatedAt = now
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode idempotency record: %w", err)
	}
	claimed, err := s.client.SetNX(ctx, keyPrefix+record.Key, payload, s.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis setnx idempotency key: %w", err)
	}
	if claimed {
		return &record, nil
	}
	existing, err := s.Get(ctx, record.Key)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("idempotency key %q vanished during save", record.Key)
	}
	if existing.RequestHash != record.RequestHash || existing.OrderID != record.OrderID {
		return existing, ports.ErrIdempotencyConflict
	}
	return existing, nil
}
