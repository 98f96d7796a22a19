package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/angelmondragon/materialhub-backend/pkg/enums"
)

// Snapshot is the persisted form of a Manager.
type Snapshot struct {
	Lines         []Line              `json:"lines"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
}

// Snapshot captures the manager state.
func (m *Manager) Snapshot() Snapshot {
	return Snapshot{Lines: m.Lines(), PaymentStatus: m.paymentStatus}
}

// FromSnapshot restores a manager. Lines with a non-positive quantity are discarded.
func FromSnapshot(s Snapshot) *Manager {
	m := NewManager()
	for _, line := range s.Lines {
		if !line.Quantity.IsPositive() {
			continue
		}
		line.LineTotal = line.Quantity.Mul(line.UnitPrice)
		m.lines = append(m.lines, line)
	}
	if s.PaymentStatus.IsValid() {
		m.paymentStatus = s.PaymentStatus
	}
	return m
}

type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(operatorID string) string
}

// Store keeps one draft cart per operator in Redis. Writes replace the whole
// cart; the last writer wins.
type Store struct {
	kv  kvStore
	ttl time.Duration
}

func NewStore(kv kvStore, ttl time.Duration) (*Store, error) {
	if kv == nil {
		return nil, errors.New("cart key-value store required")
	}
	return &Store{kv: kv, ttl: ttl}, nil
}

// Load returns the operator's cart, or an empty one when none is stored.
func (s *Store) Load(ctx context.Context, operatorID string) (*Manager, error) {
	raw, err := s.kv.Get(ctx, s.kv.CartKey(operatorID))
	if errors.Is(err, goredis.Nil) {
		return NewManager(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return FromSnapshot(snap), nil
}

// Save persists the cart and refreshes its TTL. An empty cart with the default
// payment selection is deleted instead.
func (s *Store) Save(ctx context.Context, operatorID string, m *Manager) error {
	if m.Len() == 0 && m.PaymentStatus() == enums.DefaultPaymentStatus {
		return s.Clear(ctx, operatorID)
	}
	payload, err := json.Marshal(m.Snapshot())
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.kv.Set(ctx, s.kv.CartKey(operatorID), payload, s.ttl); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context, operatorID string) error {
	if err := s.kv.Del(ctx, s.kv.CartKey(operatorID)); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
