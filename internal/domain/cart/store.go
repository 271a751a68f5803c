// internal/domain/cart/store.go
package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Store durably holds the full line set for a customer across sessions.
// Save is whole-array replacement; concurrent sessions for the same customer
// resolve last-write-wins.
type Store interface {
	// Load returns the stored lines for a customer. Absence and corrupt
	// payloads both yield an empty set, never an error.
	Load(ctx context.Context, customerID uint) ([]Line, error)
	// Save overwrites the stored lines for a customer.
	Save(ctx context.Context, customerID uint, lines []Line) error
}

// RedisStore persists carts as JSON blobs keyed per customer, so sessions
// for different customers never collide.
type RedisStore struct {
	client *redis.Client
	logger *logrus.Logger
}

// NewRedisStore creates a Redis-backed cart store
func NewRedisStore(client *redis.Client, logger *logrus.Logger) *RedisStore {
	return &RedisStore{client: client, logger: logger}
}

func cartKey(customerID uint) string {
	return fmt.Sprintf("cart:customer:%d", customerID)
}

// Load retrieves the stored line set for a customer. A missing key or a
// payload that fails to parse is treated as an empty cart.
func (s *RedisStore) Load(ctx context.Context, customerID uint) ([]Line, error) {
	payload, err := s.client.Get(ctx, cartKey(customerID)).Result()
	if err == redis.Nil {
		return []Line{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart for customer %d: %w", customerID, err)
	}

	lines, err := decodeLines([]byte(payload))
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"customer_id": customerID,
			"error":       err,
		}).Warn("Discarding corrupt cart payload")
		return []Line{}, nil
	}
	return lines, nil
}

// Save overwrites the stored line set for a customer. Carts persist until
// explicitly cleared, so no expiration is set.
func (s *RedisStore) Save(ctx context.Context, customerID uint, lines []Line) error {
	payload, err := encodeLines(lines)
	if err != nil {
		return fmt.Errorf("failed to encode cart for customer %d: %w", customerID, err)
	}
	if err := s.client.Set(ctx, cartKey(customerID), payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to save cart for customer %d: %w", customerID, err)
	}
	return nil
}

func encodeLines(lines []Line) ([]byte, error) {
	if lines == nil {
		lines = []Line{}
	}
	return json.Marshal(lines)
}

func decodeLines(payload []byte) ([]Line, error) {
	var lines []Line
	if err := json.Unmarshal(payload, &lines); err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []Line{}
	}
	return lines, nil
}
