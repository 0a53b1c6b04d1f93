package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/togengine-byte/CRM-sub003/internal/model"
)

// DefaultWeightsKey is the Redis key holding the weights JSON.
const DefaultWeightsKey = "supplier_scoring:weights"

// RedisWeightStore keeps the weights under a single key, so a save replaces
// the whole configuration in one SET.
type RedisWeightStore struct {
	client *redis.Client
	key    string
}

func NewRedisWeightStore(ctx context.Context, addr, password string, db int, key string) (*RedisWeightStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	if key == "" {
		key = DefaultWeightsKey
	}
	return &RedisWeightStore{client: client, key: key}, nil
}

func (s *RedisWeightStore) GetWeights(ctx context.Context) (*model.WeightConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get weights: %w", err)
	}
	var w model.WeightConfig
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to unmarshal weights: %w", err)
	}
	return &w, nil
}

func (s *RedisWeightStore) SaveWeights(ctx context.Context, w model.WeightConfig) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("failed to marshal weights: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set weights: %w", err)
	}
	return nil
}

func (s *RedisWeightStore) Close() error {
	return s.client.Close()
}
