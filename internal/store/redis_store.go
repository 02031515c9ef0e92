package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/geekskai/exchange-rate-service/internal/models"
)

const redisSnapshotKey = "rates:snapshot"

// RedisStore keeps the snapshot under a single Redis key. No TTL is set;
// staleness is decided by the snapshot's calendar day, not by Redis expiry.
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisStore(addr string, logger *zap.Logger) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})
	return &RedisStore{client: client, logger: logger}
}

func (s *RedisStore) Read(ctx context.Context) (*models.RateSnapshot, error) {
	data, err := s.client.Get(ctx, redisSnapshotKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSnapshotNotFound
		}
		s.logger.Warn("redis snapshot read failed, treating as cache miss", zap.Error(err))
		return nil, ErrSnapshotNotFound
	}

	var snap models.RateSnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		s.logger.Warn("redis snapshot corrupt, treating as cache miss", zap.Error(err))
		return nil, ErrSnapshotNotFound
	}

	if err := snap.Validate(nil); err != nil {
		s.logger.Warn("redis snapshot invalid, treating as cache miss", zap.Error(err))
		return nil, ErrSnapshotNotFound
	}

	return &snap, nil
}

func (s *RedisStore) Write(ctx context.Context, snap *models.RateSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisSnapshotKey, data, 0).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
