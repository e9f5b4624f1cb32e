// internal/cache/cache.go
package cache

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Connect creates a Redis client and verifies the connection.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return rdb, nil
}

// sessionKey is the cache key of a session snapshot.
func sessionKey(id uuid.UUID) string {
	return "kokodi:session:" + id.String()
}

// turnChannel is the pub/sub channel carrying a session's turn results.
func turnChannel(id uuid.UUID) string {
	return "kokodi:turns:" + id.String()
}
