package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"reelhub/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// Aside reads key into dest. On a miss, or with no Redis, it calls fetch to
// fill dest and stores the result for ttl. Cache failures never fail the read.
func Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, fetch func() error) error {
	if client == nil {
		return fetch()
	}

	raw, err := client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(raw, dest); jsonErr == nil {
			return nil
		}
		middleware.Logger.WarnContext(ctx, "Discarding undecodable cache entry", slog.String("key", key))
	case !errors.Is(err, redis.Nil):
		middleware.Logger.WarnContext(ctx, "Cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	if err := fetch(); err != nil {
		return err
	}

	payload, err := json.Marshal(dest)
	if err != nil {
		return nil
	}
	if err := client.Set(ctx, key, payload, ttl).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "Cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return nil
}
