// Package redis manages the Redis client behind the Redis-backed storage.
//
// Open creates a client with pooling, command timeouts sized for blob
// transfers, and startup retry. Healthcheck and Shutdown produce closures
// for health probes and graceful teardown.
//
//	client, err := redis.Open(ctx, "redis://localhost:6379/0",
//	    redis.WithPool(20, 4),
//	    redis.WithRetry(5, 3*time.Second),
//	)
//	if err != nil {
//	    return err
//	}
//	defer redis.Shutdown(client)(ctx)
//
//	store, err := storage.NewRedis(client, storage.RedisConfig{...})
//
// Both redis:// and rediss:// (TLS) URL schemes are supported.
package redis
