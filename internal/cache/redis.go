package cache

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
)

var Client *redis.Client

var (
	newRedisClient = func(opts *redis.Options) *redis.Client {
		return redis.NewClient(opts)
	}
	pingRedis = func(ctx context.Context, client *redis.Client) error {
		return client.Ping(ctx).Err()
	}
	parseRedisURL = redis.ParseURL
)

// InitRedis connects the shared client used to mirror the latest snapshot.
// A missing or unreachable Redis is not fatal: the service degrades to the
// in-memory store only.
func InitRedis(ctx context.Context) {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		log.Println("REDIS_URL not set, snapshot mirroring disabled")
		return
	}

	opts := &redis.Options{Addr: addr}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := parseRedisURL(addr)
		if err != nil {
			log.Printf("failed to parse REDIS_URL, snapshot mirroring disabled: %v", err)
			return
		}
		opts = parsed
	}

	client := newRedisClient(opts)
	if err := pingRedis(ctx, client); err != nil {
		log.Printf("failed to connect to Redis, snapshot mirroring disabled: %v", err)
		return
	}
	Client = client
	log.Println("Connected to Redis")
}
