package redis

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	Client *redis.Client
	Ctx    = context.Background()
)

func InitRedis() {
	Client = redis.NewClient(&redis.Options{
		Addr: os.Getenv("REDIS_ADDR"),
		DB:   0,
	})

	// Test connection
	_, err := Client.Ping(Ctx).Result()
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis: %v", err))
	}
	log.Println("Connected to Redis")
}

func denylistKey(jti string) string {
	return "denylist:" + jti
}

// DenylistToken records a revoked token ID until the token itself expires.
func DenylistToken(jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return Client.Set(Ctx, denylistKey(jti), "revoked", ttl).Err()
}

// IsTokenDenylisted reports whether a token ID has been revoked. When Redis
// is unreachable the token is treated as revoked; the gate fails closed.
func IsTokenDenylisted(jti string) bool {
	if Client == nil {
		return false
	}
	_, err := Client.Get(Ctx, denylistKey(jti)).Result()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		log.Printf("Redis denylist lookup failed: %v", err)
		return true
	}
	return true
}
