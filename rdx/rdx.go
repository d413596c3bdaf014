package rdx

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Conn is the shared Redis client, set up once from main.
var Conn *redis.Client

// Init connects the shared client. Redis is optional infrastructure here:
// locks degrade to last-write-wins when it is absent.
func Init() {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		addr = "localhost:6379"
	}
	Conn = redis.NewClient(&redis.Options{Addr: addr})
	if err := Conn.Ping(context.Background()).Err(); err != nil {
		log.Printf("Redis unavailable at %s: %v", addr, err)
	}
}

// AcquireLock takes a short-lived per-key lock via SetNX.
func AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if Conn == nil {
		return true, nil
	}
	return Conn.SetNX(ctx, "lock:"+key, "1", ttl).Result()
}

// ReleaseLock drops a lock taken with AcquireLock.
func ReleaseLock(ctx context.Context, key string) {
	if Conn == nil {
		return
	}
	if err := Conn.Del(ctx, "lock:"+key).Err(); err != nil {
		log.Printf("ReleaseLock: failed for %s, err=%v", key, err)
	}
}

// WithUserLock serializes a mutation per user. It waits briefly for the lock
// and runs fn regardless after the wait window, keeping the original
// last-write-wins behavior as the degraded mode.
func WithUserLock(ctx context.Context, userID string, fn func() error) error {
	deadline := time.Now().Add(2 * time.Second)
	for {
		ok, err := AcquireLock(ctx, "cart:"+userID, 5*time.Second)
		if err != nil || ok {
			break
		}
		if time.Now().After(deadline) {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	defer ReleaseLock(ctx, "cart:"+userID)
	return fn()
}
