package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultWindow = 10 * time.Minute
	defaultLimit  = 3
)

// counterCmds is the slice of the Redis API the throttle issues. *redis.Client
// satisfies it.
type counterCmds interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// Throttle caps OTP requests per phone number using a fixed window counter.
// Key format: otp:<phone>
type Throttle struct {
	client counterCmds
	limit  int64
	window time.Duration
}

// NewThrottle creates a Throttle wrapping the given Redis client.
// Non-positive limit/window fall back to the defaults.
func NewThrottle(client counterCmds, limit int, window time.Duration) *Throttle {
	if limit <= 0 {
		limit = defaultLimit
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &Throttle{client: client, limit: int64(limit), window: window}
}

// Allow counts this request against the phone's window and reports whether
// it stays within the limit. The window starts on the first request. INCR
// and EXPIRE are separate commands, so a failed EXPIRE can leave the key
// persistent; later calls detect the missing TTL and re-arm it, keeping the
// window from locking a phone out forever.
func (t *Throttle) Allow(ctx context.Context, phone string) (bool, error) {
	key := t.key(phone)

	n, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("otp throttle incr: %w", err)
	}

	if n == 1 {
		if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
			return false, fmt.Errorf("otp throttle expire: %w", err)
		}
	} else if ttl, err := t.client.TTL(ctx, key).Result(); err == nil && ttl < 0 {
		if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
			return false, fmt.Errorf("otp throttle expire: %w", err)
		}
	}

	return n <= t.limit, nil
}

func (t *Throttle) key(phone string) string {
	return fmt.Sprintf("otp:%s", phone)
}
