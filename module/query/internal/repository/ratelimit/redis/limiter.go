package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/TheFoister/kgm-checker/module/query/internal/repository/ratelimit"
)

var _ ratelimit.Limiter = (*Limiter)(nil)

const keyPrefix = "kgm:ratelimit:"

// Limiter is a fixed-window counter: at most limit calls per key per window.
// ExpireNX needs Redis 7 or newer.
type Limiter struct {
	client goredis.Cmdable
	limit  int64
	window time.Duration
}

func NewLimiter(client goredis.Cmdable, limit int, window time.Duration) *Limiter {
	return &Limiter{client: client, limit: int64(limit), window: window}
}

func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	k := keyPrefix + key

	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("incr %s: %w", k, err)
	}
	// NX on every hit: a window whose first EXPIRE was lost still gets a TTL.
	if err := l.client.ExpireNX(ctx, k, l.window).Err(); err != nil {
		return false, fmt.Errorf("expire %s: %w", k, err)
	}
	return n <= l.limit, nil
}
