package ratelimit

import (
	"context"
	"time"
)

// Limit allows Requests per Window for one key.
type Limit struct {
	Requests int
	Window   time.Duration
}

func PerMinute(requests int) Limit {
	return Limit{Requests: requests, Window: time.Minute}
}

type RateLimiter interface {
	// Allow records a hit for key and reports whether it fits the limit.
	Allow(ctx context.Context, key string, limit Limit) (bool, error)
	Remaining(ctx context.Context, key string, limit Limit) (int64, error)
	Reset(ctx context.Context, key string) error
}
