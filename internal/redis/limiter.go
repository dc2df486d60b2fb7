package redis

import (
	"context"
	"time"
)

// Limiter is a fixed-window rate limiter backed by SET NX with TTL.
type Limiter struct {
	client *Client
	prefix string
	window time.Duration
}

func NewLimiter(client *Client, prefix string, window time.Duration) *Limiter {
	return &Limiter{client: client, prefix: prefix, window: window}
}

// Allow reports whether the key may proceed in the current window.
// A redis outage fails open.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	ok, err := l.client.SetNX(ctx, l.prefix+key, 1, l.window).Result()
	if err != nil {
		return true
	}
	return ok
}
