package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultResetWindow = 15 * time.Minute

// ResetThrottle limits how often a single email address can request a
// password reset. Key format: reset_throttle:<lowercased email>
type ResetThrottle struct {
	client *redis.Client
	window time.Duration
}

// NewResetThrottle creates a ResetThrottle wrapping the given Redis client.
// If window <= 0, defaultResetWindow is used.
func NewResetThrottle(client *redis.Client, window time.Duration) *ResetThrottle {
	if window <= 0 {
		window = defaultResetWindow
	}
	return &ResetThrottle{client: client, window: window}
}

// Allow reports whether a reset request for this email may proceed. The
// first request in a window claims the key; repeats within the window are
// denied. Errors are returned to the caller, which fails open.
func (t *ResetThrottle) Allow(ctx context.Context, email string) (bool, error) {
	ok, err := t.client.SetNX(ctx, t.key(email), "1", t.window).Result()
	if err != nil {
		return false, fmt.Errorf("reset throttle: %w", err)
	}
	return ok, nil
}

func (t *ResetThrottle) key(email string) string {
	return "reset_throttle:" + strings.ToLower(email)
}
