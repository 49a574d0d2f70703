package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"eventhub/internal/shared/config"
)

// Config holds the limit for a single rate limit class.
type Config struct {
	Requests int
	Window   time.Duration
}

// Result describes the outcome of a rate limit check.
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
	Limit      int
}

// RateLimiter implements a fixed-window rate limiter on Redis.
type RateLimiter struct {
	client      *redis.Client
	cfg         *config.RateLimitConfig
	whitelisted map[string]struct{}
}

// NewRateLimiter creates a rate limiter backed by the given Redis client.
func NewRateLimiter(client *redis.Client, cfg *config.RateLimitConfig) *RateLimiter {
	whitelist := make(map[string]struct{}, len(cfg.WhitelistedIPs))
	for _, ip := range cfg.WhitelistedIPs {
		whitelist[ip] = struct{}{}
	}

	return &RateLimiter{
		client:      client,
		cfg:         cfg,
		whitelisted: whitelist,
	}
}

// IsAllowed checks whether the given client may make another request of
// the given type within the current window.
func (rl *RateLimiter) IsAllowed(ctx context.Context, clientIP, limitType string) (*Result, error) {
	if rl.isWhitelisted(clientIP) {
		return &Result{Allowed: true, Remaining: -1, Limit: -1}, nil
	}

	limit := rl.getLimit(limitType)
	key := fmt.Sprintf("ratelimit:%s:%s", limitType, clientIP)

	count, err := rl.client.Incr(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("rate limit incr failed: %w", err)
	}

	if count == 1 {
		if err := rl.client.Expire(ctx, key, limit.Window).Err(); err != nil {
			return nil, fmt.Errorf("rate limit expire failed: %w", err)
		}
	}

	if count > int64(limit.Requests) {
		ttl, err := rl.client.TTL(ctx, key).Result()
		if err != nil || ttl < 0 {
			ttl = limit.Window
		}
		return &Result{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: ttl,
			Limit:      limit.Requests,
		}, nil
	}

	return &Result{
		Allowed:   true,
		Remaining: limit.Requests - int(count),
		Limit:     limit.Requests,
	}, nil
}

func (rl *RateLimiter) isWhitelisted(clientIP string) bool {
	_, ok := rl.whitelisted[clientIP]
	return ok
}

func (rl *RateLimiter) getLimit(limitType string) Config {
	window := rl.cfg.WindowDuration
	switch limitType {
	case "auth":
		return Config{Requests: rl.cfg.AuthRequests, Window: window}
	case "booking":
		return Config{Requests: rl.cfg.BookingRequests, Window: window}
	case "booking_critical":
		return Config{Requests: rl.cfg.BookingCriticalRequests, Window: window}
	case "public":
		return Config{Requests: rl.cfg.PublicRequests, Window: window}
	case "admin":
		return Config{Requests: rl.cfg.AdminRequests, Window: window}
	case "health":
		return Config{Requests: rl.cfg.HealthRequests, Window: window}
	default:
		return Config{Requests: rl.cfg.DefaultRequests, Window: window}
	}
}
