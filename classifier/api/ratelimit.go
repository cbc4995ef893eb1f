// Copyright (c) DocSift
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/docsift/docsift/api"
)

const rateLimitPrefix = "rate_limit:"

// RateLimitConfig contains the request rate limit settings.
type RateLimitConfig struct {
	Limit  int64
	Period time.Duration
}

// RateLimiter enforces a fixed-window request limit per client, backed
// by Redis. Clients are identified by API key when present, remote
// address otherwise.
type RateLimiter struct {
	client *redis.Client
	cfg    RateLimitConfig
}

// NewRateLimiter returns a Redis backed rate limiter. A nil limiter
// disables rate limiting.
func NewRateLimiter(client *redis.Client, cfg RateLimitConfig) *RateLimiter {
	return &RateLimiter{client: client, cfg: cfg}
}

// Handler is a chi-compatible middleware enforcing the limit.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	if rl == nil || rl.client == nil || rl.cfg.Limit <= 0 {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := rateLimitPrefix + clientID(r)
		ctx := r.Context()

		current, err := rl.client.Incr(ctx, key).Result()
		if err != nil {
			// Redis being down must not take the API with it.
			next.ServeHTTP(w, r)
			return
		}
		if current == 1 {
			rl.client.Expire(ctx, key, rl.cfg.Period)
		}

		if current > rl.cfg.Limit {
			retryAfter := rl.cfg.Period
			if ttl, err := rl.client.TTL(ctx, key).Result(); err == nil && ttl > 0 {
				retryAfter = ttl
			}

			w.Header().Set("Content-Type", api.ContentType)
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"error":       "Rate limit exceeded",
				"retry_after": int64(retryAfter.Seconds()),
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientID(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
