package app

import (
	"service-rider-web/internal/config"
	"service-rider-web/internal/http/middleware/ratelimit"
	"service-rider-web/internal/logx"
	"service-rider-web/internal/metrics"
)

func newRateLimiter(cfg *config.Config, clock ratelimit.Clock) ratelimit.Limiter {
	rl := cfg.RateLimit
	if !rl.Enabled {
		return ratelimit.NopLimiter{}
	}
	return ratelimit.NewTokenBucketLimiter(clock, ratelimit.Config{
		Rate:       rl.Rate,
		Burst:      rl.Burst,
		TTL:        rl.TTL,
		MaxBuckets: rl.MaxBuckets,
	})
}

func newRateLimitClock() ratelimit.Clock {
	return ratelimit.RealClock{}
}

func newRateLimitMiddleware(logger logx.Logger, m *metrics.Set, limiter ratelimit.Limiter) *ratelimit.Middleware {
	return ratelimit.New(logger, m.RateLimitExceeded, limiter)
}
