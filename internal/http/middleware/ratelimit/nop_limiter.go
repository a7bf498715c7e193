package ratelimit

import "time"

// NopLimiter admits everything; used when rate limiting is disabled.
type NopLimiter struct{}

// Allow always admits.
func (NopLimiter) Allow(string) (bool, time.Duration) { return true, 0 }
