package ratelimit

import "time"

// Limiter decides whether a keyed request may proceed. When it may not, wait is the time
// until the next request for key would be admitted.
type Limiter interface {
	Allow(key string) (ok bool, wait time.Duration)
}
