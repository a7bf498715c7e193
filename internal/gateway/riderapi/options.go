package riderapi

import (
	"context"
	"time"
)

// HTTPOptions configures NewHTTPClient.
type HTTPOptions struct {
	Timeout        time.Duration
	Tokens         TokenSource
	OnUnauthorized func(ctx context.Context)
}
