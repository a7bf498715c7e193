package riderapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"service-rider-web/internal/domain"
	"service-rider-web/internal/logx"
)

// API is the full rider API surface used by the services.
type API interface {
	LoginWithGoogle(ctx context.Context, idToken string) (domain.AuthResult, error)
	Me(ctx context.Context) (*domain.User, error)
	Dashboard(ctx context.Context) (*domain.Dashboard, error)
	Orders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	Order(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, upd domain.StatusUpdate) (*domain.Order, error)
	TodayRoute(ctx context.Context) (*domain.TodayRoute, error)
}

type counter interface {
	Inc()
}

// RetryConfig describes the read retry policy.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RetryingClient retries failed reads. Login and status writes pass straight through.
type RetryingClient struct {
	next    API
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
}

var _ API = (*RetryingClient)(nil)

// NewRetryingClient returns nil when next is nil.
func NewRetryingClient(next API, logger logx.Logger, retries counter, cfg RetryConfig) *RetryingClient {
	if next == nil {
		return nil
	}
	if logger == nil {
		logger = logx.Nop()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryingClient{next: next, logger: logger, retries: retries, cfg: cfg}
}

// LoginWithGoogle is never retried.
func (c *RetryingClient) LoginWithGoogle(ctx context.Context, idToken string) (domain.AuthResult, error) {
	return c.next.LoginWithGoogle(ctx, idToken)
}

// UpdateStatus is never retried.
func (c *RetryingClient) UpdateStatus(ctx context.Context, id string, upd domain.StatusUpdate) (*domain.Order, error) {
	return c.next.UpdateStatus(ctx, id, upd)
}

func (c *RetryingClient) Me(ctx context.Context) (*domain.User, error) {
	return retry(ctx, c, "Me", c.next.Me)
}

func (c *RetryingClient) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	return retry(ctx, c, "Dashboard", c.next.Dashboard)
}

func (c *RetryingClient) Orders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	return retry(ctx, c, "Orders", func(ctx context.Context) ([]domain.Order, error) {
		return c.next.Orders(ctx, status)
	})
}

func (c *RetryingClient) Order(ctx context.Context, id string) (*domain.Order, error) {
	return retry(ctx, c, "Order", func(ctx context.Context) (*domain.Order, error) {
		return c.next.Order(ctx, id)
	})
}

func (c *RetryingClient) TodayRoute(ctx context.Context) (*domain.TodayRoute, error) {
	return retry(ctx, c, "TodayRoute", c.next.TodayRoute)
}

func retry[T any](ctx context.Context, c *RetryingClient, method string, call func(context.Context) (T, error)) (T, error) {
	var (
		zero    T
		lastErr error
	)
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		v, err := call(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if ctx.Err() != nil || attempt == c.cfg.MaxAttempts || !isRetryable(err) {
			break
		}

		delay := backoff(c.cfg.BaseDelay, c.cfg.MaxDelay, attempt)
		if c.retries != nil {
			c.retries.Inc()
		}
		c.logger.Warn("rider api retry",
			logx.String("method", method),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Err(err),
		)
		if !sleepWithContext(ctx, delay) {
			break
		}
	}
	return zero, lastErr
}

// isRetryable reports whether a failed read may succeed on a second try:
// transport failures, 408, 429 and 5xx. Other 4xx fail at once.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return true
	}
	switch {
	case apiErr.Status == http.StatusRequestTimeout,
		apiErr.Status == http.StatusTooManyRequests,
		apiErr.Status >= 500:
		return true
	default:
		return false
	}
}

func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > max {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
