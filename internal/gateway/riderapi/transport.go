package riderapi

import (
	"context"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip implements http.RoundTripper.
func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// Decorator wraps a RoundTripper with cross-cutting behaviour.
type Decorator func(http.RoundTripper) http.RoundTripper

// Chain applies decorators so that the first one is the outermost.
func Chain(base http.RoundTripper, decorators ...Decorator) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	for i := len(decorators) - 1; i >= 0; i-- {
		base = decorators[i](base)
	}
	return base
}

// TokenSource returns the bearer token bound to ctx, or "".
type TokenSource func(ctx context.Context) string

// WithBearer attaches "Authorization: Bearer <token>" when the source yields a token,
// and an X-Request-ID correlating the upstream call with the inbound request.
func WithBearer(tokens TokenSource) Decorator {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			r = r.Clone(r.Context())
			if tokens != nil {
				if tok := tokens(r.Context()); tok != "" {
					r.Header.Set("Authorization", "Bearer "+tok)
				}
			}
			if r.Header.Get("X-Request-ID") == "" {
				id := chimw.GetReqID(r.Context())
				if id == "" {
					id = uuid.NewString()
				}
				r.Header.Set("X-Request-ID", id)
			}
			return next.RoundTrip(r)
		})
	}
}

// WithExpiry calls onUnauthorized for every 401 answer, whatever endpoint produced it.
// The response is still returned to the caller.
func WithExpiry(onUnauthorized func(ctx context.Context)) Decorator {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			resp, err := next.RoundTrip(r)
			if err == nil && resp.StatusCode == http.StatusUnauthorized && onUnauthorized != nil {
				onUnauthorized(r.Context())
			}
			return resp, err
		})
	}
}

// NewHTTPClient builds the rider API http.Client with the bearer and expiry decorators.
func NewHTTPClient(base http.RoundTripper, opts HTTPOptions) *http.Client {
	return &http.Client{
		Timeout: opts.Timeout,
		Transport: Chain(base,
			WithExpiry(opts.OnUnauthorized),
			WithBearer(opts.Tokens),
		),
	}
}
