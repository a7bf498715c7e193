package session

import "context"

type ctxKey struct{}

// WithHandle binds h to ctx.
func WithHandle(ctx context.Context, h *Handle) context.Context {
	return context.WithValue(ctx, ctxKey{}, h)
}

// FromContext returns the handle bound to ctx or nil.
func FromContext(ctx context.Context) *Handle {
	h, _ := ctx.Value(ctxKey{}).(*Handle)
	return h
}

// TokenFromContext returns the bearer token of the session bound to ctx, or "".
func TokenFromContext(ctx context.Context) string {
	h := FromContext(ctx)
	if h == nil {
		return ""
	}
	return h.Session().Token
}
