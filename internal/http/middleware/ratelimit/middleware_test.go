package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"service-rider-web/internal/logx"
)

type stubLimiter struct {
	allow bool
	wait  time.Duration
	keys  []string
}

func (s *stubLimiter) Allow(key string) (bool, time.Duration) {
	s.keys = append(s.keys, key)
	return s.allow, s.wait
}

func TestMiddleware_Allows_RequestPassesToNext(t *testing.T) {
	t.Parallel()

	nextCalled := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled++
		w.WriteHeader(http.StatusOK)
	})

	lim := &stubLimiter{allow: true}
	r := chi.NewRouter()
	r.With(New(logx.Nop(), nil, lim).Handler()).Post("/login", next)

	req := httptest.NewRequest(http.MethodPost, "http://example/login", nil)
	req.RemoteAddr = "1.2.3.4:5678"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, nextCalled)
	require.Equal(t, []string{"1.2.3.4 /login"}, lim.keys)
}

func TestMiddleware_KeysByRoutePattern(t *testing.T) {
	t.Parallel()

	lim := &stubLimiter{allow: true}
	r := chi.NewRouter()
	r.With(New(nil, nil, lim).Handler()).Post("/orders/{id}/status", func(w http.ResponseWriter, _ *http.Request) {})

	req := httptest.NewRequest(http.MethodPost, "/orders/o-1/status", nil)
	req.RemoteAddr = "5.6.7.8:1"
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, []string{"5.6.7.8 /orders/{id}/status"}, lim.keys)
}

func TestMiddleware_Blocks_Returns429AndIncrementsCounter(t *testing.T) {
	t.Parallel()

	nextCalled := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled++
	})

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ratelimit_denied_total",
		Help: "denied requests",
	})

	h := New(logx.Nop(), counter, &stubLimiter{allow: false, wait: 2500 * time.Millisecond}).Handler()(next)

	req := httptest.NewRequest(http.MethodPost, "http://example/login", nil)
	req.RemoteAddr = "1.2.3.4:5678"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, 0, nextCalled)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, "3", w.Header().Get("Retry-After"))
	require.Equal(t, rejectMessage, w.Body.String())
	require.Equal(t, float64(1), testutil.ToFloat64(counter))
}

func TestRetryAfterSeconds_AtLeastOne(t *testing.T) {
	t.Parallel()

	require.Equal(t, 1, retryAfterSeconds(0))
	require.Equal(t, 1, retryAfterSeconds(time.Millisecond))
	require.Equal(t, 2, retryAfterSeconds(1001*time.Millisecond))
}
