package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"service-rider-web/internal/domain"
)

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewGatewayRetriesTotal returns a Prometheus counter for the number of retry attempts performed by gateways
func NewGatewayRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gateway_retries_total",
		Help: "Total number of retry attempts performed by gateways",
	})
}

// NewSessionExpiredTotal counts sessions cleared because the rider API answered 401.
func NewSessionExpiredTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "session_expired_total",
		Help: "Total number of sessions cleared after a 401 from the rider API",
	})
}

// NewStatusTransitionsTotal counts order status change requests by target status and result.
func NewStatusTransitionsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Total number of order status change requests",
	}, []string{"status", "result"})
}

// NewUpstreamOnline reports 1 while the rider API answers health probes.
func NewUpstreamOnline() prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "upstream_online",
		Help: "1 if the rider API is reachable, 0 otherwise",
	})
}

// Set groups the service collectors so they can be registered together.
type Set struct {
	RateLimitExceeded prometheus.Counter
	GatewayRetries    prometheus.Counter
	SessionExpired    prometheus.Counter
	StatusTransitions *prometheus.CounterVec
	UpstreamOnline    prometheus.Gauge
}

// NewSet creates all service collectors.
func NewSet() *Set {
	return &Set{
		RateLimitExceeded: NewRateLimitExceededTotal(),
		GatewayRetries:    NewGatewayRetriesTotal(),
		SessionExpired:    NewSessionExpiredTotal(),
		StatusTransitions: NewStatusTransitionsTotal(),
		UpstreamOnline:    NewUpstreamOnline(),
	}
}

// Register registers every collector of the set.
func (s *Set) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		s.RateLimitExceeded, s.GatewayRetries, s.SessionExpired, s.StatusTransitions, s.UpstreamOnline,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Transitions records status change requests on the transitions counter.
type Transitions struct{ vec *prometheus.CounterVec }

// NewTransitions wraps vec.
func NewTransitions(vec *prometheus.CounterVec) Transitions { return Transitions{vec: vec} }

// Observe increments the counter for status and result.
func (t Transitions) Observe(status domain.OrderStatus, result string) {
	t.vec.WithLabelValues(string(status), result).Inc()
}

// Online mirrors upstream reachability on a gauge.
type Online struct{ g prometheus.Gauge }

// NewOnline wraps g.
func NewOnline(g prometheus.Gauge) Online { return Online{g: g} }

// SetOnline sets the gauge to 1 or 0.
func (o Online) SetOnline(up bool) {
	if up {
		o.g.Set(1)
		return
	}
	o.g.Set(0)
}
