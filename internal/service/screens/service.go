// Package screens loads the data behind the read-only rider screens through the query cache.
package screens

import (
	"context"
	"strings"
	"time"

	"service-rider-web/internal/apperr"
	"service-rider-web/internal/domain"
	"service-rider-web/internal/logx"
	"service-rider-web/internal/query"
)

// Service serves dashboard, orders, order detail and today's route. Every read is cached
// under the caller's domain.Session.CacheScope.
type Service struct {
	api              readAPI
	cache            *query.Cache
	operationTimeout time.Duration
	logger           logx.Logger
}

// NewService creates a new Service.
func NewService(api readAPI, cache *query.Cache, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{api: api, cache: cache, operationTimeout: timeout, logger: logger}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// NormalizeFilter maps a requested list filter onto shipped (Active) or delivered (Completed).
func NormalizeFilter(raw string) domain.OrderStatus {
	if domain.OrderStatus(strings.ToLower(strings.TrimSpace(raw))) == domain.OrderDelivered {
		return domain.OrderDelivered
	}
	return domain.OrderShipped
}

// Dashboard returns the rider's stats and recent orders.
func (s *Service) Dashboard(ctx context.Context, scope string) (*domain.Dashboard, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	d, err := query.Fetch(ctx, s.cache, query.DashboardKey(scope), s.api.Dashboard)
	if err != nil {
		s.logFailure("dashboard", scope, err)
		return nil, err
	}
	return d, nil
}

// Orders returns the rider's orders for the normalized filter.
func (s *Service) Orders(ctx context.Context, scope, filter string) ([]domain.Order, domain.OrderStatus, error) {
	status := NormalizeFilter(filter)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	orders, err := query.Fetch(ctx, s.cache, query.OrdersKey(scope, string(status)),
		func(ctx context.Context) ([]domain.Order, error) {
			return s.api.Orders(ctx, status)
		})
	if err != nil {
		s.logFailure("orders", scope, err)
		return nil, status, err
	}
	return orders, status, nil
}

// Order returns one order. A blank id is apperr.ErrNotFound without a network call.
func (s *Service) Order(ctx context.Context, scope, id string) (*domain.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperr.ErrNotFound
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	o, err := query.Fetch(ctx, s.cache, query.OrderKey(scope, id),
		func(ctx context.Context) (*domain.Order, error) {
			return s.api.Order(ctx, id)
		})
	if err != nil {
		s.logFailure("order", scope, err)
		return nil, err
	}
	return o, nil
}

// RefreshOrder drops the cached order and fetches it again.
func (s *Service) RefreshOrder(ctx context.Context, scope, id string) (*domain.Order, error) {
	s.cache.Invalidate(query.And(query.ForRider(scope), func(k query.Key) bool {
		return k.Kind == query.KindOrder && k.Param == id
	}))
	return s.Order(ctx, scope, id)
}

// TodayRoute returns today's deliveries.
func (s *Service) TodayRoute(ctx context.Context, scope string) (*domain.TodayRoute, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	r, err := query.Fetch(ctx, s.cache, query.TodayRouteKey(scope), s.api.TodayRoute)
	if err != nil {
		s.logFailure("today_route", scope, err)
		return nil, err
	}
	return r, nil
}

func (s *Service) logFailure(screen, scope string, err error) {
	rider, _, _ := strings.Cut(scope, domain.ScopeSeparator)
	s.logger.Warn("screen load failed",
		logx.String("screen", screen),
		logx.String("rider_id", rider),
		logx.Err(err),
	)
}
