package screens

import (
	"context"

	"service-rider-web/internal/domain"
)

type readAPI interface {
	Dashboard(ctx context.Context) (*domain.Dashboard, error)
	Orders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	Order(ctx context.Context, id string) (*domain.Order, error)
	TodayRoute(ctx context.Context) (*domain.TodayRoute, error)
}
