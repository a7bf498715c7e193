package handlers

import (
	"context"
	"net/http"

	"service-rider-web/internal/domain"
	"service-rider-web/internal/service/auth"
	"service-rider-web/internal/service/delivery"
	"service-rider-web/internal/service/screens"
	"service-rider-web/internal/session"
	"service-rider-web/internal/view"
)

type authUsecase interface {
	Login(ctx context.Context, h *session.Handle, credential string) auth.Result
	Logout(h *session.Handle)
	CheckAuth(ctx context.Context, h *session.Handle)
	Expire(h *session.Handle)
}

// NewAuthUsecase wires an auth Service into an authUsecase.
func NewAuthUsecase(svc *auth.Service) authUsecase {
	return svc
}

type screensUsecase interface {
	Dashboard(ctx context.Context, scope string) (*domain.Dashboard, error)
	Orders(ctx context.Context, scope, filter string) ([]domain.Order, domain.OrderStatus, error)
	Order(ctx context.Context, scope, id string) (*domain.Order, error)
	TodayRoute(ctx context.Context, scope string) (*domain.TodayRoute, error)
}

// NewScreensUsecase wires a screens Service into a screensUsecase.
func NewScreensUsecase(svc *screens.Service) screensUsecase {
	return svc
}

type deliveryUsecase interface {
	MarkDelivered(ctx context.Context, h *session.Handle, orderID string) (*domain.Order, error)
	MarkUndelivered(ctx context.Context, h *session.Handle, orderID, selected, other string) (*domain.Order, error)
}

// NewDeliveryUsecase wires a delivery Service into a deliveryUsecase.
func NewDeliveryUsecase(svc *delivery.Service) deliveryUsecase {
	return svc
}

type pageRenderer interface {
	Render(w http.ResponseWriter, status int, page string, data view.LayoutProvider)
}
