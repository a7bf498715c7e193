// Package view renders the rider screens from embedded html/template files.
package view

import (
	"time"

	"service-rider-web/internal/domain"
	"service-rider-web/internal/service/delivery"
	"service-rider-web/internal/session"
)

// Navigation targets of the bottom bar.
const (
	NavDashboard = "dashboard"
	NavOrders    = "orders"
	NavToday     = "today"
)

// Layout is the shared chrome of every page.
type Layout struct {
	Title           string
	CurrentPage     string
	IsAuthenticated bool
	User            *domain.User
	Notices         []session.Notice
	// RefreshSeconds > 0 adds a meta refresh.
	RefreshSeconds int
}

// LayoutData exposes the chrome to templates.
func (l *Layout) LayoutData() *Layout { return l }

// LayoutProvider is implemented by every page model.
type LayoutProvider interface {
	LayoutData() *Layout
}

type LoginPage struct {
	Layout
	GoogleClientID string
	Error          string
	From           string
}

type DashboardPage struct {
	Layout
	Dashboard *domain.Dashboard
	Now       time.Time
}

type OrdersPage struct {
	Layout
	Filter domain.OrderStatus
	Orders []domain.Order
	Loaded bool
	Now    time.Time
}

// OrderPage is the detail screen. ShowUndelivered opens the reason form.
type OrderPage struct {
	Layout
	Order           *domain.Order
	Actions         []delivery.Action
	ShowUndelivered bool
	Reasons         []domain.UndeliveredReason
	Selected        string
	Other           string
}

type TodayPage struct {
	Layout
	Route *domain.TodayRoute
}

type DeniedPage struct {
	Layout
}

type NotFoundPage struct {
	Layout
	What string
}
