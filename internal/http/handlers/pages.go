package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"service-rider-web/internal/apperr"
	"service-rider-web/internal/domain"
	"service-rider-web/internal/guard"
	"service-rider-web/internal/logx"
	"service-rider-web/internal/service/delivery"
	"service-rider-web/internal/session"
	"service-rider-web/internal/view"
)

// PageConfig holds presentation settings of the rider screens.
type PageConfig struct {
	GoogleClientID   string
	DashboardRefresh time.Duration
}

// PageHandler serves the rider screens and their form posts.
type PageHandler struct {
	auth     authUsecase
	screens  screensUsecase
	delivery deliveryUsecase
	views    pageRenderer
	cfg      PageConfig
	logger   logx.Logger
}

// NewPageHandler creates a PageHandler.
func NewPageHandler(
	logger logx.Logger,
	cfg PageConfig,
	auth authUsecase,
	screens screensUsecase,
	delivery deliveryUsecase,
	views *view.Renderer,
) *PageHandler {
	return newPageHandler(logger, cfg, auth, screens, delivery, views)
}

func newPageHandler(
	logger logx.Logger,
	cfg PageConfig,
	auth authUsecase,
	screens screensUsecase,
	delivery deliveryUsecase,
	views pageRenderer,
) *PageHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &PageHandler{
		auth:     auth,
		screens:  screens,
		delivery: delivery,
		views:    views,
		cfg:      cfg,
		logger:   logger,
	}
}

// Revalidate re-checks the held token against the rider API before a protected page runs.
// A token rejected with 401 ends on the login page with a "session expired" notice.
func (p *PageHandler) Revalidate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hd := handleOf(r)
		p.auth.CheckAuth(r.Context(), hd)
		if hd.Expired() {
			seeOther(w, r, guard.LoginURL(guard.Destination(r)))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LoginForm handles GET /login.
func (p *PageHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	hd := handleOf(r)
	if hd.Session().IsAuthenticated {
		seeOther(w, r, "/")
		return
	}
	p.views.Render(w, http.StatusOK, view.PageLogin, &view.LoginPage{
		Layout:         layoutFor(hd, "Login", ""),
		GoogleClientID: p.cfg.GoogleClientID,
		From:           r.URL.Query().Get("from"),
	})
}

// Login handles POST /login with the Google ID token in "credential".
// Successful logins always land on the dashboard.
func (p *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	hd := handleOf(r)
	if err := parseForm(w, r); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	res := p.auth.Login(r.Context(), hd, r.PostForm.Get("credential"))
	if res.Success {
		seeOther(w, r, "/")
		return
	}
	p.views.Render(w, http.StatusUnauthorized, view.PageLogin, &view.LoginPage{
		Layout:         layoutFor(hd, "Login", ""),
		GoogleClientID: p.cfg.GoogleClientID,
		Error:          res.Error,
		From:           r.PostForm.Get("from"),
	})
}

// Logout handles POST /logout.
func (p *PageHandler) Logout(w http.ResponseWriter, r *http.Request) {
	p.auth.Logout(handleOf(r))
	seeOther(w, r, guard.LoginPath)
}

// Dashboard handles GET /.
func (p *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	hd := handleOf(r)
	d, err := p.screens.Dashboard(r.Context(), hd.Session().CacheScope())
	if p.expired(w, r, hd, err) {
		return
	}

	layout := layoutFor(hd, "Dashboard", view.NavDashboard)
	layout.RefreshSeconds = int(p.cfg.DashboardRefresh / time.Second)
	p.views.Render(w, http.StatusOK, view.PageDashboard, &view.DashboardPage{
		Layout:    layout,
		Dashboard: d,
		Now:       time.Now(),
	})
}

// Orders handles GET /orders?status=shipped|delivered.
func (p *PageHandler) Orders(w http.ResponseWriter, r *http.Request) {
	hd := handleOf(r)
	orders, filter, err := p.screens.Orders(r.Context(), hd.Session().CacheScope(), r.URL.Query().Get("status"))
	if p.expired(w, r, hd, err) {
		return
	}

	p.views.Render(w, http.StatusOK, view.PageOrders, &view.OrdersPage{
		Layout: layoutFor(hd, "Orders", view.NavOrders),
		Filter: filter,
		Orders: orders,
		Loaded: err == nil,
		Now:    time.Now(),
	})
}

// Order handles GET /orders/{id}. "?undelivered=1" opens the non-delivery reason form, with
// "reason" and "other" restoring a rejected submission.
func (p *PageHandler) Order(w http.ResponseWriter, r *http.Request) {
	hd := handleOf(r)
	o, err := p.screens.Order(r.Context(), hd.Session().CacheScope(), orderIDFromURL(r))
	if p.expired(w, r, hd, err) {
		return
	}
	if errors.Is(err, apperr.ErrNotFound) {
		p.views.Render(w, http.StatusNotFound, view.PageNotFound, &view.NotFoundPage{
			Layout: layoutFor(hd, "Order", view.NavOrders),
			What:   "Order not found",
		})
		return
	}

	q := r.URL.Query()
	page := &view.OrderPage{
		Order:           o,
		ShowUndelivered: q.Get("undelivered") == "1",
		Reasons:         domain.UndeliveredReasons(),
	}
	if page.ShowUndelivered {
		page.Selected = q.Get("reason")
		page.Other = q.Get("other")
	}
	if o != nil {
		page.Actions = delivery.Actions(*o)
	}
	page.Layout = layoutFor(hd, "Order", view.NavOrders)
	p.views.Render(w, http.StatusOK, view.PageOrder, page)
}

// UpdateStatus handles POST /orders/{id}/status with action=deliver|undelivered.
func (p *PageHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	hd := handleOf(r)
	id := orderIDFromURL(r)
	if err := parseForm(w, r); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	var err error
	switch strings.TrimSpace(r.PostForm.Get("action")) {
	case string(delivery.ActionDeliver):
		_, err = p.delivery.MarkDelivered(r.Context(), hd, id)
	case string(delivery.ActionUndelivered):
		_, err = p.delivery.MarkUndelivered(r.Context(), hd, id, r.PostForm.Get("reason"), r.PostForm.Get("other"))
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}

	if errors.Is(err, apperr.ErrUnauthorized) {
		p.auth.Expire(hd)
	}
	switch {
	case hd.Expired():
		seeOther(w, r, guard.LoginPath)
	case err == nil:
		seeOther(w, r, "/orders")
	case errors.Is(err, apperr.ErrInvalid):
		seeOther(w, r, undeliveredFormPath(id, r.PostForm.Get("reason"), r.PostForm.Get("other")))
	default:
		seeOther(w, r, orderPath(id))
	}
}

// Today handles GET /today.
func (p *PageHandler) Today(w http.ResponseWriter, r *http.Request) {
	hd := handleOf(r)
	route, err := p.screens.TodayRoute(r.Context(), hd.Session().CacheScope())
	if p.expired(w, r, hd, err) {
		return
	}

	p.views.Render(w, http.StatusOK, view.PageToday, &view.TodayPage{
		Layout: layoutFor(hd, "Today's Route", view.NavToday),
		Route:  route,
	})
}

// expired forces the logout for a 401 and, when the session was cleared during this request,
// sends the rider to the login page. It reports whether the response was written.
func (p *PageHandler) expired(w http.ResponseWriter, r *http.Request, hd *session.Handle, err error) bool {
	if errors.Is(err, apperr.ErrUnauthorized) {
		p.auth.Expire(hd)
	}
	if !hd.Expired() {
		return false
	}
	seeOther(w, r, guard.LoginURL(guard.Destination(r)))
	return true
}
