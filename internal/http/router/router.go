package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"service-rider-web/internal/domain"
	"service-rider-web/internal/guard"
	"service-rider-web/internal/http/handlers"
	mw "service-rider-web/internal/http/middleware"
	"service-rider-web/internal/logx"
	"service-rider-web/internal/view"
)

// Deps are the handlers and middlewares mounted by New.
type Deps struct {
	Logger       logx.Logger
	Base         *handlers.Handlers
	Pages        *handlers.PageHandler
	Session      func(http.Handler) http.Handler
	RateLimit    func(http.Handler) http.Handler
	Policy       domain.AccessPolicy
	Connectivity http.Handler
	Metrics      http.Handler
}

// New constructs the chi router: probes, metrics, static assets and the connectivity stream
// are served without a session; every screen runs behind the session middleware and the
// protected ones behind the route guard.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Observability(d.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/ping", d.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(d.Base.HealthcheckHead))
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}
	r.Method(http.MethodGet, "/static/*", view.Static())
	if d.Connectivity != nil {
		r.Method(http.MethodGet, "/ws/connectivity", d.Connectivity)
	}

	limit := d.RateLimit
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}

	r.Group(func(r chi.Router) {
		r.Use(d.Session)

		r.Get("/login", d.Pages.LoginForm)
		r.With(limit).Post("/login", d.Pages.Login)
		r.Post("/logout", d.Pages.Logout)

		r.Group(func(r chi.Router) {
			r.Use(d.Pages.Revalidate)
			r.Use(guard.Require(d.Policy, http.HandlerFunc(d.Base.Denied)))

			r.Get("/", d.Pages.Dashboard)
			r.Get("/orders", d.Pages.Orders)
			r.Get("/orders/{id}", d.Pages.Order)
			r.With(limit).Post("/orders/{id}/status", d.Pages.UpdateStatus)
			r.Get("/today", d.Pages.Today)
		})
	})

	r.NotFound(d.Session(http.HandlerFunc(d.Base.NotFound)).ServeHTTP)

	return r
}
