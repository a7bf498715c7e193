package handlers

import (
	"net/http"

	"service-rider-web/internal/logx"
	"service-rider-web/internal/view"
)

// Handlers holds the handlers that do not belong to a screen.
type Handlers struct {
	Logger logx.Logger
	views  pageRenderer
}

// New creates a Handlers instance. A nil logger discards output.
func New(logger logx.Logger, views *view.Renderer) *Handlers {
	if logger == nil {
		logger = logx.Nop()
	}
	h := &Handlers{Logger: logger}
	if views != nil {
		h.views = views
	}
	return h
}

// Ping handles GET /ping and returns 200 with {"message":"pong"}.
func (h *Handlers) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.Logger, w, r, http.StatusOK, map[string]string{"message": "pong"})
}

// HealthcheckHead handles HEAD /healthcheck and returns 204 No Content.
func (h *Handlers) HealthcheckHead(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// NotFound renders the not found screen for unknown routes.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if h.views == nil {
		http.NotFound(w, r)
		return
	}
	hd := handleOf(r)
	h.views.Render(w, http.StatusNotFound, view.PageNotFound, &view.NotFoundPage{
		Layout: layoutFor(hd, "Not Found", ""),
	})
}

// Denied renders the access denied screen for accounts outside the access policy.
func (h *Handlers) Denied(w http.ResponseWriter, r *http.Request) {
	if h.views == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	hd := handleOf(r)
	h.views.Render(w, http.StatusForbidden, view.PageDenied, &view.DeniedPage{
		Layout: layoutFor(hd, "Access Denied", ""),
	})
}
