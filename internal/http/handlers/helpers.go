package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"service-rider-web/internal/domain"
	"service-rider-web/internal/logx"
	"service-rider-web/internal/session"
	"service-rider-web/internal/view"
)

func reqID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return "-"
}

func writeJSON(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		logger.Warn("json encode error", logx.String("req_id", reqID(r.Context())), logx.Err(err))
	}
}

const formLimit = 64 << 10

func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, formLimit)
	return r.ParseForm()
}

// seeOther redirects after a form post so a reload does not resubmit it.
func seeOther(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusSeeOther)
}

func orderPath(id string) string {
	return "/orders/" + url.PathEscape(id)
}

// undeliveredFormPath reopens the reason form with the rider's last choice filled in.
func undeliveredFormPath(id, reason, other string) string {
	q := url.Values{"undelivered": {"1"}}
	if reason = strings.TrimSpace(reason); reason != "" {
		q.Set("reason", reason)
	}
	if other = strings.TrimSpace(other); other != "" {
		q.Set("other", other)
	}
	return orderPath(id) + "?" + q.Encode()
}

func orderIDFromURL(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// handleOf returns the session handle of r. Requests outside the session middleware get an
// anonymous handle whose changes are discarded.
func handleOf(r *http.Request) *session.Handle {
	if h := session.FromContext(r.Context()); h != nil {
		return h
	}
	return session.NewHandle(domain.ClearedSession())
}

// layoutFor builds the page chrome. Call it last: it takes the pending notices.
func layoutFor(h *session.Handle, title, nav string) view.Layout {
	s := h.Session()
	return view.Layout{
		Title:           title,
		CurrentPage:     nav,
		IsAuthenticated: s.IsAuthenticated,
		User:            s.User,
		Notices:         h.TakeNotices(),
	}
}
