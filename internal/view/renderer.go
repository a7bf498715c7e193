package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"service-rider-web/internal/logx"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names.
const (
	PageLogin     = "login"
	PageDashboard = "dashboard"
	PageOrders    = "orders"
	PageOrder     = "order"
	PageToday     = "today"
	PageDenied    = "denied"
	PageNotFound  = "notfound"
)

var pages = []string{PageLogin, PageDashboard, PageOrders, PageOrder, PageToday, PageDenied, PageNotFound}

// Renderer executes page templates into the layout.
type Renderer struct {
	pages  map[string]*template.Template
	logger logx.Logger
}

// NewRenderer parses every page against the shared layout.
func NewRenderer(logger logx.Logger) (*Renderer, error) {
	if logger == nil {
		logger = logx.Nop()
	}
	r := &Renderer{pages: make(map[string]*template.Template, len(pages)), logger: logger}
	for _, name := range pages {
		t, err := template.New("layout.html").Funcs(funcs()).ParseFS(templateFS,
			"templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes page with the given status. Output is buffered so a template error never
// produces a half-written page.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data LayoutProvider) {
	t, ok := r.pages[page]
	if !ok {
		r.logger.Error("unknown page", logx.String("page", page))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		r.logger.Error("render failed", logx.String("page", page), logx.Err(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Static serves the embedded assets; mount it under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}
