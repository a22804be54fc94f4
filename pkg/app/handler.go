package app

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dashtmpl/dashtmpl/internal/reload"
	"github.com/dashtmpl/dashtmpl/pkg/htmlrender"
)

// ReloadPath is the live reload websocket endpoint.
const ReloadPath = "/_reload"

// Handler returns the preview server.
func (a *App) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", a.servePage)
	r.Get("/_dash-layout", a.serveLayout)
	r.Handle(ReloadPath, a.hub)
	r.Handle("/metrics", a.metrics.Handler())
	return r
}

func (a *App) serveLayout(w http.ResponseWriter, r *http.Request) {
	layout := a.Layout()
	if layout == nil {
		http.Error(w, "no layout", http.StatusNotFound)
		return
	}
	data, err := json.Marshal(layout)
	if err != nil {
		a.logger.Error("layout serialization failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (a *App) servePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := htmlrender.New(htmlrender.Config{Pretty: true}).RenderPage(w, htmlrender.PageData{
		Title:       a.Name,
		Body:        a.Layout(),
		StyleSheets: a.stylesheets,
		Scripts:     []template.HTML{reload.ClientScript(ReloadPath)},
	})
	if err != nil {
		a.logger.Error("page render failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
	}
}
