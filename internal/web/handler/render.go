package handler

import (
	"log/slog"
	"net/http"

	"github.com/gabmartin/plantlibrary/internal/web/middleware"
	"github.com/gabmartin/plantlibrary/internal/web/templates"
)

// pageData assembles the layout fields every page shares
func pageData(r *http.Request, title string) templates.PageData {
	return templates.PageData{
		Title: title,
		User:  middleware.GetUser(r.Context()),
		Flash: middleware.GetFlash(r.Context()),
	}
}

func renderPage(w http.ResponseWriter, renderer *templates.Renderer, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderer.Render(w, page, data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// renderNotFound renders the 404 page for a missing record
func renderNotFound(w http.ResponseWriter, r *http.Request, renderer *templates.Renderer) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	data := templates.ErrorData{PageData: pageData(r, "Not found")}
	if err := renderer.Render(w, "notfound", data); err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
	}
}

// renderServerError logs the failure and renders the generic error page.
// Storage faults end up here; they fail the request, never the process.
func renderServerError(w http.ResponseWriter, r *http.Request, renderer *templates.Renderer, logger *slog.Logger, err error) {
	logger.Error("request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	data := templates.ErrorData{PageData: pageData(r, "Error")}
	if renderErr := renderer.Render(w, "error", data); renderErr != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
