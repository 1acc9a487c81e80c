package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/gabmartin/plantlibrary/internal/model"
	"github.com/gabmartin/plantlibrary/internal/services/catalog"
	"github.com/gabmartin/plantlibrary/internal/web/middleware"
	"github.com/gabmartin/plantlibrary/internal/web/templates"
)

// GreenhouseHandler serves the greenhouse pages
type GreenhouseHandler struct {
	catalogService *catalog.Service
	renderer       *templates.Renderer
	logger         *slog.Logger
}

// NewGreenhouseHandler creates a new GreenhouseHandler
func NewGreenhouseHandler(catalogService *catalog.Service, renderer *templates.Renderer, logger *slog.Logger) *GreenhouseHandler {
	return &GreenhouseHandler{
		catalogService: catalogService,
		renderer:       renderer,
		logger:         logger,
	}
}

// List handles GET /catalog/greenhouses
func (h *GreenhouseHandler) List(w http.ResponseWriter, r *http.Request) {
	greenhouses, err := h.catalogService.ListGreenhouses(r.Context())
	if err != nil {
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	data := templates.GreenhouseListData{
		PageData:    pageData(r, "Greenhouses"),
		Greenhouses: greenhouses,
	}
	renderPage(w, h.renderer, "greenhouse_list", data)
}

// Detail handles GET /catalog/greenhouse/{id}
func (h *GreenhouseHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := model.GreenhouseID(mux.Vars(r)["id"])

	gh, err := h.catalogService.GetGreenhouse(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrGreenhouseNotFound) {
			renderNotFound(w, r, h.renderer)
			return
		}
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	plants, err := h.catalogService.PlantsInGreenhouse(r.Context(), id)
	if err != nil {
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	data := templates.GreenhouseDetailData{
		PageData:   pageData(r, gh.Name),
		Greenhouse: gh,
		Plants:     plants,
	}
	renderPage(w, h.renderer, "greenhouse_detail", data)
}

// CreateForm handles GET /catalog/greenhouse/create
func (h *GreenhouseHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	data := templates.GreenhouseFormData{
		PageData: pageData(r, "Create greenhouse"),
		Action:   "/catalog/greenhouse/create",
	}
	renderPage(w, h.renderer, "greenhouse_form", data)
}

// Create handles POST /catalog/greenhouse/create
func (h *GreenhouseHandler) Create(w http.ResponseWriter, r *http.Request) {
	name, location, errs := parseGreenhouseForm(r)
	if len(errs) > 0 {
		data := templates.GreenhouseFormData{
			PageData: pageData(r, "Create greenhouse"),
			Action:   "/catalog/greenhouse/create",
			Name:     name,
			Location: location,
			Errors:   errs,
		}
		renderPage(w, h.renderer, "greenhouse_form", data)
		return
	}

	gh, err := h.catalogService.CreateGreenhouse(r.Context(), name, location)
	if err != nil {
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	middleware.SetFlash(w, "success", "Greenhouse created")
	http.Redirect(w, r, "/catalog/greenhouse/"+string(gh.ID), http.StatusSeeOther)
}

// UpdateForm handles GET /catalog/greenhouse/{id}/update
func (h *GreenhouseHandler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	id := model.GreenhouseID(mux.Vars(r)["id"])

	gh, err := h.catalogService.GetGreenhouse(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrGreenhouseNotFound) {
			renderNotFound(w, r, h.renderer)
			return
		}
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	data := templates.GreenhouseFormData{
		PageData: pageData(r, "Update greenhouse"),
		Action:   "/catalog/greenhouse/" + string(gh.ID) + "/update",
		Name:     gh.Name,
		Location: gh.Location,
	}
	renderPage(w, h.renderer, "greenhouse_form", data)
}

// Update handles POST /catalog/greenhouse/{id}/update
func (h *GreenhouseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := model.GreenhouseID(mux.Vars(r)["id"])

	name, location, errs := parseGreenhouseForm(r)
	if len(errs) > 0 {
		data := templates.GreenhouseFormData{
			PageData: pageData(r, "Update greenhouse"),
			Action:   "/catalog/greenhouse/" + string(id) + "/update",
			Name:     name,
			Location: location,
			Errors:   errs,
		}
		renderPage(w, h.renderer, "greenhouse_form", data)
		return
	}

	gh, err := h.catalogService.UpdateGreenhouse(r.Context(), id, name, location)
	if err != nil {
		if errors.Is(err, model.ErrGreenhouseNotFound) {
			renderNotFound(w, r, h.renderer)
			return
		}
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	middleware.SetFlash(w, "success", "Greenhouse updated")
	http.Redirect(w, r, "/catalog/greenhouse/"+string(gh.ID), http.StatusSeeOther)
}

// DeleteForm handles GET /catalog/greenhouse/{id}/delete
func (h *GreenhouseHandler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	h.renderDeletePage(w, r, model.GreenhouseID(mux.Vars(r)["id"]))
}

// Delete handles POST /catalog/greenhouse/{id}/delete
func (h *GreenhouseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := model.GreenhouseID(mux.Vars(r)["id"])

	err := h.catalogService.DeleteGreenhouse(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrGreenhouseNotFound):
			renderNotFound(w, r, h.renderer)
		case errors.Is(err, model.ErrGreenhouseHasPlants):
			// Show the dependents blocking the delete
			h.renderDeletePage(w, r, id)
		default:
			renderServerError(w, r, h.renderer, h.logger, err)
		}
		return
	}

	middleware.SetFlash(w, "success", "Greenhouse deleted")
	http.Redirect(w, r, "/catalog/greenhouses", http.StatusSeeOther)
}

func (h *GreenhouseHandler) renderDeletePage(w http.ResponseWriter, r *http.Request, id model.GreenhouseID) {
	gh, err := h.catalogService.GetGreenhouse(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrGreenhouseNotFound) {
			renderNotFound(w, r, h.renderer)
			return
		}
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	plants, err := h.catalogService.PlantsInGreenhouse(r.Context(), id)
	if err != nil {
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	data := templates.GreenhouseDeleteData{
		PageData:   pageData(r, "Delete greenhouse"),
		Greenhouse: gh,
		Plants:     plants,
	}
	renderPage(w, h.renderer, "greenhouse_delete", data)
}

func parseGreenhouseForm(r *http.Request) (name, location string, errs []string) {
	if err := r.ParseForm(); err != nil {
		return "", "", []string{"Invalid form submission"}
	}

	name = strings.TrimSpace(r.PostFormValue("name"))
	location = strings.TrimSpace(r.PostFormValue("location"))

	if name == "" {
		errs = append(errs, "Name is required")
	} else if len(name) > 100 {
		errs = append(errs, "Name must be at most 100 characters")
	}
	if location == "" {
		errs = append(errs, "Location is required")
	} else if len(location) > 100 {
		errs = append(errs, "Location must be at most 100 characters")
	}
	return name, location, errs
}
