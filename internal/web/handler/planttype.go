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

// PlantTypeHandler serves the plant type pages
type PlantTypeHandler struct {
	catalogService *catalog.Service
	renderer       *templates.Renderer
	logger         *slog.Logger
}

// NewPlantTypeHandler creates a new PlantTypeHandler
func NewPlantTypeHandler(catalogService *catalog.Service, renderer *templates.Renderer, logger *slog.Logger) *PlantTypeHandler {
	return &PlantTypeHandler{
		catalogService: catalogService,
		renderer:       renderer,
		logger:         logger,
	}
}

// List handles GET /catalog/types
func (h *PlantTypeHandler) List(w http.ResponseWriter, r *http.Request) {
	types, err := h.catalogService.ListPlantTypes(r.Context())
	if err != nil {
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	data := templates.PlantTypeListData{
		PageData: pageData(r, "Plant types"),
		Types:    types,
	}
	renderPage(w, h.renderer, "planttype_list", data)
}

// Detail handles GET /catalog/type/{id}
func (h *PlantTypeHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := model.PlantTypeID(mux.Vars(r)["id"])

	pt, err := h.catalogService.GetPlantType(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrPlantTypeNotFound) {
			renderNotFound(w, r, h.renderer)
			return
		}
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	plants, err := h.catalogService.PlantsOfType(r.Context(), id)
	if err != nil {
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	data := templates.PlantTypeDetailData{
		PageData: pageData(r, pt.Name),
		Type:     pt,
		Plants:   plants,
	}
	renderPage(w, h.renderer, "planttype_detail", data)
}

// CreateForm handles GET /catalog/type/create
func (h *PlantTypeHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	data := templates.PlantTypeFormData{
		PageData: pageData(r, "Create plant type"),
		Action:   "/catalog/type/create",
	}
	renderPage(w, h.renderer, "planttype_form", data)
}

// Create handles POST /catalog/type/create
func (h *PlantTypeHandler) Create(w http.ResponseWriter, r *http.Request) {
	name, errs := parsePlantTypeForm(r)
	if len(errs) > 0 {
		data := templates.PlantTypeFormData{
			PageData: pageData(r, "Create plant type"),
			Action:   "/catalog/type/create",
			Name:     name,
			Errors:   errs,
		}
		renderPage(w, h.renderer, "planttype_form", data)
		return
	}

	pt, err := h.catalogService.CreatePlantType(r.Context(), name)
	if err != nil {
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	middleware.SetFlash(w, "success", "Plant type created")
	http.Redirect(w, r, "/catalog/type/"+string(pt.ID), http.StatusSeeOther)
}

// UpdateForm handles GET /catalog/type/{id}/update
func (h *PlantTypeHandler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	id := model.PlantTypeID(mux.Vars(r)["id"])

	pt, err := h.catalogService.GetPlantType(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrPlantTypeNotFound) {
			renderNotFound(w, r, h.renderer)
			return
		}
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	data := templates.PlantTypeFormData{
		PageData: pageData(r, "Update plant type"),
		Action:   "/catalog/type/" + string(pt.ID) + "/update",
		Name:     pt.Name,
	}
	renderPage(w, h.renderer, "planttype_form", data)
}

// Update handles POST /catalog/type/{id}/update
func (h *PlantTypeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := model.PlantTypeID(mux.Vars(r)["id"])

	name, errs := parsePlantTypeForm(r)
	if len(errs) > 0 {
		data := templates.PlantTypeFormData{
			PageData: pageData(r, "Update plant type"),
			Action:   "/catalog/type/" + string(id) + "/update",
			Name:     name,
			Errors:   errs,
		}
		renderPage(w, h.renderer, "planttype_form", data)
		return
	}

	pt, err := h.catalogService.UpdatePlantType(r.Context(), id, name)
	if err != nil {
		if errors.Is(err, model.ErrPlantTypeNotFound) {
			renderNotFound(w, r, h.renderer)
			return
		}
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	middleware.SetFlash(w, "success", "Plant type updated")
	http.Redirect(w, r, "/catalog/type/"+string(pt.ID), http.StatusSeeOther)
}

// DeleteForm handles GET /catalog/type/{id}/delete
func (h *PlantTypeHandler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	h.renderDeletePage(w, r, model.PlantTypeID(mux.Vars(r)["id"]))
}

// Delete handles POST /catalog/type/{id}/delete
func (h *PlantTypeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := model.PlantTypeID(mux.Vars(r)["id"])

	err := h.catalogService.DeletePlantType(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPlantTypeNotFound):
			renderNotFound(w, r, h.renderer)
		case errors.Is(err, model.ErrPlantTypeInUse):
			h.renderDeletePage(w, r, id)
		default:
			renderServerError(w, r, h.renderer, h.logger, err)
		}
		return
	}

	middleware.SetFlash(w, "success", "Plant type deleted")
	http.Redirect(w, r, "/catalog/types", http.StatusSeeOther)
}

func (h *PlantTypeHandler) renderDeletePage(w http.ResponseWriter, r *http.Request, id model.PlantTypeID) {
	pt, err := h.catalogService.GetPlantType(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrPlantTypeNotFound) {
			renderNotFound(w, r, h.renderer)
			return
		}
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	plants, err := h.catalogService.PlantsOfType(r.Context(), id)
	if err != nil {
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	data := templates.PlantTypeDeleteData{
		PageData: pageData(r, "Delete plant type"),
		Type:     pt,
		Plants:   plants,
	}
	renderPage(w, h.renderer, "planttype_delete", data)
}

func parsePlantTypeForm(r *http.Request) (name string, errs []string) {
	if err := r.ParseForm(); err != nil {
		return "", []string{"Invalid form submission"}
	}

	name = strings.TrimSpace(r.PostFormValue("name"))
	switch {
	case name == "":
		errs = append(errs, "Name is required")
	case len(name) < 3:
		errs = append(errs, "Name must be at least 3 characters")
	case len(name) > 100:
		errs = append(errs, "Name must be at most 100 characters")
	}
	return name, errs
}
