package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/gabmartin/plantlibrary/internal/model"
	"github.com/gabmartin/plantlibrary/internal/services/catalog"
	"github.com/gabmartin/plantlibrary/internal/web/middleware"
	"github.com/gabmartin/plantlibrary/internal/web/templates"
)

// PlantHandler serves the plant pages
type PlantHandler struct {
	catalogService *catalog.Service
	renderer       *templates.Renderer
	logger         *slog.Logger
}

// NewPlantHandler creates a new PlantHandler
func NewPlantHandler(catalogService *catalog.Service, renderer *templates.Renderer, logger *slog.Logger) *PlantHandler {
	return &PlantHandler{
		catalogService: catalogService,
		renderer:       renderer,
		logger:         logger,
	}
}

// plantForm carries parsed plant form input
type plantForm struct {
	Name         string
	GreenhouseID string
	Price        string
	PriceValue   float64
	TypeIDs      []model.PlantTypeID
	Errors       []string
}

// List handles GET /catalog/plants
func (h *PlantHandler) List(w http.ResponseWriter, r *http.Request) {
	plants, err := h.catalogService.ListPlants(r.Context())
	if err != nil {
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	rows := make([]templates.PlantRow, 0, len(plants))
	for _, plant := range plants {
		gh, err := h.catalogService.GetGreenhouse(r.Context(), plant.GreenhouseID)
		if err != nil && !errors.Is(err, model.ErrGreenhouseNotFound) {
			renderServerError(w, r, h.renderer, h.logger, err)
			return
		}
		rows = append(rows, templates.PlantRow{Plant: plant, Greenhouse: gh})
	}

	data := templates.PlantListData{
		PageData: pageData(r, "Plants"),
		Plants:   rows,
	}
	renderPage(w, h.renderer, "plant_list", data)
}

// Detail handles GET /catalog/plant/{id}
func (h *PlantHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := model.PlantID(mux.Vars(r)["id"])

	plant, err := h.catalogService.GetPlant(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrPlantNotFound) {
			renderNotFound(w, r, h.renderer)
			return
		}
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	gh, err := h.catalogService.GetGreenhouse(r.Context(), plant.GreenhouseID)
	if err != nil && !errors.Is(err, model.ErrGreenhouseNotFound) {
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	types := make([]*model.PlantType, 0, len(plant.TypeIDs))
	for _, typeID := range plant.TypeIDs {
		pt, err := h.catalogService.GetPlantType(r.Context(), typeID)
		if err != nil {
			if errors.Is(err, model.ErrPlantTypeNotFound) {
				continue
			}
			renderServerError(w, r, h.renderer, h.logger, err)
			return
		}
		types = append(types, pt)
	}

	instances, err := h.catalogService.InstancesOfPlant(r.Context(), id)
	if err != nil {
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	data := templates.PlantDetailData{
		PageData:   pageData(r, plant.Name),
		Plant:      plant,
		Greenhouse: gh,
		Types:      types,
		Instances:  instances,
	}
	renderPage(w, h.renderer, "plant_detail", data)
}

// CreateForm handles GET /catalog/plant/create
func (h *PlantHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	data, err := h.formData(r, "Create plant", "/catalog/plant/create", plantForm{})
	if err != nil {
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}
	renderPage(w, h.renderer, "plant_form", data)
}

// Create handles POST /catalog/plant/create
func (h *PlantHandler) Create(w http.ResponseWriter, r *http.Request) {
	form := parsePlantForm(r)
	if len(form.Errors) > 0 {
		data, err := h.formData(r, "Create plant", "/catalog/plant/create", form)
		if err != nil {
			renderServerError(w, r, h.renderer, h.logger, err)
			return
		}
		renderPage(w, h.renderer, "plant_form", data)
		return
	}

	plant, err := h.catalogService.CreatePlant(r.Context(), form.Name, model.GreenhouseID(form.GreenhouseID), form.PriceValue, form.TypeIDs)
	if err != nil {
		if errors.Is(err, model.ErrGreenhouseNotFound) {
			form.Errors = append(form.Errors, "Greenhouse does not exist")
			data, dataErr := h.formData(r, "Create plant", "/catalog/plant/create", form)
			if dataErr != nil {
				renderServerError(w, r, h.renderer, h.logger, dataErr)
				return
			}
			renderPage(w, h.renderer, "plant_form", data)
			return
		}
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	middleware.SetFlash(w, "success", "Plant created")
	http.Redirect(w, r, "/catalog/plant/"+string(plant.ID), http.StatusSeeOther)
}

// UpdateForm handles GET /catalog/plant/{id}/update
func (h *PlantHandler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	id := model.PlantID(mux.Vars(r)["id"])

	plant, err := h.catalogService.GetPlant(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrPlantNotFound) {
			renderNotFound(w, r, h.renderer)
			return
		}
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	form := plantForm{
		Name:         plant.Name,
		GreenhouseID: string(plant.GreenhouseID),
		Price:        strconv.FormatFloat(plant.Price, 'f', 2, 64),
		TypeIDs:      plant.TypeIDs,
	}
	data, err := h.formData(r, "Update plant", "/catalog/plant/"+string(plant.ID)+"/update", form)
	if err != nil {
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}
	renderPage(w, h.renderer, "plant_form", data)
}

// Update handles POST /catalog/plant/{id}/update
func (h *PlantHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := model.PlantID(mux.Vars(r)["id"])
	action := "/catalog/plant/" + string(id) + "/update"

	form := parsePlantForm(r)
	if len(form.Errors) > 0 {
		data, err := h.formData(r, "Update plant", action, form)
		if err != nil {
			renderServerError(w, r, h.renderer, h.logger, err)
			return
		}
		renderPage(w, h.renderer, "plant_form", data)
		return
	}

	plant, err := h.catalogService.UpdatePlant(r.Context(), id, form.Name, model.GreenhouseID(form.GreenhouseID), form.PriceValue, form.TypeIDs)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPlantNotFound):
			renderNotFound(w, r, h.renderer)
		case errors.Is(err, model.ErrGreenhouseNotFound):
			form.Errors = append(form.Errors, "Greenhouse does not exist")
			data, dataErr := h.formData(r, "Update plant", action, form)
			if dataErr != nil {
				renderServerError(w, r, h.renderer, h.logger, dataErr)
				return
			}
			renderPage(w, h.renderer, "plant_form", data)
		default:
			renderServerError(w, r, h.renderer, h.logger, err)
		}
		return
	}

	middleware.SetFlash(w, "success", "Plant updated")
	http.Redirect(w, r, "/catalog/plant/"+string(plant.ID), http.StatusSeeOther)
}

// DeleteForm handles GET /catalog/plant/{id}/delete
func (h *PlantHandler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	h.renderDeletePage(w, r, model.PlantID(mux.Vars(r)["id"]))
}

// Delete handles POST /catalog/plant/{id}/delete
func (h *PlantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := model.PlantID(mux.Vars(r)["id"])

	err := h.catalogService.DeletePlant(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPlantNotFound):
			renderNotFound(w, r, h.renderer)
		case errors.Is(err, model.ErrPlantHasInstances):
			h.renderDeletePage(w, r, id)
		default:
			renderServerError(w, r, h.renderer, h.logger, err)
		}
		return
	}

	middleware.SetFlash(w, "success", "Plant deleted")
	http.Redirect(w, r, "/catalog/plants", http.StatusSeeOther)
}

func (h *PlantHandler) renderDeletePage(w http.ResponseWriter, r *http.Request, id model.PlantID) {
	plant, err := h.catalogService.GetPlant(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrPlantNotFound) {
			renderNotFound(w, r, h.renderer)
			return
		}
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	instances, err := h.catalogService.InstancesOfPlant(r.Context(), id)
	if err != nil {
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	data := templates.PlantDeleteData{
		PageData:  pageData(r, "Delete plant"),
		Plant:     plant,
		Instances: instances,
	}
	renderPage(w, h.renderer, "plant_delete", data)
}

// formData fills the select/checkbox options alongside the submitted values.
// SelectedTypes is always a non-nil map so the template index lookup works.
func (h *PlantHandler) formData(r *http.Request, title, action string, form plantForm) (templates.PlantFormData, error) {
	greenhouses, err := h.catalogService.ListGreenhouses(r.Context())
	if err != nil {
		return templates.PlantFormData{}, err
	}
	types, err := h.catalogService.ListPlantTypes(r.Context())
	if err != nil {
		return templates.PlantFormData{}, err
	}

	selected := make(map[string]bool, len(form.TypeIDs))
	for _, typeID := range form.TypeIDs {
		selected[string(typeID)] = true
	}

	return templates.PlantFormData{
		PageData:      pageData(r, title),
		Action:        action,
		Name:          form.Name,
		Price:         form.Price,
		GreenhouseID:  form.GreenhouseID,
		SelectedTypes: selected,
		Greenhouses:   greenhouses,
		Types:         types,
		Errors:        form.Errors,
	}, nil
}

func parsePlantForm(r *http.Request) plantForm {
	var form plantForm
	if err := r.ParseForm(); err != nil {
		form.Errors = []string{"Invalid form submission"}
		return form
	}

	form.Name = strings.TrimSpace(r.PostFormValue("name"))
	form.GreenhouseID = r.PostFormValue("greenhouse")
	form.Price = strings.TrimSpace(r.PostFormValue("price"))
	for _, typeID := range r.PostForm["types"] {
		form.TypeIDs = append(form.TypeIDs, model.PlantTypeID(typeID))
	}

	if form.Name == "" {
		form.Errors = append(form.Errors, "Name is required")
	} else if len(form.Name) > 100 {
		form.Errors = append(form.Errors, "Name must be at most 100 characters")
	}
	if form.GreenhouseID == "" {
		form.Errors = append(form.Errors, "Greenhouse is required")
	}
	if form.Price == "" {
		form.Errors = append(form.Errors, "Price is required")
	} else {
		price, err := strconv.ParseFloat(form.Price, 64)
		if err != nil || price < 0 {
			form.Errors = append(form.Errors, "Price must be a non-negative number")
		} else {
			form.PriceValue = price
		}
	}
	return form
}
