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

// InstanceHandler serves the plant instance pages
type InstanceHandler struct {
	catalogService *catalog.Service
	renderer       *templates.Renderer
	logger         *slog.Logger
}

// NewInstanceHandler creates a new InstanceHandler
func NewInstanceHandler(catalogService *catalog.Service, renderer *templates.Renderer, logger *slog.Logger) *InstanceHandler {
	return &InstanceHandler{
		catalogService: catalogService,
		renderer:       renderer,
		logger:         logger,
	}
}

// instanceForm carries parsed plant instance form input
type instanceForm struct {
	PlantID string
	Imprint string
	Status  string
	Errors  []string
}

// List handles GET /catalog/plantinstances
func (h *InstanceHandler) List(w http.ResponseWriter, r *http.Request) {
	instances, err := h.catalogService.ListPlantInstances(r.Context())
	if err != nil {
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	rows := make([]templates.InstanceRow, 0, len(instances))
	for _, inst := range instances {
		plant, err := h.catalogService.GetPlant(r.Context(), inst.PlantID)
		if err != nil && !errors.Is(err, model.ErrPlantNotFound) {
			renderServerError(w, r, h.renderer, h.logger, err)
			return
		}
		rows = append(rows, templates.InstanceRow{Instance: inst, Plant: plant})
	}

	data := templates.InstanceListData{
		PageData:  pageData(r, "Plant instances"),
		Instances: rows,
	}
	renderPage(w, h.renderer, "plantinstance_list", data)
}

// Detail handles GET /catalog/plantinstance/{id}
func (h *InstanceHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := model.PlantInstanceID(mux.Vars(r)["id"])

	inst, err := h.catalogService.GetPlantInstance(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrPlantInstanceNotFound) {
			renderNotFound(w, r, h.renderer)
			return
		}
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	plant, err := h.catalogService.GetPlant(r.Context(), inst.PlantID)
	if err != nil && !errors.Is(err, model.ErrPlantNotFound) {
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	data := templates.InstanceDetailData{
		PageData: pageData(r, "Instance "+inst.Imprint),
		Instance: inst,
		Plant:    plant,
	}
	renderPage(w, h.renderer, "plantinstance_detail", data)
}

// CreateForm handles GET /catalog/plantinstance/create
func (h *InstanceHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	data, err := h.formData(r, "Create plant instance", "/catalog/plantinstance/create", instanceForm{
		Status: string(model.StatusMaintenance),
	})
	if err != nil {
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}
	renderPage(w, h.renderer, "plantinstance_form", data)
}

// Create handles POST /catalog/plantinstance/create
func (h *InstanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	form := parseInstanceForm(r)
	if len(form.Errors) > 0 {
		data, err := h.formData(r, "Create plant instance", "/catalog/plantinstance/create", form)
		if err != nil {
			renderServerError(w, r, h.renderer, h.logger, err)
			return
		}
		renderPage(w, h.renderer, "plantinstance_form", data)
		return
	}

	inst, err := h.catalogService.CreatePlantInstance(r.Context(), model.PlantID(form.PlantID), form.Imprint, model.InstanceStatus(form.Status))
	if err != nil {
		if errors.Is(err, model.ErrPlantNotFound) {
			form.Errors = append(form.Errors, "Plant does not exist")
			data, dataErr := h.formData(r, "Create plant instance", "/catalog/plantinstance/create", form)
			if dataErr != nil {
				renderServerError(w, r, h.renderer, h.logger, dataErr)
				return
			}
			renderPage(w, h.renderer, "plantinstance_form", data)
			return
		}
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	middleware.SetFlash(w, "success", "Plant instance created")
	http.Redirect(w, r, "/catalog/plantinstance/"+string(inst.ID), http.StatusSeeOther)
}

// UpdateForm handles GET /catalog/plantinstance/{id}/update
func (h *InstanceHandler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	id := model.PlantInstanceID(mux.Vars(r)["id"])

	inst, err := h.catalogService.GetPlantInstance(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrPlantInstanceNotFound) {
			renderNotFound(w, r, h.renderer)
			return
		}
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	form := instanceForm{
		PlantID: string(inst.PlantID),
		Imprint: inst.Imprint,
		Status:  string(inst.Status),
	}
	data, err := h.formData(r, "Update plant instance", "/catalog/plantinstance/"+string(inst.ID)+"/update", form)
	if err != nil {
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}
	renderPage(w, h.renderer, "plantinstance_form", data)
}

// Update handles POST /catalog/plantinstance/{id}/update
func (h *InstanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := model.PlantInstanceID(mux.Vars(r)["id"])
	action := "/catalog/plantinstance/" + string(id) + "/update"

	form := parseInstanceForm(r)
	if len(form.Errors) > 0 {
		data, err := h.formData(r, "Update plant instance", action, form)
		if err != nil {
			renderServerError(w, r, h.renderer, h.logger, err)
			return
		}
		renderPage(w, h.renderer, "plantinstance_form", data)
		return
	}

	inst, err := h.catalogService.UpdatePlantInstance(r.Context(), id, model.PlantID(form.PlantID), form.Imprint, model.InstanceStatus(form.Status))
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPlantInstanceNotFound):
			renderNotFound(w, r, h.renderer)
		case errors.Is(err, model.ErrPlantNotFound):
			form.Errors = append(form.Errors, "Plant does not exist")
			data, dataErr := h.formData(r, "Update plant instance", action, form)
			if dataErr != nil {
				renderServerError(w, r, h.renderer, h.logger, dataErr)
				return
			}
			renderPage(w, h.renderer, "plantinstance_form", data)
		default:
			renderServerError(w, r, h.renderer, h.logger, err)
		}
		return
	}

	middleware.SetFlash(w, "success", "Plant instance updated")
	http.Redirect(w, r, "/catalog/plantinstance/"+string(inst.ID), http.StatusSeeOther)
}

// DeleteForm handles GET /catalog/plantinstance/{id}/delete
func (h *InstanceHandler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	id := model.PlantInstanceID(mux.Vars(r)["id"])

	inst, err := h.catalogService.GetPlantInstance(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrPlantInstanceNotFound) {
			renderNotFound(w, r, h.renderer)
			return
		}
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	plant, err := h.catalogService.GetPlant(r.Context(), inst.PlantID)
	if err != nil && !errors.Is(err, model.ErrPlantNotFound) {
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	data := templates.InstanceDeleteData{
		PageData: pageData(r, "Delete plant instance"),
		Instance: inst,
		Plant:    plant,
	}
	renderPage(w, h.renderer, "plantinstance_delete", data)
}

// Delete handles POST /catalog/plantinstance/{id}/delete
func (h *InstanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := model.PlantInstanceID(mux.Vars(r)["id"])

	if err := h.catalogService.DeletePlantInstance(r.Context(), id); err != nil {
		if errors.Is(err, model.ErrPlantInstanceNotFound) {
			renderNotFound(w, r, h.renderer)
			return
		}
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	middleware.SetFlash(w, "success", "Plant instance deleted")
	http.Redirect(w, r, "/catalog/plantinstances", http.StatusSeeOther)
}

func (h *InstanceHandler) formData(r *http.Request, title, action string, form instanceForm) (templates.InstanceFormData, error) {
	plants, err := h.catalogService.ListPlants(r.Context())
	if err != nil {
		return templates.InstanceFormData{}, err
	}

	return templates.InstanceFormData{
		PageData: pageData(r, title),
		Action:   action,
		PlantID:  form.PlantID,
		Imprint:  form.Imprint,
		Status:   form.Status,
		Plants:   plants,
		Statuses: model.InstanceStatuses,
		Errors:   form.Errors,
	}, nil
}

func parseInstanceForm(r *http.Request) instanceForm {
	var form instanceForm
	if err := r.ParseForm(); err != nil {
		form.Errors = []string{"Invalid form submission"}
		return form
	}

	form.PlantID = r.PostFormValue("plant")
	form.Imprint = strings.TrimSpace(r.PostFormValue("imprint"))
	form.Status = r.PostFormValue("status")

	if form.PlantID == "" {
		form.Errors = append(form.Errors, "Plant is required")
	}
	if form.Imprint == "" {
		form.Errors = append(form.Errors, "Imprint is required")
	} else if len(form.Imprint) > 100 {
		form.Errors = append(form.Errors, "Imprint must be at most 100 characters")
	}
	if form.Status != "" && !model.ValidStatus(model.InstanceStatus(form.Status)) {
		form.Errors = append(form.Errors, "Status is not valid")
	}
	return form
}
