package handler

import (
	"log/slog"
	"net/http"

	"github.com/gabmartin/plantlibrary/internal/services/catalog"
	"github.com/gabmartin/plantlibrary/internal/web/templates"
)

// CatalogHandler serves the catalog home page
type CatalogHandler struct {
	catalogService *catalog.Service
	renderer       *templates.Renderer
	logger         *slog.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService *catalog.Service, renderer *templates.Renderer, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		renderer:       renderer,
		logger:         logger,
	}
}

// Home handles GET /catalog
func (h *CatalogHandler) Home(w http.ResponseWriter, r *http.Request) {
	overview, err := h.catalogService.Overview(r.Context())
	if err != nil {
		renderServerError(w, r, h.renderer, h.logger, err)
		return
	}

	data := templates.CatalogHomeData{
		PageData:           pageData(r, "Plant catalog"),
		Plants:             overview.Plants,
		PlantInstances:     overview.PlantInstances,
		AvailableInstances: overview.AvailableInstances,
		Greenhouses:        overview.Greenhouses,
		PlantTypes:         overview.PlantTypes,
	}
	renderPage(w, h.renderer, "catalog_home", data)
}
