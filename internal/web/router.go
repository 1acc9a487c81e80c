package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	appmiddleware "github.com/gabmartin/plantlibrary/internal/middleware"
	"github.com/gabmartin/plantlibrary/internal/services/auth"
	"github.com/gabmartin/plantlibrary/internal/services/catalog"
	"github.com/gabmartin/plantlibrary/internal/web/handler"
	"github.com/gabmartin/plantlibrary/internal/web/middleware"
	"github.com/gabmartin/plantlibrary/internal/web/templates"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	CatalogService *catalog.Service
	Renderer       *templates.Renderer
	Metrics        *appmiddleware.Metrics
	StaticDir      string // Path to static files directory
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	flashMiddleware := middleware.Flash()
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)

	// Apply global middleware to all routes
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
		r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)
	}

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.Renderer, cfg.Logger)
	catalogHandler := handler.NewCatalogHandler(cfg.CatalogService, cfg.Renderer, cfg.Logger)
	greenhouseHandler := handler.NewGreenhouseHandler(cfg.CatalogService, cfg.Renderer, cfg.Logger)
	plantTypeHandler := handler.NewPlantTypeHandler(cfg.CatalogService, cfg.Renderer, cfg.Logger)
	plantHandler := handler.NewPlantHandler(cfg.CatalogService, cfg.Renderer, cfg.Logger)
	instanceHandler := handler.NewInstanceHandler(cfg.CatalogService, cfg.Renderer, cfg.Logger)

	// Static files
	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	// Public routes (optional auth for showing the signed-in user in the nav)
	public := r.NewRoute().Subrouter()
	public.Use(flashMiddleware)
	public.Use(optionalAuthMiddleware)
	public.HandleFunc("/", authHandler.SigninPage).Methods(http.MethodGet)
	public.HandleFunc("/signin", authHandler.SigninPage).Methods(http.MethodGet)
	public.HandleFunc("/signin", authHandler.Signin).Methods(http.MethodPost)
	public.HandleFunc("/signup", authHandler.SignupPage).Methods(http.MethodGet)
	public.HandleFunc("/signup", authHandler.Signup).Methods(http.MethodPost)
	public.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodGet)

	// Protected catalog routes (require a valid session)
	protected := r.PathPrefix("/catalog").Subrouter()
	protected.Use(flashMiddleware)
	protected.Use(authMiddleware)

	protected.HandleFunc("", catalogHandler.Home).Methods(http.MethodGet)
	protected.HandleFunc("/", catalogHandler.Home).Methods(http.MethodGet)

	// Greenhouse routes. Create precedes the {id} routes so mux never
	// treats "create" as an id.
	protected.HandleFunc("/greenhouses", greenhouseHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/greenhouse/create", greenhouseHandler.CreateForm).Methods(http.MethodGet)
	protected.HandleFunc("/greenhouse/create", greenhouseHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/greenhouse/{id}", greenhouseHandler.Detail).Methods(http.MethodGet)
	protected.HandleFunc("/greenhouse/{id}/update", greenhouseHandler.UpdateForm).Methods(http.MethodGet)
	protected.HandleFunc("/greenhouse/{id}/update", greenhouseHandler.Update).Methods(http.MethodPost)
	protected.HandleFunc("/greenhouse/{id}/delete", greenhouseHandler.DeleteForm).Methods(http.MethodGet)
	protected.HandleFunc("/greenhouse/{id}/delete", greenhouseHandler.Delete).Methods(http.MethodPost)

	// Plant type routes
	protected.HandleFunc("/types", plantTypeHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/type/create", plantTypeHandler.CreateForm).Methods(http.MethodGet)
	protected.HandleFunc("/type/create", plantTypeHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/type/{id}", plantTypeHandler.Detail).Methods(http.MethodGet)
	protected.HandleFunc("/type/{id}/update", plantTypeHandler.UpdateForm).Methods(http.MethodGet)
	protected.HandleFunc("/type/{id}/update", plantTypeHandler.Update).Methods(http.MethodPost)
	protected.HandleFunc("/type/{id}/delete", plantTypeHandler.DeleteForm).Methods(http.MethodGet)
	protected.HandleFunc("/type/{id}/delete", plantTypeHandler.Delete).Methods(http.MethodPost)

	// Plant routes
	protected.HandleFunc("/plants", plantHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/plant/create", plantHandler.CreateForm).Methods(http.MethodGet)
	protected.HandleFunc("/plant/create", plantHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/plant/{id}", plantHandler.Detail).Methods(http.MethodGet)
	protected.HandleFunc("/plant/{id}/update", plantHandler.UpdateForm).Methods(http.MethodGet)
	protected.HandleFunc("/plant/{id}/update", plantHandler.Update).Methods(http.MethodPost)
	protected.HandleFunc("/plant/{id}/delete", plantHandler.DeleteForm).Methods(http.MethodGet)
	protected.HandleFunc("/plant/{id}/delete", plantHandler.Delete).Methods(http.MethodPost)

	// Plant instance routes
	protected.HandleFunc("/plantinstances", instanceHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/plantinstance/create", instanceHandler.CreateForm).Methods(http.MethodGet)
	protected.HandleFunc("/plantinstance/create", instanceHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/plantinstance/{id}", instanceHandler.Detail).Methods(http.MethodGet)
	protected.HandleFunc("/plantinstance/{id}/update", instanceHandler.UpdateForm).Methods(http.MethodGet)
	protected.HandleFunc("/plantinstance/{id}/update", instanceHandler.Update).Methods(http.MethodPost)
	protected.HandleFunc("/plantinstance/{id}/delete", instanceHandler.DeleteForm).Methods(http.MethodGet)
	protected.HandleFunc("/plantinstance/{id}/delete", instanceHandler.Delete).Methods(http.MethodPost)

	return r
}
