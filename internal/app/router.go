package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/itawiki/resource-manager/internal/bookmarks"
	"github.com/itawiki/resource-manager/internal/likes"
	"github.com/itawiki/resource-manager/internal/observability"
	"github.com/itawiki/resource-manager/internal/platform/httpx"
	"github.com/itawiki/resource-manager/internal/resources"
	"github.com/itawiki/resource-manager/internal/roles"
	"github.com/itawiki/resource-manager/internal/tags"
	"github.com/itawiki/resource-manager/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	RolesHandler     *roles.Handler
	ResourcesHandler *resources.Handler
	BookmarksHandler *bookmarks.Handler
	LikesHandler     *likes.Handler
	TagsHandler      *tags.Handler
	JobsHandler      *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]any{
			"service":   "ITA Wiki - Resource Manager",
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	r.Route("/api", func(r chi.Router) {
		if params.RolesHandler != nil {
			params.RolesHandler.MountRoutes(r)
		}
		if params.ResourcesHandler != nil {
			params.ResourcesHandler.MountRoutes(r)
		}
		if params.BookmarksHandler != nil {
			params.BookmarksHandler.MountRoutes(r)
		}
		if params.LikesHandler != nil {
			params.LikesHandler.MountRoutes(r)
		}
		if params.TagsHandler != nil {
			params.TagsHandler.MountRoutes(r)
		}
	})

	if params.JobsHandler != nil {
		r.Route("/jobs", params.JobsHandler.MountRoutes)
	}

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
