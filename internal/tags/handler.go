package tags

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/itawiki/resource-manager/internal/platform/httpx"
)

// Handler exposes tag listing and frequency endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds the tags handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the tag endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/tags", h.list)
	r.Get("/tags/frequency", h.frequency)
	r.Get("/tags/category-frequency", h.categoryFrequency)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.List(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if tags == nil {
		tags = []string{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"tags": tags})
}

func (h *Handler) frequency(w http.ResponseWriter, r *http.Request) {
	freqs, err := h.service.Frequency(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if freqs == nil {
		freqs = []TagFrequency{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"frequencies": freqs})
}

func (h *Handler) categoryFrequency(w http.ResponseWriter, r *http.Request) {
	freqs, err := h.service.CategoryFrequency(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if freqs == nil {
		freqs = []CategoryTagFrequency{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"frequencies": freqs})
}
