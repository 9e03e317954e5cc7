package bookmarks

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/itawiki/resource-manager/internal/platform/httpx"
)

// Handler wires the bookmark endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers bookmark routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/bookmarks/{github_id}", h.listBookmarks)
	r.Post("/bookmarks", h.createBookmark)
	r.Delete("/bookmarks", h.deleteBookmark)
}

type bookmarkRequest struct {
	GithubID   int64 `json:"github_id" validate:"required,gt=0"`
	ResourceID int64 `json:"resource_id" validate:"required,gt=0"`
}

type bookmarkResponse struct {
	GithubID   int64 `json:"github_id"`
	ResourceID int64 `json:"resource_id"`
}

func (h *Handler) listBookmarks(w http.ResponseWriter, r *http.Request) {
	githubID, err := strconv.ParseInt(chi.URLParam(r, "github_id"), 10, 64)
	if err != nil || githubID <= 0 {
		httpx.RespondError(w, httpx.ErrUnprocessable)
		return
	}

	items, err := h.service.ListByGithubID(r.Context(), githubID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	out := make([]bookmarkResponse, 0, len(items))
	for _, b := range items {
		out = append(out, bookmarkResponse{GithubID: b.GithubID, ResourceID: b.ResourceID})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"bookmarks": out})
}

func (h *Handler) createBookmark(w http.ResponseWriter, r *http.Request) {
	var req bookmarkRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrUnprocessable)
		return
	}

	b, err := h.service.Create(r.Context(), req.GithubID, req.ResourceID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"message":  "Bookmark created.",
		"bookmark": bookmarkResponse{GithubID: b.GithubID, ResourceID: b.ResourceID},
	})
}

func (h *Handler) deleteBookmark(w http.ResponseWriter, r *http.Request) {
	var req bookmarkRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrUnprocessable)
		return
	}

	if err := h.service.Delete(r.Context(), req.GithubID, req.ResourceID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "Bookmark deleted."})
}
