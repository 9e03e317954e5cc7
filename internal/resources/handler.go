package resources

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/itawiki/resource-manager/internal/platform/httpx"
)

// Handler wires the resource endpoints.
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
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

// MountRoutes registers resource routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/resources", h.createResource)
	r.Get("/resources", h.listResources)
	r.Put("/resources/{id}", h.updateResource)
}

type createResourceRequest struct {
	GithubID    int64    `json:"github_id" validate:"required,gt=0"`
	Title       string   `json:"title" validate:"required,min=5,max=255"`
	Description string   `json:"description" validate:"omitempty,min=10,max=1000"`
	URL         string   `json:"url" validate:"required,url"`
	Category    string   `json:"category" validate:"required"`
	Tags        []string `json:"tags" validate:"omitempty,max=5,unique"`
	Type        string   `json:"type" validate:"required"`
}

type updateResourceRequest struct {
	GithubID    int64    `json:"github_id" validate:"required,gt=0"`
	Title       string   `json:"title" validate:"required,min=5,max=255"`
	Description string   `json:"description" validate:"omitempty,min=10,max=1000"`
	URL         string   `json:"url" validate:"required,url"`
	Tags        []string `json:"tags" validate:"omitempty,max=5,unique"`
}

type resourceResponse struct {
	ID            int64    `json:"id"`
	GithubID      int64    `json:"github_id"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	URL           string   `json:"url"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags"`
	Type          string   `json:"type"`
	BookmarkCount int      `json:"bookmark_count"`
	LikeCount     int      `json:"like_count"`
}

func toResourceResponse(res Resource) resourceResponse {
	tags := res.Tags
	if tags == nil {
		tags = []string{}
	}
	return resourceResponse{
		ID:            res.ID,
		GithubID:      res.GithubID,
		Title:         res.Title,
		Description:   res.Description,
		URL:           res.URL,
		Category:      string(res.Category),
		Tags:          tags,
		Type:          string(res.Type),
		BookmarkCount: res.BookmarkCount,
		LikeCount:     res.LikeCount,
	}
}

func (h *Handler) createResource(w http.ResponseWriter, r *http.Request) {
	var req createResourceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrUnprocessable)
		return
	}

	resource, err := h.service.Create(r.Context(), req.GithubID, Resource{
		Title:       req.Title,
		Description: req.Description,
		URL:         req.URL,
		Category:    Category(req.Category),
		Tags:        req.Tags,
		Type:        ResourceType(req.Type),
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"message":  "Resource created.",
		"resource": toResourceResponse(resource),
	})
}

func (h *Handler) listResources(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := ListFilters{
		Category: strings.TrimSpace(q.Get("category")),
		Type:     strings.TrimSpace(q.Get("type")),
		Tag:      strings.TrimSpace(q.Get("tag")),
	}
	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page <= 0 {
			httpx.RespondError(w, httpx.ErrUnprocessable)
			return
		}
		filters.Page = page
	}
	if v := q.Get("per_page"); v != "" {
		perPage, err := strconv.Atoi(v)
		if err != nil || perPage <= 0 {
			httpx.RespondError(w, httpx.ErrUnprocessable)
			return
		}
		filters.PerPage = perPage
	}

	items, paging, err := h.service.List(r.Context(), filters)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	responses := make([]resourceResponse, 0, len(items))
	for _, res := range items {
		responses = append(responses, toResourceResponse(res))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"resources":  responses,
		"pagination": paging,
	})
}

func (h *Handler) updateResource(w http.ResponseWriter, r *http.Request) {
	resourceID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || resourceID <= 0 {
		httpx.RespondError(w, ErrResourceNotFound)
		return
	}

	var req updateResourceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrUnprocessable)
		return
	}

	resource, err := h.service.Update(r.Context(), req.GithubID, resourceID, UpdateFields{
		Title:       req.Title,
		Description: req.Description,
		URL:         req.URL,
		Tags:        req.Tags,
	})
	if err != nil {
		h.logger.Info("update resource denied",
			slog.Int64("github_id", req.GithubID),
			slog.Int64("resource_id", resourceID),
			slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message":  "Resource updated.",
		"resource": toResourceResponse(resource),
	})
}
