package roles

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/itawiki/resource-manager/internal/platform/httpx"
)

// Handler wires the role endpoints.
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

// MountRoutes registers role routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/roles", h.createRole)
	r.Put("/roles", h.updateRole)
	r.Post("/login", h.login)
	r.Put("/feature-flags/role-self-assignment", h.selfAssignRole)
}

type assignRoleRequest struct {
	AuthorizedGithubID int64  `json:"authorized_github_id" validate:"required,gt=0"`
	GithubID           int64  `json:"github_id" validate:"required,gt=0"`
	Role               string `json:"role" validate:"required"`
}

type selfAssignRequest struct {
	GithubID int64  `json:"github_id" validate:"required,gt=0"`
	Role     string `json:"role" validate:"required"`
}

type loginRequest struct {
	GithubID int64 `json:"github_id" validate:"required,gt=0"`
}

type roleResponse struct {
	GithubID int64  `json:"github_id"`
	Role     string `json:"role"`
}

func toRoleResponse(role Role) roleResponse {
	return roleResponse{GithubID: role.GithubID, Role: string(role.Role)}
}

func (h *Handler) createRole(w http.ResponseWriter, r *http.Request) {
	var req assignRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrUnprocessable)
		return
	}

	role, err := h.service.CreateRole(r.Context(), req.AuthorizedGithubID, req.GithubID, req.Role)
	if err != nil {
		h.logger.Info("create role denied",
			slog.Int64("acting_github_id", req.AuthorizedGithubID),
			slog.Int64("github_id", req.GithubID),
			slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"message": "Role created.",
		"role":    toRoleResponse(role),
	})
}

func (h *Handler) updateRole(w http.ResponseWriter, r *http.Request) {
	var req assignRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrUnprocessable)
		return
	}

	role, err := h.service.UpdateRole(r.Context(), req.AuthorizedGithubID, req.GithubID, req.Role)
	if err != nil {
		h.logger.Info("update role denied",
			slog.Int64("acting_github_id", req.AuthorizedGithubID),
			slog.Int64("github_id", req.GithubID),
			slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message": "Role updated.",
		"role":    toRoleResponse(role),
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrUnprocessable)
		return
	}

	role, err := h.service.FindByGithubID(r.Context(), req.GithubID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message": "Role found.",
		"role":    toRoleResponse(role),
	})
}

func (h *Handler) selfAssignRole(w http.ResponseWriter, r *http.Request) {
	var req selfAssignRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrUnprocessable)
		return
	}

	role, err := h.service.SelfAssignRole(r.Context(), req.GithubID, req.Role)
	if err != nil {
		h.logger.Info("role self-assignment denied",
			slog.Int64("github_id", req.GithubID),
			slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message": "Role updated.",
		"role":    toRoleResponse(role),
	})
}
