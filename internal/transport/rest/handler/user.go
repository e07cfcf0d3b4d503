package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"mindpulse/internal/model"
	"mindpulse/internal/service"
	"mindpulse/internal/transport/rest/middleware"
	"mindpulse/internal/transport/rest/response"
)

// UserHandler handles the caller's profile and settings as well as the
// admin user management endpoints
type UserHandler struct {
	userSvc *service.UserService
	log     *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userSvc *service.UserService, log *slog.Logger) *UserHandler {
	return &UserHandler{userSvc: userSvc, log: log}
}

// Profile handles GET /api/v1/users/profile
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, middleware.UserFrom(r.Context()))
}

// UpdateProfile handles PUT /api/v1/users/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req model.ProfileUpdateRequest
	if err := decode(w, r, &req); err != nil {
		response.Error(w, h.log, err)
		return
	}

	user, err := h.userSvc.UpdateProfile(r.Context(), middleware.UserFrom(r.Context()), req)
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	response.JSON(w, http.StatusOK, user)
}

// Settings handles GET /api/v1/users/settings
func (h *UserHandler) Settings(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	settings, err := h.userSvc.Settings(r.Context(), user.ID)
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	response.JSON(w, http.StatusOK, settings)
}

// UpdateSettings handles PUT /api/v1/users/settings
func (h *UserHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req model.SettingsUpdateRequest
	if err := decode(w, r, &req); err != nil {
		response.Error(w, h.log, err)
		return
	}

	user := middleware.UserFrom(r.Context())
	settings, err := h.userSvc.UpdateSettings(r.Context(), user.ID, req)
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	response.JSON(w, http.StatusOK, settings)
}

// ListUsers handles GET /api/v1/admin/users?page=1&per_page=20&search=
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))

	result, err := h.userSvc.ListUsers(r.Context(), page, perPage, q.Get("search"))
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

// SetRole handles PATCH /api/v1/admin/users/{id}/role
func (h *UserHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	var req model.RoleUpdateRequest
	if err := decode(w, r, &req); err != nil {
		response.Error(w, h.log, err)
		return
	}

	user, err := h.userSvc.SetRole(r.Context(), mux.Vars(r)["id"], req.Role)
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	response.JSON(w, http.StatusOK, user)
}

// Deactivate handles DELETE /api/v1/admin/users/{id}
func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	actor := middleware.UserFrom(r.Context())
	if err := h.userSvc.Deactivate(r.Context(), actor, mux.Vars(r)["id"]); err != nil {
		response.Error(w, h.log, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Message{Message: "User deactivated"})
}
