package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"mindpulse/internal/dashboard"
	"mindpulse/internal/model"
	"mindpulse/internal/service"
	"mindpulse/internal/transport/rest/middleware"
	"mindpulse/internal/transport/rest/response"
)

// CheckinHandler handles check-in endpoints
type CheckinHandler struct {
	checkinSvc *service.CheckinService
	log        *slog.Logger
}

// NewCheckinHandler creates a new check-in handler
func NewCheckinHandler(checkinSvc *service.CheckinService, log *slog.Logger) *CheckinHandler {
	return &CheckinHandler{checkinSvc: checkinSvc, log: log}
}

// Create handles POST /api/v1/checkins. Analysis runs in the background.
func (h *CheckinHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CheckinRequest
	if err := decode(w, r, &req); err != nil {
		response.Error(w, h.log, err)
		return
	}

	user := middleware.UserFrom(r.Context())
	submission, err := h.checkinSvc.Create(r.Context(), user.ID, req)
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	response.JSON(w, http.StatusCreated, submission)
}

// List handles GET /api/v1/checkins?range=30d
func (h *CheckinHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	days := dashboard.ParseRange(r.URL.Query().Get("range"))

	checkins, err := h.checkinSvc.List(r.Context(), user.ID, days)
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	response.JSON(w, http.StatusOK, checkins)
}

// Get handles GET /api/v1/checkins/{id}
func (h *CheckinHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	checkin, err := h.checkinSvc.Get(r.Context(), user.ID, mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	response.JSON(w, http.StatusOK, checkin)
}

// Analysis handles GET /api/v1/checkins/{id}/analysis
func (h *CheckinHandler) Analysis(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	status, err := h.checkinSvc.Analysis(r.Context(), user.ID, mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	response.JSON(w, http.StatusOK, status)
}
