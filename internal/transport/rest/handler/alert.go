package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"mindpulse/internal/model"
	"mindpulse/internal/service"
	"mindpulse/internal/transport/rest/middleware"
	"mindpulse/internal/transport/rest/response"
)

// AlertHandler handles alert endpoints
type AlertHandler struct {
	alertSvc *service.AlertService
	log      *slog.Logger
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(alertSvc *service.AlertService, log *slog.Logger) *AlertHandler {
	return &AlertHandler{alertSvc: alertSvc, log: log}
}

// List handles GET /api/v1/alerts
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	alerts, err := h.alertSvc.List(r.Context(), user.ID)
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	response.JSON(w, http.StatusOK, alerts)
}

// Update handles PATCH /api/v1/alerts/{id}
func (h *AlertHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.AlertUpdateRequest
	if err := decode(w, r, &req); err != nil {
		response.Error(w, h.log, err)
		return
	}

	user := middleware.UserFrom(r.Context())
	alert, err := h.alertSvc.UpdateStatus(r.Context(), user.ID, mux.Vars(r)["id"], req.Status)
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	response.JSON(w, http.StatusOK, alert)
}
