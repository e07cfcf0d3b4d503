package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"mindpulse/internal/dashboard"
	"mindpulse/internal/service"
	"mindpulse/internal/transport/rest/middleware"
	"mindpulse/internal/transport/rest/response"
)

// InsightHandler serves the dashboard and analysis insights
type InsightHandler struct {
	insightSvc *service.InsightService
	log        *slog.Logger
}

// NewInsightHandler creates a new insight handler
func NewInsightHandler(insightSvc *service.InsightService, log *slog.Logger) *InsightHandler {
	return &InsightHandler{insightSvc: insightSvc, log: log}
}

// Dashboard handles GET /api/v1/dashboard?range=30d
func (h *InsightHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	days := dashboard.ParseRange(r.URL.Query().Get("range"))

	d, err := h.insightSvc.Dashboard(r.Context(), user.ID, days)
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	response.JSON(w, http.StatusOK, d)
}

// Recent handles GET /api/v1/insights/recent
func (h *InsightHandler) Recent(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	insights, err := h.insightSvc.Recent(r.Context(), user.ID)
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	response.JSON(w, http.StatusOK, insights)
}

// Get handles GET /api/v1/insights/{id}
func (h *InsightHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	insight, err := h.insightSvc.Get(r.Context(), user.ID, mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	response.JSON(w, http.StatusOK, insight)
}
