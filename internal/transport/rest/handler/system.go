package handler

import (
	"net/http"

	"mindpulse/internal/config"
	"mindpulse/internal/transport/rest/response"
)

// SystemHandler serves the unauthenticated service endpoints
type SystemHandler struct {
	app config.AppConfig
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(app config.AppConfig) *SystemHandler {
	return &SystemHandler{app: app}
}

type rootInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Docs    string `json:"docs"`
}

type healthInfo struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Root handles GET /
func (h *SystemHandler) Root(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, rootInfo{Name: h.app.Name, Version: h.app.Version, Docs: "/swagger/doc.json"})
}

// Health handles GET /health
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, healthInfo{Status: "healthy", Version: h.app.Version})
}
