package handler

import (
	"net/http"

	"storyfusion/internal/platform/logger"
	"storyfusion/internal/service"
)

// AdminHandler handles schema setup and health
type AdminHandler struct {
	adminSvc *service.AdminService
	log      *logger.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminSvc *service.AdminService, log *logger.Logger) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc, log: log}
}

// Init handles POST /init
func (h *AdminHandler) Init(w http.ResponseWriter, r *http.Request) {
	if err := h.adminSvc.InitSchema(r.Context()); err != nil {
		writeFailure(w, r, h.log, err, "failed to initialize database")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Health handles GET /health
func (h *AdminHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"missingData": h.adminSvc.MissingData(),
	})
}
