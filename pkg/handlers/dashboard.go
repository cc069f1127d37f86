package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/cutroom-hq/cutroom-engine/pkg/auth"
	"github.com/cutroom-hq/cutroom-engine/pkg/services"
)

// DashboardHandler serves the aggregated dashboard view.
type DashboardHandler struct {
	dashboardService services.DashboardService
	logger           *zap.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(dashboardService services.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// RegisterRoutes registers the dashboard handler's routes on the given mux.
func (h *DashboardHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/dashboard", authMiddleware.RequireAuth(h.Overview))
}

// Overview handles GET /api/dashboard
// Stats and the workload chart are computed over the acting user's visible
// projects, after the same optional search/status filters as the list
// endpoint.
func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	actorID, err := auth.RequireUserIDFromContext(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	filter := services.ProjectFilter{
		Search: r.URL.Query().Get("search"),
		Status: r.URL.Query().Get("status"),
	}

	data, err := h.dashboardService.Overview(r.Context(), actorID, filter)
	if err != nil {
		h.logger.Error("Failed to build dashboard", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "dashboard_failed", "Failed to build dashboard")
		return
	}

	if err := WriteJSON(w, http.StatusOK, data); err != nil {
		h.logger.Error("Failed to encode dashboard response", zap.Error(err))
	}
}

func (h *DashboardHandler) writeError(w http.ResponseWriter, statusCode int, errorCode, message string) {
	if err := ErrorResponse(w, statusCode, errorCode, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
