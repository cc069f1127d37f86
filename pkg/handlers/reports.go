package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cutroom-hq/cutroom-engine/pkg/auth"
	"github.com/cutroom-hq/cutroom-engine/pkg/services"
)

// ReportsHandler serves the hours report.
type ReportsHandler struct {
	reportService services.ReportService
	logger        *zap.Logger
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(reportService services.ReportService, logger *zap.Logger) *ReportsHandler {
	return &ReportsHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// RegisterRoutes registers the reports handler's routes on the given mux.
func (h *ReportsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/reports", authMiddleware.RequireAuth(h.Build))
}

// Build handles GET /api/reports
// Query parameters: project_id, user_id (uuids), from, to (YYYY-MM-DD,
// inclusive). All are optional and combine with AND.
func (h *ReportsHandler) Build(w http.ResponseWriter, r *http.Request) {
	actorID, err := auth.RequireUserIDFromContext(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	filter := services.ReportFilter{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}

	if raw := r.URL.Query().Get("project_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid_project_id", "Invalid project ID format")
			return
		}
		filter.ProjectID = id
	}
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid_user_id", "Invalid user ID format")
			return
		}
		filter.UserID = id
	}

	report, err := h.reportService.Build(r.Context(), actorID, filter)
	if err != nil {
		h.logger.Error("Failed to build report", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "report_failed", "Failed to build report")
		return
	}

	if err := WriteJSON(w, http.StatusOK, report); err != nil {
		h.logger.Error("Failed to encode report response", zap.Error(err))
	}
}

func (h *ReportsHandler) writeError(w http.ResponseWriter, statusCode int, errorCode, message string) {
	if err := ErrorResponse(w, statusCode, errorCode, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
