package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cutroom-hq/cutroom-engine/pkg/apperrors"
	"github.com/cutroom-hq/cutroom-engine/pkg/auth"
	"github.com/cutroom-hq/cutroom-engine/pkg/models"
	"github.com/cutroom-hq/cutroom-engine/pkg/services"
)

// ProjectRequest is the request body for creating or updating a project.
// The server assigns ids and owns the hours counter; collections other than
// deliverables are managed through their own endpoints.
type ProjectRequest struct {
	Name             string                  `json:"name"`
	Client           string                  `json:"client"`
	Type             string                  `json:"type"`
	Structure        string                  `json:"structure"`
	Status           string                  `json:"status"`
	Priority         string                  `json:"priority"`
	Description      string                  `json:"description"`
	StartDate        string                  `json:"start_date"`
	Deadline         string                  `json:"deadline"`
	VersionDeadlines models.VersionDeadlines `json:"version_deadlines"`
	HoursBudgeted    float64                 `json:"hours_budgeted"`
	EditorIDs        []uuid.UUID             `json:"editor_ids"`
	Deliverables     []models.Deliverable    `json:"deliverables"`
}

// TimeLogRequest is the request body for logging hours.
type TimeLogRequest struct {
	Hours       float64 `json:"hours"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
}

// VersionRequest is the request body for submitting a deliverable version.
type VersionRequest struct {
	VersionType string `json:"version_type"`
	Link        string `json:"link"`
	Notes       string `json:"notes"`
}

// CommentRequest is the request body for adding a comment.
type CommentRequest struct {
	Text string `json:"text"`
}

// ProjectsHandler handles project-related HTTP requests.
type ProjectsHandler struct {
	projectService services.ProjectService
	logger         *zap.Logger
}

// NewProjectsHandler creates a new projects handler.
func NewProjectsHandler(projectService services.ProjectService, logger *zap.Logger) *ProjectsHandler {
	return &ProjectsHandler{
		projectService: projectService,
		logger:         logger,
	}
}

// RegisterRoutes registers the projects handler's routes on the given mux.
func (h *ProjectsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/projects", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("POST /api/projects", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("GET /api/projects/{id}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("PUT /api/projects/{id}", authMiddleware.RequireAuth(h.Update))
	mux.HandleFunc("DELETE /api/projects/{id}", authMiddleware.RequireAuth(h.Delete))
	mux.HandleFunc("POST /api/projects/{id}/time-logs", authMiddleware.RequireAuth(h.AddTimeLog))
	mux.HandleFunc("POST /api/projects/{id}/comments", authMiddleware.RequireAuth(h.AddComment))
	mux.HandleFunc("POST /api/projects/{id}/deliverables/{did}/versions", authMiddleware.RequireAuth(h.AddVersion))
}

// List handles GET /api/projects
// Returns the projects visible to the authenticated user, after the
// optional search/status filters. status accepts "Critical" as a synthetic
// value selecting over-budget or overdue active projects.
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	actorID, err := auth.RequireUserIDFromContext(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	filter := services.ProjectFilter{
		Search: r.URL.Query().Get("search"),
		Status: r.URL.Query().Get("status"),
	}

	projects, err := h.projectService.List(r.Context(), actorID, filter)
	if err != nil {
		h.logger.Error("Failed to list projects", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "list_failed", "Failed to list projects")
		return
	}
	if projects == nil {
		projects = []*models.Project{}
	}

	if err := WriteJSON(w, http.StatusOK, projects); err != nil {
		h.logger.Error("Failed to encode projects response", zap.Error(err))
	}
}

// Create handles POST /api/projects
// Creates a new project aggregate. Admin only.
func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, err := auth.RequireUserIDFromContext(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req ProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if req.Name == "" {
		h.writeError(w, http.StatusBadRequest, "missing_name", "Project name is required")
		return
	}
	if !models.IsValidStructure(req.Structure) {
		h.writeError(w, http.StatusBadRequest, "invalid_structure", "Structure must be one of: Simple, Campaign, Course")
		return
	}

	project := req.toModel()
	if err := h.projectService.Create(r.Context(), actorID, project); err != nil {
		h.respondMutationError(w, err, "create_failed", "Failed to create project")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, project); err != nil {
		h.logger.Error("Failed to encode project response", zap.Error(err))
	}
}

// Get handles GET /api/projects/{id}
func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	actorID, projectID, ok := h.actorAndProject(w, r)
	if !ok {
		return
	}

	project, err := h.projectService.Get(r.Context(), actorID, projectID)
	if err != nil {
		h.respondMutationError(w, err, "get_failed", "Failed to get project")
		return
	}

	if err := WriteJSON(w, http.StatusOK, project); err != nil {
		h.logger.Error("Failed to encode project response", zap.Error(err))
	}
}

// Update handles PUT /api/projects/{id}
// Replaces the stored aggregate wholesale. Callers holding the project must
// refresh from the response to avoid showing stale data.
func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, projectID, ok := h.actorAndProject(w, r)
	if !ok {
		return
	}

	var req ProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if req.Name == "" {
		h.writeError(w, http.StatusBadRequest, "missing_name", "Project name is required")
		return
	}
	if !models.IsValidStructure(req.Structure) {
		h.writeError(w, http.StatusBadRequest, "invalid_structure", "Structure must be one of: Simple, Campaign, Course")
		return
	}

	project := req.toModel()
	project.ID = projectID

	// Updates carry the full aggregate; reload the current collections the
	// request body does not manage before replacing the row.
	existing, err := h.projectService.Get(r.Context(), actorID, projectID)
	if err != nil {
		h.respondMutationError(w, err, "get_failed", "Failed to get project")
		return
	}
	project.HoursUsed = existing.HoursUsed
	project.Comments = existing.Comments
	project.TimeLogs = existing.TimeLogs

	if err := h.projectService.Update(r.Context(), actorID, project); err != nil {
		h.respondMutationError(w, err, "update_failed", "Failed to update project")
		return
	}

	if err := WriteJSON(w, http.StatusOK, project); err != nil {
		h.logger.Error("Failed to encode project response", zap.Error(err))
	}
}

// Delete handles DELETE /api/projects/{id}
// Irreversibly removes the aggregate and everything it owns. Admin only.
func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, projectID, ok := h.actorAndProject(w, r)
	if !ok {
		return
	}

	if err := h.projectService.Delete(r.Context(), actorID, projectID); err != nil {
		h.respondMutationError(w, err, "delete_failed", "Failed to delete project")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddTimeLog handles POST /api/projects/{id}/time-logs
// Appends an hours entry and bumps the project's hours counter atomically.
func (h *ProjectsHandler) AddTimeLog(w http.ResponseWriter, r *http.Request) {
	actorID, projectID, ok := h.actorAndProject(w, r)
	if !ok {
		return
	}

	var req TimeLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if req.Hours <= 0 {
		h.writeError(w, http.StatusBadRequest, "invalid_hours", "Hours must be positive")
		return
	}
	if req.Date == "" {
		h.writeError(w, http.StatusBadRequest, "missing_date", "Date is required")
		return
	}

	log, err := h.projectService.AddTimeLog(r.Context(), actorID, projectID, req.Hours, req.Date, req.Description)
	if err != nil {
		h.respondMutationError(w, err, "log_failed", "Failed to add time log")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, log); err != nil {
		h.logger.Error("Failed to encode time log response", zap.Error(err))
	}
}

// AddComment handles POST /api/projects/{id}/comments
func (h *ProjectsHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	actorID, projectID, ok := h.actorAndProject(w, r)
	if !ok {
		return
	}

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if req.Text == "" {
		h.writeError(w, http.StatusBadRequest, "missing_text", "Comment text is required")
		return
	}

	comment, err := h.projectService.AddComment(r.Context(), actorID, projectID, req.Text)
	if err != nil {
		h.respondMutationError(w, err, "comment_failed", "Failed to add comment")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, comment); err != nil {
		h.logger.Error("Failed to encode comment response", zap.Error(err))
	}
}

// AddVersion handles POST /api/projects/{id}/deliverables/{did}/versions
// Submits an immutable version. A Final version finishes its deliverable.
func (h *ProjectsHandler) AddVersion(w http.ResponseWriter, r *http.Request) {
	actorID, projectID, ok := h.actorAndProject(w, r)
	if !ok {
		return
	}

	deliverableID, err := uuid.Parse(r.PathValue("did"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_deliverable_id", "Invalid deliverable ID format")
		return
	}

	var req VersionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if !models.IsValidVersionType(req.VersionType) {
		h.writeError(w, http.StatusBadRequest, "invalid_version_type", "Version type must be one of: V1, V2, V3, Final")
		return
	}
	if req.Link == "" {
		h.writeError(w, http.StatusBadRequest, "missing_link", "Version link is required")
		return
	}

	version, err := h.projectService.AddVersion(r.Context(), actorID, projectID, deliverableID, req.VersionType, req.Link, req.Notes)
	if err != nil {
		h.respondMutationError(w, err, "version_failed", "Failed to add version")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, version); err != nil {
		h.logger.Error("Failed to encode version response", zap.Error(err))
	}
}

// toModel converts the request body into a project aggregate.
func (req *ProjectRequest) toModel() *models.Project {
	return &models.Project{
		Name:             req.Name,
		Client:           req.Client,
		Type:             req.Type,
		Structure:        req.Structure,
		Status:           req.Status,
		Priority:         req.Priority,
		Description:      req.Description,
		StartDate:        req.StartDate,
		Deadline:         req.Deadline,
		VersionDeadlines: req.VersionDeadlines,
		HoursBudgeted:    req.HoursBudgeted,
		EditorIDs:        req.EditorIDs,
		Deliverables:     req.Deliverables,
	}
}

// actorAndProject extracts the authenticated user id and the {id} path
// parameter, writing the error response itself on failure.
func (h *ProjectsHandler) actorAndProject(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	actorID, err := auth.RequireUserIDFromContext(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}

	projectID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_project_id", "Invalid project ID format")
		return uuid.Nil, uuid.Nil, false
	}

	return actorID, projectID, true
}

// respondMutationError maps service errors to HTTP responses.
func (h *ProjectsHandler) respondMutationError(w http.ResponseWriter, err error, errorCode, message string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "not_found", "Project not found")
	case errors.Is(err, apperrors.ErrForbidden):
		h.writeError(w, http.StatusForbidden, "forbidden", "Not allowed for this project")
	case errors.Is(err, apperrors.ErrInvalidStructure):
		h.writeError(w, http.StatusBadRequest, "invalid_structure", "Deliverables do not match the project structure")
	case errors.Is(err, apperrors.ErrDeliverableRequired):
		h.writeError(w, http.StatusBadRequest, "deliverable_required", "At least one deliverable is required for this structure")
	case errors.Is(err, apperrors.ErrValidation):
		h.writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		h.logger.Error("Project mutation failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, errorCode, message)
	}
}

func (h *ProjectsHandler) writeError(w http.ResponseWriter, statusCode int, errorCode, message string) {
	if err := ErrorResponse(w, statusCode, errorCode, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
