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

// CreateUserRequest is the request body for inviting a team member.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UsersHandler handles team-member HTTP requests.
type UsersHandler struct {
	userService services.UserService
	logger      *zap.Logger
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(userService services.UserService, logger *zap.Logger) *UsersHandler {
	return &UsersHandler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers the users handler's routes on the given mux.
func (h *UsersHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/users", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("POST /api/users", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("DELETE /api/users/{id}", authMiddleware.RequireAuth(h.Delete))
}

// List handles GET /api/users
// Every authenticated user can see the full roster; names feed assignment
// pickers and comment attribution.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list users", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "list_failed", "Failed to list users")
		return
	}
	if users == nil {
		users = []*models.User{}
	}

	if err := WriteJSON(w, http.StatusOK, users); err != nil {
		h.logger.Error("Failed to encode users response", zap.Error(err))
	}
}

// Create handles POST /api/users
// Invites a team member. Admin only.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, err := auth.RequireUserIDFromContext(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" {
		h.writeError(w, http.StatusBadRequest, "missing_fields", "Name and email are required")
		return
	}

	user, err := h.userService.Create(r.Context(), actorID, req.Name, req.Email, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			h.writeError(w, http.StatusForbidden, "forbidden", "Only admins can invite team members")
		case errors.Is(err, apperrors.ErrInvalidRole):
			h.writeError(w, http.StatusBadRequest, "invalid_role", "Role must be one of: admin, editor, assistant")
		case errors.Is(err, apperrors.ErrConflict):
			h.writeError(w, http.StatusConflict, "email_taken", "A team member with this email already exists")
		case errors.Is(err, apperrors.ErrValidation):
			h.writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		default:
			h.logger.Error("Failed to create user", zap.Error(err))
			h.writeError(w, http.StatusInternalServerError, "create_failed", "Failed to create user")
		}
		return
	}

	if err := WriteJSON(w, http.StatusCreated, user); err != nil {
		h.logger.Error("Failed to encode user response", zap.Error(err))
	}
}

// Delete handles DELETE /api/users/{id}
// Removes a profile. Projects keep referencing the removed id; readers
// resolve it to an unknown user. Admin only.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, err := auth.RequireUserIDFromContext(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_user_id", "Invalid user ID format")
		return
	}

	if err := h.userService.Delete(r.Context(), actorID, userID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			h.writeError(w, http.StatusForbidden, "forbidden", "Only admins can remove team members")
		case errors.Is(err, apperrors.ErrNotFound):
			h.writeError(w, http.StatusNotFound, "not_found", "User not found")
		default:
			h.logger.Error("Failed to delete user", zap.Error(err))
			h.writeError(w, http.StatusInternalServerError, "delete_failed", "Failed to delete user")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *UsersHandler) writeError(w http.ResponseWriter, statusCode int, errorCode, message string) {
	if err := ErrorResponse(w, statusCode, errorCode, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
