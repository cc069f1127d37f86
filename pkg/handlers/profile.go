package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/cutroom-hq/cutroom-engine/pkg/apperrors"
	"github.com/cutroom-hq/cutroom-engine/pkg/auth"
	"github.com/cutroom-hq/cutroom-engine/pkg/services"
)

// UpdateProfileRequest is the request body for editing one's own profile.
type UpdateProfileRequest struct {
	Name string `json:"name"`
}

// ProfileHandler serves the authenticated user's own profile.
type ProfileHandler struct {
	userService services.UserService
	logger      *zap.Logger
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(userService services.UserService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers the profile handler's routes on the given mux.
func (h *ProfileHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/profile", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("PUT /api/profile", authMiddleware.RequireAuth(h.Update))
}

// Get handles GET /api/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	actorID, err := auth.RequireUserIDFromContext(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	user, err := h.userService.Get(r.Context(), actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "not_found", "Profile not found")
			return
		}
		h.logger.Error("Failed to get profile", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "get_failed", "Failed to get profile")
		return
	}

	if err := WriteJSON(w, http.StatusOK, user); err != nil {
		h.logger.Error("Failed to encode profile response", zap.Error(err))
	}
}

// Update handles PUT /api/profile
// Renames the acting user and re-derives their avatar. Role and email are
// not self-editable.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, err := auth.RequireUserIDFromContext(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if req.Name == "" {
		h.writeError(w, http.StatusBadRequest, "missing_name", "Name is required")
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), actorID, req.Name)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "not_found", "Profile not found")
			return
		}
		if errors.Is(err, apperrors.ErrValidation) {
			h.writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		h.logger.Error("Failed to update profile", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "update_failed", "Failed to update profile")
		return
	}

	if err := WriteJSON(w, http.StatusOK, user); err != nil {
		h.logger.Error("Failed to encode profile response", zap.Error(err))
	}
}

func (h *ProfileHandler) writeError(w http.ResponseWriter, statusCode int, errorCode, message string) {
	if err := ErrorResponse(w, statusCode, errorCode, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
