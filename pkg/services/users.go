package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cutroom-hq/cutroom-engine/pkg/apperrors"
	"github.com/cutroom-hq/cutroom-engine/pkg/avatar"
	"github.com/cutroom-hq/cutroom-engine/pkg/models"
	"github.com/cutroom-hq/cutroom-engine/pkg/repositories"
)

// UserService defines the interface for team member operations. Credentials
// live at the hosted auth provider; this service only manages profile rows.
type UserService interface {
	List(ctx context.Context) ([]*models.User, error)
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)

	// Create inserts a profile for an admin invite. The matching auth
	// identity (and its default password) is provisioned by the auth
	// provider, not here.
	Create(ctx context.Context, actorID uuid.UUID, name, email, role string) (*models.User, error)

	// Delete removes the profile row only. References to the id in project
	// editor lists and historical logs remain dangling; readers render
	// them as a removed user.
	Delete(ctx context.Context, actorID, userID uuid.UUID) error

	// UpdateProfile renames the actor's own profile and re-derives the
	// avatar from the new name.
	UpdateProfile(ctx context.Context, actorID uuid.UUID, name string) (*models.User, error)
}

// userService implements UserService.
type userService struct {
	profileRepo repositories.ProfileRepository
	logger      *zap.Logger
}

// NewUserService creates a new user service with dependencies.
func NewUserService(profileRepo repositories.ProfileRepository, logger *zap.Logger) UserService {
	return &userService{
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// List retrieves all profiles.
func (s *userService) List(ctx context.Context) ([]*models.User, error) {
	return s.profileRepo.List(ctx)
}

// Get retrieves a single profile.
func (s *userService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.profileRepo.Get(ctx, id)
}

// Create inserts a new profile with a derived avatar. Admin only.
func (s *userService) Create(ctx context.Context, actorID uuid.UUID, name, email, role string) (*models.User, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	if !models.IsValidRole(role) {
		return nil, apperrors.ErrInvalidRole
	}
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", apperrors.ErrValidation)
	}

	user := &models.User{
		Name:   name,
		Email:  email,
		Role:   role,
		Avatar: avatar.URL(name),
	}

	if err := s.profileRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Profile created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role))
	return user, nil
}

// Delete removes a profile row. Admin only.
func (s *userService) Delete(ctx context.Context, actorID, userID uuid.UUID) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}

	if err := s.profileRepo.Delete(ctx, userID); err != nil {
		return err
	}

	s.logger.Info("Profile deleted", zap.String("user_id", userID.String()))
	return nil
}

// UpdateProfile renames the actor's own profile. The avatar follows the
// name deterministically; password changes go to the auth provider.
func (s *userService) UpdateProfile(ctx context.Context, actorID uuid.UUID, name string) (*models.User, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}

	user, err := s.profileRepo.Get(ctx, actorID)
	if err != nil {
		return nil, err
	}

	user.Name = name
	user.Avatar = avatar.URL(name)

	if err := s.profileRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) requireAdmin(ctx context.Context, actorID uuid.UUID) error {
	actor, err := s.profileRepo.Get(ctx, actorID)
	if err != nil {
		return fmt.Errorf("failed to load acting profile: %w", err)
	}
	if !actor.IsAdmin() {
		return apperrors.ErrForbidden
	}
	return nil
}

// Ensure userService implements UserService at compile time.
var _ UserService = (*userService)(nil)
