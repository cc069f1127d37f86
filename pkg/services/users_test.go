package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cutroom-hq/cutroom-engine/pkg/apperrors"
	"github.com/cutroom-hq/cutroom-engine/pkg/models"
)

func setupUserServiceTest(t *testing.T) (UserService, *mockProfileRepo, *models.User, *models.User) {
	t.Helper()

	admin := &models.User{ID: uuid.New(), Name: "Ada Admin", Email: "ada@studio.test", Role: models.RoleAdmin}
	editor := &models.User{ID: uuid.New(), Name: "Eve Editor", Email: "eve@studio.test", Role: models.RoleEditor}

	repo := newMockProfileRepo(admin, editor)
	svc := NewUserService(repo, zap.NewNop())

	return svc, repo, admin, editor
}

func TestUserService_Create(t *testing.T) {
	svc, _, admin, _ := setupUserServiceTest(t)

	user, err := svc.Create(context.Background(), admin.ID, "New Editor", "new@studio.test", models.RoleEditor)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, models.RoleEditor, user.Role)
	assert.Contains(t, user.Avatar, "ui-avatars.com")
	assert.Contains(t, user.Avatar, "New+Editor")
}

func TestUserService_Create_NonAdminForbidden(t *testing.T) {
	svc, _, _, editor := setupUserServiceTest(t)

	_, err := svc.Create(context.Background(), editor.ID, "Sneaky", "sneaky@studio.test", models.RoleAdmin)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestUserService_Create_InvalidRole(t *testing.T) {
	svc, _, admin, _ := setupUserServiceTest(t)

	_, err := svc.Create(context.Background(), admin.ID, "Nobody", "nobody@studio.test", "Producer")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRole)
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	svc, _, admin, editor := setupUserServiceTest(t)

	_, err := svc.Create(context.Background(), admin.ID, "Clone", editor.Email, models.RoleEditor)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestUserService_Create_MissingFields(t *testing.T) {
	svc, _, admin, _ := setupUserServiceTest(t)

	_, err := svc.Create(context.Background(), admin.ID, "", "x@studio.test", models.RoleEditor)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Create(context.Background(), admin.ID, "X", "", models.RoleEditor)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestUserService_Delete(t *testing.T) {
	svc, repo, admin, editor := setupUserServiceTest(t)

	require.NoError(t, svc.Delete(context.Background(), admin.ID, editor.ID))

	_, err := repo.Get(context.Background(), editor.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserService_Delete_NonAdminForbidden(t *testing.T) {
	svc, _, admin, editor := setupUserServiceTest(t)

	err := svc.Delete(context.Background(), editor.ID, admin.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestUserService_Delete_Unknown(t *testing.T) {
	svc, _, admin, _ := setupUserServiceTest(t)

	err := svc.Delete(context.Background(), admin.ID, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserService_UpdateProfile(t *testing.T) {
	svc, _, _, editor := setupUserServiceTest(t)

	before := editor.Avatar
	user, err := svc.UpdateProfile(context.Background(), editor.ID, "Eve Renamed")
	require.NoError(t, err)

	assert.Equal(t, "Eve Renamed", user.Name)
	// The avatar tracks the name.
	assert.NotEqual(t, before, user.Avatar)
	assert.Contains(t, user.Avatar, "Eve+Renamed")
	// Role and email are untouched.
	assert.Equal(t, models.RoleEditor, user.Role)
	assert.Equal(t, "eve@studio.test", user.Email)
}

func TestUserService_UpdateProfile_EmptyName(t *testing.T) {
	svc, _, _, editor := setupUserServiceTest(t)

	_, err := svc.UpdateProfile(context.Background(), editor.ID, "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
