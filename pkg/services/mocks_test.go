package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cutroom-hq/cutroom-engine/pkg/apperrors"
	"github.com/cutroom-hq/cutroom-engine/pkg/models"
	"github.com/cutroom-hq/cutroom-engine/pkg/repositories"
)

// mockProfileRepo implements repositories.ProfileRepository for testing.
type mockProfileRepo struct {
	users     map[uuid.UUID]*models.User
	createErr error
	getErr    error
	listErr   error
}

func newMockProfileRepo(users ...*models.User) *mockProfileRepo {
	m := &mockProfileRepo{users: make(map[uuid.UUID]*models.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockProfileRepo) Create(_ context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperrors.ErrConflict
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = user
	return nil
}

func (m *mockProfileRepo) Get(_ context.Context, id uuid.UUID) (*models.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	u, ok := m.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return u, nil
}

func (m *mockProfileRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockProfileRepo) List(_ context.Context) ([]*models.User, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var users []*models.User
	for _, u := range m.users {
		users = append(users, u)
	}
	return users, nil
}

func (m *mockProfileRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return apperrors.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	m.users[user.ID] = user
	return nil
}

func (m *mockProfileRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.users[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

var _ repositories.ProfileRepository = (*mockProfileRepo)(nil)

// mockProjectRepo implements repositories.ProjectRepository for testing.
// Projects are kept in insertion order, newest first, matching the real
// repository's created_at DESC listing.
type mockProjectRepo struct {
	projects  []*models.Project
	createErr error
	updateErr error
	appendErr error
}

func newMockProjectRepo(projects ...*models.Project) *mockProjectRepo {
	return &mockProjectRepo{projects: projects}
}

func (m *mockProjectRepo) Create(_ context.Context, project *models.Project) error {
	if m.createErr != nil {
		return m.createErr
	}
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt
	m.projects = append([]*models.Project{project}, m.projects...)
	return nil
}

func (m *mockProjectRepo) Get(_ context.Context, id uuid.UUID) (*models.Project, error) {
	for _, p := range m.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockProjectRepo) List(_ context.Context) ([]*models.Project, error) {
	return m.projects, nil
}

func (m *mockProjectRepo) Update(_ context.Context, project *models.Project) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	for i, p := range m.projects {
		if p.ID == project.ID {
			project.UpdatedAt = time.Now()
			m.projects[i] = project
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *mockProjectRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, p := range m.projects {
		if p.ID == id {
			m.projects = append(m.projects[:i], m.projects[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *mockProjectRepo) AppendTimeLog(_ context.Context, projectID uuid.UUID, log models.TimeLog) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	for _, p := range m.projects {
		if p.ID == projectID {
			p.TimeLogs = append(p.TimeLogs, log)
			p.HoursUsed += log.Hours
			p.UpdatedAt = time.Now()
			return nil
		}
	}
	return apperrors.ErrNotFound
}

var _ repositories.ProjectRepository = (*mockProjectRepo)(nil)
