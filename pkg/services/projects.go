package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cutroom-hq/cutroom-engine/pkg/apperrors"
	"github.com/cutroom-hq/cutroom-engine/pkg/models"
	"github.com/cutroom-hq/cutroom-engine/pkg/repositories"
)

// ProjectService defines the interface for project operations. Every method
// takes the acting user's profile id; role scoping and write authorization
// happen here, not in handlers.
type ProjectService interface {
	List(ctx context.Context, actorID uuid.UUID, filter ProjectFilter) ([]*models.Project, error)
	Get(ctx context.Context, actorID, projectID uuid.UUID) (*models.Project, error)
	Create(ctx context.Context, actorID uuid.UUID, project *models.Project) error
	Update(ctx context.Context, actorID uuid.UUID, project *models.Project) error
	Delete(ctx context.Context, actorID, projectID uuid.UUID) error

	AddTimeLog(ctx context.Context, actorID, projectID uuid.UUID, hours float64, date, description string) (*models.TimeLog, error)
	AddVersion(ctx context.Context, actorID, projectID, deliverableID uuid.UUID, versionType, link, notes string) (*models.VersionLog, error)
	AddComment(ctx context.Context, actorID, projectID uuid.UUID, text string) (*models.Comment, error)
}

// projectService implements ProjectService.
type projectService struct {
	projectRepo repositories.ProjectRepository
	profileRepo repositories.ProfileRepository
	logger      *zap.Logger
}

// NewProjectService creates a new project service with dependencies.
func NewProjectService(projectRepo repositories.ProjectRepository, profileRepo repositories.ProfileRepository, logger *zap.Logger) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// Today returns the current calendar date as YYYY-MM-DD.
func Today() string {
	return time.Now().Format(models.DateLayout)
}

// List returns the projects visible to the actor, after filters.
func (s *projectService) List(ctx context.Context, actorID uuid.UUID, filter ProjectFilter) ([]*models.Project, error) {
	actor, err := s.profileRepo.Get(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load acting profile: %w", err)
	}

	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	return FilterProjects(VisibleProjects(actor, projects), filter, Today()), nil
}

// Get returns a single project if the actor may see it.
func (s *projectService) Get(ctx context.Context, actorID, projectID uuid.UUID) (*models.Project, error) {
	actor, err := s.profileRepo.Get(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load acting profile: %w", err)
	}

	project, err := s.projectRepo.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && !project.HasEditor(actor.ID) {
		return nil, apperrors.ErrForbidden
	}
	return project, nil
}

// Create validates and stores a new project aggregate. Admin only.
func (s *projectService) Create(ctx context.Context, actorID uuid.UUID, project *models.Project) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}

	if err := validateProject(project); err != nil {
		return err
	}

	project.ID = uuid.New()
	project.HoursUsed = 0
	project.Comments = []models.Comment{}
	project.TimeLogs = []models.TimeLog{}
	normalizeDeliverables(project)

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return err
	}

	s.logger.Info("Project created",
		zap.String("project_id", project.ID.String()),
		zap.String("name", project.Name),
		zap.String("structure", project.Structure))
	return nil
}

// Update replaces the stored aggregate wholesale. Admins may edit any
// project; editors and assistants only projects they are assigned to.
func (s *projectService) Update(ctx context.Context, actorID uuid.UUID, project *models.Project) error {
	existing, err := s.Get(ctx, actorID, project.ID)
	if err != nil {
		return err
	}

	if err := validateProject(project); err != nil {
		return err
	}
	normalizeDeliverables(project)
	project.CreatedAt = existing.CreatedAt

	return s.projectRepo.Update(ctx, project)
}

// Delete removes a project and everything it owns. Admin only, irreversible.
func (s *projectService) Delete(ctx context.Context, actorID, projectID uuid.UUID) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		return err
	}

	s.logger.Info("Project deleted", zap.String("project_id", projectID.String()))
	return nil
}

// AddTimeLog appends an hours entry with a user name snapshot and bumps the
// project's hours_used by the same amount in one atomic repository call.
func (s *projectService) AddTimeLog(ctx context.Context, actorID, projectID uuid.UUID, hours float64, date, description string) (*models.TimeLog, error) {
	actor, project, err := s.requireWriter(ctx, actorID, projectID)
	if err != nil {
		return nil, err
	}

	if hours <= 0 || hours*2 != float64(int64(hours*2)) {
		return nil, fmt.Errorf("%w: hours must be a positive multiple of 0.5, got %v", apperrors.ErrValidation, hours)
	}
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", apperrors.ErrValidation, date)
	}

	log := models.TimeLog{
		ID:          uuid.New(),
		UserID:      actor.ID,
		UserName:    actor.Name,
		Hours:       hours,
		Date:        date,
		Description: description,
	}

	if err := s.projectRepo.AppendTimeLog(ctx, project.ID, log); err != nil {
		return nil, err
	}

	return &log, nil
}

// AddVersion appends an immutable version submission to a deliverable,
// newest first. A Final version flips that deliverable (and only that
// deliverable) to Finished.
func (s *projectService) AddVersion(ctx context.Context, actorID, projectID, deliverableID uuid.UUID, versionType, link, notes string) (*models.VersionLog, error) {
	_, project, err := s.requireWriter(ctx, actorID, projectID)
	if err != nil {
		return nil, err
	}

	if !models.IsValidVersionType(versionType) {
		return nil, fmt.Errorf("%w: invalid version type: %s", apperrors.ErrValidation, versionType)
	}

	deliverable := project.FindDeliverable(deliverableID)
	if deliverable == nil {
		return nil, apperrors.ErrNotFound
	}

	version := models.VersionLog{
		ID:          uuid.New(),
		VersionType: versionType,
		Link:        link,
		SubmittedAt: time.Now(),
		Notes:       notes,
	}

	deliverable.Versions = append([]models.VersionLog{version}, deliverable.Versions...)
	if versionType == models.VersionFinal {
		deliverable.Status = models.StatusFinished
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	return &version, nil
}

// AddComment appends a discussion entry with a user name snapshot.
// Comments are never edited or removed.
func (s *projectService) AddComment(ctx context.Context, actorID, projectID uuid.UUID, text string) (*models.Comment, error) {
	actor, project, err := s.requireWriter(ctx, actorID, projectID)
	if err != nil {
		return nil, err
	}

	comment := models.Comment{
		ID:        uuid.New(),
		UserID:    actor.ID,
		UserName:  actor.Name,
		Text:      text,
		CreatedAt: time.Now(),
	}

	project.Comments = append(project.Comments, comment)
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	return &comment, nil
}

// requireAdmin loads the actor and rejects non-admins.
func (s *projectService) requireAdmin(ctx context.Context, actorID uuid.UUID) error {
	actor, err := s.profileRepo.Get(ctx, actorID)
	if err != nil {
		return fmt.Errorf("failed to load acting profile: %w", err)
	}
	if !actor.IsAdmin() {
		return apperrors.ErrForbidden
	}
	return nil
}

// requireWriter loads the actor and the project, allowing admins and
// assigned editors through.
func (s *projectService) requireWriter(ctx context.Context, actorID, projectID uuid.UUID) (*models.User, *models.Project, error) {
	actor, err := s.profileRepo.Get(ctx, actorID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load acting profile: %w", err)
	}

	project, err := s.projectRepo.Get(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}

	if !actor.IsAdmin() && !project.HasEditor(actor.ID) {
		return nil, nil, apperrors.ErrForbidden
	}
	return actor, project, nil
}

// validateProject checks enums and the structure/deliverable invariants:
// Simple projects have exactly one ungrouped deliverable, Campaign and
// Course projects need at least one, and every Course deliverable must
// belong to a named module.
func validateProject(p *models.Project) error {
	if p.Name == "" {
		return fmt.Errorf("%w: project name is required", apperrors.ErrValidation)
	}
	if !models.IsValidStatus(p.Status) {
		return fmt.Errorf("%w: invalid status: %s", apperrors.ErrValidation, p.Status)
	}
	if !models.IsValidPriority(p.Priority) {
		return fmt.Errorf("%w: invalid priority: %s", apperrors.ErrValidation, p.Priority)
	}

	switch p.Structure {
	case models.StructureSimple:
		if len(p.Deliverables) != 1 {
			return apperrors.ErrInvalidStructure
		}
	case models.StructureCampaign:
		if len(p.Deliverables) == 0 {
			return apperrors.ErrDeliverableRequired
		}
	case models.StructureCourse:
		if len(p.Deliverables) == 0 {
			return apperrors.ErrDeliverableRequired
		}
		for _, d := range p.Deliverables {
			if d.Group == "" {
				return apperrors.ErrInvalidStructure
			}
		}
	default:
		return apperrors.ErrInvalidStructure
	}

	return nil
}

// normalizeDeliverables assigns ids to new deliverables, defaults missing
// statuses and clears the unused group on Simple projects.
func normalizeDeliverables(p *models.Project) {
	for i := range p.Deliverables {
		d := &p.Deliverables[i]
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
		}
		if d.Status == "" {
			d.Status = models.StatusInProgress
		}
		if d.Versions == nil {
			d.Versions = []models.VersionLog{}
		}
		if p.Structure == models.StructureSimple {
			d.Group = ""
		}
	}
}

// Ensure projectService implements ProjectService at compile time.
var _ ProjectService = (*projectService)(nil)
