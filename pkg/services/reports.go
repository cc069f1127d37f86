package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cutroom-hq/cutroom-engine/pkg/models"
	"github.com/cutroom-hq/cutroom-engine/pkg/repositories"
)

// RoleUnknown is reported for log entries whose user no longer has a
// profile. The user name survives as a snapshot on the log itself.
const RoleUnknown = "Unknown"

// ReportEntry is one time log enriched with its parent project and the
// logging user's current role (looked up live, not snapshotted).
type ReportEntry struct {
	models.TimeLog
	ProjectID   uuid.UUID `json:"project_id"`
	ProjectName string    `json:"project_name"`
	UserRole    string    `json:"user_role"`
}

// ReportFilter narrows the report. Nil UUIDs and empty date strings mean
// "no filter"; the date range is inclusive on both ends.
type ReportFilter struct {
	ProjectID uuid.UUID
	UserID    uuid.UUID
	From      string // YYYY-MM-DD
	To        string // YYYY-MM-DD
}

// Report is the aggregated hours statement.
type Report struct {
	Entries    []ReportEntry `json:"entries"`
	TotalHours float64       `json:"total_hours"`
}

// BuildReport flattens every project's time logs into one list, enriches
// each entry, applies the filters and sums the hours. Date comparison is
// lexicographic, which matches chronological order for zero-padded
// YYYY-MM-DD strings.
func BuildReport(projects []*models.Project, users []*models.User, filter ReportFilter) *Report {
	roles := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		roles[u.ID] = u.Role
	}

	report := &Report{Entries: []ReportEntry{}}
	for _, p := range projects {
		if filter.ProjectID != uuid.Nil && p.ID != filter.ProjectID {
			continue
		}
		for _, log := range p.TimeLogs {
			if filter.UserID != uuid.Nil && log.UserID != filter.UserID {
				continue
			}
			if filter.From != "" && log.Date < filter.From {
				continue
			}
			if filter.To != "" && log.Date > filter.To {
				continue
			}

			role, ok := roles[log.UserID]
			if !ok {
				role = RoleUnknown
			}
			report.Entries = append(report.Entries, ReportEntry{
				TimeLog:     log,
				ProjectID:   p.ID,
				ProjectName: p.Name,
				UserRole:    role,
			})
			report.TotalHours += log.Hours
		}
	}

	sort.SliceStable(report.Entries, func(i, j int) bool {
		return report.Entries[i].Date > report.Entries[j].Date
	})

	return report
}

// ReportService defines the interface for report generation.
type ReportService interface {
	// Build returns the hours report visible to the acting user.
	Build(ctx context.Context, actorID uuid.UUID, filter ReportFilter) (*Report, error)
}

// reportService implements ReportService.
type reportService struct {
	projectRepo repositories.ProjectRepository
	profileRepo repositories.ProfileRepository
	logger      *zap.Logger
}

// NewReportService creates a new report service with dependencies.
func NewReportService(projectRepo repositories.ProjectRepository, profileRepo repositories.ProfileRepository, logger *zap.Logger) ReportService {
	return &reportService{
		projectRepo: projectRepo,
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// Build loads the authoritative collections, scopes them to the actor's
// visibility and aggregates the filtered logs.
func (s *reportService) Build(ctx context.Context, actorID uuid.UUID, filter ReportFilter) (*Report, error) {
	actor, err := s.profileRepo.Get(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load acting profile: %w", err)
	}

	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	users, err := s.profileRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	return BuildReport(VisibleProjects(actor, projects), users, filter), nil
}

// Ensure reportService implements ReportService at compile time.
var _ ReportService = (*reportService)(nil)
