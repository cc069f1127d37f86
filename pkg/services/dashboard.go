package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cutroom-hq/cutroom-engine/pkg/repositories"
)

// DashboardData bundles the derived views the dashboard renders.
type DashboardData struct {
	Stats    DashboardStats  `json:"stats"`
	Workload []WorkloadEntry `json:"workload"`
}

// DashboardService computes dashboard views over the acting user's visible
// projects. Everything is recomputed from authoritative state on each call;
// there is no incremental caching.
type DashboardService interface {
	Overview(ctx context.Context, actorID uuid.UUID, filter ProjectFilter) (*DashboardData, error)
}

// dashboardService implements DashboardService.
type dashboardService struct {
	projectRepo repositories.ProjectRepository
	profileRepo repositories.ProfileRepository
	logger      *zap.Logger
}

// NewDashboardService creates a new dashboard service with dependencies.
func NewDashboardService(projectRepo repositories.ProjectRepository, profileRepo repositories.ProfileRepository, logger *zap.Logger) DashboardService {
	return &dashboardService{
		projectRepo: projectRepo,
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// Overview loads the project collection, scopes and filters it, and
// computes the stat counters and workload chart.
func (s *dashboardService) Overview(ctx context.Context, actorID uuid.UUID, filter ProjectFilter) (*DashboardData, error) {
	actor, err := s.profileRepo.Get(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load acting profile: %w", err)
	}

	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	today := Today()
	visible := FilterProjects(VisibleProjects(actor, projects), filter, today)

	return &DashboardData{
		Stats:    ComputeStats(visible, today),
		Workload: WorkloadChart(visible),
	}, nil
}

// Ensure dashboardService implements DashboardService at compile time.
var _ DashboardService = (*dashboardService)(nil)
