package services

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/cutroom-hq/cutroom-engine/pkg/models"
)

// FilterCritical is the synthetic status filter value that selects projects
// by the critical predicate instead of a status match.
const FilterCritical = "Critical"

// ProjectFilter narrows a project list. Search matches name and client
// case-insensitively; Status is an equality match, or FilterCritical.
// Filters compose by AND; zero values mean "no filter".
type ProjectFilter struct {
	Search string
	Status string
}

// DashboardStats are the headline counts for the dashboard, computed over an
// already visibility-scoped project list.
type DashboardStats struct {
	Active    int     `json:"active"`
	Finished  int     `json:"finished"`
	Critical  int     `json:"critical"`
	HoursUsed float64 `json:"hours_used"`
}

// WorkloadEntry is one bar of the workload chart.
type WorkloadEntry struct {
	ProjectID uuid.UUID `json:"project_id"`
	Name      string    `json:"name"`
	Used      float64   `json:"used"`
	Remaining float64   `json:"remaining"`
	Overrun   float64   `json:"overrun"`
}

// workloadChartSize caps the chart to the busiest projects for display.
const workloadChartSize = 8

// VisibleProjects applies role scoping: admins see everything, everyone
// else only the projects whose editor list contains them.
func VisibleProjects(user *models.User, projects []*models.Project) []*models.Project {
	if user.IsAdmin() {
		return projects
	}

	var visible []*models.Project
	for _, p := range projects {
		if p.HasEditor(user.ID) {
			visible = append(visible, p)
		}
	}
	return visible
}

// FilterProjects applies the text and status filters. The today argument is
// the current date as YYYY-MM-DD, used by the Critical filter.
func FilterProjects(projects []*models.Project, filter ProjectFilter, today string) []*models.Project {
	search := strings.ToLower(filter.Search)

	var filtered []*models.Project
	for _, p := range projects {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Client), search) {
			continue
		}
		switch filter.Status {
		case "":
		case FilterCritical:
			if !p.IsCritical(today) {
				continue
			}
		default:
			if p.Status != filter.Status {
				continue
			}
		}
		filtered = append(filtered, p)
	}
	return filtered
}

// ComputeStats counts active, finished and critical projects and sums hours
// used across the given list.
func ComputeStats(projects []*models.Project, today string) DashboardStats {
	var stats DashboardStats
	for _, p := range projects {
		switch p.Status {
		case models.StatusInProgress:
			stats.Active++
		case models.StatusFinished:
			stats.Finished++
		}
		if p.IsCritical(today) {
			stats.Critical++
		}
		stats.HoursUsed += p.HoursUsed
	}
	return stats
}

// WorkloadChart builds chart data for in-progress projects: hours used,
// hours remaining and hours overrun (both floored at zero), sorted
// descending by used+remaining and capped for display.
func WorkloadChart(projects []*models.Project) []WorkloadEntry {
	var entries []WorkloadEntry
	for _, p := range projects {
		if p.Status != models.StatusInProgress {
			continue
		}
		entry := WorkloadEntry{
			ProjectID: p.ID,
			Name:      p.Name,
			Used:      p.HoursUsed,
		}
		if remaining := p.HoursBudgeted - p.HoursUsed; remaining > 0 {
			entry.Remaining = remaining
		}
		if overrun := p.HoursUsed - p.HoursBudgeted; overrun > 0 {
			entry.Overrun = overrun
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Used+entries[i].Remaining > entries[j].Used+entries[j].Remaining
	})

	if len(entries) > workloadChartSize {
		entries = entries[:workloadChartSize]
	}
	return entries
}
