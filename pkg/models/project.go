// Package models contains domain types for cutroom-engine.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Status values shared by projects and deliverables. Transitions are free;
// the only automatic one is a Final version flipping its deliverable to
// Finished.
const (
	StatusInProgress = "In Progress"
	StatusPaused     = "Paused"
	StatusFinished   = "Finished"
	StatusCancelled  = "Cancelled"
)

// Priority values for projects.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
	PriorityUrgent = "Urgent"
)

// Structure values determining how a project's deliverables are organized.
const (
	StructureSimple   = "Simple"   // exactly one deliverable, no grouping
	StructureCampaign = "Campaign" // flat list, group is a free-form tag
	StructureCourse   = "Course"   // every deliverable belongs to a named module
)

// Version labels, in submission order.
const (
	VersionV1    = "V1"
	VersionV2    = "V2"
	VersionV3    = "V3"
	VersionFinal = "Final"
)

// DateLayout is the calendar-date format used for start dates, deadlines and
// time-log dates. Zero-padded so lexicographic comparison matches
// chronological order.
const DateLayout = "2006-01-02"

// IsValidStatus checks if the given status is valid.
func IsValidStatus(status string) bool {
	switch status {
	case StatusInProgress, StatusPaused, StatusFinished, StatusCancelled:
		return true
	}
	return false
}

// IsValidPriority checks if the given priority is valid.
func IsValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// IsValidStructure checks if the given structure is valid.
func IsValidStructure(structure string) bool {
	switch structure {
	case StructureSimple, StructureCampaign, StructureCourse:
		return true
	}
	return false
}

// IsValidVersionType checks if the given version label is valid.
func IsValidVersionType(versionType string) bool {
	switch versionType {
	case VersionV1, VersionV2, VersionV3, VersionFinal:
		return true
	}
	return false
}

// VersionLog is one immutable submission of a deliverable: a link to the
// externally hosted asset plus metadata. Entries are only ever appended.
type VersionLog struct {
	ID          uuid.UUID `json:"id"`
	VersionType string    `json:"version_type"`
	Link        string    `json:"link"`
	SubmittedAt time.Time `json:"submitted_at"`
	Notes       string    `json:"notes"`
}

// Deliverable is one unit of content within a project (e.g. one video).
// Group semantics depend on the parent project's structure: unused for
// Simple, a free-form category for Campaign, a module name for Course.
// Versions are kept newest first.
type Deliverable struct {
	ID       uuid.UUID    `json:"id"`
	Title    string       `json:"title"`
	Group    string       `json:"group,omitempty"`
	Status   string       `json:"status"`
	Versions []VersionLog `json:"versions"`
}

// TimeLog is an append-only record of hours worked. User name is a snapshot
// taken at creation time so the entry survives user deletion.
type TimeLog struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	UserName    string    `json:"user_name"`
	Hours       float64   `json:"hours"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Description string    `json:"description"`
}

// Comment is an append-only discussion entry with a user name snapshot.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// VersionDeadlines holds the per-version delivery dates. Each is an
// independent date with no enforced ordering; v2 is optional.
type VersionDeadlines struct {
	V1    string `json:"v1"`
	V2    string `json:"v2,omitempty"`
	Final string `json:"final"`
}

// Project is the aggregate root. It exclusively owns its deliverables,
// comments and time logs; editor ids are weak references into profiles with
// no referential integrity (a removed user leaves a dangling id behind).
type Project struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Client      string    `json:"client"`
	Type        string    `json:"type"`
	Structure   string    `json:"structure"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	Description string    `json:"description"`

	StartDate        string           `json:"start_date"` // YYYY-MM-DD
	Deadline         string           `json:"deadline"`   // YYYY-MM-DD
	VersionDeadlines VersionDeadlines `json:"version_deadlines"`

	HoursBudgeted float64 `json:"hours_budgeted"`
	HoursUsed     float64 `json:"hours_used"`

	EditorIDs []uuid.UUID `json:"editor_ids"`

	Deliverables []Deliverable `json:"deliverables"`
	Comments     []Comment     `json:"comments"`
	TimeLogs     []TimeLog     `json:"time_logs"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsCritical reports the derived alert state: a project that is still
// active but over its hours budget or past its deadline. The deadline
// comparison is lexicographic on YYYY-MM-DD strings.
func (p *Project) IsCritical(today string) bool {
	if p.Status == StatusFinished || p.Status == StatusCancelled {
		return false
	}
	if p.HoursUsed > p.HoursBudgeted {
		return true
	}
	return p.Deadline != "" && p.Deadline < today
}

// HasEditor reports whether the given user id appears in the project's
// editor list.
func (p *Project) HasEditor(userID uuid.UUID) bool {
	for _, id := range p.EditorIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// FindDeliverable returns the deliverable with the given id, or nil.
func (p *Project) FindDeliverable(id uuid.UUID) *Deliverable {
	for i := range p.Deliverables {
		if p.Deliverables[i].ID == id {
			return &p.Deliverables[i]
		}
	}
	return nil
}

// Modules reconstructs a Course project's ordered module list from the
// distinct group values among its deliverables, in first-appearance order.
// Modules are an authoring aid, never persisted as their own entity.
func (p *Project) Modules() []string {
	seen := make(map[string]bool)
	var modules []string
	for _, d := range p.Deliverables {
		if d.Group == "" || seen[d.Group] {
			continue
		}
		seen[d.Group] = true
		modules = append(modules, d.Group)
	}
	return modules
}
