package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestProject_IsCritical(t *testing.T) {
	today := "2026-09-01"

	tests := []struct {
		name     string
		project  Project
		expected bool
	}{
		{
			name:     "within budget and before deadline",
			project:  Project{Status: StatusInProgress, HoursBudgeted: 10, HoursUsed: 5, Deadline: "2026-12-31"},
			expected: false,
		},
		{
			name:     "over budget",
			project:  Project{Status: StatusInProgress, HoursBudgeted: 10, HoursUsed: 10.5, Deadline: "2026-12-31"},
			expected: true,
		},
		{
			name:     "exactly at budget is not over",
			project:  Project{Status: StatusInProgress, HoursBudgeted: 10, HoursUsed: 10, Deadline: "2026-12-31"},
			expected: false,
		},
		{
			name:     "past deadline",
			project:  Project{Status: StatusInProgress, HoursBudgeted: 10, HoursUsed: 5, Deadline: "2026-08-31"},
			expected: true,
		},
		{
			name:     "deadline today is not past",
			project:  Project{Status: StatusInProgress, HoursBudgeted: 10, HoursUsed: 5, Deadline: today},
			expected: false,
		},
		{
			name:     "near budget but overdue",
			project:  Project{Status: StatusInProgress, HoursBudgeted: 10, HoursUsed: 9.5, Deadline: "2026-08-01"},
			expected: true,
		},
		{
			name:     "paused project can be critical",
			project:  Project{Status: StatusPaused, HoursBudgeted: 10, HoursUsed: 12, Deadline: "2026-12-31"},
			expected: true,
		},
		{
			name:     "finished project is never critical",
			project:  Project{Status: StatusFinished, HoursBudgeted: 10, HoursUsed: 50, Deadline: "2020-01-01"},
			expected: false,
		},
		{
			name:     "cancelled project is never critical",
			project:  Project{Status: StatusCancelled, HoursBudgeted: 10, HoursUsed: 50, Deadline: "2020-01-01"},
			expected: false,
		},
		{
			name:     "no deadline set",
			project:  Project{Status: StatusInProgress, HoursBudgeted: 10, HoursUsed: 5},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.project.IsCritical(today))
		})
	}
}

func TestProject_HasEditor(t *testing.T) {
	editorID := uuid.New()
	otherID := uuid.New()

	p := Project{EditorIDs: []uuid.UUID{editorID}}

	assert.True(t, p.HasEditor(editorID))
	assert.False(t, p.HasEditor(otherID))

	empty := Project{}
	assert.False(t, empty.HasEditor(editorID))
}

func TestProject_FindDeliverable(t *testing.T) {
	d1 := Deliverable{ID: uuid.New(), Title: "Teaser"}
	d2 := Deliverable{ID: uuid.New(), Title: "Main film"}
	p := Project{Deliverables: []Deliverable{d1, d2}}

	found := p.FindDeliverable(d2.ID)
	assert.NotNil(t, found)
	assert.Equal(t, "Main film", found.Title)

	// Returned pointer aliases the project's slice so mutations stick.
	found.Status = StatusFinished
	assert.Equal(t, StatusFinished, p.Deliverables[1].Status)

	assert.Nil(t, p.FindDeliverable(uuid.New()))
}

func TestProject_Modules(t *testing.T) {
	p := Project{
		Structure: StructureCourse,
		Deliverables: []Deliverable{
			{ID: uuid.New(), Title: "Intro", Group: "Module 1"},
			{ID: uuid.New(), Title: "Basics", Group: "Module 1"},
			{ID: uuid.New(), Title: "Advanced", Group: "Module 2"},
			{ID: uuid.New(), Title: "Recap", Group: "Module 1"},
			{ID: uuid.New(), Title: "Outro", Group: "Module 3"},
		},
	}

	assert.Equal(t, []string{"Module 1", "Module 2", "Module 3"}, p.Modules())
}

func TestProject_Modules_IgnoresUngrouped(t *testing.T) {
	p := Project{
		Deliverables: []Deliverable{
			{ID: uuid.New(), Title: "Loose"},
			{ID: uuid.New(), Title: "Grouped", Group: "Week 1"},
		},
	}

	assert.Equal(t, []string{"Week 1"}, p.Modules())
}

func TestValidators(t *testing.T) {
	assert.True(t, IsValidStatus(StatusInProgress))
	assert.True(t, IsValidStatus(StatusPaused))
	assert.True(t, IsValidStatus(StatusFinished))
	assert.True(t, IsValidStatus(StatusCancelled))
	assert.False(t, IsValidStatus("Active"))
	assert.False(t, IsValidStatus(""))

	assert.True(t, IsValidPriority(PriorityUrgent))
	assert.False(t, IsValidPriority("Critical"))

	assert.True(t, IsValidStructure(StructureSimple))
	assert.True(t, IsValidStructure(StructureCampaign))
	assert.True(t, IsValidStructure(StructureCourse))
	assert.False(t, IsValidStructure("Series"))

	assert.True(t, IsValidVersionType(VersionV1))
	assert.True(t, IsValidVersionType(VersionFinal))
	assert.False(t, IsValidVersionType("V4"))
}

func TestUser_IsAdmin(t *testing.T) {
	admin := User{Role: RoleAdmin}
	editor := User{Role: RoleEditor}
	assistant := User{Role: RoleAssistant}

	assert.True(t, admin.IsAdmin())
	assert.False(t, editor.IsAdmin())
	assert.False(t, assistant.IsAdmin())
}
