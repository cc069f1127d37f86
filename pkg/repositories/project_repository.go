package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cutroom-hq/cutroom-engine/pkg/apperrors"
	"github.com/cutroom-hq/cutroom-engine/pkg/database"
	"github.com/cutroom-hq/cutroom-engine/pkg/models"
)

// ProjectRepository defines the interface for project aggregate data access.
// Writes are wholesale: the full aggregate row is replaced on update, with
// AppendTimeLog as the one atomic field-level exception.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	Get(ctx context.Context, id uuid.UUID) (*models.Project, error)
	List(ctx context.Context) ([]*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uuid.UUID) error

	// AppendTimeLog appends a time log entry and increments hours_used by
	// the same amount in a single statement, so the hours invariant holds
	// even under concurrent writers.
	AppendTimeLog(ctx context.Context, projectID uuid.UUID, log models.TimeLog) error
}

// projectRepository implements ProjectRepository using PostgreSQL.
type projectRepository struct {
	db *database.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *database.DB) ProjectRepository {
	return &projectRepository{db: db}
}

const projectColumns = `
	id, name, client, type, structure, status, priority, description,
	start_date, deadline, version_deadlines, hours_budgeted, hours_used,
	editor_ids, deliverables, comments, time_logs, created_at, updated_at`

// blobs holds the marshaled JSONB columns of a project row.
type blobs struct {
	versionDeadlines []byte
	editorIDs        []byte
	deliverables     []byte
	comments         []byte
	timeLogs         []byte
}

func marshalBlobs(p *models.Project) (*blobs, error) {
	b := &blobs{}
	var err error

	if b.versionDeadlines, err = json.Marshal(p.VersionDeadlines); err != nil {
		return nil, fmt.Errorf("failed to marshal version deadlines: %w", err)
	}
	if b.editorIDs, err = json.Marshal(emptyIfNilIDs(p.EditorIDs)); err != nil {
		return nil, fmt.Errorf("failed to marshal editor ids: %w", err)
	}
	if b.deliverables, err = json.Marshal(emptyIfNilDeliverables(p.Deliverables)); err != nil {
		return nil, fmt.Errorf("failed to marshal deliverables: %w", err)
	}
	if b.comments, err = json.Marshal(emptyIfNilComments(p.Comments)); err != nil {
		return nil, fmt.Errorf("failed to marshal comments: %w", err)
	}
	if b.timeLogs, err = json.Marshal(emptyIfNilTimeLogs(p.TimeLogs)); err != nil {
		return nil, fmt.Errorf("failed to marshal time logs: %w", err)
	}
	return b, nil
}

// Nil slices marshal to JSON null; the blob columns always hold arrays.
func emptyIfNilIDs(s []uuid.UUID) []uuid.UUID {
	if s == nil {
		return []uuid.UUID{}
	}
	return s
}

func emptyIfNilDeliverables(s []models.Deliverable) []models.Deliverable {
	if s == nil {
		return []models.Deliverable{}
	}
	return s
}

func emptyIfNilComments(s []models.Comment) []models.Comment {
	if s == nil {
		return []models.Comment{}
	}
	return s
}

func emptyIfNilTimeLogs(s []models.TimeLog) []models.TimeLog {
	if s == nil {
		return []models.TimeLog{}
	}
	return s
}

// Create inserts a new project aggregate.
func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}

	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now

	b, err := marshalBlobs(project)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO projects (
			id, name, client, type, structure, status, priority, description,
			start_date, deadline, version_deadlines, hours_budgeted, hours_used,
			editor_ids, deliverables, comments, time_logs, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	_, err = r.db.Exec(ctx, query,
		project.ID, project.Name, project.Client, project.Type,
		project.Structure, project.Status, project.Priority, project.Description,
		project.StartDate, project.Deadline, b.versionDeadlines,
		project.HoursBudgeted, project.HoursUsed,
		b.editorIDs, b.deliverables, b.comments, b.timeLogs,
		project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// Get retrieves a project aggregate by ID.
func (r *projectRepository) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	project, err := r.scanRow(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// List retrieves all project aggregates, newest first.
func (r *projectRepository) List(ctx context.Context) ([]*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		project, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	return projects, nil
}

// Update replaces the stored aggregate wholesale.
func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	project.UpdatedAt = time.Now()

	b, err := marshalBlobs(project)
	if err != nil {
		return err
	}

	query := `
		UPDATE projects
		SET name = $2, client = $3, type = $4, structure = $5, status = $6,
		    priority = $7, description = $8, start_date = $9, deadline = $10,
		    version_deadlines = $11, hours_budgeted = $12, hours_used = $13,
		    editor_ids = $14, deliverables = $15, comments = $16,
		    time_logs = $17, updated_at = $18
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query,
		project.ID, project.Name, project.Client, project.Type,
		project.Structure, project.Status, project.Priority, project.Description,
		project.StartDate, project.Deadline, b.versionDeadlines,
		project.HoursBudgeted, project.HoursUsed,
		b.editorIDs, b.deliverables, b.comments, b.timeLogs,
		project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// Delete removes a project aggregate by ID. Deliverables, comments and time
// logs live inside the row, so the cascade is the row itself.
func (r *projectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM projects WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// AppendTimeLog appends the entry to time_logs and increments hours_used in
// one statement. The database applies both changes atomically, which keeps
// hours_used equal to the sum of the log entries under concurrent sessions.
func (r *projectRepository) AppendTimeLog(ctx context.Context, projectID uuid.UUID, log models.TimeLog) error {
	entry, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("failed to marshal time log: %w", err)
	}

	query := `
		UPDATE projects
		SET time_logs = time_logs || $2::jsonb,
		    hours_used = hours_used + $3,
		    updated_at = $4
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query, projectID, entry, log.Hours, time.Now())
	if err != nil {
		return fmt.Errorf("failed to append time log: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (r *projectRepository) scanRow(row pgx.Row) (*models.Project, error) {
	var project models.Project
	var b blobs

	err := row.Scan(
		&project.ID, &project.Name, &project.Client, &project.Type,
		&project.Structure, &project.Status, &project.Priority, &project.Description,
		&project.StartDate, &project.Deadline, &b.versionDeadlines,
		&project.HoursBudgeted, &project.HoursUsed,
		&b.editorIDs, &b.deliverables, &b.comments, &b.timeLogs,
		&project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(b.versionDeadlines, &project.VersionDeadlines); err != nil {
		return nil, fmt.Errorf("failed to unmarshal version deadlines: %w", err)
	}
	if err := json.Unmarshal(b.editorIDs, &project.EditorIDs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal editor ids: %w", err)
	}
	if err := json.Unmarshal(b.deliverables, &project.Deliverables); err != nil {
		return nil, fmt.Errorf("failed to unmarshal deliverables: %w", err)
	}
	if err := json.Unmarshal(b.comments, &project.Comments); err != nil {
		return nil, fmt.Errorf("failed to unmarshal comments: %w", err)
	}
	if err := json.Unmarshal(b.timeLogs, &project.TimeLogs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal time logs: %w", err)
	}

	return &project, nil
}

// Ensure projectRepository implements ProjectRepository at compile time.
var _ ProjectRepository = (*projectRepository)(nil)
