package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrTaskNotFound is returned when no task has the given id.
var ErrTaskNotFound = errors.New("task not found")

type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	ProjectID   *int64    `json:"project_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskFilter narrows task listings. Zero values mean "no filter"; the
// combinations compose into a single WHERE clause.
type TaskFilter struct {
	Status    string
	Priority  string
	ProjectID *int64
}

// TaskInput holds the mutable fields for create and full update.
type TaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	ProjectID   *int64
}

type TaskRepository interface {
	List(ctx context.Context, filter TaskFilter, page PageRequest) ([]Task, int, error)
	Get(ctx context.Context, id int64) (*Task, error)
	Create(ctx context.Context, input TaskInput) (*Task, error)
	Update(ctx context.Context, id int64, input TaskInput) (*Task, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
}

type PgTaskRepository struct {
	db *pgxpool.Pool
}

func NewPgTaskRepository(db *pgxpool.Pool) *PgTaskRepository {
	return &PgTaskRepository{db: db}
}

// buildTaskWhere renders the filter into a WHERE clause with positional args.
func buildTaskWhere(filter TaskFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, "status=$"+strconv.Itoa(len(args)))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		conds = append(conds, "priority=$"+strconv.Itoa(len(args)))
	}
	if filter.ProjectID != nil {
		args = append(args, *filter.ProjectID)
		conds = append(conds, "project_id=$"+strconv.Itoa(len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func (r *PgTaskRepository) List(ctx context.Context, filter TaskFilter, page PageRequest) ([]Task, int, error) {
	if page.Page <= 0 || page.Size <= 0 {
		return nil, 0, errors.New("invalid pagination")
	}
	where, args := buildTaskWhere(filter)

	countQ := "SELECT COUNT(*) FROM tasks " + where
	var total int
	if err := r.db.QueryRow(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := fmt.Sprintf(`
SELECT id, title, description, status, priority, project_id, created_at, updated_at
FROM tasks
%s
%s
LIMIT $%d OFFSET $%d
`, where, page.orderClause(), len(args)+1, len(args)+2)
	args = append(args, page.Size, page.offset())

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items := make([]Task, 0, page.Size)
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.ProjectID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, t)
	}
	return items, total, rows.Err()
}

func (r *PgTaskRepository) Get(ctx context.Context, id int64) (*Task, error) {
	const q = `SELECT id, title, description, status, priority, project_id, created_at, updated_at FROM tasks WHERE id=$1`
	var t Task
	if err := r.db.QueryRow(ctx, q, id).Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.ProjectID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *PgTaskRepository) Create(ctx context.Context, input TaskInput) (*Task, error) {
	const q = `
INSERT INTO tasks (title, description, status, priority, project_id)
VALUES ($1,$2,$3,$4,$5)
RETURNING id, created_at, updated_at`
	t := Task{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		ProjectID:   input.ProjectID,
	}
	if err := r.db.QueryRow(ctx, q, t.Title, t.Description, t.Status, t.Priority, t.ProjectID).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PgTaskRepository) Update(ctx context.Context, id int64, input TaskInput) (*Task, error) {
	const q = `
UPDATE tasks
SET title=$1, description=$2, status=$3, priority=$4, project_id=$5, updated_at=now()
WHERE id=$6
RETURNING id, created_at, updated_at`
	t := Task{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		ProjectID:   input.ProjectID,
	}
	if err := r.db.QueryRow(ctx, q, t.Title, t.Description, t.Status, t.Priority, t.ProjectID, id).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *PgTaskRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *PgTaskRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM tasks`)
	return err
}
