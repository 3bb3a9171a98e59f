package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrProjectNotFound is returned when no project has the given id.
var ErrProjectNotFound = errors.New("project not found")

type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PageRequest carries pagination and sorting for list queries. SortBy must
// already be validated against the entity's column whitelist.
type PageRequest struct {
	Page    int
	Size    int
	SortBy  string
	SortDir string
}

func (p PageRequest) offset() int {
	return (p.Page - 1) * p.Size
}

func (p PageRequest) orderClause() string {
	dir := "ASC"
	if strings.EqualFold(p.SortDir, "desc") {
		dir = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s, id %s", p.SortBy, dir, dir)
}

type ProjectRepository interface {
	List(ctx context.Context, page PageRequest) ([]Project, int, error)
	Get(ctx context.Context, id int64) (*Project, error)
	Create(ctx context.Context, name, description string) (*Project, error)
	Update(ctx context.Context, id int64, name, description string) (*Project, error)
	Delete(ctx context.Context, id int64) error
}

type PgProjectRepository struct {
	db *pgxpool.Pool
}

func NewPgProjectRepository(db *pgxpool.Pool) *PgProjectRepository {
	return &PgProjectRepository{db: db}
}

func (r *PgProjectRepository) List(ctx context.Context, page PageRequest) ([]Project, int, error) {
	if page.Page <= 0 || page.Size <= 0 {
		return nil, 0, errors.New("invalid pagination")
	}
	const countQ = `SELECT COUNT(*) FROM projects`
	var total int
	if err := r.db.QueryRow(ctx, countQ).Scan(&total); err != nil {
		return nil, 0, err
	}
	q := fmt.Sprintf(`
SELECT id, name, description, created_at, updated_at
FROM projects
%s
LIMIT $1 OFFSET $2
`, page.orderClause())
	rows, err := r.db.Query(ctx, q, page.Size, page.offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items := make([]Project, 0, page.Size)
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *PgProjectRepository) Get(ctx context.Context, id int64) (*Project, error) {
	const q = `SELECT id, name, description, created_at, updated_at FROM projects WHERE id=$1`
	var p Project
	if err := r.db.QueryRow(ctx, q, id).Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PgProjectRepository) Create(ctx context.Context, name, description string) (*Project, error) {
	name = strings.TrimSpace(name)
	const q = `INSERT INTO projects (name, description) VALUES ($1,$2) RETURNING id, created_at, updated_at`
	var p Project
	if err := r.db.QueryRow(ctx, q, name, description).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Name = name
	p.Description = description
	return &p, nil
}

func (r *PgProjectRepository) Update(ctx context.Context, id int64, name, description string) (*Project, error) {
	name = strings.TrimSpace(name)
	const q = `UPDATE projects SET name=$1, description=$2, updated_at=now() WHERE id=$3 RETURNING id, created_at, updated_at`
	var p Project
	if err := r.db.QueryRow(ctx, q, name, description, id).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	p.Name = name
	p.Description = description
	return &p, nil
}

func (r *PgProjectRepository) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM projects WHERE id=$1`
	tag, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProjectNotFound
	}
	return nil
}
