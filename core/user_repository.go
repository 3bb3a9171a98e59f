package core

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrUserNotFound is returned by lookups when no user has the given username.
var ErrUserNotFound = errors.New("user not found")

// UserRecord is the persistence projection of a user, hash included.
type UserRecord struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepository defines persistence operations for user credentials.
// Create must be atomic per username: with concurrent registrations for the
// same name at most one succeeds, the rest observe ErrUsernameTaken.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*UserRecord, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, username, passwordHash string) (*UserRecord, error)
}

// PgUserRepository implements UserRepository using pgxpool. Uniqueness is
// enforced by the UNIQUE constraint on users.username.
type PgUserRepository struct {
	db *pgxpool.Pool
}

func NewPgUserRepository(db *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{db: db}
}

// FindByUsername looks up a user by exact, case-sensitive username.
func (r *PgUserRepository) FindByUsername(ctx context.Context, username string) (*UserRecord, error) {
	const q = `SELECT id, username, password_hash, created_at FROM users WHERE username=$1`
	var u UserRecord
	if err := r.db.QueryRow(ctx, q, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *PgUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	const q = `SELECT 1 FROM users WHERE username=$1`
	var one int
	if err := r.db.QueryRow(ctx, q, username).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Create inserts a user, mapping a unique-constraint violation to
// ErrUsernameTaken so concurrent duplicate registrations fail cleanly.
func (r *PgUserRepository) Create(ctx context.Context, username, passwordHash string) (*UserRecord, error) {
	const q = `INSERT INTO users (username, password_hash) VALUES ($1,$2) RETURNING id, created_at`
	var u UserRecord
	if err := r.db.QueryRow(ctx, q, username, passwordHash).Scan(&u.ID, &u.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	u.Username = username
	u.PasswordHash = passwordHash
	return &u, nil
}
