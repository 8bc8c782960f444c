package repositories

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/mkarvonen/prepdeck/internal/errors"
	"github.com/mkarvonen/prepdeck/internal/models"
	"github.com/mkarvonen/prepdeck/internal/sqlite"
)

var (
	// ErrNotFound marks lookups that matched no row.
	ErrNotFound = errors.NewSentinel("not found")
	// ErrDuplicateEmail marks registration attempts with an email that is
	// already taken.
	ErrDuplicateEmail = errors.NewSentinel("email already registered")
)

type UserRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewUserRepository(dbs *sqlite.Database, logger *slog.Logger) *UserRepository {
	return &UserRepository{
		dbs:    dbs,
		logger: logger.With("source", "UserRepository"),
	}
}

// Create inserts a new user and returns it with a fresh id.
func (r *UserRepository) Create(ctx context.Context, name, email string, passwordHash []byte) (*models.User, error) {
	user := models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}
	stmt := `INSERT INTO users (id, name, email, password_hash) VALUES (?, ?, ?, ?)`
	if _, err := r.dbs.ReadWrite.ExecContext(ctx, stmt, user.ID, user.Name, user.Email, user.PasswordHash); err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, errors.Wrap(ErrDuplicateEmail, "insert user", slog.String("email", email))
		}
		return nil, errors.Wrap(err, "insert user")
	}
	return &user, nil
}

// GetByEmail returns the user with the given email or ErrNotFound.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	stmt := `SELECT id, name, email, password_hash, created_at FROM users WHERE email = ?`
	if err := r.dbs.ReadOnly.GetContext(ctx, &user, stmt, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(ErrNotFound, "read user", slog.String("email", email))
		}
		return nil, errors.Wrap(err, "read user")
	}
	return &user, nil
}

// Get returns the user with the given id or ErrNotFound.
func (r *UserRepository) Get(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	stmt := `SELECT id, name, email, password_hash, created_at FROM users WHERE id = ?`
	if err := r.dbs.ReadOnly.GetContext(ctx, &user, stmt, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(ErrNotFound, "read user", slog.String("id", id))
		}
		return nil, errors.Wrap(err, "read user")
	}
	return &user, nil
}
