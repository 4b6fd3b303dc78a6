package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/retrorevive/internal/client/models"
	"github.com/dmitrijs2005/retrorevive/internal/common"
	"github.com/dmitrijs2005/retrorevive/internal/dbx"
)

// SQLiteRepository stores accounts in the users table.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a Repository over db.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, acc *models.Account) error {
	query := `INSERT INTO users (id, email, name, avatar, salt, verifier, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		acc.ID, acc.Email, acc.Name, acc.Avatar, acc.Salt, acc.Verifier, acc.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", common.ErrorAlreadyExists, acc.Email)
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT id, email, name, avatar, salt, verifier, created_at FROM users
		WHERE email = ? COLLATE NOCASE`

	acc := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&acc.ID, &acc.Email, &acc.Name, &acc.Avatar, &acc.Salt, &acc.Verifier, &acc.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return acc, nil
}

// isUniqueViolation matches SQLite's constraint message; the pure-Go driver
// does not export a typed code we could compare against portably.
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
