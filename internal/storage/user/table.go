package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/cashbook-server/internal/apperr"
)

var _ ITable = (*Table)(nil)

// Table provides access to the users table.
type Table struct {
	db *sql.DB
}

func NewTable(db *sql.DB) *Table {
	return &Table{db: db}
}

const userColumns = "id, username, email, created_at"

func (t *Table) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return t.findBy(ctx, "id", id)
}

func (t *Table) FindByUsername(ctx context.Context, username string) (*User, error) {
	return t.findBy(ctx, "username", username)
}

func (t *Table) FindByEmail(ctx context.Context, email string) (*User, error) {
	return t.findBy(ctx, "email", email)
}

func (t *Table) findBy(ctx context.Context, column string, value interface{}) (*User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE %s = $1", userColumns, column)

	u := &User{}
	err := t.db.QueryRowContext(ctx, query, value).
		Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("user")
		}
		return nil, fmt.Errorf("users.findBy %s: %w", column, err)
	}
	return u, nil
}
