package user

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
)

// User mirrors an identity-provider account. Rows are written by the
// identity service; this server only reads them to resolve invitations
// and render usernames.
type User struct {
	ID        uuid.UUID
	Username  string
	Email     string
	CreatedAt time.Time
}

// ITable defines the interface for user lookups.
type ITable interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}
