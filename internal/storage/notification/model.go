package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofrs/uuid/v5"
)

// Event kinds carried by notifications.
const (
	TypeInvitation         = "INVITATION"
	TypeInvitationAccepted = "INVITATION_ACCEPTED"
	TypeTransactionAdded   = "TRANSACTION_ADDED"
	TypeTransactionEdited  = "TRANSACTION_EDITED"
	TypePermissionChanged  = "PERMISSION_CHANGED"
	TypeMemberRemoved      = "MEMBER_REMOVED"
	TypeAccountCreated     = "ACCOUNT_CREATED"
	TypeAccountUpdated     = "ACCOUNT_UPDATED"
)

// Notification is a one-way message to a single recipient. Data is an
// opaque structured payload passed through verbatim.
type Notification struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Type        string
	Title       string
	Message     string
	AccountID   *uuid.UUID
	TriggeredBy *uuid.UUID
	Read        bool
	ReadAt      *time.Time
	Data        map[string]json.RawMessage
	CreatedAt   time.Time
}

// Create is the input for inserting a notification row.
type Create struct {
	UserID      uuid.UUID
	Type        string
	Title       string
	Message     string
	AccountID   *uuid.UUID
	TriggeredBy *uuid.UUID
	Data        map[string]json.RawMessage
}

// Filter narrows a recipient's notification listing.
type Filter struct {
	Read      *bool
	Type      string
	AccountID *uuid.UUID
}

// ITable defines the interface for notification storage operations.
// InsertBatch is a single multi-row insert: either every recipient gets a
// row or none do.
type ITable interface {
	Insert(ctx context.Context, create *Create) (*Notification, error)
	InsertBatch(ctx context.Context, creates []*Create) (int, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filter *Filter) ([]*Notification, error)
	SetRead(ctx context.Context, id, userID uuid.UUID, read bool) (*Notification, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}
