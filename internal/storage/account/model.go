package account

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
)

// Kind distinguishes a user's private ledger container from one that can
// carry memberships.
type Kind string

const (
	KindPersonal Kind = "PERSONAL"
	KindShared   Kind = "SHARED"
)

// MemberStatus is the invitation lifecycle state. PENDING may move to
// ACCEPTED or REJECTED; both are terminal except that a REJECTED row can be
// re-invited back to PENDING.
type MemberStatus string

const (
	StatusPending  MemberStatus = "PENDING"
	StatusAccepted MemberStatus = "ACCEPTED"
	StatusRejected MemberStatus = "REJECTED"
)

// Account represents a ledger container record.
type Account struct {
	ID          uuid.UUID
	Name        string
	Kind        Kind
	OwnerID     uuid.UUID
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsOwner reports whether the given user owns the account.
func (a *Account) IsOwner(userID uuid.UUID) bool {
	return a.OwnerID == userID
}

// Flags are the per-member capability switches.
type Flags struct {
	CanAddEntry       bool
	CanEditOwnEntry   bool
	CanEditAllEntries bool
	CanDeleteEntry    bool
	CanViewReports    bool
	CanManageMembers  bool
}

// FlagsPatch is a partial update of Flags; nil fields are left untouched.
type FlagsPatch struct {
	CanAddEntry       *bool
	CanEditOwnEntry   *bool
	CanEditAllEntries *bool
	CanDeleteEntry    *bool
	CanViewReports    *bool
	CanManageMembers  *bool
}

// Apply overlays the patch onto a set of flags.
func (p *FlagsPatch) Apply(f Flags) Flags {
	if p.CanAddEntry != nil {
		f.CanAddEntry = *p.CanAddEntry
	}
	if p.CanEditOwnEntry != nil {
		f.CanEditOwnEntry = *p.CanEditOwnEntry
	}
	if p.CanEditAllEntries != nil {
		f.CanEditAllEntries = *p.CanEditAllEntries
	}
	if p.CanDeleteEntry != nil {
		f.CanDeleteEntry = *p.CanDeleteEntry
	}
	if p.CanViewReports != nil {
		f.CanViewReports = *p.CanViewReports
	}
	if p.CanManageMembers != nil {
		f.CanManageMembers = *p.CanManageMembers
	}
	return f
}

// Member is a membership row joining a user to an account.
type Member struct {
	ID         uuid.UUID
	AccountID  uuid.UUID
	UserID     uuid.UUID
	Status     MemberStatus
	Flags      Flags
	InvitedBy  *uuid.UUID
	InvitedAt  time.Time
	AcceptedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AccountCreate is the input for creating a new account.
type AccountCreate struct {
	Name        string
	Kind        Kind
	OwnerID     uuid.UUID
	Description string
}

// AccountUpdate is the input for renaming an account.
type AccountUpdate struct {
	Name        string
	Description string
}

// MemberCreate is the input for inserting a PENDING membership.
type MemberCreate struct {
	AccountID uuid.UUID
	UserID    uuid.UUID
	Flags     Flags
	InvitedBy uuid.UUID
}

// ITable defines the interface for account storage operations.
// InsertWithOwner and TransferOwnership are atomic: the account row and its
// membership rows change together or not at all.
type ITable interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	InsertWithOwner(ctx context.Context, create *AccountCreate) (*Account, error)
	ListAccessible(ctx context.Context, userID uuid.UUID) ([]*Account, error)
	ListAccessibleIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, update *AccountUpdate) (*Account, error)
	Delete(ctx context.Context, id uuid.UUID) error
	TransferOwnership(ctx context.Context, accountID, oldOwnerID, newOwnerID uuid.UUID) error
}

// IMemberTable defines the interface for membership storage operations.
// Accept and Reject are conditional on the row still being PENDING, so a
// concurrent accept/reject race resolves to exactly one winner.
type IMemberTable interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Member, error)
	FindByAccountAndUser(ctx context.Context, accountID, userID uuid.UUID) (*Member, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*Member, error)
	ListAccepted(ctx context.Context, accountID uuid.UUID) ([]*Member, error)
	ListPendingByUser(ctx context.Context, userID uuid.UUID) ([]*Member, error)
	InsertPending(ctx context.Context, create *MemberCreate) (*Member, error)
	Reinvite(ctx context.Context, id, invitedBy uuid.UUID, flags Flags) (*Member, error)
	Accept(ctx context.Context, id, userID uuid.UUID) (*Member, error)
	Reject(ctx context.Context, id, userID uuid.UUID) error
	UpdateFlags(ctx context.Context, id uuid.UUID, flags Flags) (*Member, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
