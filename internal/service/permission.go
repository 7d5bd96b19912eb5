package service

import (
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/cashbook-server/internal/storage/account"
)

// Operation is a capability-guarded action on a shared account.
type Operation int

const (
	OpAddEntry Operation = iota
	OpEditOwnEntry
	OpEditAllEntries
	OpDeleteEntry
	OpViewReports
	OpManageMembers
)

// Allowed resolves a capability check. The owner passes every check. Any
// other actor passes only with an ACCEPTED membership whose flag for the
// operation is set; no membership means deny.
func Allowed(acct *account.Account, member *account.Member, actorID uuid.UUID, op Operation) bool {
	if acct.IsOwner(actorID) {
		return true
	}
	if member == nil || member.UserID != actorID || member.Status != account.StatusAccepted {
		return false
	}

	switch op {
	case OpAddEntry:
		return member.Flags.CanAddEntry
	case OpEditOwnEntry:
		return member.Flags.CanEditOwnEntry
	case OpEditAllEntries:
		return member.Flags.CanEditAllEntries
	case OpDeleteEntry:
		return member.Flags.CanDeleteEntry
	case OpViewReports:
		return member.Flags.CanViewReports
	case OpManageMembers:
		return member.Flags.CanManageMembers
	}
	return false
}

// DefaultMemberFlags are the capabilities granted to an invitee unless the
// inviter overrides them.
func DefaultMemberFlags() account.Flags {
	return account.Flags{
		CanAddEntry:       true,
		CanEditOwnEntry:   true,
		CanEditAllEntries: false,
		CanDeleteEntry:    false,
		CanViewReports:    true,
		CanManageMembers:  false,
	}
}

// OwnerFlags are the capabilities of the bootstrap owner membership.
func OwnerFlags() account.Flags {
	return account.Flags{
		CanAddEntry:       true,
		CanEditOwnEntry:   true,
		CanEditAllEntries: true,
		CanDeleteEntry:    true,
		CanViewReports:    true,
		CanManageMembers:  true,
	}
}
