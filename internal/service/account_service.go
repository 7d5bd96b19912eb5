package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/cashbook-server/internal/apperr"
	"github.com/carson-networks/cashbook-server/internal/storage"
	"github.com/carson-networks/cashbook-server/internal/storage/account"
	"github.com/carson-networks/cashbook-server/internal/storage/notification"
	"github.com/carson-networks/cashbook-server/internal/storage/user"
)

// AccountService handles account and membership business logic. Every
// operation takes the acting user explicitly; nothing is read from ambient
// state.
type AccountService struct {
	storage *storage.Storage
	sink    NotificationSink
}

// NewAccountService creates a new AccountService.
func NewAccountService(store *storage.Storage, sink NotificationSink) *AccountService {
	return &AccountService{storage: store, sink: sink}
}

// InviteRequest identifies an invitee by exactly one of user id, username
// or email, with optional capability overrides.
type InviteRequest struct {
	UserID   *uuid.UUID
	Username string
	Email    string
	Flags    *account.FlagsPatch
}

// CreateAccount creates an account owned by the actor, with the bootstrap
// owner membership written atomically alongside it.
func (s *AccountService) CreateAccount(ctx context.Context, actorID uuid.UUID, name string, kind account.Kind, description string) (*account.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("name", "name must not be empty")
	}
	if kind != account.KindPersonal && kind != account.KindShared {
		return nil, apperr.Validation("kind", "kind must be PERSONAL or SHARED")
	}

	acct, err := s.storage.Accounts.InsertWithOwner(ctx, &account.AccountCreate{
		Name:        name,
		Kind:        kind,
		OwnerID:     actorID,
		Description: description,
	})
	if err != nil {
		return nil, err
	}

	accountID := acct.ID
	s.sink.Notify(ctx, &notification.Create{
		UserID:      actorID,
		Type:        notification.TypeAccountCreated,
		Title:       fmt.Sprintf("Account %s created", acct.Name),
		Message:     fmt.Sprintf("Your %s account %s is ready", strings.ToLower(string(acct.Kind)), acct.Name),
		AccountID:   &accountID,
		TriggeredBy: &actorID,
	})

	return acct, nil
}

// GetAccount returns the account when the actor is its owner or an
// accepted member; any other account looks absent.
func (s *AccountService) GetAccount(ctx context.Context, actorID, accountID uuid.UUID) (*account.Account, error) {
	acct, _, err := s.visibleAccount(ctx, actorID, accountID)
	return acct, err
}

// ListAccounts returns the accounts the actor owns or has accepted
// membership in.
func (s *AccountService) ListAccounts(ctx context.Context, actorID uuid.UUID) ([]*account.Account, error) {
	return s.storage.Accounts.ListAccessible(ctx, actorID)
}

// UpdateAccount renames an account. Owner only.
func (s *AccountService) UpdateAccount(ctx context.Context, actorID, accountID uuid.UUID, update *account.AccountUpdate) (*account.Account, error) {
	acct, _, err := s.visibleAccount(ctx, actorID, accountID)
	if err != nil {
		return nil, err
	}
	if !acct.IsOwner(actorID) {
		return nil, apperr.Permission("only the account owner can update the account")
	}
	update.Name = strings.TrimSpace(update.Name)
	if update.Name == "" {
		return nil, apperr.Validation("name", "name must not be empty")
	}
	return s.storage.Accounts.Update(ctx, accountID, update)
}

// DeleteAccount destroys an account and everything hanging off it. Owner
// only.
func (s *AccountService) DeleteAccount(ctx context.Context, actorID, accountID uuid.UUID) error {
	acct, _, err := s.visibleAccount(ctx, actorID, accountID)
	if err != nil {
		return err
	}
	if !acct.IsOwner(actorID) {
		return apperr.Permission("only the account owner can delete the account")
	}
	return s.storage.Accounts.Delete(ctx, accountID)
}

// ListMembers returns every membership row of an account the actor can
// see.
func (s *AccountService) ListMembers(ctx context.Context, actorID, accountID uuid.UUID) ([]*account.Member, error) {
	if _, _, err := s.visibleAccount(ctx, actorID, accountID); err != nil {
		return nil, err
	}
	return s.storage.Members.ListByAccount(ctx, accountID)
}

// Invite creates (or, after a rejection, resets) a PENDING membership for
// the target user and notifies them. The actor needs manage-members or
// ownership.
func (s *AccountService) Invite(ctx context.Context, actorID, accountID uuid.UUID, req *InviteRequest) (*account.Member, error) {
	acct, membership, err := s.visibleAccount(ctx, actorID, accountID)
	if err != nil {
		return nil, err
	}
	if !Allowed(acct, membership, actorID, OpManageMembers) {
		return nil, apperr.Permission("you do not have permission to manage members of this account")
	}

	target, err := s.resolveInvitee(ctx, req)
	if err != nil {
		return nil, err
	}
	if target.ID == acct.OwnerID {
		return nil, apperr.Validation("user", "user is already a member")
	}

	flags := DefaultMemberFlags()
	if req.Flags != nil {
		flags = req.Flags.Apply(flags)
	}

	member, err := s.upsertInvitation(ctx, acct, target, actorID, flags)
	if err != nil {
		return nil, err
	}

	inviterName := s.displayName(ctx, actorID)
	s.sink.Notify(ctx, &notification.Create{
		UserID:      target.ID,
		Type:        notification.TypeInvitation,
		Title:       fmt.Sprintf("Invitation to %s", acct.Name),
		Message:     fmt.Sprintf("%s invited you to join %s", inviterName, acct.Name),
		AccountID:   &acct.ID,
		TriggeredBy: &actorID,
		Data:        accountPayload(acct),
	})

	return member, nil
}

func (s *AccountService) upsertInvitation(ctx context.Context, acct *account.Account, target *user.User, actorID uuid.UUID, flags account.Flags) (*account.Member, error) {
	existing, err := s.storage.Members.FindByAccountAndUser(ctx, acct.ID, target.ID)
	switch {
	case err == nil:
		switch existing.Status {
		case account.StatusAccepted:
			return nil, apperr.Validation("user", "user is already a member")
		case account.StatusPending:
			return nil, apperr.Validation("user", "invitation already pending")
		default:
			// A rejected row is re-invitable: same row, back to PENDING.
			return s.storage.Members.Reinvite(ctx, existing.ID, actorID, flags)
		}
	case apperr.IsNotFound(err):
		member, err := s.storage.Members.InsertPending(ctx, &account.MemberCreate{
			AccountID: acct.ID,
			UserID:    target.ID,
			Flags:     flags,
			InvitedBy: actorID,
		})
		if apperr.IsConflict(err) {
			// Lost a concurrent-invite race on the (account, user) key.
			return nil, apperr.Validation("user", "invitation already pending")
		}
		return member, err
	default:
		return nil, err
	}
}

func (s *AccountService) resolveInvitee(ctx context.Context, req *InviteRequest) (*user.User, error) {
	switch {
	case req.UserID != nil:
		return s.storage.Users.FindByID(ctx, *req.UserID)
	case req.Username != "":
		return s.storage.Users.FindByUsername(ctx, req.Username)
	case req.Email != "":
		return s.storage.Users.FindByEmail(ctx, req.Email)
	default:
		return nil, apperr.Validation("user", "one of user_id, username or email is required")
	}
}

// ListInvitations returns the actor's own PENDING invitations.
func (s *AccountService) ListInvitations(ctx context.Context, actorID uuid.UUID) ([]*account.Member, error) {
	return s.storage.Members.ListPendingByUser(ctx, actorID)
}

// AcceptInvitation moves the actor's own PENDING invitation to ACCEPTED
// and notifies the account owner plus the other accepted members. A row
// that is already resolved reports not-found.
func (s *AccountService) AcceptInvitation(ctx context.Context, actorID, invitationID uuid.UUID) (*account.Member, error) {
	member, err := s.storage.Members.Accept(ctx, invitationID, actorID)
	if err != nil {
		return nil, err
	}

	acct, err := s.storage.Accounts.FindByID(ctx, member.AccountID)
	if err != nil {
		// The membership transition committed; the fan-out is best-effort.
		logrus.WithError(err).WithField("account", member.AccountID).
			Error("AccountService.AcceptInvitation.load account for fan-out failed")
		return member, nil
	}

	acceptorName := s.displayName(ctx, actorID)
	s.sink.Notify(ctx, &notification.Create{
		UserID:      acct.OwnerID,
		Type:        notification.TypeInvitationAccepted,
		Title:       fmt.Sprintf("%s accepted invitation", acceptorName),
		Message:     fmt.Sprintf("%s accepted invitation to %s", acceptorName, acct.Name),
		AccountID:   &acct.ID,
		TriggeredBy: &actorID,
	})
	s.sink.NotifyAccountMembers(ctx, acct.ID, notification.TypeInvitationAccepted,
		fmt.Sprintf("New member joined %s", acct.Name),
		fmt.Sprintf("%s joined %s", acceptorName, acct.Name),
		actorID, &actorID, nil)

	return member, nil
}

// RejectInvitation moves the actor's own PENDING invitation to REJECTED.
// No notifications are sent.
func (s *AccountService) RejectInvitation(ctx context.Context, actorID, invitationID uuid.UUID) error {
	return s.storage.Members.Reject(ctx, invitationID, actorID)
}

// RemoveMember deletes a membership row. Owner only; the owner's own row
// cannot be removed.
func (s *AccountService) RemoveMember(ctx context.Context, actorID, accountID, memberID uuid.UUID) error {
	acct, _, err := s.visibleAccount(ctx, actorID, accountID)
	if err != nil {
		return err
	}
	if !acct.IsOwner(actorID) {
		return apperr.Permission("only the account owner can remove members")
	}

	member, err := s.memberOfAccount(ctx, accountID, memberID)
	if err != nil {
		return err
	}
	if member.UserID == acct.OwnerID {
		return apperr.Validation("member", "cannot remove the account owner")
	}

	if err := s.storage.Members.Delete(ctx, member.ID); err != nil {
		return err
	}

	s.sink.Notify(ctx, &notification.Create{
		UserID:      member.UserID,
		Type:        notification.TypeMemberRemoved,
		Title:       fmt.Sprintf("Removed from %s", acct.Name),
		Message:     fmt.Sprintf("You have been removed from %s", acct.Name),
		AccountID:   &acct.ID,
		TriggeredBy: &actorID,
	})
	return nil
}

// UpdatePermissions applies a partial capability update to a member and
// notifies them. Owner only.
func (s *AccountService) UpdatePermissions(ctx context.Context, actorID, accountID, memberID uuid.UUID, patch *account.FlagsPatch) (*account.Member, error) {
	acct, _, err := s.visibleAccount(ctx, actorID, accountID)
	if err != nil {
		return nil, err
	}
	if !acct.IsOwner(actorID) {
		return nil, apperr.Permission("only the account owner can update permissions")
	}

	member, err := s.memberOfAccount(ctx, accountID, memberID)
	if err != nil {
		return nil, err
	}

	updated, err := s.storage.Members.UpdateFlags(ctx, member.ID, patch.Apply(member.Flags))
	if err != nil {
		return nil, err
	}

	s.sink.Notify(ctx, &notification.Create{
		UserID:      member.UserID,
		Type:        notification.TypePermissionChanged,
		Title:       fmt.Sprintf("Permissions updated for %s", acct.Name),
		Message:     fmt.Sprintf("Your permissions for %s have been updated", acct.Name),
		AccountID:   &acct.ID,
		TriggeredBy: &actorID,
	})
	return updated, nil
}

// TransferOwnership reassigns the account to an accepted member. The new
// owner's manage-members, edit-all and delete flags come on; the former
// owner keeps everything except manage-members.
func (s *AccountService) TransferOwnership(ctx context.Context, actorID, accountID, newOwnerID uuid.UUID) (*account.Account, error) {
	acct, _, err := s.visibleAccount(ctx, actorID, accountID)
	if err != nil {
		return nil, err
	}
	if !acct.IsOwner(actorID) {
		return nil, apperr.Permission("only the account owner can transfer ownership")
	}

	member, err := s.storage.Members.FindByAccountAndUser(ctx, accountID, newOwnerID)
	if err != nil || member.Status != account.StatusAccepted {
		if err != nil && !apperr.IsNotFound(err) {
			return nil, err
		}
		return nil, apperr.Validation("newOwnerId", "new owner must be an accepted member")
	}

	if err := s.storage.Accounts.TransferOwnership(ctx, accountID, actorID, newOwnerID); err != nil {
		return nil, err
	}

	newOwnerName := s.displayName(ctx, newOwnerID)
	title := fmt.Sprintf("Ownership transferred for %s", acct.Name)
	s.sink.Notify(ctx, &notification.Create{
		UserID:      newOwnerID,
		Type:        notification.TypeAccountUpdated,
		Title:       title,
		Message:     fmt.Sprintf("You are now the owner of %s", acct.Name),
		AccountID:   &acct.ID,
		TriggeredBy: &actorID,
	})
	s.sink.Notify(ctx, &notification.Create{
		UserID:      actorID,
		Type:        notification.TypeAccountUpdated,
		Title:       title,
		Message:     fmt.Sprintf("%s is now the owner of %s", newOwnerName, acct.Name),
		AccountID:   &acct.ID,
		TriggeredBy: &actorID,
	})

	return s.storage.Accounts.FindByID(ctx, accountID)
}

// visibleAccount loads an account iff the actor is its owner or an
// accepted member, along with the actor's membership row when one exists.
// Accounts outside the visible set report not-found, never forbidden.
func (s *AccountService) visibleAccount(ctx context.Context, actorID, accountID uuid.UUID) (*account.Account, *account.Member, error) {
	acct, err := s.storage.Accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}

	member, err := s.storage.Members.FindByAccountAndUser(ctx, accountID, actorID)
	if err != nil {
		if !apperr.IsNotFound(err) {
			return nil, nil, err
		}
		member = nil
	}

	if acct.IsOwner(actorID) {
		return acct, member, nil
	}
	if member != nil && member.Status == account.StatusAccepted {
		return acct, member, nil
	}
	return nil, nil, apperr.NotFound("account")
}

// memberOfAccount loads a membership row and checks it belongs to the
// given account.
func (s *AccountService) memberOfAccount(ctx context.Context, accountID, memberID uuid.UUID) (*account.Member, error) {
	member, err := s.storage.Members.FindByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member.AccountID != accountID {
		return nil, apperr.NotFound("member")
	}
	return member, nil
}

// displayName resolves a username for notification text, falling back to
// the raw id when the identity mirror has no row.
func (s *AccountService) displayName(ctx context.Context, userID uuid.UUID) string {
	u, err := s.storage.Users.FindByID(ctx, userID)
	if err != nil {
		return userID.String()
	}
	return u.Username
}

func accountPayload(acct *account.Account) map[string]json.RawMessage {
	name, _ := json.Marshal(acct.Name)
	id, _ := json.Marshal(acct.ID.String())
	return map[string]json.RawMessage{
		"account_id":   id,
		"account_name": name,
	}
}
