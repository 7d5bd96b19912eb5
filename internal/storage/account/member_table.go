package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/cashbook-server/internal/apperr"
)

var _ IMemberTable = (*MemberTable)(nil)

// MemberTable provides access to the account_members table.
type MemberTable struct {
	db *sql.DB
}

func NewMemberTable(db *sql.DB) *MemberTable {
	return &MemberTable{db: db}
}

const memberColumns = `id, account_id, user_id, status,
	can_add_entry, can_edit_own_entry, can_edit_all_entries,
	can_delete_entry, can_view_reports, can_manage_members,
	invited_by, invited_at, accepted_at, created_at, updated_at`

func scanMember(row interface{ Scan(...interface{}) error }) (*Member, error) {
	m := &Member{}
	err := row.Scan(
		&m.ID, &m.AccountID, &m.UserID, &m.Status,
		&m.Flags.CanAddEntry, &m.Flags.CanEditOwnEntry, &m.Flags.CanEditAllEntries,
		&m.Flags.CanDeleteEntry, &m.Flags.CanViewReports, &m.Flags.CanManageMembers,
		&m.InvitedBy, &m.InvitedAt, &m.AcceptedAt, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (t *MemberTable) FindByID(ctx context.Context, id uuid.UUID) (*Member, error) {
	query := "SELECT " + memberColumns + " FROM account_members WHERE id = $1"

	m, err := scanMember(t.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("member")
		}
		return nil, fmt.Errorf("members.FindByID: %w", err)
	}
	return m, nil
}

func (t *MemberTable) FindByAccountAndUser(ctx context.Context, accountID, userID uuid.UUID) (*Member, error) {
	query := "SELECT " + memberColumns + " FROM account_members WHERE account_id = $1 AND user_id = $2"

	m, err := scanMember(t.db.QueryRowContext(ctx, query, accountID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("member")
		}
		return nil, fmt.Errorf("members.FindByAccountAndUser: %w", err)
	}
	return m, nil
}

func (t *MemberTable) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*Member, error) {
	query := "SELECT " + memberColumns + ` FROM account_members
	          WHERE account_id = $1 ORDER BY invited_at ASC, id ASC`
	return t.list(ctx, query, accountID)
}

func (t *MemberTable) ListAccepted(ctx context.Context, accountID uuid.UUID) ([]*Member, error) {
	query := "SELECT " + memberColumns + ` FROM account_members
	          WHERE account_id = $1 AND status = 'ACCEPTED'
	          ORDER BY invited_at ASC, id ASC`
	return t.list(ctx, query, accountID)
}

func (t *MemberTable) ListPendingByUser(ctx context.Context, userID uuid.UUID) ([]*Member, error) {
	query := "SELECT " + memberColumns + ` FROM account_members
	          WHERE user_id = $1 AND status = 'PENDING'
	          ORDER BY invited_at DESC, id DESC`
	return t.list(ctx, query, userID)
}

func (t *MemberTable) list(ctx context.Context, query string, arg interface{}) ([]*Member, error) {
	rows, err := t.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("members.list: %w", err)
	}
	defer rows.Close()

	var result []*Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("members.list scan: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// InsertPending creates a PENDING membership. A duplicate (account, user)
// pair reports a ConflictError; callers translate it for the invitee race.
func (t *MemberTable) InsertPending(ctx context.Context, create *MemberCreate) (*Member, error) {
	query := `INSERT INTO account_members
	        (account_id, user_id, status, can_add_entry, can_edit_own_entry,
	         can_edit_all_entries, can_delete_entry, can_view_reports,
	         can_manage_members, invited_by)
	        VALUES ($1, $2, 'PENDING', $3, $4, $5, $6, $7, $8, $9)
	        RETURNING ` + memberColumns

	f := create.Flags
	m, err := scanMember(t.db.QueryRowContext(ctx, query,
		create.AccountID, create.UserID,
		f.CanAddEntry, f.CanEditOwnEntry, f.CanEditAllEntries,
		f.CanDeleteEntry, f.CanViewReports, f.CanManageMembers,
		create.InvitedBy))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("membership already exists")
		}
		return nil, fmt.Errorf("members.InsertPending: %w", err)
	}
	return m, nil
}

// Reinvite resets a REJECTED row back to PENDING with fresh flags and
// inviter. The status guard keeps it from clobbering a live membership.
func (t *MemberTable) Reinvite(ctx context.Context, id, invitedBy uuid.UUID, flags Flags) (*Member, error) {
	query := `UPDATE account_members
	          SET status = 'PENDING', invited_by = $2, invited_at = now(),
	              accepted_at = NULL,
	              can_add_entry = $3, can_edit_own_entry = $4,
	              can_edit_all_entries = $5, can_delete_entry = $6,
	              can_view_reports = $7, can_manage_members = $8,
	              updated_at = now()
	          WHERE id = $1 AND status = 'REJECTED'
	          RETURNING ` + memberColumns

	m, err := scanMember(t.db.QueryRowContext(ctx, query, id, invitedBy,
		flags.CanAddEntry, flags.CanEditOwnEntry, flags.CanEditAllEntries,
		flags.CanDeleteEntry, flags.CanViewReports, flags.CanManageMembers))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("invitation")
		}
		return nil, fmt.Errorf("members.Reinvite: %w", err)
	}
	return m, nil
}

// Accept transitions the invitee's own PENDING row to ACCEPTED. A row that
// is already resolved (or belongs to someone else) reports not-found, so
// the loser of a concurrent accept/reject race fails gracefully.
func (t *MemberTable) Accept(ctx context.Context, id, userID uuid.UUID) (*Member, error) {
	query := `UPDATE account_members
	          SET status = 'ACCEPTED', accepted_at = now(), updated_at = now()
	          WHERE id = $1 AND user_id = $2 AND status = 'PENDING'
	          RETURNING ` + memberColumns

	m, err := scanMember(t.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("invitation")
		}
		return nil, fmt.Errorf("members.Accept: %w", err)
	}
	return m, nil
}

func (t *MemberTable) Reject(ctx context.Context, id, userID uuid.UUID) error {
	query := `UPDATE account_members
	          SET status = 'REJECTED', updated_at = now()
	          WHERE id = $1 AND user_id = $2 AND status = 'PENDING'`

	result, err := t.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("members.Reject: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("members.Reject rows affected: %w", err)
	}
	if affected == 0 {
		return apperr.NotFound("invitation")
	}
	return nil
}

func (t *MemberTable) UpdateFlags(ctx context.Context, id uuid.UUID, flags Flags) (*Member, error) {
	query := `UPDATE account_members
	          SET can_add_entry = $2, can_edit_own_entry = $3,
	              can_edit_all_entries = $4, can_delete_entry = $5,
	              can_view_reports = $6, can_manage_members = $7,
	              updated_at = now()
	          WHERE id = $1
	          RETURNING ` + memberColumns

	m, err := scanMember(t.db.QueryRowContext(ctx, query, id,
		flags.CanAddEntry, flags.CanEditOwnEntry, flags.CanEditAllEntries,
		flags.CanDeleteEntry, flags.CanViewReports, flags.CanManageMembers))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("member")
		}
		return nil, fmt.Errorf("members.UpdateFlags: %w", err)
	}
	return m, nil
}

func (t *MemberTable) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := t.db.ExecContext(ctx, "DELETE FROM account_members WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("members.Delete: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("members.Delete rows affected: %w", err)
	}
	if affected == 0 {
		return apperr.NotFound("member")
	}
	return nil
}
