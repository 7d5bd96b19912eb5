package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/lib/pq"

	"github.com/carson-networks/cashbook-server/internal/apperr"
)

const uniqueViolation = "23505"

var _ ITable = (*Table)(nil)

// Table provides access to the accounts table.
type Table struct {
	db *sql.DB
}

func NewTable(db *sql.DB) *Table {
	return &Table{db: db}
}

const accountColumns = "id, name, kind, owner_id, description, created_at, updated_at"

func scanAccount(row interface{ Scan(...interface{}) error }) (*Account, error) {
	a := &Account{}
	err := row.Scan(&a.ID, &a.Name, &a.Kind, &a.OwnerID, &a.Description, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (t *Table) FindByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	query := "SELECT " + accountColumns + " FROM accounts WHERE id = $1"

	a, err := scanAccount(t.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("account")
		}
		return nil, fmt.Errorf("accounts.FindByID: %w", err)
	}
	return a, nil
}

// InsertWithOwner creates the account together with the owner's bootstrap
// membership (ACCEPTED, all flags true) in one transaction.
func (t *Table) InsertWithOwner(ctx context.Context, create *AccountCreate) (*Account, error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("accounts.InsertWithOwner begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	query := `INSERT INTO accounts (name, kind, owner_id, description)
	          VALUES ($1, $2, $3, $4)
	          RETURNING ` + accountColumns

	a, err := scanAccount(tx.QueryRowContext(ctx, query,
		create.Name, create.Kind, create.OwnerID, create.Description))
	if err != nil {
		return nil, fmt.Errorf("accounts.InsertWithOwner insert account: %w", err)
	}

	memberQuery := `INSERT INTO account_members
	        (account_id, user_id, status, can_add_entry, can_edit_own_entry,
	         can_edit_all_entries, can_delete_entry, can_view_reports,
	         can_manage_members, accepted_at)
	        VALUES ($1, $2, 'ACCEPTED', true, true, true, true, true, true, now())`

	if _, err := tx.ExecContext(ctx, memberQuery, a.ID, create.OwnerID); err != nil {
		return nil, fmt.Errorf("accounts.InsertWithOwner insert owner member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("accounts.InsertWithOwner commit: %w", err)
	}
	return a, nil
}

// ListAccessible returns accounts the user owns plus accounts where the
// user holds an ACCEPTED membership, newest first.
func (t *Table) ListAccessible(ctx context.Context, userID uuid.UUID) ([]*Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
	          WHERE owner_id = $1
	             OR id IN (SELECT account_id FROM account_members
	                       WHERE user_id = $1 AND status = 'ACCEPTED')
	          ORDER BY created_at DESC, id DESC`

	rows, err := t.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("accounts.ListAccessible: %w", err)
	}
	defer rows.Close()

	var result []*Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("accounts.ListAccessible scan: %w", err)
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (t *Table) ListAccessibleIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT id FROM accounts WHERE owner_id = $1
	          UNION
	          SELECT account_id FROM account_members
	          WHERE user_id = $1 AND status = 'ACCEPTED'`

	rows, err := t.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("accounts.ListAccessibleIDs: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("accounts.ListAccessibleIDs scan: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (t *Table) Update(ctx context.Context, id uuid.UUID, update *AccountUpdate) (*Account, error) {
	query := `UPDATE accounts SET name = $2, description = $3, updated_at = now()
	          WHERE id = $1
	          RETURNING ` + accountColumns

	a, err := scanAccount(t.db.QueryRowContext(ctx, query, id, update.Name, update.Description))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("account")
		}
		return nil, fmt.Errorf("accounts.Update: %w", err)
	}
	return a, nil
}

func (t *Table) Delete(ctx context.Context, id uuid.UUID) error {
	// Memberships, transactions and notifications cascade via FK.
	result, err := t.db.ExecContext(ctx, "DELETE FROM accounts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("accounts.Delete: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("accounts.Delete rows affected: %w", err)
	}
	if affected == 0 {
		return apperr.NotFound("account")
	}
	return nil
}

// TransferOwnership reassigns the account owner and adjusts both
// memberships in one transaction: the new owner gains manage-members,
// edit-all and delete; the former owner loses only manage-members.
func (t *Table) TransferOwnership(ctx context.Context, accountID, oldOwnerID, newOwnerID uuid.UUID) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("accounts.TransferOwnership begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	result, err := tx.ExecContext(ctx,
		"UPDATE accounts SET owner_id = $2, updated_at = now() WHERE id = $1 AND owner_id = $3",
		accountID, newOwnerID, oldOwnerID)
	if err != nil {
		return fmt.Errorf("accounts.TransferOwnership reassign: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("accounts.TransferOwnership rows affected: %w", err)
	}
	if affected == 0 {
		return apperr.NotFound("account")
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE account_members
		 SET can_manage_members = true, can_edit_all_entries = true,
		     can_delete_entry = true, updated_at = now()
		 WHERE account_id = $1 AND user_id = $2`,
		accountID, newOwnerID)
	if err != nil {
		return fmt.Errorf("accounts.TransferOwnership upgrade new owner: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE account_members
		 SET can_manage_members = false, updated_at = now()
		 WHERE account_id = $1 AND user_id = $2`,
		accountID, oldOwnerID)
	if err != nil {
		return fmt.Errorf("accounts.TransferOwnership downgrade old owner: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("accounts.TransferOwnership commit: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a postgres duplicate-key error.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
