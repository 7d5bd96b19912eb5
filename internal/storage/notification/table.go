package notification

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/cashbook-server/internal/apperr"
)

var _ ITable = (*Table)(nil)

// Table provides access to the notifications table.
type Table struct {
	db *sql.DB
}

func NewTable(db *sql.DB) *Table {
	return &Table{db: db}
}

const notificationColumns = `id, user_id, type, title, message, account_id,
	triggered_by, read, read_at, data, created_at`

func scanNotification(row interface{ Scan(...interface{}) error }) (*Notification, error) {
	n := &Notification{}
	var (
		accountID   uuid.NullUUID
		triggeredBy uuid.NullUUID
		readAt      sql.NullTime
		data        []byte
	)

	err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message,
		&accountID, &triggeredBy, &n.Read, &readAt, &data, &n.CreatedAt)
	if err != nil {
		return nil, err
	}

	if accountID.Valid {
		id := accountID.UUID
		n.AccountID = &id
	}
	if triggeredBy.Valid {
		id := triggeredBy.UUID
		n.TriggeredBy = &id
	}
	if readAt.Valid {
		t := readAt.Time
		n.ReadAt = &t
	}
	if err := json.Unmarshal(data, &n.Data); err != nil {
		return nil, fmt.Errorf("notifications scan data: %w", err)
	}
	return n, nil
}

func toNullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func marshalData(data map[string]json.RawMessage) ([]byte, error) {
	if data == nil {
		data = map[string]json.RawMessage{}
	}
	return json.Marshal(data)
}

func (t *Table) Insert(ctx context.Context, create *Create) (*Notification, error) {
	query := `INSERT INTO notifications
	        (user_id, type, title, message, account_id, triggered_by, data)
	        VALUES ($1, $2, $3, $4, $5, $6, $7)
	        RETURNING ` + notificationColumns

	data, err := marshalData(create.Data)
	if err != nil {
		return nil, fmt.Errorf("notifications.Insert marshal: %w", err)
	}

	n, err := scanNotification(t.db.QueryRowContext(ctx, query,
		create.UserID, create.Type, create.Title, create.Message,
		toNullUUID(create.AccountID), toNullUUID(create.TriggeredBy), data))
	if err != nil {
		return nil, fmt.Errorf("notifications.Insert: %w", err)
	}
	return n, nil
}

// InsertBatch inserts one row per create in a single statement, so a
// partial fan-out cannot persist.
func (t *Table) InsertBatch(ctx context.Context, creates []*Create) (int, error) {
	if len(creates) == 0 {
		return 0, nil
	}

	var (
		values []string
		args   []interface{}
	)
	for i, create := range creates {
		data, err := marshalData(create.Data)
		if err != nil {
			return 0, fmt.Errorf("notifications.InsertBatch marshal: %w", err)
		}
		base := i * 7
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		args = append(args,
			create.UserID, create.Type, create.Title, create.Message,
			toNullUUID(create.AccountID), toNullUUID(create.TriggeredBy), data)
	}

	query := `INSERT INTO notifications
	        (user_id, type, title, message, account_id, triggered_by, data)
	        VALUES ` + strings.Join(values, ", ")

	result, err := t.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("notifications.InsertBatch: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("notifications.InsertBatch rows affected: %w", err)
	}
	return int(affected), nil
}

func (t *Table) ListByUser(ctx context.Context, userID uuid.UUID, filter *Filter) ([]*Notification, error) {
	conds := []string{"user_id = $1"}
	args := []interface{}{userID}

	if filter != nil {
		if filter.Read != nil {
			args = append(args, *filter.Read)
			conds = append(conds, fmt.Sprintf("read = $%d", len(args)))
		}
		if filter.Type != "" {
			args = append(args, filter.Type)
			conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
		}
		if filter.AccountID != nil {
			args = append(args, *filter.AccountID)
			conds = append(conds, fmt.Sprintf("account_id = $%d", len(args)))
		}
	}

	query := fmt.Sprintf("SELECT %s FROM notifications WHERE %s ORDER BY created_at DESC, id DESC",
		notificationColumns, strings.Join(conds, " AND "))

	rows, err := t.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("notifications.ListByUser: %w", err)
	}
	defer rows.Close()

	var result []*Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("notifications.ListByUser scan: %w", err)
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

// SetRead toggles the read flag. Only the recipient's own row matches;
// anyone else sees not-found.
func (t *Table) SetRead(ctx context.Context, id, userID uuid.UUID, read bool) (*Notification, error) {
	query := `UPDATE notifications
	          SET read = $3,
	              read_at = CASE WHEN $3 THEN now() ELSE NULL END
	          WHERE id = $1 AND user_id = $2
	          RETURNING ` + notificationColumns

	n, err := scanNotification(t.db.QueryRowContext(ctx, query, id, userID, read))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("notification")
		}
		return nil, fmt.Errorf("notifications.SetRead: %w", err)
	}
	return n, nil
}

func (t *Table) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	result, err := t.db.ExecContext(ctx,
		"UPDATE notifications SET read = true, read_at = now() WHERE user_id = $1 AND read = false",
		userID)
	if err != nil {
		return 0, fmt.Errorf("notifications.MarkAllRead: %w", err)
	}
	return result.RowsAffected()
}

func (t *Table) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := t.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = false",
		userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("notifications.CountUnread: %w", err)
	}
	return count, nil
}
