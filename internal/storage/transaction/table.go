package transaction

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/cashbook-server/internal/apperr"
)

var _ ITable = (*Table)(nil)

// Table provides access to the transactions table.
type Table struct {
	db *sql.DB
}

func NewTable(db *sql.DB) *Table {
	return &Table{db: db}
}

const txnColumns = `id, user_id, account_id, type, amount, category, name, remark, mode,
	date, time, employer_name, salary_month, tax_deducted, net_amount,
	vendor_name, invoice_number, receipt_number, tax_amount, tax_percentage,
	location, tags, attachments, recurring, recurring_frequency, next_due_date,
	custom_fields, created_at, updated_at`

func scanTransaction(row interface{ Scan(...interface{}) error }) (*Transaction, error) {
	t := &Transaction{}
	var (
		accountID   uuid.NullUUID
		taxDeducted, netAmount, taxAmount, taxPercentage decimal.NullDecimal
		tags, attachments, customFields []byte
		nextDueDate sql.NullTime
	)

	err := row.Scan(
		&t.ID, &t.UserID, &accountID, &t.Type, &t.Amount, &t.Category, &t.Name,
		&t.Remark, &t.Mode, &t.Date, &t.Time, &t.EmployerName, &t.SalaryMonth,
		&taxDeducted, &netAmount, &t.VendorName, &t.InvoiceNumber,
		&t.ReceiptNumber, &taxAmount, &taxPercentage, &t.Location,
		&tags, &attachments, &t.Recurring, &t.RecurringFrequency, &nextDueDate,
		&customFields, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if accountID.Valid {
		id := accountID.UUID
		t.AccountID = &id
	}
	t.TaxDeducted = fromNullDecimal(taxDeducted)
	t.NetAmount = fromNullDecimal(netAmount)
	t.TaxAmount = fromNullDecimal(taxAmount)
	t.TaxPercentage = fromNullDecimal(taxPercentage)
	if nextDueDate.Valid {
		d := nextDueDate.Time
		t.NextDueDate = &d
	}
	if err := json.Unmarshal(tags, &t.Tags); err != nil {
		return nil, fmt.Errorf("transactions scan tags: %w", err)
	}
	if err := json.Unmarshal(attachments, &t.Attachments); err != nil {
		return nil, fmt.Errorf("transactions scan attachments: %w", err)
	}
	if err := json.Unmarshal(customFields, &t.CustomFields); err != nil {
		return nil, fmt.Errorf("transactions scan custom_fields: %w", err)
	}
	return t, nil
}

func fromNullDecimal(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func toNullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// fieldArgs marshals the opaque JSON fields and returns the 24 insert or
// update arguments in column order starting at type.
func fieldArgs(f *Fields) ([]interface{}, error) {
	tags := f.Tags
	if tags == nil {
		tags = []json.RawMessage{}
	}
	attachments := f.Attachments
	if attachments == nil {
		attachments = []json.RawMessage{}
	}
	customFields := f.CustomFields
	if customFields == nil {
		customFields = map[string]json.RawMessage{}
	}

	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}
	attachmentsJSON, err := json.Marshal(attachments)
	if err != nil {
		return nil, fmt.Errorf("marshal attachments: %w", err)
	}
	customJSON, err := json.Marshal(customFields)
	if err != nil {
		return nil, fmt.Errorf("marshal custom_fields: %w", err)
	}

	return []interface{}{
		f.Type, f.Amount, f.Category, f.Name, f.Remark, f.Mode,
		f.Date, f.Time, f.EmployerName, f.SalaryMonth,
		toNullDecimal(f.TaxDeducted), toNullDecimal(f.NetAmount),
		f.VendorName, f.InvoiceNumber, f.ReceiptNumber,
		toNullDecimal(f.TaxAmount), toNullDecimal(f.TaxPercentage),
		f.Location, tagsJSON, attachmentsJSON,
		f.Recurring, f.RecurringFrequency, toNullTime(f.NextDueDate), customJSON,
	}, nil
}

func (t *Table) FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	query := "SELECT " + txnColumns + " FROM transactions WHERE id = $1"

	txn, err := scanTransaction(t.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("transaction")
		}
		return nil, fmt.Errorf("transactions.FindByID: %w", err)
	}
	return txn, nil
}

func (t *Table) Insert(ctx context.Context, create *Create) (*Transaction, error) {
	query := `INSERT INTO transactions
	        (user_id, account_id, type, amount, category, name, remark, mode,
	         date, time, employer_name, salary_month, tax_deducted, net_amount,
	         vendor_name, invoice_number, receipt_number, tax_amount,
	         tax_percentage, location, tags, attachments, recurring,
	         recurring_frequency, next_due_date, custom_fields)
	        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
	                $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)
	        RETURNING ` + txnColumns

	args, err := fieldArgs(&create.Fields)
	if err != nil {
		return nil, fmt.Errorf("transactions.Insert: %w", err)
	}
	args = append([]interface{}{create.UserID, toNullUUID(create.AccountID)}, args...)

	txn, err := scanTransaction(t.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("transactions.Insert: %w", err)
	}
	return txn, nil
}

func (t *Table) Update(ctx context.Context, id uuid.UUID, fields *Fields) (*Transaction, error) {
	query := `UPDATE transactions SET
	          type = $2, amount = $3, category = $4, name = $5, remark = $6,
	          mode = $7, date = $8, time = $9, employer_name = $10,
	          salary_month = $11, tax_deducted = $12, net_amount = $13,
	          vendor_name = $14, invoice_number = $15, receipt_number = $16,
	          tax_amount = $17, tax_percentage = $18, location = $19,
	          tags = $20, attachments = $21, recurring = $22,
	          recurring_frequency = $23, next_due_date = $24,
	          custom_fields = $25, updated_at = now()
	          WHERE id = $1
	          RETURNING ` + txnColumns

	args, err := fieldArgs(fields)
	if err != nil {
		return nil, fmt.Errorf("transactions.Update: %w", err)
	}
	args = append([]interface{}{id}, args...)

	txn, err := scanTransaction(t.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("transaction")
		}
		return nil, fmt.Errorf("transactions.Update: %w", err)
	}
	return txn, nil
}

func (t *Table) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := t.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("transactions.Delete: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("transactions.Delete rows affected: %w", err)
	}
	if affected == 0 {
		return apperr.NotFound("transaction")
	}
	return nil
}

// searchColumns are the fields the free-text search ORs across.
var searchColumns = []string{
	"name", "category", "remark", "employer_name", "vendor_name",
	"invoice_number", "receipt_number",
}

// buildWhere renders the scope and filter into a WHERE clause and args.
func buildWhere(scope Scope, filter *Filter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	switch scope.Kind {
	case ScopePersonal:
		conds = append(conds, fmt.Sprintf("account_id IS NULL AND user_id = %s", arg(scope.UserID)))
	case ScopeAccount:
		// Shared-account semantics: every member sees every row, so the
		// requesting user does not appear in the predicate at all.
		conds = append(conds, fmt.Sprintf("account_id = %s", arg(scope.AccountID)))
	default:
		ids := make([]string, len(scope.AccountIDs))
		for i, id := range scope.AccountIDs {
			ids[i] = id.String()
		}
		conds = append(conds, fmt.Sprintf(
			"((account_id IS NULL AND user_id = %s) OR account_id = ANY(%s::uuid[]))",
			arg(scope.UserID), arg(pq.Array(ids))))
	}

	if filter == nil {
		return strings.Join(conds, " AND "), args
	}

	if filter.Search != "" {
		placeholder := arg("%" + filter.Search + "%")
		parts := make([]string, len(searchColumns))
		for i, col := range searchColumns {
			parts[i] = fmt.Sprintf("%s ILIKE %s", col, placeholder)
		}
		conds = append(conds, "("+strings.Join(parts, " OR ")+")")
	}
	if filter.Type != "" {
		conds = append(conds, fmt.Sprintf("type = %s", arg(filter.Type)))
	}
	if filter.Category != "" {
		conds = append(conds, fmt.Sprintf("LOWER(category) = LOWER(%s)", arg(filter.Category)))
	}
	if filter.Mode != "" {
		conds = append(conds, fmt.Sprintf("LOWER(mode) = LOWER(%s)", arg(filter.Mode)))
	}
	if filter.DateFrom != nil {
		conds = append(conds, fmt.Sprintf("date >= %s", arg(*filter.DateFrom)))
	}
	if filter.DateTo != nil {
		conds = append(conds, fmt.Sprintf("date <= %s", arg(*filter.DateTo)))
	}
	if filter.AmountMin != nil {
		conds = append(conds, fmt.Sprintf("amount >= %s", arg(*filter.AmountMin)))
	}
	if filter.AmountMax != nil {
		conds = append(conds, fmt.Sprintf("amount <= %s", arg(*filter.AmountMax)))
	}

	return strings.Join(conds, " AND "), args
}

func orderBy(filter *Filter) string {
	if filter == nil || filter.SortField == "" {
		return "ORDER BY date DESC, time DESC"
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s, date DESC, time DESC", filter.SortField, direction)
}

func (t *Table) List(ctx context.Context, scope Scope, filter *Filter) ([]*Transaction, error) {
	where, args := buildWhere(scope, filter)
	query := fmt.Sprintf("SELECT %s FROM transactions WHERE %s %s",
		txnColumns, where, orderBy(filter))

	rows, err := t.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("transactions.List: %w", err)
	}
	defer rows.Close()

	var result []*Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("transactions.List scan: %w", err)
		}
		result = append(result, txn)
	}
	return result, rows.Err()
}

func (t *Table) Summarize(ctx context.Context, scope Scope, filter *Filter) (*Summary, error) {
	where, args := buildWhere(scope, filter)
	query := fmt.Sprintf(`SELECT
	        COALESCE(SUM(amount) FILTER (WHERE type = 'Income'), 0),
	        COALESCE(SUM(amount) FILTER (WHERE type = 'Expense'), 0),
	        COUNT(*),
	        COUNT(*) FILTER (WHERE type = 'Income'),
	        COUNT(*) FILTER (WHERE type = 'Expense')
	        FROM transactions WHERE %s`, where)

	s := &Summary{}
	err := t.db.QueryRowContext(ctx, query, args...).Scan(
		&s.TotalIncome, &s.TotalExpense,
		&s.TransactionCount, &s.IncomeCount, &s.ExpenseCount)
	if err != nil {
		return nil, fmt.Errorf("transactions.Summarize: %w", err)
	}
	s.NetTotal = s.TotalIncome.Sub(s.TotalExpense)
	return s, nil
}
