package transaction

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Type is the transaction direction.
type Type string

const (
	TypeIncome  Type = "Income"
	TypeExpense Type = "Expense"
)

// Fields holds the mutable attributes of a transaction. Tags, Attachments
// and CustomFields are opaque JSON passed through verbatim; only their
// structure (list / string-keyed map) is enforced.
type Fields struct {
	Type     Type
	Amount   decimal.Decimal
	Category string
	Name     string
	Remark   string
	Mode     string
	Date     time.Time
	Time     string

	EmployerName string
	SalaryMonth  string
	TaxDeducted  *decimal.Decimal
	NetAmount    *decimal.Decimal

	VendorName    string
	InvoiceNumber string
	ReceiptNumber string
	TaxAmount     *decimal.Decimal
	TaxPercentage *decimal.Decimal

	Location           string
	Tags               []json.RawMessage
	Attachments        []json.RawMessage
	Recurring          bool
	RecurringFrequency string
	NextDueDate        *time.Time
	CustomFields       map[string]json.RawMessage
}

// Transaction represents a transaction record. A nil AccountID marks a
// personal transaction visible only to its creator.
type Transaction struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	AccountID *uuid.UUID
	Fields
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Create is the input for inserting a transaction.
type Create struct {
	UserID    uuid.UUID
	AccountID *uuid.UUID
	Fields
}

// ScopeKind selects which slice of the ledger a query sees.
type ScopeKind int

const (
	// ScopeAll is personal rows of the user plus every row of the
	// accessible accounts.
	ScopeAll ScopeKind = iota
	// ScopePersonal is only rows with no account, created by the user.
	ScopePersonal
	// ScopeAccount is every row of one account, any creator, and
	// explicitly no personal rows.
	ScopeAccount
)

// Scope is the visibility boundary computed by the resolver. The storage
// layer applies it verbatim and does no access checks of its own.
type Scope struct {
	Kind       ScopeKind
	UserID     uuid.UUID
	AccountIDs []uuid.UUID // ScopeAll: accessible accounts
	AccountID  uuid.UUID   // ScopeAccount
}

// Filter narrows a scoped listing. Pointer fields are skipped when nil.
// SortField must come pre-validated against the sort whitelist.
type Filter struct {
	Search    string
	Type      string
	Category  string
	Mode      string
	DateFrom  *time.Time
	DateTo    *time.Time
	AmountMin *decimal.Decimal
	AmountMax *decimal.Decimal
	SortField string
	SortDesc  bool
}

// Summary aggregates the resolved visible set.
type Summary struct {
	TotalIncome      decimal.Decimal
	TotalExpense     decimal.Decimal
	NetTotal         decimal.Decimal
	TransactionCount int64
	IncomeCount      int64
	ExpenseCount     int64
}

// ITable defines the interface for transaction storage operations.
type ITable interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	Insert(ctx context.Context, create *Create) (*Transaction, error)
	Update(ctx context.Context, id uuid.UUID, fields *Fields) (*Transaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, scope Scope, filter *Filter) ([]*Transaction, error)
	Summarize(ctx context.Context, scope Scope, filter *Filter) (*Summary, error)
}
