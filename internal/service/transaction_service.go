package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/cashbook-server/internal/apperr"
	"github.com/carson-networks/cashbook-server/internal/storage"
	"github.com/carson-networks/cashbook-server/internal/storage/account"
	"github.com/carson-networks/cashbook-server/internal/storage/notification"
	"github.com/carson-networks/cashbook-server/internal/storage/transaction"
)

// maxAmount caps a single transaction at one billion.
var maxAmount = decimal.NewFromInt(1_000_000_000)

var sortableFields = map[string]bool{
	"date":       true,
	"time":       true,
	"amount":     true,
	"category":   true,
	"name":       true,
	"created_at": true,
	"updated_at": true,
}

var recurringFrequencies = map[string]bool{
	"daily":   true,
	"weekly":  true,
	"monthly": true,
	"yearly":  true,
}

// TransactionService handles transaction business logic: the visibility
// resolver, the capability checks on the write path, and the member
// fan-out for shared-account changes.
type TransactionService struct {
	storage *storage.Storage
	sink    NotificationSink
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(store *storage.Storage, sink NotificationSink) *TransactionService {
	return &TransactionService{storage: store, sink: sink}
}

// ListQuery selects which slice of the ledger to read. AccountID and
// PersonalOnly are mutually exclusive; with neither set the full visible
// set is used.
type ListQuery struct {
	AccountID    *uuid.UUID
	PersonalOnly bool
	Filter       transaction.Filter
}

// List returns the transactions visible to the actor under the query.
func (s *TransactionService) List(ctx context.Context, actorID uuid.UUID, query *ListQuery) ([]*transaction.Transaction, error) {
	scope, err := s.resolveScope(ctx, actorID, query)
	if err != nil {
		return nil, err
	}
	filter := s.sanitizeFilter(&query.Filter)
	return s.storage.Transactions.List(ctx, scope, filter)
}

// Summary aggregates the transactions visible to the actor under the
// query. The filter narrows the set the same way List does.
func (s *TransactionService) Summary(ctx context.Context, actorID uuid.UUID, query *ListQuery) (*transaction.Summary, error) {
	scope, err := s.resolveScope(ctx, actorID, query)
	if err != nil {
		return nil, err
	}
	filter := s.sanitizeFilter(&query.Filter)
	return s.storage.Transactions.Summarize(ctx, scope, filter)
}

// Get returns one transaction if it falls inside the actor's visible set.
func (s *TransactionService) Get(ctx context.Context, actorID, transactionID uuid.UUID) (*transaction.Transaction, error) {
	txn, err := s.storage.Transactions.FindByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if err := s.visible(ctx, actorID, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// Create validates and inserts a transaction as the actor. Writing into a
// shared account requires the add-entries capability; the other accepted
// members are notified afterwards.
func (s *TransactionService) Create(ctx context.Context, actorID uuid.UUID, create *transaction.Create) (*transaction.Transaction, error) {
	if err := s.validateFields(&create.Fields); err != nil {
		return nil, err
	}

	var acct *account.Account
	if create.AccountID != nil {
		var membership *account.Member
		var err error
		acct, membership, err = s.accountAccess(ctx, actorID, *create.AccountID)
		if err != nil {
			return nil, err
		}
		if acct.Kind != account.KindShared {
			return nil, apperr.Validation("account", "transactions can only be attached to shared accounts")
		}
		if !Allowed(acct, membership, actorID, OpAddEntry) {
			return nil, apperr.Permission("you do not have permission to add entries to this account")
		}
	}

	create.UserID = actorID
	txn, err := s.storage.Transactions.Insert(ctx, create)
	if err != nil {
		return nil, err
	}

	if acct != nil {
		actorName := s.displayName(ctx, actorID)
		s.sink.NotifyAccountMembers(ctx, acct.ID, notification.TypeTransactionAdded,
			fmt.Sprintf("New %s in %s", strings.ToLower(string(txn.Type)), acct.Name),
			fmt.Sprintf("%s added %s: ₹%s - %s", actorName, strings.ToLower(string(txn.Type)), txn.Amount.StringFixed(2), transactionNote(txn)),
			actorID, &actorID, transactionPayload(txn))
	}

	return txn, nil
}

// Update replaces the mutable fields of a transaction. Personal rows are
// editable by their creator only; on account rows the actor's own entries
// need edit-own and anyone else's need edit-all.
func (s *TransactionService) Update(ctx context.Context, actorID, transactionID uuid.UUID, fields *transaction.Fields) (*transaction.Transaction, error) {
	txn, err := s.storage.Transactions.FindByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if err := s.visible(ctx, actorID, txn); err != nil {
		return nil, err
	}
	if err := s.validateFields(fields); err != nil {
		return nil, err
	}

	var acct *account.Account
	if txn.AccountID == nil {
		if txn.UserID != actorID {
			return nil, apperr.NotFound("transaction")
		}
	} else {
		var membership *account.Member
		acct, membership, err = s.accountAccess(ctx, actorID, *txn.AccountID)
		if err != nil {
			return nil, err
		}
		// The required flag follows ownership of the row: edit-own for
		// the actor's entries, edit-all for everyone else's.
		op := OpEditAllEntries
		if txn.UserID == actorID {
			op = OpEditOwnEntry
		}
		if !Allowed(acct, membership, actorID, op) {
			return nil, apperr.Permission("you do not have permission to edit this transaction")
		}
	}

	updated, err := s.storage.Transactions.Update(ctx, transactionID, fields)
	if err != nil {
		return nil, err
	}

	if acct != nil {
		actorName := s.displayName(ctx, actorID)
		s.sink.NotifyAccountMembers(ctx, acct.ID, notification.TypeTransactionEdited,
			fmt.Sprintf("Transaction updated in %s", acct.Name),
			fmt.Sprintf("%s updated %s: ₹%s - %s", actorName, strings.ToLower(string(updated.Type)), updated.Amount.StringFixed(2), transactionNote(updated)),
			actorID, &actorID, transactionPayload(updated))
	}

	return updated, nil
}

// Delete removes a transaction. Personal rows: creator only. Account
// rows: the delete capability. No notification is sent.
func (s *TransactionService) Delete(ctx context.Context, actorID, transactionID uuid.UUID) error {
	txn, err := s.storage.Transactions.FindByID(ctx, transactionID)
	if err != nil {
		return err
	}
	if err := s.visible(ctx, actorID, txn); err != nil {
		return err
	}

	if txn.AccountID == nil {
		if txn.UserID != actorID {
			return apperr.NotFound("transaction")
		}
	} else {
		acct, membership, err := s.accountAccess(ctx, actorID, *txn.AccountID)
		if err != nil {
			return err
		}
		if !Allowed(acct, membership, actorID, OpDeleteEntry) {
			return apperr.Permission("you do not have permission to delete this transaction")
		}
	}

	return s.storage.Transactions.Delete(ctx, transactionID)
}

// resolveScope turns a list query into the storage scope, denying
// out-of-set account requests with not-found.
func (s *TransactionService) resolveScope(ctx context.Context, actorID uuid.UUID, query *ListQuery) (transaction.Scope, error) {
	switch {
	case query.PersonalOnly:
		return transaction.Scope{Kind: transaction.ScopePersonal, UserID: actorID}, nil
	case query.AccountID != nil:
		if _, _, err := s.accountAccess(ctx, actorID, *query.AccountID); err != nil {
			return transaction.Scope{}, err
		}
		return transaction.Scope{Kind: transaction.ScopeAccount, UserID: actorID, AccountID: *query.AccountID}, nil
	default:
		ids, err := s.storage.Accounts.ListAccessibleIDs(ctx, actorID)
		if err != nil {
			return transaction.Scope{}, err
		}
		return transaction.Scope{Kind: transaction.ScopeAll, UserID: actorID, AccountIDs: ids}, nil
	}
}

// sanitizeFilter drops sort fields outside the whitelist rather than
// erroring, so a stale client keeps working on the default order.
func (s *TransactionService) sanitizeFilter(filter *transaction.Filter) *transaction.Filter {
	out := *filter
	if out.SortField != "" && !sortableFields[out.SortField] {
		logrus.WithField("sort", out.SortField).Warn("TransactionService.ignoring unknown sort field")
		out.SortField = ""
	}
	return &out
}

// visible checks a loaded row against the actor's visible set. Rows
// outside it report not-found, never forbidden.
func (s *TransactionService) visible(ctx context.Context, actorID uuid.UUID, txn *transaction.Transaction) error {
	if txn.AccountID == nil {
		if txn.UserID != actorID {
			return apperr.NotFound("transaction")
		}
		return nil
	}
	if _, _, err := s.accountAccess(ctx, actorID, *txn.AccountID); err != nil {
		if apperr.IsNotFound(err) {
			return apperr.NotFound("transaction")
		}
		return err
	}
	return nil
}

// accountAccess loads an account iff the actor is its owner or an
// accepted member, plus the actor's membership row when one exists.
func (s *TransactionService) accountAccess(ctx context.Context, actorID, accountID uuid.UUID) (*account.Account, *account.Member, error) {
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

func (s *TransactionService) validateFields(f *transaction.Fields) error {
	if f.Type != transaction.TypeIncome && f.Type != transaction.TypeExpense {
		return apperr.Validation("type", "type must be Income or Expense")
	}
	if !f.Amount.IsPositive() {
		return apperr.Validation("amount", "amount must be positive")
	}
	if f.Amount.Exponent() < -2 {
		return apperr.Validation("amount", "amount must have at most two decimal places")
	}
	if f.Amount.GreaterThan(maxAmount) {
		return apperr.Validation("amount", "amount must not exceed 1000000000.00")
	}

	now := time.Now()
	if f.Date.IsZero() {
		f.Date = now
	}
	if f.Time == "" {
		f.Time = now.Format("15:04:05")
	} else if _, err := time.Parse("15:04:05", f.Time); err != nil {
		return apperr.Validation("time", "time must be in HH:MM:SS format")
	}

	if f.RecurringFrequency != "" && !recurringFrequencies[f.RecurringFrequency] {
		return apperr.Validation("recurring_frequency", "recurring_frequency must be daily, weekly, monthly or yearly")
	}
	return nil
}

// displayName resolves a username for notification text, falling back to
// the raw id when the identity mirror has no row.
func (s *TransactionService) displayName(ctx context.Context, userID uuid.UUID) string {
	u, err := s.storage.Users.FindByID(ctx, userID)
	if err != nil {
		return userID.String()
	}
	return u.Username
}

// transactionNote picks the most descriptive short label available.
func transactionNote(txn *transaction.Transaction) string {
	switch {
	case txn.Remark != "":
		return txn.Remark
	case txn.Name != "":
		return txn.Name
	default:
		return txn.Category
	}
}

func transactionPayload(txn *transaction.Transaction) map[string]json.RawMessage {
	id, _ := json.Marshal(txn.ID.String())
	amount, _ := json.Marshal(txn.Amount.StringFixed(2))
	kind, _ := json.Marshal(string(txn.Type))
	return map[string]json.RawMessage{
		"transaction_id": id,
		"amount":         amount,
		"type":           kind,
	}
}
