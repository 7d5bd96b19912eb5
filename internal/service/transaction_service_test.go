package service

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/cashbook-server/internal/apperr"
	"github.com/carson-networks/cashbook-server/internal/storage"
	"github.com/carson-networks/cashbook-server/internal/storage/account"
	"github.com/carson-networks/cashbook-server/internal/storage/notification"
	"github.com/carson-networks/cashbook-server/internal/storage/transaction"
	"github.com/carson-networks/cashbook-server/internal/storage/user"
)

type transactionTestMocks struct {
	accounts     *mockAccountTable
	members      *mockMemberTable
	users        *mockUserTable
	transactions *mockTransactionTable
	sink         *mockSink
}

func newTransactionTestService(t *testing.T) (*TransactionService, *transactionTestMocks) {
	t.Helper()
	m := &transactionTestMocks{
		accounts:     new(mockAccountTable),
		members:      new(mockMemberTable),
		users:        new(mockUserTable),
		transactions: new(mockTransactionTable),
		sink:         new(mockSink),
	}
	store := &storage.Storage{
		Accounts:     m.accounts,
		Members:      m.members,
		Users:        m.users,
		Transactions: m.transactions,
	}
	return NewTransactionService(store, m.sink), m
}

func validFields() transaction.Fields {
	return transaction.Fields{
		Type:     transaction.TypeExpense,
		Amount:   decimal.RequireFromString("120.50"),
		Category: "Groceries",
		Name:     "Weekly shop",
		Date:     time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC),
		Time:     "14:30:00",
	}
}

func makeTransaction(userID uuid.UUID, accountID *uuid.UUID, fields transaction.Fields) *transaction.Transaction {
	return &transaction.Transaction{
		ID:        uuid.Must(uuid.NewV4()),
		UserID:    userID,
		AccountID: accountID,
		Fields:    fields,
		CreatedAt: time.Date(2025, 8, 15, 14, 30, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 8, 15, 14, 30, 0, 0, time.UTC),
	}
}

// -- validation tests --

func TestCreate_RejectsNonPositiveAmount(t *testing.T) {
	svc, m := newTransactionTestService(t)
	actorID := uuid.Must(uuid.NewV4())

	for _, raw := range []string{"0", "-5.00"} {
		fields := validFields()
		fields.Amount = decimal.RequireFromString(raw)

		_, err := svc.Create(context.Background(), actorID, &transaction.Create{Fields: fields})

		assert.True(t, apperr.IsValidation(err), "amount %s", raw)
	}
	m.transactions.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreate_RejectsTooManyDecimalPlaces(t *testing.T) {
	svc, _ := newTransactionTestService(t)
	fields := validFields()
	fields.Amount = decimal.RequireFromString("10.555")

	_, err := svc.Create(context.Background(), uuid.Must(uuid.NewV4()), &transaction.Create{Fields: fields})

	assert.True(t, apperr.IsValidation(err))
	assert.Contains(t, err.Error(), "decimal places")
}

func TestCreate_AcceptsAmountBoundary(t *testing.T) {
	svc, m := newTransactionTestService(t)
	actorID := uuid.Must(uuid.NewV4())
	fields := validFields()
	fields.Amount = decimal.RequireFromString("1000000000.00")

	m.transactions.On("Insert", mock.Anything, mock.Anything).
		Return(makeTransaction(actorID, nil, fields), nil)

	_, err := svc.Create(context.Background(), actorID, &transaction.Create{Fields: fields})

	assert.NoError(t, err)
}

func TestCreate_RejectsAmountOverCap(t *testing.T) {
	svc, _ := newTransactionTestService(t)
	fields := validFields()
	fields.Amount = decimal.RequireFromString("1000000000.01")

	_, err := svc.Create(context.Background(), uuid.Must(uuid.NewV4()), &transaction.Create{Fields: fields})

	assert.True(t, apperr.IsValidation(err))
}

func TestCreate_RejectsBadType(t *testing.T) {
	svc, _ := newTransactionTestService(t)
	fields := validFields()
	fields.Type = transaction.Type("Transfer")

	_, err := svc.Create(context.Background(), uuid.Must(uuid.NewV4()), &transaction.Create{Fields: fields})

	assert.True(t, apperr.IsValidation(err))
}

func TestCreate_RejectsBadTime(t *testing.T) {
	svc, _ := newTransactionTestService(t)
	fields := validFields()
	fields.Time = "half past two"

	_, err := svc.Create(context.Background(), uuid.Must(uuid.NewV4()), &transaction.Create{Fields: fields})

	assert.True(t, apperr.IsValidation(err))
}

func TestCreate_RejectsBadRecurringFrequency(t *testing.T) {
	svc, _ := newTransactionTestService(t)
	fields := validFields()
	fields.Recurring = true
	fields.RecurringFrequency = "fortnightly"

	_, err := svc.Create(context.Background(), uuid.Must(uuid.NewV4()), &transaction.Create{Fields: fields})

	assert.True(t, apperr.IsValidation(err))
}

func TestCreate_DefaultsDateAndTime(t *testing.T) {
	svc, m := newTransactionTestService(t)
	actorID := uuid.Must(uuid.NewV4())
	fields := validFields()
	fields.Date = time.Time{}
	fields.Time = ""

	m.transactions.On("Insert", mock.Anything, mock.MatchedBy(func(c *transaction.Create) bool {
		return !c.Date.IsZero() && c.Time != "" && c.UserID == actorID
	})).Return(makeTransaction(actorID, nil, validFields()), nil)

	_, err := svc.Create(context.Background(), actorID, &transaction.Create{Fields: fields})

	assert.NoError(t, err)
	m.transactions.AssertExpectations(t)
}

// -- Create tests --

func TestCreate_PersonalTransaction_NoNotification(t *testing.T) {
	svc, m := newTransactionTestService(t)
	actorID := uuid.Must(uuid.NewV4())
	created := makeTransaction(actorID, nil, validFields())

	m.transactions.On("Insert", mock.Anything, mock.Anything).Return(created, nil)

	txn, err := svc.Create(context.Background(), actorID, &transaction.Create{Fields: validFields()})

	assert.NoError(t, err)
	assert.Equal(t, created, txn)
	m.sink.AssertNotCalled(t, "NotifyAccountMembers",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_AccountTransaction_NotifiesOtherMembers(t *testing.T) {
	svc, m := newTransactionTestService(t)
	ownerID := uuid.Must(uuid.NewV4())
	acct := makeAccount(ownerID, account.KindShared)
	created := makeTransaction(ownerID, &acct.ID, validFields())

	m.accounts.On("FindByID", mock.Anything, acct.ID).Return(acct, nil)
	m.members.On("FindByAccountAndUser", mock.Anything, acct.ID, ownerID).
		Return(nil, apperr.NotFound("member"))
	m.transactions.On("Insert", mock.Anything, mock.MatchedBy(func(c *transaction.Create) bool {
		return c.UserID == ownerID && c.AccountID != nil && *c.AccountID == acct.ID
	})).Return(created, nil)
	m.users.On("FindByID", mock.Anything, ownerID).
		Return(&user.User{ID: ownerID, Username: "arun"}, nil)
	m.sink.On("NotifyAccountMembers", mock.Anything, acct.ID, notification.TypeTransactionAdded,
		"New expense in Household", "arun added expense: ₹120.50 - Weekly shop",
		ownerID, &ownerID, mock.Anything).Return(1)

	_, err := svc.Create(context.Background(), ownerID, &transaction.Create{
		AccountID: &acct.ID,
		Fields:    validFields(),
	})

	assert.NoError(t, err)
	m.sink.AssertExpectations(t)
}

func TestCreate_WithoutAddPermissionForbidden(t *testing.T) {
	svc, m := newTransactionTestService(t)
	acct := makeAccount(uuid.Must(uuid.NewV4()), account.KindShared)
	memberID := uuid.Must(uuid.NewV4())
	flags := DefaultMemberFlags()
	flags.CanAddEntry = false

	m.accounts.On("FindByID", mock.Anything, acct.ID).Return(acct, nil)
	m.members.On("FindByAccountAndUser", mock.Anything, acct.ID, memberID).
		Return(makeMember(acct.ID, memberID, account.StatusAccepted, flags), nil)

	_, err := svc.Create(context.Background(), memberID, &transaction.Create{
		AccountID: &acct.ID,
		Fields:    validFields(),
	})

	assert.True(t, apperr.IsPermission(err))
	m.transactions.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreate_StrangerAccountLooksAbsent(t *testing.T) {
	svc, m := newTransactionTestService(t)
	acct := makeAccount(uuid.Must(uuid.NewV4()), account.KindShared)
	stranger := uuid.Must(uuid.NewV4())

	m.accounts.On("FindByID", mock.Anything, acct.ID).Return(acct, nil)
	m.members.On("FindByAccountAndUser", mock.Anything, acct.ID, stranger).
		Return(nil, apperr.NotFound("member"))

	_, err := svc.Create(context.Background(), stranger, &transaction.Create{
		AccountID: &acct.ID,
		Fields:    validFields(),
	})

	assert.True(t, apperr.IsNotFound(err))
}

func TestCreate_PersonalKindAccountRejected(t *testing.T) {
	svc, m := newTransactionTestService(t)
	ownerID := uuid.Must(uuid.NewV4())
	acct := makeAccount(ownerID, account.KindPersonal)

	m.accounts.On("FindByID", mock.Anything, acct.ID).Return(acct, nil)
	m.members.On("FindByAccountAndUser", mock.Anything, acct.ID, ownerID).
		Return(nil, apperr.NotFound("member"))

	// Even the owner cannot attach transactions to a PERSONAL-kind account.
	_, err := svc.Create(context.Background(), ownerID, &transaction.Create{
		AccountID: &acct.ID,
		Fields:    validFields(),
	})

	assert.True(t, apperr.IsValidation(err))
	m.transactions.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

// -- Get visibility tests --

func TestGet_PersonalOfOtherUserNotFound(t *testing.T) {
	svc, m := newTransactionTestService(t)
	other := makeTransaction(uuid.Must(uuid.NewV4()), nil, validFields())

	m.transactions.On("FindByID", mock.Anything, other.ID).Return(other, nil)

	_, err := svc.Get(context.Background(), uuid.Must(uuid.NewV4()), other.ID)

	assert.True(t, apperr.IsNotFound(err))
}

func TestGet_AccountRowVisibleToAnyAcceptedMember(t *testing.T) {
	svc, m := newTransactionTestService(t)
	ownerID := uuid.Must(uuid.NewV4())
	acct := makeAccount(ownerID, account.KindShared)
	memberID := uuid.Must(uuid.NewV4())
	txn := makeTransaction(ownerID, &acct.ID, validFields())

	m.transactions.On("FindByID", mock.Anything, txn.ID).Return(txn, nil)
	m.accounts.On("FindByID", mock.Anything, acct.ID).Return(acct, nil)
	m.members.On("FindByAccountAndUser", mock.Anything, acct.ID, memberID).
		Return(makeMember(acct.ID, memberID, account.StatusAccepted, DefaultMemberFlags()), nil)

	got, err := svc.Get(context.Background(), memberID, txn.ID)

	assert.NoError(t, err)
	assert.Equal(t, txn, got)
}

// -- Update tests --

func TestUpdate_CreatorWithEditOwnAllowed(t *testing.T) {
	svc, m := newTransactionTestService(t)
	acct := makeAccount(uuid.Must(uuid.NewV4()), account.KindShared)
	creatorID := uuid.Must(uuid.NewV4())
	txn := makeTransaction(creatorID, &acct.ID, validFields())

	fields := validFields()
	fields.Amount = decimal.RequireFromString("99.00")
	updated := makeTransaction(creatorID, &acct.ID, fields)
	updated.ID = txn.ID

	m.transactions.On("FindByID", mock.Anything, txn.ID).Return(txn, nil)
	m.accounts.On("FindByID", mock.Anything, acct.ID).Return(acct, nil)
	m.members.On("FindByAccountAndUser", mock.Anything, acct.ID, creatorID).
		Return(makeMember(acct.ID, creatorID, account.StatusAccepted, DefaultMemberFlags()), nil)
	m.transactions.On("Update", mock.Anything, txn.ID, &fields).Return(updated, nil)
	m.users.On("FindByID", mock.Anything, creatorID).
		Return(&user.User{ID: creatorID, Username: "priya"}, nil)
	m.sink.On("NotifyAccountMembers", mock.Anything, acct.ID, notification.TypeTransactionEdited,
		"Transaction updated in Household", mock.Anything,
		creatorID, &creatorID, mock.Anything).Return(1)

	got, err := svc.Update(context.Background(), creatorID, txn.ID, &fields)

	assert.NoError(t, err)
	assert.True(t, got.Amount.Equal(fields.Amount))
	m.sink.AssertExpectations(t)
}

func TestUpdate_NonCreatorWithoutEditAllForbidden(t *testing.T) {
	svc, m := newTransactionTestService(t)
	acct := makeAccount(uuid.Must(uuid.NewV4()), account.KindShared)
	txn := makeTransaction(uuid.Must(uuid.NewV4()), &acct.ID, validFields())
	editorID := uuid.Must(uuid.NewV4())

	m.transactions.On("FindByID", mock.Anything, txn.ID).Return(txn, nil)
	m.accounts.On("FindByID", mock.Anything, acct.ID).Return(acct, nil)
	m.members.On("FindByAccountAndUser", mock.Anything, acct.ID, editorID).
		Return(makeMember(acct.ID, editorID, account.StatusAccepted, DefaultMemberFlags()), nil)

	fields := validFields()
	_, err := svc.Update(context.Background(), editorID, txn.ID, &fields)

	assert.True(t, apperr.IsPermission(err))
	m.transactions.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_NonCreatorWithEditAllAllowed(t *testing.T) {
	svc, m := newTransactionTestService(t)
	acct := makeAccount(uuid.Must(uuid.NewV4()), account.KindShared)
	txn := makeTransaction(uuid.Must(uuid.NewV4()), &acct.ID, validFields())
	editorID := uuid.Must(uuid.NewV4())
	flags := DefaultMemberFlags()
	flags.CanEditAllEntries = true

	fields := validFields()
	updated := makeTransaction(txn.UserID, &acct.ID, fields)
	updated.ID = txn.ID

	m.transactions.On("FindByID", mock.Anything, txn.ID).Return(txn, nil)
	m.accounts.On("FindByID", mock.Anything, acct.ID).Return(acct, nil)
	m.members.On("FindByAccountAndUser", mock.Anything, acct.ID, editorID).
		Return(makeMember(acct.ID, editorID, account.StatusAccepted, flags), nil)
	m.transactions.On("Update", mock.Anything, txn.ID, &fields).Return(updated, nil)
	m.users.On("FindByID", mock.Anything, editorID).
		Return(&user.User{ID: editorID, Username: "dev"}, nil)
	m.sink.On("NotifyAccountMembers", mock.Anything, acct.ID, notification.TypeTransactionEdited,
		mock.Anything, mock.Anything, editorID, &editorID, mock.Anything).Return(2)

	_, err := svc.Update(context.Background(), editorID, txn.ID, &fields)

	assert.NoError(t, err)
}

func TestUpdate_CreatorWithoutEditOwnForbidden(t *testing.T) {
	svc, m := newTransactionTestService(t)
	acct := makeAccount(uuid.Must(uuid.NewV4()), account.KindShared)
	creatorID := uuid.Must(uuid.NewV4())
	txn := makeTransaction(creatorID, &acct.ID, validFields())
	flags := DefaultMemberFlags()
	flags.CanEditOwnEntry = false
	flags.CanEditAllEntries = true

	m.transactions.On("FindByID", mock.Anything, txn.ID).Return(txn, nil)
	m.accounts.On("FindByID", mock.Anything, acct.ID).Return(acct, nil)
	m.members.On("FindByAccountAndUser", mock.Anything, acct.ID, creatorID).
		Return(makeMember(acct.ID, creatorID, account.StatusAccepted, flags), nil)

	fields := validFields()
	// Own rows are gated on edit-own alone; edit-all does not stand in for it.
	_, err := svc.Update(context.Background(), creatorID, txn.ID, &fields)

	assert.True(t, apperr.IsPermission(err))
	m.transactions.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	m.sink.AssertNotCalled(t, "NotifyAccountMembers",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// -- Delete tests --

func TestDelete_WithoutDeletePermissionForbidden(t *testing.T) {
	svc, m := newTransactionTestService(t)
	acct := makeAccount(uuid.Must(uuid.NewV4()), account.KindShared)
	memberID := uuid.Must(uuid.NewV4())
	txn := makeTransaction(memberID, &acct.ID, validFields())

	m.transactions.On("FindByID", mock.Anything, txn.ID).Return(txn, nil)
	m.accounts.On("FindByID", mock.Anything, acct.ID).Return(acct, nil)
	m.members.On("FindByAccountAndUser", mock.Anything, acct.ID, memberID).
		Return(makeMember(acct.ID, memberID, account.StatusAccepted, DefaultMemberFlags()), nil)

	err := svc.Delete(context.Background(), memberID, txn.ID)

	// Default member flags do not include delete, even on own rows.
	assert.True(t, apperr.IsPermission(err))
	m.transactions.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDelete_PersonalByCreator_NoNotification(t *testing.T) {
	svc, m := newTransactionTestService(t)
	actorID := uuid.Must(uuid.NewV4())
	txn := makeTransaction(actorID, nil, validFields())

	m.transactions.On("FindByID", mock.Anything, txn.ID).Return(txn, nil)
	m.transactions.On("Delete", mock.Anything, txn.ID).Return(nil)

	err := svc.Delete(context.Background(), actorID, txn.ID)

	assert.NoError(t, err)
	m.sink.AssertNotCalled(t, "NotifyAccountMembers",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// -- scope resolution tests --

func TestList_DefaultScopeCoversAccessibleAccounts(t *testing.T) {
	svc, m := newTransactionTestService(t)
	actorID := uuid.Must(uuid.NewV4())
	accountIDs := []uuid.UUID{uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())}

	m.accounts.On("ListAccessibleIDs", mock.Anything, actorID).Return(accountIDs, nil)
	m.transactions.On("List", mock.Anything, mock.MatchedBy(func(s transaction.Scope) bool {
		return s.Kind == transaction.ScopeAll && s.UserID == actorID && len(s.AccountIDs) == 2
	}), mock.Anything).Return([]*transaction.Transaction{}, nil)

	_, err := svc.List(context.Background(), actorID, &ListQuery{})

	assert.NoError(t, err)
	m.transactions.AssertExpectations(t)
}

func TestList_PersonalScope(t *testing.T) {
	svc, m := newTransactionTestService(t)
	actorID := uuid.Must(uuid.NewV4())

	m.transactions.On("List", mock.Anything, mock.MatchedBy(func(s transaction.Scope) bool {
		return s.Kind == transaction.ScopePersonal && s.UserID == actorID
	}), mock.Anything).Return([]*transaction.Transaction{}, nil)

	_, err := svc.List(context.Background(), actorID, &ListQuery{PersonalOnly: true})

	assert.NoError(t, err)
	m.accounts.AssertNotCalled(t, "ListAccessibleIDs", mock.Anything, mock.Anything)
}

func TestList_AccountScopeRequiresAccess(t *testing.T) {
	svc, m := newTransactionTestService(t)
	acct := makeAccount(uuid.Must(uuid.NewV4()), account.KindShared)
	stranger := uuid.Must(uuid.NewV4())

	m.accounts.On("FindByID", mock.Anything, acct.ID).Return(acct, nil)
	m.members.On("FindByAccountAndUser", mock.Anything, acct.ID, stranger).
		Return(nil, apperr.NotFound("member"))

	_, err := svc.List(context.Background(), stranger, &ListQuery{AccountID: &acct.ID})

	assert.True(t, apperr.IsNotFound(err))
	m.transactions.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestList_UnknownSortFieldDropped(t *testing.T) {
	svc, m := newTransactionTestService(t)
	actorID := uuid.Must(uuid.NewV4())

	m.accounts.On("ListAccessibleIDs", mock.Anything, actorID).Return([]uuid.UUID{}, nil)
	m.transactions.On("List", mock.Anything, mock.Anything, mock.MatchedBy(func(f *transaction.Filter) bool {
		return f.SortField == ""
	})).Return([]*transaction.Transaction{}, nil)

	_, err := svc.List(context.Background(), actorID, &ListQuery{
		Filter: transaction.Filter{SortField: "amount; DROP TABLE transactions"},
	})

	assert.NoError(t, err)
	m.transactions.AssertExpectations(t)
}

func TestSummary_PassesScopeAndFilter(t *testing.T) {
	svc, m := newTransactionTestService(t)
	ownerID := uuid.Must(uuid.NewV4())
	acct := makeAccount(ownerID, account.KindShared)
	expected := &transaction.Summary{
		TotalIncome:      decimal.RequireFromString("500.00"),
		TotalExpense:     decimal.RequireFromString("120.50"),
		NetTotal:         decimal.RequireFromString("379.50"),
		TransactionCount: 3,
		IncomeCount:      1,
		ExpenseCount:     2,
	}

	m.accounts.On("FindByID", mock.Anything, acct.ID).Return(acct, nil)
	m.members.On("FindByAccountAndUser", mock.Anything, acct.ID, ownerID).
		Return(nil, apperr.NotFound("member"))
	m.transactions.On("Summarize", mock.Anything, mock.MatchedBy(func(s transaction.Scope) bool {
		return s.Kind == transaction.ScopeAccount && s.AccountID == acct.ID
	}), mock.Anything).Return(expected, nil)

	summary, err := svc.Summary(context.Background(), ownerID, &ListQuery{AccountID: &acct.ID})

	assert.NoError(t, err)
	assert.Equal(t, expected, summary)
}
