package service

import (
	"context"
	"encoding/json"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/cashbook-server/internal/storage/account"
	"github.com/carson-networks/cashbook-server/internal/storage/notification"
	"github.com/carson-networks/cashbook-server/internal/storage/transaction"
	"github.com/carson-networks/cashbook-server/internal/storage/user"
)

// mockAccountTable is a mock for account.ITable.
type mockAccountTable struct {
	mock.Mock
}

func (m *mockAccountTable) FindByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *mockAccountTable) InsertWithOwner(ctx context.Context, create *account.AccountCreate) (*account.Account, error) {
	args := m.Called(ctx, create)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *mockAccountTable) ListAccessible(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.Account), args.Error(1)
}

func (m *mockAccountTable) ListAccessibleIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *mockAccountTable) Update(ctx context.Context, id uuid.UUID, update *account.AccountUpdate) (*account.Account, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *mockAccountTable) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockAccountTable) TransferOwnership(ctx context.Context, accountID, oldOwnerID, newOwnerID uuid.UUID) error {
	args := m.Called(ctx, accountID, oldOwnerID, newOwnerID)
	return args.Error(0)
}

// mockMemberTable is a mock for account.IMemberTable.
type mockMemberTable struct {
	mock.Mock
}

func (m *mockMemberTable) FindByID(ctx context.Context, id uuid.UUID) (*account.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Member), args.Error(1)
}

func (m *mockMemberTable) FindByAccountAndUser(ctx context.Context, accountID, userID uuid.UUID) (*account.Member, error) {
	args := m.Called(ctx, accountID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Member), args.Error(1)
}

func (m *mockMemberTable) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*account.Member, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.Member), args.Error(1)
}

func (m *mockMemberTable) ListAccepted(ctx context.Context, accountID uuid.UUID) ([]*account.Member, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.Member), args.Error(1)
}

func (m *mockMemberTable) ListPendingByUser(ctx context.Context, userID uuid.UUID) ([]*account.Member, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.Member), args.Error(1)
}

func (m *mockMemberTable) InsertPending(ctx context.Context, create *account.MemberCreate) (*account.Member, error) {
	args := m.Called(ctx, create)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Member), args.Error(1)
}

func (m *mockMemberTable) Reinvite(ctx context.Context, id, invitedBy uuid.UUID, flags account.Flags) (*account.Member, error) {
	args := m.Called(ctx, id, invitedBy, flags)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Member), args.Error(1)
}

func (m *mockMemberTable) Accept(ctx context.Context, id, userID uuid.UUID) (*account.Member, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Member), args.Error(1)
}

func (m *mockMemberTable) Reject(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *mockMemberTable) UpdateFlags(ctx context.Context, id uuid.UUID, flags account.Flags) (*account.Member, error) {
	args := m.Called(ctx, id, flags)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Member), args.Error(1)
}

func (m *mockMemberTable) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// mockUserTable is a mock for user.ITable.
type mockUserTable struct {
	mock.Mock
}

func (m *mockUserTable) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserTable) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserTable) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

// mockTransactionTable is a mock for transaction.ITable.
type mockTransactionTable struct {
	mock.Mock
}

func (m *mockTransactionTable) FindByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *mockTransactionTable) Insert(ctx context.Context, create *transaction.Create) (*transaction.Transaction, error) {
	args := m.Called(ctx, create)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *mockTransactionTable) Update(ctx context.Context, id uuid.UUID, fields *transaction.Fields) (*transaction.Transaction, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *mockTransactionTable) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockTransactionTable) List(ctx context.Context, scope transaction.Scope, filter *transaction.Filter) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, scope, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

func (m *mockTransactionTable) Summarize(ctx context.Context, scope transaction.Scope, filter *transaction.Filter) (*transaction.Summary, error) {
	args := m.Called(ctx, scope, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Summary), args.Error(1)
}

// mockNotificationTable is a mock for notification.ITable.
type mockNotificationTable struct {
	mock.Mock
}

func (m *mockNotificationTable) Insert(ctx context.Context, create *notification.Create) (*notification.Notification, error) {
	args := m.Called(ctx, create)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *mockNotificationTable) InsertBatch(ctx context.Context, creates []*notification.Create) (int, error) {
	args := m.Called(ctx, creates)
	return args.Int(0), args.Error(1)
}

func (m *mockNotificationTable) ListByUser(ctx context.Context, userID uuid.UUID, filter *notification.Filter) ([]*notification.Notification, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*notification.Notification), args.Error(1)
}

func (m *mockNotificationTable) SetRead(ctx context.Context, id, userID uuid.UUID, read bool) (*notification.Notification, error) {
	args := m.Called(ctx, id, userID, read)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *mockNotificationTable) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationTable) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// mockSink is a mock for NotificationSink.
type mockSink struct {
	mock.Mock
}

func (m *mockSink) Notify(ctx context.Context, create *notification.Create) {
	m.Called(ctx, create)
}

func (m *mockSink) NotifyAccountMembers(ctx context.Context, accountID uuid.UUID, eventType, title, message string,
	triggeredBy uuid.UUID, excludeUser *uuid.UUID, data map[string]json.RawMessage) int {
	args := m.Called(ctx, accountID, eventType, title, message, triggeredBy, excludeUser, data)
	return args.Int(0)
}
