package service

import (
	"github.com/carson-networks/cashbook-server/internal/storage"
)

// Service bundles the business-logic layer. The notification service is
// built first and injected into the others as their fan-out sink.
type Service struct {
	Accounts      *AccountService
	Transactions  *TransactionService
	Notifications *NotificationService
}

// NewService creates the service layer on top of a storage instance.
func NewService(store *storage.Storage) *Service {
	notifications := NewNotificationService(store)
	return &Service{
		Accounts:      NewAccountService(store, notifications),
		Transactions:  NewTransactionService(store, notifications),
		Notifications: notifications,
	}
}
