package service

import (
	"context"
	"encoding/json"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/cashbook-server/internal/storage"
	"github.com/carson-networks/cashbook-server/internal/storage/notification"
)

// NotificationSink receives domain events after a successful write. It is
// best-effort by contract: implementations log failures and never report
// them back, so a notification problem can never fail the write that
// triggered it.
type NotificationSink interface {
	Notify(ctx context.Context, create *notification.Create)
	NotifyAccountMembers(ctx context.Context, accountID uuid.UUID, eventType, title, message string,
		triggeredBy uuid.UUID, excludeUser *uuid.UUID, data map[string]json.RawMessage) int
}

// NotificationService implements NotificationSink and the recipient-facing
// read operations.
type NotificationService struct {
	storage *storage.Storage
}

var _ NotificationSink = (*NotificationService)(nil)

// NewNotificationService creates a new NotificationService.
func NewNotificationService(store *storage.Storage) *NotificationService {
	return &NotificationService{storage: store}
}

// Notify creates a single notification, logging and swallowing any error.
func (s *NotificationService) Notify(ctx context.Context, create *notification.Create) {
	if _, err := s.storage.Notifications.Insert(ctx, create); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"recipient": create.UserID,
			"type":      create.Type,
		}).Error("NotificationService.Notify.insert failed")
	}
}

// NotifyAccountMembers fans an event out to every ACCEPTED member of the
// account except excludeUser. All rows go in one batch insert; zero
// recipients is not an error. Returns the number of rows created.
func (s *NotificationService) NotifyAccountMembers(ctx context.Context, accountID uuid.UUID,
	eventType, title, message string, triggeredBy uuid.UUID, excludeUser *uuid.UUID,
	data map[string]json.RawMessage) int {

	members, err := s.storage.Members.ListAccepted(ctx, accountID)
	if err != nil {
		logrus.WithError(err).WithField("account", accountID).
			Error("NotificationService.NotifyAccountMembers.list members failed")
		return 0
	}

	trigger := triggeredBy
	var creates []*notification.Create
	for _, member := range members {
		if excludeUser != nil && member.UserID == *excludeUser {
			continue
		}
		acct := accountID
		creates = append(creates, &notification.Create{
			UserID:      member.UserID,
			Type:        eventType,
			Title:       title,
			Message:     message,
			AccountID:   &acct,
			TriggeredBy: &trigger,
			Data:        data,
		})
	}

	if len(creates) == 0 {
		return 0
	}

	count, err := s.storage.Notifications.InsertBatch(ctx, creates)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"account":    accountID,
			"type":       eventType,
			"recipients": len(creates),
		}).Error("NotificationService.NotifyAccountMembers.batch insert failed")
		return 0
	}
	return count
}

// List returns the actor's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, actorID uuid.UUID, filter *notification.Filter) ([]*notification.Notification, error) {
	return s.storage.Notifications.ListByUser(ctx, actorID, filter)
}

// SetRead marks one of the actor's notifications read or unread.
func (s *NotificationService) SetRead(ctx context.Context, actorID, notificationID uuid.UUID, read bool) (*notification.Notification, error) {
	return s.storage.Notifications.SetRead(ctx, notificationID, actorID, read)
}

// MarkAllRead marks every unread notification of the actor read and
// returns how many were affected.
func (s *NotificationService) MarkAllRead(ctx context.Context, actorID uuid.UUID) (int64, error) {
	return s.storage.Notifications.MarkAllRead(ctx, actorID)
}

// UnreadCount returns the number of unread notifications for the actor.
func (s *NotificationService) UnreadCount(ctx context.Context, actorID uuid.UUID) (int64, error) {
	return s.storage.Notifications.CountUnread(ctx, actorID)
}
