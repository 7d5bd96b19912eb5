package notification

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/cashbook-server/internal/handlers/v1/httputil"
	"github.com/carson-networks/cashbook-server/internal/logging"
	store "github.com/carson-networks/cashbook-server/internal/storage/notification"
)

// ListNotificationsInput is the Huma input for listing notifications.
type ListNotificationsInput struct {
	Read      string `query:"read" enum:"true,false," doc:"Restrict to read or unread notifications"`
	Type      string `query:"type" doc:"Restrict to one event kind"`
	AccountID string `query:"accountID" doc:"Restrict to one account"`
}

// ListNotificationsResponseBody is the response body for listing
// notifications.
type ListNotificationsResponseBody struct {
	Notifications []Notification `json:"notifications" doc:"The caller's notifications, newest first"`
}

// ListNotificationsOutput is the Huma output for listing notifications.
type ListNotificationsOutput struct {
	Body ListNotificationsResponseBody
}

// notificationLister is the interface for listing notifications.
type notificationLister interface {
	List(ctx context.Context, actorID uuid.UUID, filter *store.Filter) ([]*store.Notification, error)
}

// ListNotificationsHandler handles GET /v1/notification.
type ListNotificationsHandler struct {
	NotificationService notificationLister
}

// NewListNotificationsHandler creates a new ListNotificationsHandler.
func NewListNotificationsHandler(svc notificationLister) *ListNotificationsHandler {
	return &ListNotificationsHandler{NotificationService: svc}
}

// Register registers the list notifications endpoint with the Huma API.
func (h *ListNotificationsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-notifications",
		Method:      http.MethodGet,
		Path:        "/v1/notification",
		Summary:     "List notifications",
		Description: "Returns the caller's notifications, newest first.",
		Tags:        []string{"Notifications"},
	}, h.handle)
}

func (h *ListNotificationsHandler) handle(ctx context.Context, input *ListNotificationsInput) (*ListNotificationsOutput, error) {
	actorID, err := httputil.Actor(ctx)
	if err != nil {
		return nil, err
	}

	filter := &store.Filter{Type: input.Type}
	if input.Read != "" {
		read := input.Read == "true"
		filter.Read = &read
	}
	if input.AccountID != "" {
		accountID, err := httputil.ParseUUID("accountID", input.AccountID)
		if err != nil {
			return nil, err
		}
		filter.AccountID = &accountID
	}

	notifications, err := h.NotificationService.List(ctx, actorID, filter)
	if err != nil {
		return nil, httputil.Translate(err, "failed to list notifications")
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("notificationCount", len(notifications))
	}

	resp := ListNotificationsResponseBody{Notifications: make([]Notification, len(notifications))}
	for i, n := range notifications {
		resp.Notifications[i] = fromNotification(n)
	}

	return &ListNotificationsOutput{Body: resp}, nil
}
