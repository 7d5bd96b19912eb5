package notification

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/cashbook-server/internal/handlers/v1/httputil"
	store "github.com/carson-networks/cashbook-server/internal/storage/notification"
)

// SetReadBody is the request body for marking a notification read or
// unread.
type SetReadBody struct {
	Read bool `json:"read" doc:"New read state"`
}

// SetReadInput is the Huma input for marking a notification read or
// unread.
type SetReadInput struct {
	NotificationID string `path:"notificationID" doc:"Notification UUID"`
	Body           SetReadBody
}

// SetReadOutput is the Huma output for marking a notification read or
// unread.
type SetReadOutput struct {
	Body Notification
}

// readSetter is the interface for flipping a notification's read state.
type readSetter interface {
	SetRead(ctx context.Context, actorID, notificationID uuid.UUID, read bool) (*store.Notification, error)
}

// SetReadHandler handles PATCH /v1/notification/{notificationID}/read.
type SetReadHandler struct {
	NotificationService readSetter
}

// NewSetReadHandler creates a new SetReadHandler.
func NewSetReadHandler(svc readSetter) *SetReadHandler {
	return &SetReadHandler{NotificationService: svc}
}

// Register registers the set read endpoint with the Huma API.
func (h *SetReadHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "set-notification-read",
		Method:      http.MethodPatch,
		Path:        "/v1/notification/{notificationID}/read",
		Summary:     "Mark notification read or unread",
		Description: "Flips the read state of one of the caller's notifications.",
		Tags:        []string{"Notifications"},
	}, h.handle)
}

func (h *SetReadHandler) handle(ctx context.Context, input *SetReadInput) (*SetReadOutput, error) {
	actorID, err := httputil.Actor(ctx)
	if err != nil {
		return nil, err
	}
	notificationID, err := httputil.ParseUUID("notificationID", input.NotificationID)
	if err != nil {
		return nil, err
	}

	updated, err := h.NotificationService.SetRead(ctx, actorID, notificationID, input.Body.Read)
	if err != nil {
		return nil, httputil.Translate(err, "failed to update notification")
	}

	return &SetReadOutput{Body: fromNotification(updated)}, nil
}
