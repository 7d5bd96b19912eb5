package notification

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/cashbook-server/internal/handlers/v1/httputil"
)

// UnreadCountInput is the Huma input for counting unread notifications.
type UnreadCountInput struct{}

// UnreadCountResponseBody is the response body for counting unread
// notifications.
type UnreadCountResponseBody struct {
	Unread int64 `json:"unread" doc:"Unread notifications of the caller"`
}

// UnreadCountOutput is the Huma output for counting unread
// notifications.
type UnreadCountOutput struct {
	Body UnreadCountResponseBody
}

// unreadCounter is the interface for counting unread notifications.
type unreadCounter interface {
	UnreadCount(ctx context.Context, actorID uuid.UUID) (int64, error)
}

// UnreadCountHandler handles GET /v1/notification/unread-count.
type UnreadCountHandler struct {
	NotificationService unreadCounter
}

// NewUnreadCountHandler creates a new UnreadCountHandler.
func NewUnreadCountHandler(svc unreadCounter) *UnreadCountHandler {
	return &UnreadCountHandler{NotificationService: svc}
}

// Register registers the unread count endpoint with the Huma API.
func (h *UnreadCountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "unread-notification-count",
		Method:      http.MethodGet,
		Path:        "/v1/notification/unread-count",
		Summary:     "Unread notification count",
		Description: "Returns how many unread notifications the caller has.",
		Tags:        []string{"Notifications"},
	}, h.handle)
}

func (h *UnreadCountHandler) handle(ctx context.Context, _ *UnreadCountInput) (*UnreadCountOutput, error) {
	actorID, err := httputil.Actor(ctx)
	if err != nil {
		return nil, err
	}

	unread, err := h.NotificationService.UnreadCount(ctx, actorID)
	if err != nil {
		return nil, httputil.Translate(err, "failed to count notifications")
	}

	return &UnreadCountOutput{Body: UnreadCountResponseBody{Unread: unread}}, nil
}
