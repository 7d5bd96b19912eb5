package notification

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/cashbook-server/internal/handlers/v1/httputil"
)

// MarkAllReadInput is the Huma input for marking all notifications read.
type MarkAllReadInput struct{}

// MarkAllReadResponseBody is the response body for marking all
// notifications read.
type MarkAllReadResponseBody struct {
	Updated int64 `json:"updated" doc:"Notifications newly marked read"`
}

// MarkAllReadOutput is the Huma output for marking all notifications
// read.
type MarkAllReadOutput struct {
	Body MarkAllReadResponseBody
}

// allReadMarker is the interface for marking all notifications read.
type allReadMarker interface {
	MarkAllRead(ctx context.Context, actorID uuid.UUID) (int64, error)
}

// MarkAllReadHandler handles POST /v1/notification/read-all.
type MarkAllReadHandler struct {
	NotificationService allReadMarker
}

// NewMarkAllReadHandler creates a new MarkAllReadHandler.
func NewMarkAllReadHandler(svc allReadMarker) *MarkAllReadHandler {
	return &MarkAllReadHandler{NotificationService: svc}
}

// Register registers the mark all read endpoint with the Huma API.
func (h *MarkAllReadHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "mark-all-notifications-read",
		Method:      http.MethodPost,
		Path:        "/v1/notification/read-all",
		Summary:     "Mark all notifications read",
		Description: "Marks every unread notification of the caller as read.",
		Tags:        []string{"Notifications"},
	}, h.handle)
}

func (h *MarkAllReadHandler) handle(ctx context.Context, _ *MarkAllReadInput) (*MarkAllReadOutput, error) {
	actorID, err := httputil.Actor(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := h.NotificationService.MarkAllRead(ctx, actorID)
	if err != nil {
		return nil, httputil.Translate(err, "failed to mark notifications read")
	}

	return &MarkAllReadOutput{Body: MarkAllReadResponseBody{Updated: updated}}, nil
}
