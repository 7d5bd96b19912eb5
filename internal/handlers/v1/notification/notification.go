package notification

import (
	"encoding/json"
	"time"

	store "github.com/carson-networks/cashbook-server/internal/storage/notification"
)

// Notification is the API response model for a notification.
type Notification struct {
	ID          string                     `json:"id" doc:"Notification UUID"`
	Type        string                     `json:"type" doc:"Event kind"`
	Title       string                     `json:"title" doc:"Short title"`
	Message     string                     `json:"message" doc:"Human-readable message"`
	AccountID   string                     `json:"accountID,omitempty" doc:"Related account UUID"`
	TriggeredBy string                     `json:"triggeredBy,omitempty" doc:"Acting user UUID"`
	Read        bool                       `json:"read" doc:"Whether the recipient has read it"`
	ReadAt      string                     `json:"readAt,omitempty" doc:"RFC3339 read time"`
	Data        map[string]json.RawMessage `json:"data,omitempty" doc:"Opaque structured payload"`
	CreatedAt   string                     `json:"createdAt" doc:"RFC3339 creation time"`
}

func fromNotification(n *store.Notification) Notification {
	out := Notification{
		ID:        n.ID.String(),
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read,
		Data:      n.Data,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
	if n.AccountID != nil {
		out.AccountID = n.AccountID.String()
	}
	if n.TriggeredBy != nil {
		out.TriggeredBy = n.TriggeredBy.String()
	}
	if n.ReadAt != nil {
		out.ReadAt = n.ReadAt.Format(time.RFC3339)
	}
	return out
}
