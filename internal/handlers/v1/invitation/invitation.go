package invitation

import (
	"time"

	store "github.com/carson-networks/cashbook-server/internal/storage/account"
)

// Invitation is the API response model for a membership row seen from the
// invitee's side.
type Invitation struct {
	ID         string `json:"id" doc:"Membership UUID"`
	AccountID  string `json:"accountID" doc:"Account UUID"`
	Status     string `json:"status" doc:"PENDING, ACCEPTED or REJECTED"`
	InvitedBy  string `json:"invitedBy,omitempty" doc:"Inviter user UUID"`
	InvitedAt  string `json:"invitedAt" doc:"RFC3339 invitation time"`
	AcceptedAt string `json:"acceptedAt,omitempty" doc:"RFC3339 acceptance time"`
}

func fromMember(m *store.Member) Invitation {
	out := Invitation{
		ID:        m.ID.String(),
		AccountID: m.AccountID.String(),
		Status:    string(m.Status),
		InvitedAt: m.InvitedAt.Format(time.RFC3339),
	}
	if m.InvitedBy != nil {
		out.InvitedBy = m.InvitedBy.String()
	}
	if m.AcceptedAt != nil {
		out.AcceptedAt = m.AcceptedAt.Format(time.RFC3339)
	}
	return out
}
