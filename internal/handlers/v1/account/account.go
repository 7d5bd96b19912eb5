package account

import (
	"time"

	store "github.com/carson-networks/cashbook-server/internal/storage/account"
)

// Account is the API response model for a ledger account.
type Account struct {
	ID          string `json:"id" doc:"Account UUID"`
	Name        string `json:"name" doc:"Account name"`
	Kind        string `json:"kind" doc:"PERSONAL or SHARED"`
	OwnerID     string `json:"ownerID" doc:"Owner user UUID"`
	Description string `json:"description,omitempty" doc:"Free-form description"`
	CreatedAt   string `json:"createdAt" doc:"RFC3339 creation time"`
	UpdatedAt   string `json:"updatedAt" doc:"RFC3339 last update time"`
}

// Flags is the API model for a member's capability switches.
type Flags struct {
	CanAddEntry       bool `json:"canAddEntry" doc:"May add transactions"`
	CanEditOwnEntry   bool `json:"canEditOwnEntry" doc:"May edit own transactions"`
	CanEditAllEntries bool `json:"canEditAllEntries" doc:"May edit any transaction"`
	CanDeleteEntry    bool `json:"canDeleteEntry" doc:"May delete transactions"`
	CanViewReports    bool `json:"canViewReports" doc:"May view summaries"`
	CanManageMembers  bool `json:"canManageMembers" doc:"May invite and manage members"`
}

// FlagsPatch is the API model for a partial capability update. Absent
// fields are left untouched.
type FlagsPatch struct {
	CanAddEntry       *bool `json:"canAddEntry,omitempty" doc:"May add transactions"`
	CanEditOwnEntry   *bool `json:"canEditOwnEntry,omitempty" doc:"May edit own transactions"`
	CanEditAllEntries *bool `json:"canEditAllEntries,omitempty" doc:"May edit any transaction"`
	CanDeleteEntry    *bool `json:"canDeleteEntry,omitempty" doc:"May delete transactions"`
	CanViewReports    *bool `json:"canViewReports,omitempty" doc:"May view summaries"`
	CanManageMembers  *bool `json:"canManageMembers,omitempty" doc:"May invite and manage members"`
}

// Member is the API response model for a membership row.
type Member struct {
	ID         string `json:"id" doc:"Membership UUID"`
	AccountID  string `json:"accountID" doc:"Account UUID"`
	UserID     string `json:"userID" doc:"Member user UUID"`
	Status     string `json:"status" doc:"PENDING, ACCEPTED or REJECTED"`
	Flags      Flags  `json:"permissions" doc:"Capability switches"`
	InvitedBy  string `json:"invitedBy,omitempty" doc:"Inviter user UUID"`
	InvitedAt  string `json:"invitedAt" doc:"RFC3339 invitation time"`
	AcceptedAt string `json:"acceptedAt,omitempty" doc:"RFC3339 acceptance time"`
}

func fromAccount(a *store.Account) Account {
	return Account{
		ID:          a.ID.String(),
		Name:        a.Name,
		Kind:        string(a.Kind),
		OwnerID:     a.OwnerID.String(),
		Description: a.Description,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   a.UpdatedAt.Format(time.RFC3339),
	}
}

func fromMember(m *store.Member) Member {
	out := Member{
		ID:        m.ID.String(),
		AccountID: m.AccountID.String(),
		UserID:    m.UserID.String(),
		Status:    string(m.Status),
		Flags:     fromFlags(m.Flags),
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

func fromFlags(f store.Flags) Flags {
	return Flags{
		CanAddEntry:       f.CanAddEntry,
		CanEditOwnEntry:   f.CanEditOwnEntry,
		CanEditAllEntries: f.CanEditAllEntries,
		CanDeleteEntry:    f.CanDeleteEntry,
		CanViewReports:    f.CanViewReports,
		CanManageMembers:  f.CanManageMembers,
	}
}

func (p *FlagsPatch) toPatch() *store.FlagsPatch {
	if p == nil {
		return nil
	}
	return &store.FlagsPatch{
		CanAddEntry:       p.CanAddEntry,
		CanEditOwnEntry:   p.CanEditOwnEntry,
		CanEditAllEntries: p.CanEditAllEntries,
		CanDeleteEntry:    p.CanDeleteEntry,
		CanViewReports:    p.CanViewReports,
		CanManageMembers:  p.CanManageMembers,
	}
}
