package invitation

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/cashbook-server/internal/handlers/v1/httputil"
	store "github.com/carson-networks/cashbook-server/internal/storage/account"
)

// ListInvitationsInput is the Huma input for listing pending invitations.
type ListInvitationsInput struct{}

// ListInvitationsResponseBody is the response body for listing pending
// invitations.
type ListInvitationsResponseBody struct {
	Invitations []Invitation `json:"invitations" doc:"The caller's pending invitations"`
}

// ListInvitationsOutput is the Huma output for listing pending
// invitations.
type ListInvitationsOutput struct {
	Body ListInvitationsResponseBody
}

// invitationLister is the interface for listing pending invitations.
type invitationLister interface {
	ListInvitations(ctx context.Context, actorID uuid.UUID) ([]*store.Member, error)
}

// ListInvitationsHandler handles GET /v1/invitation.
type ListInvitationsHandler struct {
	AccountService invitationLister
}

// NewListInvitationsHandler creates a new ListInvitationsHandler.
func NewListInvitationsHandler(svc invitationLister) *ListInvitationsHandler {
	return &ListInvitationsHandler{AccountService: svc}
}

// Register registers the list invitations endpoint with the Huma API.
func (h *ListInvitationsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-invitations",
		Method:      http.MethodGet,
		Path:        "/v1/invitation",
		Summary:     "List invitations",
		Description: "Returns the caller's pending invitations.",
		Tags:        []string{"Invitations"},
	}, h.handle)
}

func (h *ListInvitationsHandler) handle(ctx context.Context, _ *ListInvitationsInput) (*ListInvitationsOutput, error) {
	actorID, err := httputil.Actor(ctx)
	if err != nil {
		return nil, err
	}

	invitations, err := h.AccountService.ListInvitations(ctx, actorID)
	if err != nil {
		return nil, httputil.Translate(err, "failed to list invitations")
	}

	resp := ListInvitationsResponseBody{Invitations: make([]Invitation, len(invitations))}
	for i, m := range invitations {
		resp.Invitations[i] = fromMember(m)
	}

	return &ListInvitationsOutput{Body: resp}, nil
}
