package invitation

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/cashbook-server/internal/handlers/v1/httputil"
	store "github.com/carson-networks/cashbook-server/internal/storage/account"
)

// AcceptInvitationInput is the Huma input for accepting an invitation.
type AcceptInvitationInput struct {
	InvitationID string `path:"invitationID" doc:"Membership UUID"`
}

// AcceptInvitationOutput is the Huma output for accepting an invitation.
type AcceptInvitationOutput struct {
	Body Invitation
}

// invitationAccepter is the interface for accepting invitations.
type invitationAccepter interface {
	AcceptInvitation(ctx context.Context, actorID, invitationID uuid.UUID) (*store.Member, error)
}

// AcceptInvitationHandler handles POST /v1/invitation/{invitationID}/accept.
type AcceptInvitationHandler struct {
	AccountService invitationAccepter
}

// NewAcceptInvitationHandler creates a new AcceptInvitationHandler.
func NewAcceptInvitationHandler(svc invitationAccepter) *AcceptInvitationHandler {
	return &AcceptInvitationHandler{AccountService: svc}
}

// Register registers the accept invitation endpoint with the Huma API.
func (h *AcceptInvitationHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "accept-invitation",
		Method:      http.MethodPost,
		Path:        "/v1/invitation/{invitationID}/accept",
		Summary:     "Accept invitation",
		Description: "Accepts one of the caller's pending invitations.",
		Tags:        []string{"Invitations"},
	}, h.handle)
}

func (h *AcceptInvitationHandler) handle(ctx context.Context, input *AcceptInvitationInput) (*AcceptInvitationOutput, error) {
	actorID, err := httputil.Actor(ctx)
	if err != nil {
		return nil, err
	}
	invitationID, err := httputil.ParseUUID("invitationID", input.InvitationID)
	if err != nil {
		return nil, err
	}

	member, err := h.AccountService.AcceptInvitation(ctx, actorID, invitationID)
	if err != nil {
		return nil, httputil.Translate(err, "failed to accept invitation")
	}

	return &AcceptInvitationOutput{Body: fromMember(member)}, nil
}
