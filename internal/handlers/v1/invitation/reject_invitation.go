package invitation

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/cashbook-server/internal/handlers/v1/httputil"
)

// RejectInvitationInput is the Huma input for rejecting an invitation.
type RejectInvitationInput struct {
	InvitationID string `path:"invitationID" doc:"Membership UUID"`
}

// RejectInvitationOutput is the Huma output for rejecting an invitation.
type RejectInvitationOutput struct{}

// invitationRejecter is the interface for rejecting invitations.
type invitationRejecter interface {
	RejectInvitation(ctx context.Context, actorID, invitationID uuid.UUID) error
}

// RejectInvitationHandler handles POST /v1/invitation/{invitationID}/reject.
type RejectInvitationHandler struct {
	AccountService invitationRejecter
}

// NewRejectInvitationHandler creates a new RejectInvitationHandler.
func NewRejectInvitationHandler(svc invitationRejecter) *RejectInvitationHandler {
	return &RejectInvitationHandler{AccountService: svc}
}

// Register registers the reject invitation endpoint with the Huma API.
func (h *RejectInvitationHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "reject-invitation",
		Method:        http.MethodPost,
		Path:          "/v1/invitation/{invitationID}/reject",
		Summary:       "Reject invitation",
		Description:   "Rejects one of the caller's pending invitations.",
		Tags:          []string{"Invitations"},
		DefaultStatus: http.StatusNoContent,
	}, h.handle)
}

func (h *RejectInvitationHandler) handle(ctx context.Context, input *RejectInvitationInput) (*RejectInvitationOutput, error) {
	actorID, err := httputil.Actor(ctx)
	if err != nil {
		return nil, err
	}
	invitationID, err := httputil.ParseUUID("invitationID", input.InvitationID)
	if err != nil {
		return nil, err
	}

	if err := h.AccountService.RejectInvitation(ctx, actorID, invitationID); err != nil {
		return nil, httputil.Translate(err, "failed to reject invitation")
	}

	return &RejectInvitationOutput{}, nil
}
