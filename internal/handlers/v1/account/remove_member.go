package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/cashbook-server/internal/handlers/v1/httputil"
)

// RemoveMemberInput is the Huma input for removing a member.
type RemoveMemberInput struct {
	AccountID string `path:"accountID" doc:"Account UUID"`
	MemberID  string `path:"memberID" doc:"Membership UUID"`
}

// RemoveMemberOutput is the Huma output for removing a member.
type RemoveMemberOutput struct{}

// memberRemover is the interface for removing members.
type memberRemover interface {
	RemoveMember(ctx context.Context, actorID, accountID, memberID uuid.UUID) error
}

// RemoveMemberHandler handles DELETE /v1/account/{accountID}/member/{memberID}.
type RemoveMemberHandler struct {
	AccountService memberRemover
}

// NewRemoveMemberHandler creates a new RemoveMemberHandler.
func NewRemoveMemberHandler(svc memberRemover) *RemoveMemberHandler {
	return &RemoveMemberHandler{AccountService: svc}
}

// Register registers the remove member endpoint with the Huma API.
func (h *RemoveMemberHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "remove-member",
		Method:        http.MethodDelete,
		Path:          "/v1/account/{accountID}/member/{memberID}",
		Summary:       "Remove member",
		Description:   "Removes a member from an account. Owner only.",
		Tags:          []string{"Members"},
		DefaultStatus: http.StatusNoContent,
	}, h.handle)
}

func (h *RemoveMemberHandler) handle(ctx context.Context, input *RemoveMemberInput) (*RemoveMemberOutput, error) {
	actorID, err := httputil.Actor(ctx)
	if err != nil {
		return nil, err
	}
	accountID, err := httputil.ParseUUID("accountID", input.AccountID)
	if err != nil {
		return nil, err
	}
	memberID, err := httputil.ParseUUID("memberID", input.MemberID)
	if err != nil {
		return nil, err
	}

	if err := h.AccountService.RemoveMember(ctx, actorID, accountID, memberID); err != nil {
		return nil, httputil.Translate(err, "failed to remove member")
	}

	return &RemoveMemberOutput{}, nil
}
