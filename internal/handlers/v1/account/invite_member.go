package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/cashbook-server/internal/handlers/v1/httputil"
	"github.com/carson-networks/cashbook-server/internal/service"
	store "github.com/carson-networks/cashbook-server/internal/storage/account"
)

// InviteMemberBody is the request body for inviting a user. Exactly one
// of userID, username or email identifies the invitee.
type InviteMemberBody struct {
	UserID      string      `json:"userID,omitempty" doc:"Invitee user UUID"`
	Username    string      `json:"username,omitempty" doc:"Invitee username"`
	Email       string      `json:"email,omitempty" format:"email" doc:"Invitee email"`
	Permissions *FlagsPatch `json:"permissions,omitempty" doc:"Capability overrides for the invitee"`
}

// InviteMemberInput is the Huma input for inviting a user.
type InviteMemberInput struct {
	AccountID string `path:"accountID" doc:"Account UUID"`
	Body      InviteMemberBody
}

// InviteMemberOutput is the Huma output for inviting a user.
type InviteMemberOutput struct {
	Body Member
}

// memberInviter is the interface for inviting users to an account.
type memberInviter interface {
	Invite(ctx context.Context, actorID, accountID uuid.UUID, req *service.InviteRequest) (*store.Member, error)
}

// InviteMemberHandler handles POST /v1/account/{accountID}/member.
type InviteMemberHandler struct {
	AccountService memberInviter
}

// NewInviteMemberHandler creates a new InviteMemberHandler.
func NewInviteMemberHandler(svc memberInviter) *InviteMemberHandler {
	return &InviteMemberHandler{AccountService: svc}
}

// Register registers the invite member endpoint with the Huma API.
func (h *InviteMemberHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "invite-member",
		Method:        http.MethodPost,
		Path:          "/v1/account/{accountID}/member",
		Summary:       "Invite member",
		Description:   "Invites a user to an account; the invitation stays pending until they respond.",
		Tags:          []string{"Members"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func (h *InviteMemberHandler) handle(ctx context.Context, input *InviteMemberInput) (*InviteMemberOutput, error) {
	actorID, err := httputil.Actor(ctx)
	if err != nil {
		return nil, err
	}
	accountID, err := httputil.ParseUUID("accountID", input.AccountID)
	if err != nil {
		return nil, err
	}

	req := &service.InviteRequest{
		Username: input.Body.Username,
		Email:    input.Body.Email,
		Flags:    input.Body.Permissions.toPatch(),
	}
	if input.Body.UserID != "" {
		userID, err := httputil.ParseUUID("userID", input.Body.UserID)
		if err != nil {
			return nil, err
		}
		req.UserID = &userID
	}

	member, err := h.AccountService.Invite(ctx, actorID, accountID, req)
	if err != nil {
		return nil, httputil.Translate(err, "failed to invite member")
	}

	return &InviteMemberOutput{Body: fromMember(member)}, nil
}
