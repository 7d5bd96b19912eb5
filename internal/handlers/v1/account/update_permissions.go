package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/cashbook-server/internal/handlers/v1/httputil"
	store "github.com/carson-networks/cashbook-server/internal/storage/account"
)

// UpdatePermissionsInput is the Huma input for updating a member's
// capabilities.
type UpdatePermissionsInput struct {
	AccountID string `path:"accountID" doc:"Account UUID"`
	MemberID  string `path:"memberID" doc:"Membership UUID"`
	Body      FlagsPatch
}

// UpdatePermissionsOutput is the Huma output for updating a member's
// capabilities.
type UpdatePermissionsOutput struct {
	Body Member
}

// permissionUpdater is the interface for updating member capabilities.
type permissionUpdater interface {
	UpdatePermissions(ctx context.Context, actorID, accountID, memberID uuid.UUID, patch *store.FlagsPatch) (*store.Member, error)
}

// UpdatePermissionsHandler handles PATCH /v1/account/{accountID}/member/{memberID}.
type UpdatePermissionsHandler struct {
	AccountService permissionUpdater
}

// NewUpdatePermissionsHandler creates a new UpdatePermissionsHandler.
func NewUpdatePermissionsHandler(svc permissionUpdater) *UpdatePermissionsHandler {
	return &UpdatePermissionsHandler{AccountService: svc}
}

// Register registers the update permissions endpoint with the Huma API.
func (h *UpdatePermissionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-permissions",
		Method:      http.MethodPatch,
		Path:        "/v1/account/{accountID}/member/{memberID}",
		Summary:     "Update member permissions",
		Description: "Applies a partial capability update to a member. Owner only.",
		Tags:        []string{"Members"},
	}, h.handle)
}

func (h *UpdatePermissionsHandler) handle(ctx context.Context, input *UpdatePermissionsInput) (*UpdatePermissionsOutput, error) {
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

	member, err := h.AccountService.UpdatePermissions(ctx, actorID, accountID, memberID, input.Body.toPatch())
	if err != nil {
		return nil, httputil.Translate(err, "failed to update permissions")
	}

	return &UpdatePermissionsOutput{Body: fromMember(member)}, nil
}
