package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/cashbook-server/internal/handlers/v1/httputil"
	store "github.com/carson-networks/cashbook-server/internal/storage/account"
)

// ListMembersInput is the Huma input for listing an account's members.
type ListMembersInput struct {
	AccountID string `path:"accountID" doc:"Account UUID"`
}

// ListMembersResponseBody is the response body for listing members.
type ListMembersResponseBody struct {
	Members []Member `json:"members" doc:"Membership rows in every state"`
}

// ListMembersOutput is the Huma output for listing members.
type ListMembersOutput struct {
	Body ListMembersResponseBody
}

// memberLister is the interface for listing an account's members.
type memberLister interface {
	ListMembers(ctx context.Context, actorID, accountID uuid.UUID) ([]*store.Member, error)
}

// ListMembersHandler handles GET /v1/account/{accountID}/member.
type ListMembersHandler struct {
	AccountService memberLister
}

// NewListMembersHandler creates a new ListMembersHandler.
func NewListMembersHandler(svc memberLister) *ListMembersHandler {
	return &ListMembersHandler{AccountService: svc}
}

// Register registers the list members endpoint with the Huma API.
func (h *ListMembersHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-members",
		Method:      http.MethodGet,
		Path:        "/v1/account/{accountID}/member",
		Summary:     "List members",
		Description: "Returns the membership rows of an account the caller can see.",
		Tags:        []string{"Members"},
	}, h.handle)
}

func (h *ListMembersHandler) handle(ctx context.Context, input *ListMembersInput) (*ListMembersOutput, error) {
	actorID, err := httputil.Actor(ctx)
	if err != nil {
		return nil, err
	}
	accountID, err := httputil.ParseUUID("accountID", input.AccountID)
	if err != nil {
		return nil, err
	}

	members, err := h.AccountService.ListMembers(ctx, actorID, accountID)
	if err != nil {
		return nil, httputil.Translate(err, "failed to list members")
	}

	resp := ListMembersResponseBody{Members: make([]Member, len(members))}
	for i, m := range members {
		resp.Members[i] = fromMember(m)
	}

	return &ListMembersOutput{Body: resp}, nil
}
