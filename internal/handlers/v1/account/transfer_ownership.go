package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/cashbook-server/internal/handlers/v1/httputil"
	store "github.com/carson-networks/cashbook-server/internal/storage/account"
)

// TransferOwnershipBody is the request body for transferring ownership.
type TransferOwnershipBody struct {
	NewOwnerID string `json:"newOwnerID" required:"true" doc:"User UUID of the accepted member taking over"`
}

// TransferOwnershipInput is the Huma input for transferring ownership.
type TransferOwnershipInput struct {
	AccountID string `path:"accountID" doc:"Account UUID"`
	Body      TransferOwnershipBody
}

// TransferOwnershipOutput is the Huma output for transferring ownership.
type TransferOwnershipOutput struct {
	Body Account
}

// ownershipTransferrer is the interface for transferring account
// ownership.
type ownershipTransferrer interface {
	TransferOwnership(ctx context.Context, actorID, accountID, newOwnerID uuid.UUID) (*store.Account, error)
}

// TransferOwnershipHandler handles POST /v1/account/{accountID}/transfer-ownership.
type TransferOwnershipHandler struct {
	AccountService ownershipTransferrer
}

// NewTransferOwnershipHandler creates a new TransferOwnershipHandler.
func NewTransferOwnershipHandler(svc ownershipTransferrer) *TransferOwnershipHandler {
	return &TransferOwnershipHandler{AccountService: svc}
}

// Register registers the transfer ownership endpoint with the Huma API.
func (h *TransferOwnershipHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "transfer-ownership",
		Method:      http.MethodPost,
		Path:        "/v1/account/{accountID}/transfer-ownership",
		Summary:     "Transfer ownership",
		Description: "Reassigns the account to an accepted member. Owner only.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *TransferOwnershipHandler) handle(ctx context.Context, input *TransferOwnershipInput) (*TransferOwnershipOutput, error) {
	actorID, err := httputil.Actor(ctx)
	if err != nil {
		return nil, err
	}
	accountID, err := httputil.ParseUUID("accountID", input.AccountID)
	if err != nil {
		return nil, err
	}
	newOwnerID, err := httputil.ParseUUID("newOwnerID", input.Body.NewOwnerID)
	if err != nil {
		return nil, err
	}

	acct, err := h.AccountService.TransferOwnership(ctx, actorID, accountID, newOwnerID)
	if err != nil {
		return nil, httputil.Translate(err, "failed to transfer ownership")
	}

	return &TransferOwnershipOutput{Body: fromAccount(acct)}, nil
}
