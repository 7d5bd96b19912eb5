package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/cashbook-server/internal/handlers/v1/httputil"
)

// DeleteAccountInput is the Huma input for deleting an account.
type DeleteAccountInput struct {
	AccountID string `path:"accountID" doc:"Account UUID"`
}

// DeleteAccountOutput is the Huma output for deleting an account.
type DeleteAccountOutput struct{}

// accountDeleter is the interface for deleting accounts.
type accountDeleter interface {
	DeleteAccount(ctx context.Context, actorID, accountID uuid.UUID) error
}

// DeleteAccountHandler handles DELETE /v1/account/{accountID}.
type DeleteAccountHandler struct {
	AccountService accountDeleter
}

// NewDeleteAccountHandler creates a new DeleteAccountHandler.
func NewDeleteAccountHandler(svc accountDeleter) *DeleteAccountHandler {
	return &DeleteAccountHandler{AccountService: svc}
}

// Register registers the delete account endpoint with the Huma API.
func (h *DeleteAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "delete-account",
		Method:        http.MethodDelete,
		Path:          "/v1/account/{accountID}",
		Summary:       "Delete account",
		Description:   "Deletes an account and everything in it. Owner only.",
		Tags:          []string{"Accounts"},
		DefaultStatus: http.StatusNoContent,
	}, h.handle)
}

func (h *DeleteAccountHandler) handle(ctx context.Context, input *DeleteAccountInput) (*DeleteAccountOutput, error) {
	actorID, err := httputil.Actor(ctx)
	if err != nil {
		return nil, err
	}
	accountID, err := httputil.ParseUUID("accountID", input.AccountID)
	if err != nil {
		return nil, err
	}

	if err := h.AccountService.DeleteAccount(ctx, actorID, accountID); err != nil {
		return nil, httputil.Translate(err, "failed to delete account")
	}

	return &DeleteAccountOutput{}, nil
}
