package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/cashbook-server/internal/handlers/v1/httputil"
	store "github.com/carson-networks/cashbook-server/internal/storage/account"
)

// UpdateAccountBody is the request body for updating an account.
type UpdateAccountBody struct {
	Name        string `json:"name" required:"true" doc:"Account name"`
	Description string `json:"description,omitempty" doc:"Free-form description"`
}

// UpdateAccountInput is the Huma input for updating an account.
type UpdateAccountInput struct {
	AccountID string `path:"accountID" doc:"Account UUID"`
	Body      UpdateAccountBody
}

// UpdateAccountOutput is the Huma output for updating an account.
type UpdateAccountOutput struct {
	Body Account
}

// accountUpdater is the interface for updating accounts.
type accountUpdater interface {
	UpdateAccount(ctx context.Context, actorID, accountID uuid.UUID, update *store.AccountUpdate) (*store.Account, error)
}

// UpdateAccountHandler handles PUT /v1/account/{accountID}.
type UpdateAccountHandler struct {
	AccountService accountUpdater
}

// NewUpdateAccountHandler creates a new UpdateAccountHandler.
func NewUpdateAccountHandler(svc accountUpdater) *UpdateAccountHandler {
	return &UpdateAccountHandler{AccountService: svc}
}

// Register registers the update account endpoint with the Huma API.
func (h *UpdateAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-account",
		Method:      http.MethodPut,
		Path:        "/v1/account/{accountID}",
		Summary:     "Update account",
		Description: "Updates an account's name and description. Owner only.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *UpdateAccountHandler) handle(ctx context.Context, input *UpdateAccountInput) (*UpdateAccountOutput, error) {
	actorID, err := httputil.Actor(ctx)
	if err != nil {
		return nil, err
	}
	accountID, err := httputil.ParseUUID("accountID", input.AccountID)
	if err != nil {
		return nil, err
	}

	acct, err := h.AccountService.UpdateAccount(ctx, actorID, accountID, &store.AccountUpdate{
		Name:        input.Body.Name,
		Description: input.Body.Description,
	})
	if err != nil {
		return nil, httputil.Translate(err, "failed to update account")
	}

	return &UpdateAccountOutput{Body: fromAccount(acct)}, nil
}
