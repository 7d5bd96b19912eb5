package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/cashbook-server/internal/handlers/v1/httputil"
	store "github.com/carson-networks/cashbook-server/internal/storage/account"
)

// GetAccountInput is the Huma input for fetching one account.
type GetAccountInput struct {
	AccountID string `path:"accountID" doc:"Account UUID"`
}

// GetAccountOutput is the Huma output for fetching one account.
type GetAccountOutput struct {
	Body Account
}

// accountGetter is the interface for fetching one account.
type accountGetter interface {
	GetAccount(ctx context.Context, actorID, accountID uuid.UUID) (*store.Account, error)
}

// GetAccountHandler handles GET /v1/account/{accountID}.
type GetAccountHandler struct {
	AccountService accountGetter
}

// NewGetAccountHandler creates a new GetAccountHandler.
func NewGetAccountHandler(svc accountGetter) *GetAccountHandler {
	return &GetAccountHandler{AccountService: svc}
}

// Register registers the get account endpoint with the Huma API.
func (h *GetAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-account",
		Method:      http.MethodGet,
		Path:        "/v1/account/{accountID}",
		Summary:     "Get account",
		Description: "Returns one account the caller can see.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *GetAccountHandler) handle(ctx context.Context, input *GetAccountInput) (*GetAccountOutput, error) {
	actorID, err := httputil.Actor(ctx)
	if err != nil {
		return nil, err
	}
	accountID, err := httputil.ParseUUID("accountID", input.AccountID)
	if err != nil {
		return nil, err
	}

	acct, err := h.AccountService.GetAccount(ctx, actorID, accountID)
	if err != nil {
		return nil, httputil.Translate(err, "failed to get account")
	}

	return &GetAccountOutput{Body: fromAccount(acct)}, nil
}
