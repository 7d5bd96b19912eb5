package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/cashbook-server/internal/handlers/v1/httputil"
	store "github.com/carson-networks/cashbook-server/internal/storage/account"
)

// CreateAccountBody is the request body for creating an account.
type CreateAccountBody struct {
	Name        string `json:"name" required:"true" doc:"Account name"`
	Kind        string `json:"kind" required:"true" enum:"PERSONAL,SHARED" doc:"Account kind"`
	Description string `json:"description,omitempty" doc:"Free-form description"`
}

// CreateAccountInput is the Huma input for creating an account.
type CreateAccountInput struct {
	Body CreateAccountBody
}

// CreateAccountOutput is the Huma output for creating an account.
type CreateAccountOutput struct {
	Body Account
}

// accountCreator is the interface for creating accounts.
type accountCreator interface {
	CreateAccount(ctx context.Context, actorID uuid.UUID, name string, kind store.Kind, description string) (*store.Account, error)
}

// CreateAccountHandler handles POST /v1/account.
type CreateAccountHandler struct {
	AccountService accountCreator
}

// NewCreateAccountHandler creates a new CreateAccountHandler.
func NewCreateAccountHandler(svc accountCreator) *CreateAccountHandler {
	return &CreateAccountHandler{AccountService: svc}
}

// Register registers the create account endpoint with the Huma API.
func (h *CreateAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-account",
		Method:        http.MethodPost,
		Path:          "/v1/account",
		Summary:       "Create account",
		Description:   "Creates a new account owned by the caller.",
		Tags:          []string{"Accounts"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func (h *CreateAccountHandler) handle(ctx context.Context, input *CreateAccountInput) (*CreateAccountOutput, error) {
	actorID, err := httputil.Actor(ctx)
	if err != nil {
		return nil, err
	}

	acct, err := h.AccountService.CreateAccount(ctx, actorID, input.Body.Name, store.Kind(input.Body.Kind), input.Body.Description)
	if err != nil {
		return nil, httputil.Translate(err, "failed to create account")
	}

	return &CreateAccountOutput{Body: fromAccount(acct)}, nil
}
