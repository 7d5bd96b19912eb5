package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/cashbook-server/internal/handlers/v1/httputil"
	store "github.com/carson-networks/cashbook-server/internal/storage/transaction"
)

// CreateTransactionBody is the request body for creating a transaction.
// An absent accountID creates a personal transaction.
type CreateTransactionBody struct {
	AccountID string `json:"accountID,omitempty" doc:"Account UUID, absent for a personal transaction"`
	FieldsBody
}

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	Body CreateTransactionBody
}

// CreateTransactionOutput is the Huma output for creating a transaction.
type CreateTransactionOutput struct {
	Body Transaction
}

// transactionCreator is the interface for creating transactions.
type transactionCreator interface {
	Create(ctx context.Context, actorID uuid.UUID, create *store.Create) (*store.Transaction, error)
}

// CreateTransactionHandler handles POST /v1/transaction.
type CreateTransactionHandler struct {
	TransactionService transactionCreator
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(svc transactionCreator) *CreateTransactionHandler {
	return &CreateTransactionHandler{TransactionService: svc}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-transaction",
		Method:        http.MethodPost,
		Path:          "/v1/transaction",
		Summary:       "Create transaction",
		Description:   "Creates a new transaction, personal or inside an account.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	actorID, err := httputil.Actor(ctx)
	if err != nil {
		return nil, err
	}

	fields, err := input.Body.toFields()
	if err != nil {
		return nil, err
	}

	create := &store.Create{Fields: *fields}
	if input.Body.AccountID != "" {
		accountID, err := httputil.ParseUUID("accountID", input.Body.AccountID)
		if err != nil {
			return nil, err
		}
		create.AccountID = &accountID
	}

	txn, err := h.TransactionService.Create(ctx, actorID, create)
	if err != nil {
		return nil, httputil.Translate(err, "failed to create transaction")
	}

	return &CreateTransactionOutput{Body: fromTransaction(txn)}, nil
}
