package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/cashbook-server/internal/handlers/v1/httputil"
	store "github.com/carson-networks/cashbook-server/internal/storage/transaction"
)

// UpdateTransactionInput is the Huma input for updating a transaction.
// The body replaces every mutable field; a transaction cannot move
// between accounts.
type UpdateTransactionInput struct {
	TransactionID string `path:"transactionID" doc:"Transaction UUID"`
	Body          FieldsBody
}

// UpdateTransactionOutput is the Huma output for updating a transaction.
type UpdateTransactionOutput struct {
	Body Transaction
}

// transactionUpdater is the interface for updating transactions.
type transactionUpdater interface {
	Update(ctx context.Context, actorID, transactionID uuid.UUID, fields *store.Fields) (*store.Transaction, error)
}

// UpdateTransactionHandler handles PUT /v1/transaction/{transactionID}.
type UpdateTransactionHandler struct {
	TransactionService transactionUpdater
}

// NewUpdateTransactionHandler creates a new UpdateTransactionHandler.
func NewUpdateTransactionHandler(svc transactionUpdater) *UpdateTransactionHandler {
	return &UpdateTransactionHandler{TransactionService: svc}
}

// Register registers the update transaction endpoint with the Huma API.
func (h *UpdateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-transaction",
		Method:      http.MethodPut,
		Path:        "/v1/transaction/{transactionID}",
		Summary:     "Update transaction",
		Description: "Replaces the mutable fields of a transaction.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *UpdateTransactionHandler) handle(ctx context.Context, input *UpdateTransactionInput) (*UpdateTransactionOutput, error) {
	actorID, err := httputil.Actor(ctx)
	if err != nil {
		return nil, err
	}
	transactionID, err := httputil.ParseUUID("transactionID", input.TransactionID)
	if err != nil {
		return nil, err
	}
	fields, err := input.Body.toFields()
	if err != nil {
		return nil, err
	}

	txn, err := h.TransactionService.Update(ctx, actorID, transactionID, fields)
	if err != nil {
		return nil, httputil.Translate(err, "failed to update transaction")
	}

	return &UpdateTransactionOutput{Body: fromTransaction(txn)}, nil
}
