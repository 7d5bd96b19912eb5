package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/cashbook-server/internal/handlers/v1/httputil"
	store "github.com/carson-networks/cashbook-server/internal/storage/transaction"
)

// GetTransactionInput is the Huma input for fetching one transaction.
type GetTransactionInput struct {
	TransactionID string `path:"transactionID" doc:"Transaction UUID"`
}

// GetTransactionOutput is the Huma output for fetching one transaction.
type GetTransactionOutput struct {
	Body Transaction
}

// transactionGetter is the interface for fetching one transaction.
type transactionGetter interface {
	Get(ctx context.Context, actorID, transactionID uuid.UUID) (*store.Transaction, error)
}

// GetTransactionHandler handles GET /v1/transaction/{transactionID}.
type GetTransactionHandler struct {
	TransactionService transactionGetter
}

// NewGetTransactionHandler creates a new GetTransactionHandler.
func NewGetTransactionHandler(svc transactionGetter) *GetTransactionHandler {
	return &GetTransactionHandler{TransactionService: svc}
}

// Register registers the get transaction endpoint with the Huma API.
func (h *GetTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-transaction",
		Method:      http.MethodGet,
		Path:        "/v1/transaction/{transactionID}",
		Summary:     "Get transaction",
		Description: "Returns one transaction the caller can see.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *GetTransactionHandler) handle(ctx context.Context, input *GetTransactionInput) (*GetTransactionOutput, error) {
	actorID, err := httputil.Actor(ctx)
	if err != nil {
		return nil, err
	}
	transactionID, err := httputil.ParseUUID("transactionID", input.TransactionID)
	if err != nil {
		return nil, err
	}

	txn, err := h.TransactionService.Get(ctx, actorID, transactionID)
	if err != nil {
		return nil, httputil.Translate(err, "failed to get transaction")
	}

	return &GetTransactionOutput{Body: fromTransaction(txn)}, nil
}
