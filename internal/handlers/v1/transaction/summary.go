package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/cashbook-server/internal/handlers/v1/httputil"
	"github.com/carson-networks/cashbook-server/internal/service"
	store "github.com/carson-networks/cashbook-server/internal/storage/transaction"
)

// SummaryInput is the Huma input for the summary endpoint. The same
// filters as the list endpoint narrow the aggregated set.
type SummaryInput struct {
	QueryParams
}

// SummaryResponseBody is the response body for the summary endpoint.
type SummaryResponseBody struct {
	TotalIncome      string `json:"totalIncome" doc:"Sum of income amounts"`
	TotalExpense     string `json:"totalExpense" doc:"Sum of expense amounts"`
	NetTotal         string `json:"netTotal" doc:"Income minus expense"`
	TransactionCount int64  `json:"transactionCount" doc:"Transactions in the set"`
	IncomeCount      int64  `json:"incomeCount" doc:"Income transactions in the set"`
	ExpenseCount     int64  `json:"expenseCount" doc:"Expense transactions in the set"`
}

// SummaryOutput is the Huma output for the summary endpoint.
type SummaryOutput struct {
	Body SummaryResponseBody
}

// transactionSummarizer is the interface for aggregating transactions.
type transactionSummarizer interface {
	Summary(ctx context.Context, actorID uuid.UUID, query *service.ListQuery) (*store.Summary, error)
}

// SummaryHandler handles GET /v1/transaction/summary.
type SummaryHandler struct {
	TransactionService transactionSummarizer
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(svc transactionSummarizer) *SummaryHandler {
	return &SummaryHandler{TransactionService: svc}
}

// Register registers the summary endpoint with the Huma API.
func (h *SummaryHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "transaction-summary",
		Method:      http.MethodGet,
		Path:        "/v1/transaction/summary",
		Summary:     "Transaction summary",
		Description: "Aggregates the transactions visible to the caller.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *SummaryHandler) handle(ctx context.Context, input *SummaryInput) (*SummaryOutput, error) {
	actorID, err := httputil.Actor(ctx)
	if err != nil {
		return nil, err
	}
	query, err := input.QueryParams.toListQuery()
	if err != nil {
		return nil, err
	}

	summary, err := h.TransactionService.Summary(ctx, actorID, query)
	if err != nil {
		return nil, httputil.Translate(err, "failed to summarize transactions")
	}

	return &SummaryOutput{Body: SummaryResponseBody{
		TotalIncome:      summary.TotalIncome.StringFixed(2),
		TotalExpense:     summary.TotalExpense.StringFixed(2),
		NetTotal:         summary.NetTotal.StringFixed(2),
		TransactionCount: summary.TransactionCount,
		IncomeCount:      summary.IncomeCount,
		ExpenseCount:     summary.ExpenseCount,
	}}, nil
}
