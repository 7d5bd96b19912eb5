package transaction

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/cashbook-server/internal/handlers/v1/httputil"
	"github.com/carson-networks/cashbook-server/internal/service"
)

// QueryParams are the shared query parameters of the list and summary
// endpoints. accountID and personal are mutually exclusive; with neither
// the whole visible set is used.
type QueryParams struct {
	AccountID string `query:"accountID" doc:"Restrict to one account"`
	Personal  bool   `query:"personal" doc:"Restrict to personal transactions"`
	Search    string `query:"search" doc:"Substring match across name, category, remark and counterparty fields"`
	Type      string `query:"type" doc:"Income or Expense"`
	Category  string `query:"category" doc:"Exact category"`
	Mode      string `query:"mode" doc:"Exact payment mode"`
	DateFrom  string `query:"dateFrom" doc:"Inclusive lower date bound, YYYY-MM-DD"`
	DateTo    string `query:"dateTo" doc:"Inclusive upper date bound, YYYY-MM-DD"`
	AmountMin string `query:"amountMin" doc:"Inclusive lower amount bound"`
	AmountMax string `query:"amountMax" doc:"Inclusive upper amount bound"`
	Sort      string `query:"sort" doc:"Sort field, defaults to date"`
	Order     string `query:"order" doc:"asc or desc, defaults to desc"`
}

func (q *QueryParams) toListQuery() (*service.ListQuery, error) {
	if q.AccountID != "" && q.Personal {
		return nil, huma.NewError(http.StatusBadRequest, "accountID and personal are mutually exclusive")
	}

	query := &service.ListQuery{PersonalOnly: q.Personal}
	if q.AccountID != "" {
		accountID, err := httputil.ParseUUID("accountID", q.AccountID)
		if err != nil {
			return nil, err
		}
		query.AccountID = &accountID
	}

	query.Filter.Search = q.Search
	query.Filter.Type = q.Type
	query.Filter.Category = q.Category
	query.Filter.Mode = q.Mode
	query.Filter.SortField = q.Sort
	query.Filter.SortDesc = q.Order != "asc"

	if q.DateFrom != "" {
		from, err := time.Parse(dateFormat, q.DateFrom)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid dateFrom", err)
		}
		query.Filter.DateFrom = &from
	}
	if q.DateTo != "" {
		to, err := time.Parse(dateFormat, q.DateTo)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid dateTo", err)
		}
		query.Filter.DateTo = &to
	}
	if q.AmountMin != "" {
		min, err := decimal.NewFromString(q.AmountMin)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid amountMin", err)
		}
		query.Filter.AmountMin = &min
	}
	if q.AmountMax != "" {
		max, err := decimal.NewFromString(q.AmountMax)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid amountMax", err)
		}
		query.Filter.AmountMax = &max
	}

	return query, nil
}
