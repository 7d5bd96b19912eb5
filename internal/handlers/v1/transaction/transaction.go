package transaction

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	store "github.com/carson-networks/cashbook-server/internal/storage/transaction"
)

const dateFormat = "2006-01-02"

// Transaction is the API response model for a transaction.
type Transaction struct {
	ID        string `json:"id" doc:"Transaction UUID"`
	UserID    string `json:"userID" doc:"Creator user UUID"`
	AccountID string `json:"accountID,omitempty" doc:"Account UUID, absent for personal transactions"`
	Type      string `json:"type" doc:"Income or Expense"`
	Amount    string `json:"amount" doc:"Decimal amount"`
	Category  string `json:"category,omitempty" doc:"Category label"`
	Name      string `json:"name,omitempty" doc:"Short name"`
	Remark    string `json:"remark,omitempty" doc:"Free-form remark"`
	Mode      string `json:"mode,omitempty" doc:"Payment mode"`
	Date      string `json:"date" doc:"Transaction date, YYYY-MM-DD"`
	Time      string `json:"time" doc:"Transaction time, HH:MM:SS"`

	EmployerName string `json:"employerName,omitempty" doc:"Income: employer name"`
	SalaryMonth  string `json:"salaryMonth,omitempty" doc:"Income: salary month"`
	TaxDeducted  string `json:"taxDeducted,omitempty" doc:"Income: tax deducted at source"`
	NetAmount    string `json:"netAmount,omitempty" doc:"Income: net amount received"`

	VendorName    string `json:"vendorName,omitempty" doc:"Expense: vendor name"`
	InvoiceNumber string `json:"invoiceNumber,omitempty" doc:"Expense: invoice number"`
	ReceiptNumber string `json:"receiptNumber,omitempty" doc:"Expense: receipt number"`
	TaxAmount     string `json:"taxAmount,omitempty" doc:"Expense: tax amount"`
	TaxPercentage string `json:"taxPercentage,omitempty" doc:"Expense: tax percentage"`

	Location           string                     `json:"location,omitempty" doc:"Free-form location"`
	Tags               []json.RawMessage          `json:"tags,omitempty" doc:"Opaque tag list"`
	Attachments        []json.RawMessage          `json:"attachments,omitempty" doc:"Opaque attachment list"`
	Recurring          bool                       `json:"recurring" doc:"Whether the transaction recurs"`
	RecurringFrequency string                     `json:"recurringFrequency,omitempty" doc:"daily, weekly, monthly or yearly"`
	NextDueDate        string                     `json:"nextDueDate,omitempty" doc:"Next occurrence, YYYY-MM-DD"`
	CustomFields       map[string]json.RawMessage `json:"customFields,omitempty" doc:"Opaque string-keyed payload"`

	CreatedAt string `json:"createdAt" doc:"RFC3339 creation time"`
	UpdatedAt string `json:"updatedAt" doc:"RFC3339 last update time"`
}

// FieldsBody carries the mutable transaction attributes in request
// bodies. Tags, attachments and custom fields pass through verbatim.
type FieldsBody struct {
	Type     string `json:"type" required:"true" enum:"Income,Expense" doc:"Transaction direction"`
	Amount   string `json:"amount" required:"true" doc:"Decimal amount"`
	Category string `json:"category,omitempty" doc:"Category label"`
	Name     string `json:"name,omitempty" doc:"Short name"`
	Remark   string `json:"remark,omitempty" doc:"Free-form remark"`
	Mode     string `json:"mode,omitempty" doc:"Payment mode"`
	Date     string `json:"date,omitempty" doc:"Transaction date, YYYY-MM-DD, defaults to today"`
	Time     string `json:"time,omitempty" doc:"Transaction time, HH:MM:SS, defaults to now"`

	EmployerName string `json:"employerName,omitempty" doc:"Income: employer name"`
	SalaryMonth  string `json:"salaryMonth,omitempty" doc:"Income: salary month"`
	TaxDeducted  string `json:"taxDeducted,omitempty" doc:"Income: tax deducted at source"`
	NetAmount    string `json:"netAmount,omitempty" doc:"Income: net amount received"`

	VendorName    string `json:"vendorName,omitempty" doc:"Expense: vendor name"`
	InvoiceNumber string `json:"invoiceNumber,omitempty" doc:"Expense: invoice number"`
	ReceiptNumber string `json:"receiptNumber,omitempty" doc:"Expense: receipt number"`
	TaxAmount     string `json:"taxAmount,omitempty" doc:"Expense: tax amount"`
	TaxPercentage string `json:"taxPercentage,omitempty" doc:"Expense: tax percentage"`

	Location           string                     `json:"location,omitempty" doc:"Free-form location"`
	Tags               []json.RawMessage          `json:"tags,omitempty" doc:"Opaque tag list"`
	Attachments        []json.RawMessage          `json:"attachments,omitempty" doc:"Opaque attachment list"`
	Recurring          bool                       `json:"recurring,omitempty" doc:"Whether the transaction recurs"`
	RecurringFrequency string                     `json:"recurringFrequency,omitempty" doc:"daily, weekly, monthly or yearly"`
	NextDueDate        string                     `json:"nextDueDate,omitempty" doc:"Next occurrence, YYYY-MM-DD"`
	CustomFields       map[string]json.RawMessage `json:"customFields,omitempty" doc:"Opaque string-keyed payload"`
}

// toFields parses the body into storage fields, rejecting malformed
// decimals and dates before the service sees them.
func (b *FieldsBody) toFields() (*store.Fields, error) {
	amount, err := decimal.NewFromString(b.Amount)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}

	fields := &store.Fields{
		Type:               store.Type(b.Type),
		Amount:             amount,
		Category:           b.Category,
		Name:               b.Name,
		Remark:             b.Remark,
		Mode:               b.Mode,
		Time:               b.Time,
		EmployerName:       b.EmployerName,
		SalaryMonth:        b.SalaryMonth,
		VendorName:         b.VendorName,
		InvoiceNumber:      b.InvoiceNumber,
		ReceiptNumber:      b.ReceiptNumber,
		Location:           b.Location,
		Tags:               b.Tags,
		Attachments:        b.Attachments,
		Recurring:          b.Recurring,
		RecurringFrequency: b.RecurringFrequency,
		CustomFields:       b.CustomFields,
	}

	if b.Date != "" {
		date, err := time.Parse(dateFormat, b.Date)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid date", err)
		}
		fields.Date = date
	}
	if b.NextDueDate != "" {
		due, err := time.Parse(dateFormat, b.NextDueDate)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid nextDueDate", err)
		}
		fields.NextDueDate = &due
	}

	if fields.TaxDeducted, err = parseOptionalDecimal("taxDeducted", b.TaxDeducted); err != nil {
		return nil, err
	}
	if fields.NetAmount, err = parseOptionalDecimal("netAmount", b.NetAmount); err != nil {
		return nil, err
	}
	if fields.TaxAmount, err = parseOptionalDecimal("taxAmount", b.TaxAmount); err != nil {
		return nil, err
	}
	if fields.TaxPercentage, err = parseOptionalDecimal("taxPercentage", b.TaxPercentage); err != nil {
		return nil, err
	}

	return fields, nil
}

func parseOptionalDecimal(name, value string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid "+name, err)
	}
	return &d, nil
}

func fromTransaction(txn *store.Transaction) Transaction {
	out := Transaction{
		ID:                 txn.ID.String(),
		UserID:             txn.UserID.String(),
		Type:               string(txn.Type),
		Amount:             txn.Amount.StringFixed(2),
		Category:           txn.Category,
		Name:               txn.Name,
		Remark:             txn.Remark,
		Mode:               txn.Mode,
		Date:               txn.Date.Format(dateFormat),
		Time:               txn.Time,
		EmployerName:       txn.EmployerName,
		SalaryMonth:        txn.SalaryMonth,
		VendorName:         txn.VendorName,
		InvoiceNumber:      txn.InvoiceNumber,
		ReceiptNumber:      txn.ReceiptNumber,
		Location:           txn.Location,
		Tags:               txn.Tags,
		Attachments:        txn.Attachments,
		Recurring:          txn.Recurring,
		RecurringFrequency: txn.RecurringFrequency,
		CustomFields:       txn.CustomFields,
		CreatedAt:          txn.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          txn.UpdatedAt.Format(time.RFC3339),
	}
	if txn.AccountID != nil {
		out.AccountID = txn.AccountID.String()
	}
	if txn.TaxDeducted != nil {
		out.TaxDeducted = txn.TaxDeducted.String()
	}
	if txn.NetAmount != nil {
		out.NetAmount = txn.NetAmount.String()
	}
	if txn.TaxAmount != nil {
		out.TaxAmount = txn.TaxAmount.String()
	}
	if txn.TaxPercentage != nil {
		out.TaxPercentage = txn.TaxPercentage.String()
	}
	if txn.NextDueDate != nil {
		out.NextDueDate = txn.NextDueDate.Format(dateFormat)
	}
	return out
}
