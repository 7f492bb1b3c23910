package ksiegowosc

import (
	"context"
	"encoding/json"

	pkgerrors "github.com/kevin07696/ksiegowosc-client/pkg/errors"
)

const (
	pathGetInvoices = "v1/getinvoices"
	pathSendInvoice = "v1/sendinvoice"
)

// AccountingDoc is the type of an accounting document
type AccountingDoc int

const (
	DocInvoice       AccountingDoc = 1 // faktura
	DocBill          AccountingDoc = 2 // rachunek
	DocReceipt       AccountingDoc = 3 // paragon
	DocNoDoc         AccountingDoc = 4
	DocCredit        AccountingDoc = 5
	DocPrepayment    AccountingDoc = 6
	DocFinanceCharge AccountingDoc = 7
	DocDelivery      AccountingDoc = 8
	DocGroupInvoice  AccountingDoc = 9
)

// ItemType classifies an invoice row item
type ItemType int

const (
	ItemStock   ItemType = 1
	ItemService ItemType = 2
	ItemItem    ItemType = 3
)

// InvoiceQuery filters the invoice list. Periods use YYYYMMDD.
type InvoiceQuery struct {
	PeriodStart string `json:"PeriodStart,omitempty"`
	PeriodEnd   string `json:"PeriodEnd,omitempty"`
	UnPaid      *bool  `json:"UnPaid,omitempty"`
}

// Invoice is a sales invoice as returned by getinvoices
type Invoice struct {
	SIHId           string        `json:"SIHId"`
	DepartmentCode  *string       `json:"DepartmentCode"`
	DepartmentName  *string       `json:"DepartmentName"`
	ProjectCode     *string       `json:"ProjectCode"`
	ProjectName     *string       `json:"ProjectName"`
	AccountingDoc   AccountingDoc `json:"AccountingDoc"`
	BatchInfo       string        `json:"BatchInfo"`
	InvoiceNo       string        `json:"InvoiceNo"`
	DocumentDate    string        `json:"DocumentDate"`
	TransactionDate string        `json:"TransactionDate"`
	CustomerId      string        `json:"CustomerId"`
	CustomerName    string        `json:"CustomerName"`
	CustomerRegNo   *string       `json:"CustomerRegNo"`
	HComment        *string       `json:"HComment"`
	FComment        string        `json:"FComment"`
	DueDate         string        `json:"DueDate"`
	CurrencyCode    string        `json:"CurrencyCode"`
	CurrencyRate    Amount        `json:"CurrencyRate"`
	TaxAmount       Amount        `json:"TaxAmount"`
	RoundingAmount  Amount        `json:"RoundingAmount"`
	TotalAmount     Amount        `json:"TotalAmount"`
	ProfitAmount    Amount        `json:"ProfitAmount"`
	TotalSum        Amount        `json:"TotalSum"`
	UserName        string        `json:"UserName"`
	ReferenceNo     string        `json:"ReferenceNo"`
	PriceInclVat    bool          `json:"PriceInclVat"`
	VatRegNo        string        `json:"VatRegNo"`
	PaidAmount      Amount        `json:"PaidAmount"`
	EInvSent        bool          `json:"EInvSent"`
	EInvSentDate    string        `json:"EInvSentDate"`
	EmailSent       string        `json:"EmailSent"`
	EInvOperator    int           `json:"EInvOperator"`
	OfferId         string        `json:"OfferId"`
	OfferDocType    *string       `json:"OfferDocType"`
	OfferNo         *string       `json:"OfferNo"`
	FileExists      bool          `json:"FileExists"`
	PerSHId         string        `json:"PerSHId"`
	ContractNo      *string       `json:"ContractNo"`
	Paid            bool          `json:"Paid"`
	Contact         *string       `json:"Contact"`
}

// InvoiceCustomer references the invoice's customer: either an existing
// customer by Id, or full details to create one on the fly.
type InvoiceCustomer struct {
	Id  string
	New *NewCustomer
}

// ExistingCustomer references a customer already stored in the company database
func ExistingCustomer(id string) InvoiceCustomer {
	return InvoiceCustomer{Id: id}
}

// MarshalJSON encodes {"Id": ...} for an existing customer or the full
// customer object otherwise
func (c InvoiceCustomer) MarshalJSON() ([]byte, error) {
	if c.New != nil {
		return json.Marshal(c.New)
	}
	return json.Marshal(struct {
		Id string `json:"Id"`
	}{Id: c.Id})
}

// UnmarshalJSON treats an object with a Name as new customer details and
// anything else as a reference by Id
func (c *InvoiceCustomer) UnmarshalJSON(data []byte) error {
	var probe struct {
		Id   string `json:"Id"`
		Name string `json:"Name"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.Name == "" {
		*c = InvoiceCustomer{Id: probe.Id}
		return nil
	}

	var details NewCustomer
	if err := json.Unmarshal(data, &details); err != nil {
		return err
	}
	*c = InvoiceCustomer{New: &details}
	return nil
}

// ItemObject describes the item sold on an invoice row
type ItemObject struct {
	Code             string   `json:"Code"`
	Description      string   `json:"Description"` // truncated by the API beyond 150 characters
	Type             ItemType `json:"Type"`
	UOMName          string   `json:"UOMName"`
	DefLocationCode  string   `json:"DefLocationCode,omitempty"`
	GTUCode          int      `json:"GTUCode,omitempty"` // Poland only, 1..13
	SalesAccCode     string   `json:"SalesAccCode,omitempty"`
	PurchaseAccCode  string   `json:"PurchaseAccCode,omitempty"`
	InventoryAccCode string   `json:"InventoryAccCode,omitempty"`
	CostAccCode      string   `json:"CostAccCode,omitempty"`
}

// DimensionsObject tags a row with an analytic dimension
type DimensionsObject struct {
	DimId      int    `json:"DimId"`
	DimValueId string `json:"DimValueId"`
	DimCode    string `json:"DimCode"`
}

// InvoiceRowObject is a single line of an invoice
type InvoiceRowObject struct {
	Item           ItemObject         `json:"Item"`
	Quantity       Amount             `json:"Quantity"`
	Price          *Amount            `json:"Price,omitempty"` // taken from the price table when omitted
	DiscountPct    *Amount            `json:"DiscountPct,omitempty"`
	DiscountAmount *Amount            `json:"DiscountAmount,omitempty"`
	TaxId          string             `json:"TaxId"`
	LocationCode   string             `json:"LocationCode,omitempty"`
	DepartmentCode string             `json:"DepartmentCode,omitempty"`
	GLAccountCode  string             `json:"GLAccountCode,omitempty"`
	Dimensions     []DimensionsObject `json:"Dimensions,omitempty"`
	ItemCostAmount *Amount            `json:"ItemCostAmount,omitempty"`
	VatDate        string             `json:"VatDate,omitempty"` // YYYYMMDD
}

// TaxObject is a VAT line of an invoice
type TaxObject struct {
	TaxId  string  `json:"TaxId"`
	Amount *Amount `json:"Amount,omitempty"`
}

// PaymentObject marks the invoice as already paid
type PaymentObject struct {
	PaymentMethod string `json:"PaymentMethod"`
	PaidAmount    Amount `json:"PaidAmount"`
	PaymDate      string `json:"PaymDate"` // YYYYmmddHHii
}

// CreateInvoicePayload is the body of sendinvoice
type CreateInvoicePayload struct {
	Customer        InvoiceCustomer    `json:"Customer"`
	AccountingDoc   AccountingDoc      `json:"AccountingDoc,omitempty"`
	ProcCodes       []string           `json:"ProcCodes,omitempty"` // Poland only
	PolDocType      int                `json:"PolDocType,omitempty"`
	DocDate         string             `json:"DocDate"`
	DueDate         string             `json:"DueDate"`
	TransactionDate string             `json:"TransactionDate,omitempty"`
	InvoiceNo       string             `json:"InvoiceNo"`
	RefNo           string             `json:"RefNo,omitempty"`
	CurrencyCode    string             `json:"CurrencyCode,omitempty"`
	DepartmentCode  string             `json:"DepartmentCode,omitempty"`
	ProjectCode     string             `json:"ProjectCode,omitempty"`
	InvoiceRow      []InvoiceRowObject `json:"InvoiceRow"`
	TaxAmount       []TaxObject        `json:"TaxAmount"`
	RoundingAmount  *Amount            `json:"RoundingAmount,omitempty"`
	TotalAmount     Amount             `json:"TotalAmount"`
	Payment         *PaymentObject     `json:"Payment,omitempty"`
	Hcomment        string             `json:"Hcomment,omitempty"`
	Fcomment        string             `json:"Fcomment,omitempty"`
	ContractNo      string             `json:"ContractNo,omitempty"`
	PDF             string             `json:"PDF,omitempty"` // base64
}

// Validate checks the fields the API requires before anything is sent
func (p *CreateInvoicePayload) Validate() error {
	if p.InvoiceNo == "" {
		return pkgerrors.NewValidationError("InvoiceNo", "invoice number is required")
	}
	if p.DocDate == "" {
		return pkgerrors.NewValidationError("DocDate", "document date is required")
	}
	if p.DueDate == "" {
		return pkgerrors.NewValidationError("DueDate", "due date is required")
	}
	if len(p.InvoiceRow) == 0 {
		return pkgerrors.NewValidationError("InvoiceRow", "at least one invoice row is required")
	}
	for _, row := range p.InvoiceRow {
		if row.TaxId == "" {
			return pkgerrors.NewValidationError("InvoiceRow.TaxId", "every row needs a tax id from gettaxes")
		}
	}
	if p.Customer.New == nil {
		if p.Customer.Id == "" {
			return pkgerrors.NewValidationError("Customer", "customer id or new customer details are required")
		}
		return nil
	}
	return p.Customer.New.Validate()
}

// CreateInvoiceResult is returned by sendinvoice
type CreateInvoiceResult struct {
	InvoiceId string `json:"InvoiceId"`
	InvoiceNo string `json:"InvoiceNo"`
}

// GetInvoices lists sales invoices matching query
func (c *Client) GetInvoices(ctx context.Context, query *InvoiceQuery) ([]Invoice, error) {
	if query == nil {
		query = &InvoiceQuery{}
	}

	var invoices []Invoice
	if err := c.Do(ctx, pathGetInvoices, query, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

// CreateInvoice creates a sales invoice
func (c *Client) CreateInvoice(ctx context.Context, payload *CreateInvoicePayload) (*CreateInvoiceResult, error) {
	if payload == nil {
		return nil, pkgerrors.NewValidationError("payload", "invoice payload is required")
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	var result CreateInvoiceResult
	if err := c.Do(ctx, pathSendInvoice, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
