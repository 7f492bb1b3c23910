package ksiegowosc

import (
	"context"

	pkgerrors "github.com/kevin07696/ksiegowosc-client/pkg/errors"
)

const (
	pathGetCustomers = "v1/getcustomers"
	pathSendCustomer = "v2/sendcustomer"
)

// EInvOperator selects how e-invoices reach the customer
type EInvOperator int

const (
	EInvNone        EInvOperator = 1
	EInvOmniva      EInvOperator = 2
	EInvBankFull    EInvOperator = 3
	EInvBankLimited EInvOperator = 4
)

// Customer is a customer record as returned by getcustomers
type Customer struct {
	CustomerId      string       `json:"CustomerId"`
	Name            string       `json:"Name"`
	RegNo           string       `json:"RegNo,omitempty"`
	NotTDCustomer   bool         `json:"NotTDCustomer"`
	VatRegNo        string       `json:"VatRegNo,omitempty"`
	CurrencyCode    string       `json:"CurrencyCode,omitempty"`
	PaymentDeadLine *int         `json:"PaymentDeadLine,omitempty"`
	OverDueCharge   *Amount      `json:"OverDueCharge,omitempty"`
	Address         string       `json:"Address,omitempty"`
	City            string       `json:"City,omitempty"`
	County          string       `json:"County,omitempty"`
	PostalCode      string       `json:"PostalCode,omitempty"`
	CountryCode     string       `json:"CountryCode"`
	PhoneNo         string       `json:"PhoneNo,omitempty"`
	PhoneNo2        string       `json:"PhoneNo2,omitempty"`
	HomePage        string       `json:"HomePage,omitempty"`
	Email           string       `json:"Email,omitempty"`
	SalesInvLang    string       `json:"SalesInvLang,omitempty"`
	RefNoBase       string       `json:"RefNoBase,omitempty"`
	EInvPaymId      string       `json:"EInvPaymId,omitempty"`
	EInvOperator    EInvOperator `json:"EInvOperator,omitempty"`
	BankAccount     string       `json:"BankAccount,omitempty"`
	Contact         string       `json:"Contact,omitempty"`
	ApixEinv        string       `json:"ApixEinv,omitempty"`
}

// NewCustomer is a customer without its server-assigned id, used by
// sendcustomer and for inline customers on sendinvoice
type NewCustomer struct {
	Name            string       `json:"Name"`
	RegNo           string       `json:"RegNo,omitempty"`
	NotTDCustomer   bool         `json:"NotTDCustomer"` // true for physical persons and foreign companies
	VatRegNo        string       `json:"VatRegNo,omitempty"`
	CurrencyCode    string       `json:"CurrencyCode,omitempty"`
	PaymentDeadLine *int         `json:"PaymentDeadLine,omitempty"`
	OverDueCharge   *Amount      `json:"OverDueCharge,omitempty"`
	Address         string       `json:"Address,omitempty"`
	City            string       `json:"City,omitempty"`
	County          string       `json:"County,omitempty"`
	PostalCode      string       `json:"PostalCode,omitempty"`
	CountryCode     string       `json:"CountryCode"` // ISO 3166-1 alpha-2
	PhoneNo         string       `json:"PhoneNo,omitempty"`
	PhoneNo2        string       `json:"PhoneNo2,omitempty"`
	HomePage        string       `json:"HomePage,omitempty"`
	Email           string       `json:"Email,omitempty"`
	SalesInvLang    string       `json:"SalesInvLang,omitempty"`
	RefNoBase       string       `json:"RefNoBase,omitempty"`
	EInvPaymId      string       `json:"EInvPaymId,omitempty"`
	EInvOperator    EInvOperator `json:"EInvOperator,omitempty"`
	BankAccount     string       `json:"BankAccount,omitempty"`
	Contact         string       `json:"Contact,omitempty"`
	ApixEinv        string       `json:"ApixEinv,omitempty"`
}

// Validate checks the fields required to add a customer
func (c *NewCustomer) Validate() error {
	if c.Name == "" {
		return pkgerrors.NewValidationError("Customer.Name", "customer name is required")
	}
	if len(c.CountryCode) != 2 {
		return pkgerrors.NewValidationError("Customer.CountryCode", "two-letter country code is required")
	}
	return nil
}

// CustomerQuery filters the customer list. All fields are optional.
type CustomerQuery struct {
	Id          string `json:"Id,omitempty"`
	RegNo       string `json:"RegNo,omitempty"`
	VatRegNo    string `json:"VatRegNo,omitempty"`
	Name        string `json:"Name,omitempty"`
	CountryCode string `json:"CountryCode,omitempty"`
}

// CreateCustomerResult is returned by sendcustomer
type CreateCustomerResult struct {
	Id string `json:"Id"`
}

// GetCustomers lists customers matching query
func (c *Client) GetCustomers(ctx context.Context, query *CustomerQuery) ([]Customer, error) {
	if query == nil {
		query = &CustomerQuery{}
	}

	var customers []Customer
	if err := c.Do(ctx, pathGetCustomers, query, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// CreateCustomer adds a customer and returns its new id
func (c *Client) CreateCustomer(ctx context.Context, customer *NewCustomer) (*CreateCustomerResult, error) {
	if customer == nil {
		return nil, pkgerrors.NewValidationError("payload", "customer payload is required")
	}
	if err := customer.Validate(); err != nil {
		return nil, err
	}

	var result CreateCustomerResult
	if err := c.Do(ctx, pathSendCustomer, customer, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
