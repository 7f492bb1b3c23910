package ksiegowosc

import "context"

const pathGetTaxes = "v1/gettaxes"

// Tax is a VAT rate configured for the company
type Tax struct {
	Id        string `json:"Id"`
	Code      string `json:"Code"`
	Name      string `json:"Name"`
	TaxPct    Amount `json:"TaxPct"`
	NonActive bool   `json:"NonActive"`
}

// GetTaxes lists the company's tax rates. Row TaxId values on invoices must
// come from this list.
func (c *Client) GetTaxes(ctx context.Context) ([]Tax, error) {
	var taxes []Tax
	if err := c.Do(ctx, pathGetTaxes, struct{}{}, &taxes); err != nil {
		return nil, err
	}
	return taxes, nil
}
