package ksiegowosc

import "context"

const pathGetBanks = "v1/getbanks"

// Bank is a company bank account
type Bank struct {
	BankId       string `json:"BankId"`
	Name         string `json:"Name"`
	IBANCode     string `json:"IBANCode"`
	Description  string `json:"Description"`
	CurrencyCode string `json:"CurrencyCode"`
	AccountCode  string `json:"AccountCode"`
}

// GetBanks lists the company's bank accounts
func (c *Client) GetBanks(ctx context.Context) ([]Bank, error) {
	var banks []Bank
	if err := c.Do(ctx, pathGetBanks, struct{}{}, &banks); err != nil {
		return nil, err
	}
	return banks, nil
}
