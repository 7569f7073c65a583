// Package rates fetches currency rates from the remote exchange-rate service
// and keeps the engine's rate table refreshed.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/paymaster/internal/domain"
)

// Client fetches the latest rates for one base currency.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	baseCurrency string
}

// NewClient creates a new rate service client.
func NewClient(baseURL, apiKey, baseCurrency string, timeout time.Duration) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: timeout},
		baseURL:      baseURL,
		apiKey:       apiKey,
		baseCurrency: baseCurrency,
	}
}

// latestResponse is the relevant part of the service's JSON body.
type latestResponse struct {
	ConversionRates map[string]decimal.Decimal `json:"conversion_rates"`
}

// Fetch returns every currency's rate relative to the base currency. Any
// non-2xx status or malformed body is a fetch failure; the caller leaves the
// existing rate table untouched in that case.
func (c *Client) Fetch(ctx context.Context) ([]domain.CurrencyRate, error) {
	url := fmt.Sprintf("%s/v6/%s/latest/%s", c.baseURL, c.apiKey, c.baseCurrency)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rate service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("rate service returned status %d", resp.StatusCode)
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("malformed rate service response: %w", err)
	}

	if len(body.ConversionRates) == 0 {
		return nil, fmt.Errorf("rate service response has no conversion_rates")
	}

	rates := make([]domain.CurrencyRate, 0, len(body.ConversionRates))
	for code, rate := range body.ConversionRates {
		rates = append(rates, domain.CurrencyRate{Code: code, Rate: rate})
	}

	return rates, nil
}
