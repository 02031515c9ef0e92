package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ExchangeRateAPIProvider fetches rates from v6.exchangerate-api.com. It
// requires an API key and is only registered when one is configured.
type ExchangeRateAPIProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

type exchangeRateAPIResponse struct {
	Result             string             `json:"result"`
	BaseCode           string             `json:"base_code"`
	TimeLastUpdateUnix int64              `json:"time_last_update_unix"`
	ConversionRates    map[string]float64 `json:"conversion_rates"`
}

func NewExchangeRateAPIProvider(apiKey string, client *http.Client) *ExchangeRateAPIProvider {
	return &ExchangeRateAPIProvider{
		baseURL: "https://v6.exchangerate-api.com/v6",
		apiKey:  apiKey,
		client:  client,
	}
}

func (p *ExchangeRateAPIProvider) Name() string {
	return "exchangerate-api.com"
}

func (p *ExchangeRateAPIProvider) FetchLatest(ctx context.Context, bridge string) (map[string]float64, time.Time, error) {
	url := fmt.Sprintf("%s/%s/latest/%s", p.baseURL, p.apiKey, bridge)

	body, err := getJSON(ctx, p.client, url)
	if err != nil {
		return nil, time.Time{}, err
	}

	var apiResp exchangeRateAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if apiResp.Result != "success" || len(apiResp.ConversionRates) == 0 {
		return nil, time.Time{}, fmt.Errorf("%w: result=%q", ErrMalformedResponse, apiResp.Result)
	}

	asOf := time.Unix(apiResp.TimeLastUpdateUnix, 0).UTC()
	return apiResp.ConversionRates, asOf, nil
}
