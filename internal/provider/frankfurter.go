package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// FrankfurterProvider fetches ECB reference rates from frankfurter.dev,
// a keyless endpoint. Frankfurter omits the base currency from its rates
// map, so the adapter inserts the identity rate during normalization.
type FrankfurterProvider struct {
	baseURL string
	client  *http.Client
}

type frankfurterResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

func NewFrankfurterProvider(client *http.Client) *FrankfurterProvider {
	return &FrankfurterProvider{
		baseURL: "https://api.frankfurter.dev/v1/latest",
		client:  client,
	}
}

func (p *FrankfurterProvider) Name() string {
	return "frankfurter.dev"
}

func (p *FrankfurterProvider) FetchLatest(ctx context.Context, bridge string) (map[string]float64, time.Time, error) {
	url := fmt.Sprintf("%s?base=%s", p.baseURL, bridge)

	body, err := getJSON(ctx, p.client, url)
	if err != nil {
		return nil, time.Time{}, err
	}

	var apiResp frankfurterResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(apiResp.Rates) == 0 {
		return nil, time.Time{}, fmt.Errorf("%w: empty rates", ErrMalformedResponse)
	}

	rates := make(map[string]float64, len(apiResp.Rates)+1)
	for code, rate := range apiResp.Rates {
		rates[code] = rate
	}
	rates[bridge] = 1

	asOf, err := time.Parse("2006-01-02", apiResp.Date)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: bad date %q", ErrMalformedResponse, apiResp.Date)
	}
	return rates, asOf, nil
}
