package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ERAPIProvider fetches rates from open.er-api.com, a keyless endpoint
// publishing bridge-relative rates with a last-update timestamp.
type ERAPIProvider struct {
	baseURL string
	client  *http.Client
}

type erAPIResponse struct {
	Result             string             `json:"result"`
	BaseCode           string             `json:"base_code"`
	TimeLastUpdateUnix int64              `json:"time_last_update_unix"`
	Rates              map[string]float64 `json:"rates"`
}

func NewERAPIProvider(client *http.Client) *ERAPIProvider {
	return &ERAPIProvider{
		baseURL: "https://open.er-api.com/v6/latest",
		client:  client,
	}
}

func (p *ERAPIProvider) Name() string {
	return "open.er-api.com"
}

func (p *ERAPIProvider) FetchLatest(ctx context.Context, bridge string) (map[string]float64, time.Time, error) {
	url := fmt.Sprintf("%s/%s", p.baseURL, bridge)

	body, err := getJSON(ctx, p.client, url)
	if err != nil {
		return nil, time.Time{}, err
	}

	var apiResp erAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if apiResp.Result != "success" || len(apiResp.Rates) == 0 {
		return nil, time.Time{}, fmt.Errorf("%w: result=%q", ErrMalformedResponse, apiResp.Result)
	}

	asOf := time.Unix(apiResp.TimeLastUpdateUnix, 0).UTC()
	return apiResp.Rates, asOf, nil
}

// getJSON issues a bounded GET and classifies transport-level failures. The
// deadline comes from the chain's per-provider context.
func getJSON(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnreachable, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrProviderTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrProviderUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrProviderUnreachable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return body, nil
}
