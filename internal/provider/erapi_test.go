package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestERAPIProviderFetchLatest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/USD" {
			t.Errorf("request path = %s, want /USD", r.URL.Path)
		}
		w.Write([]byte(`{
			"result": "success",
			"base_code": "USD",
			"time_last_update_unix": 1741564800,
			"rates": {"USD": 1, "GBP": 0.740302, "NOK": 10.04675}
		}`))
	}))
	defer srv.Close()

	p := NewERAPIProvider(srv.Client())
	p.baseURL = srv.URL

	rates, asOf, err := p.FetchLatest(context.Background(), "USD")
	if err != nil {
		t.Fatalf("FetchLatest() returned error: %v", err)
	}
	if rates["NOK"] != 10.04675 {
		t.Errorf("NOK rate = %v, want 10.04675", rates["NOK"])
	}
	if asOf.IsZero() {
		t.Errorf("as-of timestamp is zero")
	}
}

func TestERAPIProviderErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "non-success status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			wantErr: ErrProviderUnreachable,
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"result": "success", "rates":`))
			},
			wantErr: ErrMalformedResponse,
		},
		{
			name: "error result",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"result": "error"}`))
			},
			wantErr: ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			p := NewERAPIProvider(srv.Client())
			p.baseURL = srv.URL

			_, _, err := p.FetchLatest(context.Background(), "USD")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("FetchLatest() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestERAPIProviderTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	p := NewERAPIProvider(srv.Client())
	p.baseURL = srv.URL

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, _, err := p.FetchLatest(ctx, "USD")
	if !errors.Is(err, ErrProviderTimeout) {
		t.Errorf("FetchLatest() error = %v, want %v", err, ErrProviderTimeout)
	}
}

func TestFrankfurterProviderInsertsBridgeIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("base"); got != "USD" {
			t.Errorf("base query = %s, want USD", got)
		}
		w.Write([]byte(`{
			"base": "USD",
			"date": "2025-03-10",
			"rates": {"GBP": 0.740302, "NOK": 10.04675}
		}`))
	}))
	defer srv.Close()

	p := NewFrankfurterProvider(srv.Client())
	p.baseURL = srv.URL

	rates, asOf, err := p.FetchLatest(context.Background(), "USD")
	if err != nil {
		t.Fatalf("FetchLatest() returned error: %v", err)
	}
	if rates["USD"] != 1 {
		t.Errorf("bridge identity rate = %v, want 1", rates["USD"])
	}
	if asOf.Format("2006-01-02") != "2025-03-10" {
		t.Errorf("as-of day = %s, want 2025-03-10", asOf.Format("2006-01-02"))
	}
}
