package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Per-provider failure classes. Each is recovered locally by the chain,
// which records it and advances to the next provider.
var (
	ErrProviderTimeout     = errors.New("provider timed out")
	ErrProviderUnreachable = errors.New("provider unreachable")
	ErrMalformedResponse   = errors.New("provider returned malformed response")
	ErrMissingCurrencies   = errors.New("provider response missing required currencies")
)

// Provider fetches the latest bridge-relative rates from one external
// source. Adding a provider means implementing this translation and
// appending it to the chain's ordered list.
type Provider interface {
	Name() string

	// FetchLatest returns a map of currency code to "units per one bridge
	// unit" plus the provider's own as-of timestamp.
	FetchLatest(ctx context.Context, bridge string) (map[string]float64, time.Time, error)
}

// Failure records why one provider in the chain was skipped.
type Failure struct {
	Provider string
	Err      error
}

func (f Failure) String() string {
	return fmt.Sprintf("%s: %v", f.Provider, f.Err)
}

// UpstreamUnavailableError means every provider in the chain failed. It
// carries the ordered per-provider reasons for diagnostics and is the only
// error the chain propagates.
type UpstreamUnavailableError struct {
	Failures []Failure
}

func (e *UpstreamUnavailableError) Error() string {
	reasons := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		reasons = append(reasons, f.String())
	}
	return "all rate providers failed: " + strings.Join(reasons, "; ")
}
