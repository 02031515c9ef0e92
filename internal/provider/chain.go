package provider

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/geekskai/exchange-rate-service/internal/models"
)

// DefaultTimeout bounds each provider call so a dead upstream cannot stall
// the request path.
const DefaultTimeout = 8 * time.Second

// Chain tries an ordered list of providers and returns the first snapshot
// that covers every required currency. Providers further down the list are
// never called once one succeeds.
type Chain struct {
	providers []Provider
	bridge    string
	timeout   time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

func NewChain(providers []Provider, bridge string, timeout time.Duration, logger *zap.Logger) *Chain {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Chain{
		providers: providers,
		bridge:    bridge,
		timeout:   timeout,
		logger:    logger,
		now:       time.Now,
	}
}

// Fetch walks the chain until one provider yields a snapshot containing
// the bridge identity rate and all required currencies. When every provider
// fails it returns an *UpstreamUnavailableError listing the reasons in
// chain order.
func (c *Chain) Fetch(ctx context.Context, required []string) (*models.RateSnapshot, error) {
	var failures []Failure

	for _, p := range c.providers {
		snap, err := c.tryProvider(ctx, p, required)
		if err != nil {
			c.logger.Warn("rate provider failed, advancing to next",
				zap.String("provider", p.Name()),
				zap.Error(err))
			failures = append(failures, Failure{Provider: p.Name(), Err: err})
			continue
		}

		c.logger.Info("fetched fresh rate snapshot",
			zap.String("provider", p.Name()),
			zap.String("calendar_day", snap.CalendarDay),
			zap.Int("currencies", len(snap.Rates)))
		return snap, nil
	}

	return nil, &UpstreamUnavailableError{Failures: failures}
}

func (c *Chain) tryProvider(ctx context.Context, p Provider, required []string) (*models.RateSnapshot, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	allRates, _, err := p.FetchLatest(callCtx, c.bridge)
	if err != nil {
		return nil, err
	}

	rates := make(map[string]float64, len(required)+1)
	for _, code := range append([]string{c.bridge}, required...) {
		rate, ok := allRates[code]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingCurrencies, code)
		}
		rates[code] = rate
	}

	now := c.now().UTC()
	snap := &models.RateSnapshot{
		FetchedAt:      now.UnixMilli(),
		CalendarDay:    now.Format(models.DayFormat),
		BridgeCurrency: c.bridge,
		Rates:          rates,
		Provider:       p.Name(),
	}

	if err := snap.Validate(required); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingCurrencies, err)
	}
	return snap, nil
}
