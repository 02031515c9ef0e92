package fallback

import (
	"fmt"
	"time"

	"github.com/geekskai/exchange-rate-service/internal/models"
)

// staticRates are last-resort bridge-relative (USD) rates, updated manually
// and infrequently. They are only consulted when every upstream provider
// fails.
var staticRates = map[string]float64{
	"USD": 1,
	"EUR": 0.921,
	"GBP": 0.740302,
	"NOK": 10.04675,
	"SEK": 10.4821,
	"DKK": 6.8714,
	"JPY": 149.85,
	"CHF": 0.8821,
	"CAD": 1.3614,
	"AUD": 1.5289,
}

// Table is the static last-resort rate source. Construction fails when the
// table does not cover the configured currency set, so a coverage gap is a
// startup error rather than a request-time surprise.
type Table struct {
	bridge string
	rates  map[string]float64
}

func New(bridge string, required []string) (*Table, error) {
	if _, ok := staticRates[bridge]; !ok {
		return nil, fmt.Errorf("fallback table missing bridge currency %s", bridge)
	}
	for _, code := range required {
		if _, ok := staticRates[code]; !ok {
			return nil, fmt.Errorf("fallback table missing required currency %s", code)
		}
	}

	rates := make(map[string]float64, len(required)+1)
	rates[bridge] = staticRates[bridge]
	for _, code := range required {
		rates[code] = staticRates[code]
	}

	return &Table{bridge: bridge, rates: rates}, nil
}

// Snapshot builds a synthetic snapshot from the static table, stamped with
// the current time. The caller tags the resulting conversion as degraded.
func (t *Table) Snapshot(now time.Time) *models.RateSnapshot {
	now = now.UTC()
	rates := make(map[string]float64, len(t.rates))
	for code, rate := range t.rates {
		rates[code] = rate
	}

	return &models.RateSnapshot{
		FetchedAt:      now.UnixMilli(),
		CalendarDay:    now.Format(models.DayFormat),
		BridgeCurrency: t.bridge,
		Rates:          rates,
		Provider:       "static-fallback",
	}
}
