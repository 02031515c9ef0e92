package rates

import (
	"math"

	"github.com/geekskai/exchange-rate-service/internal/models"
)

// Precision is the number of fractional digits rates and converted amounts
// are rounded to. Six digits keeps compounding error below display precision.
const Precision = 6

// Rate derives the base→target rate from a bridge-relative snapshot. With
// 1 bridge-unit = rb base-units and 1 bridge-unit = rt target-units,
// 1 base-unit = rt/rb target-units.
func Rate(snap *models.RateSnapshot, base, target string) (float64, error) {
	if base == target {
		if _, ok := snap.Rates[base]; !ok {
			return 0, &models.UnsupportedCurrencyError{Code: base}
		}
		return 1, nil
	}

	rb, ok := snap.Rates[base]
	if !ok {
		return 0, &models.UnsupportedCurrencyError{Code: base}
	}
	rt, ok := snap.Rates[target]
	if !ok {
		return 0, &models.UnsupportedCurrencyError{Code: target}
	}

	return rt / rb, nil
}

// Convert applies the cross-rate to amount and builds the request output.
// The tier and as-of stamp are decided by the orchestrator; this function is
// pure arithmetic.
func Convert(snap *models.RateSnapshot, base, target string, amount float64, tier models.SourceTier) (*models.ConversionResult, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, &models.InvalidAmountError{Reason: "amount must be a finite number"}
	}
	if amount < 0 {
		return nil, &models.InvalidAmountError{Reason: "amount must not be negative"}
	}

	rate, err := Rate(snap, base, target)
	if err != nil {
		return nil, err
	}

	return &models.ConversionResult{
		Base:            base,
		Target:          target,
		Rate:            round(rate),
		ConvertedAmount: round(amount * rate),
		InputAmount:     amount,
		SourceTier:      tier,
		AsOf:            snap.FetchedAtTime().Format("2006-01-02T15:04:05Z"),
	}, nil
}

func round(v float64) float64 {
	shift := math.Pow10(Precision)
	return math.Round(v*shift) / shift
}
