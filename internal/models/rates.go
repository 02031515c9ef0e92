package models

import (
	"fmt"
	"time"
)

// DayFormat is the layout for snapshot calendar days. Days are always
// computed in UTC so cache invalidation does not depend on the deployment
// region's timezone.
const DayFormat = "2006-01-02"

// SourceTier describes where the rate behind a conversion came from.
type SourceTier string

const (
	TierCacheHit         SourceTier = "cache_hit"
	TierFreshFetch       SourceTier = "fresh_fetch"
	TierDegradedFallback SourceTier = "degraded_fallback"
)

// RateSnapshot is one complete set of bridge-relative rates plus fetch
// metadata. Snapshots are immutable once built; replacement is whole-snapshot.
type RateSnapshot struct {
	FetchedAt      int64              `json:"fetched_at"`
	CalendarDay    string             `json:"calendar_day"`
	BridgeCurrency string             `json:"bridge_currency"`
	Rates          map[string]float64 `json:"rates"`
	Provider       string             `json:"provider"`
}

// FreshAt reports whether the snapshot belongs to the calendar day of now,
// computed in UTC. One snapshot per day is the entire invalidation policy.
func (s *RateSnapshot) FreshAt(now time.Time) bool {
	return s.CalendarDay == now.UTC().Format(DayFormat)
}

// FetchedAtTime returns the retrieval time of the snapshot.
func (s *RateSnapshot) FetchedAtTime() time.Time {
	return time.UnixMilli(s.FetchedAt).UTC()
}

// Validate checks that the snapshot carries the bridge currency's self-rate
// and every required currency. A snapshot failing validation is discarded.
func (s *RateSnapshot) Validate(required []string) error {
	if s.BridgeCurrency == "" {
		return fmt.Errorf("snapshot has no bridge currency")
	}
	if _, ok := s.Rates[s.BridgeCurrency]; !ok {
		return fmt.Errorf("snapshot missing bridge currency rate %s", s.BridgeCurrency)
	}
	for _, code := range required {
		if _, ok := s.Rates[code]; !ok {
			return fmt.Errorf("snapshot missing required currency %s", code)
		}
	}
	return nil
}

// ConversionResult is the per-request output of a conversion. It is never
// persisted and is owned by the caller.
type ConversionResult struct {
	Base            string     `json:"base"`
	Target          string     `json:"target"`
	Rate            float64    `json:"rate"`
	ConvertedAmount float64    `json:"converted_amount"`
	InputAmount     float64    `json:"input_amount"`
	SourceTier      SourceTier `json:"source_tier"`
	AsOf            string     `json:"as_of"`
}

// CacheStatus is the read-only introspection view of the snapshot slot,
// consumed by operational dashboards.
type CacheStatus struct {
	Exists      bool    `json:"exists"`
	Fresh       bool    `json:"fresh"`
	CalendarDay string  `json:"calendar_day,omitempty"`
	AgeHours    float64 `json:"age_hours"`
}

type ConversionRequest struct {
	Amount       float64 `json:"amount"`
	FromCurrency string  `json:"from_currency" binding:"required,len=3"`
	ToCurrency   string  `json:"to_currency" binding:"required,len=3"`
}
