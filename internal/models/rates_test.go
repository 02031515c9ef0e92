package models

import (
	"testing"
	"time"
)

func TestFreshAt(t *testing.T) {
	snap := &RateSnapshot{CalendarDay: "2025-03-10"}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{
			name: "same UTC day",
			now:  time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC),
			want: true,
		},
		{
			name: "next UTC day",
			now:  time.Date(2025, 3, 11, 0, 1, 0, 0, time.UTC),
			want: false,
		},
		{
			name: "same day in a non-UTC zone that already rolled over",
			now:  time.Date(2025, 3, 11, 1, 0, 0, 0, time.FixedZone("UTC+2", 2*3600)),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := snap.FreshAt(tt.now); got != tt.want {
				t.Errorf("FreshAt(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	base := RateSnapshot{
		BridgeCurrency: "USD",
		Rates:          map[string]float64{"USD": 1, "GBP": 0.74},
	}

	if err := base.Validate([]string{"GBP"}); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	missing := base
	if err := missing.Validate([]string{"GBP", "NOK"}); err == nil {
		t.Errorf("Validate() = nil for snapshot missing NOK")
	}

	noBridge := RateSnapshot{
		BridgeCurrency: "USD",
		Rates:          map[string]float64{"GBP": 0.74},
	}
	if err := noBridge.Validate(nil); err == nil {
		t.Errorf("Validate() = nil for snapshot missing bridge self-rate")
	}
}
