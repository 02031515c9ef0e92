package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/geekskai/exchange-rate-service/internal/fallback"
	"github.com/geekskai/exchange-rate-service/internal/metrics"
	"github.com/geekskai/exchange-rate-service/internal/models"
	"github.com/geekskai/exchange-rate-service/internal/provider"
	"github.com/geekskai/exchange-rate-service/internal/rates"
	"github.com/geekskai/exchange-rate-service/internal/store"
)

// Fetcher obtains a fresh snapshot covering the required currencies.
// Implemented by provider.Chain; tests substitute fakes.
type Fetcher interface {
	Fetch(ctx context.Context, required []string) (*models.RateSnapshot, error)
}

// ExchangeService orchestrates the rate subsystem: consult the store, on
// miss fetch upstream, on success persist asynchronously, on total failure
// fall back to the static table. Every internal failure is absorbed into a
// degraded-but-usable result; only bad caller input surfaces as an error.
type ExchangeService struct {
	store     store.SnapshotStore
	fetcher   Fetcher
	fallback  *fallback.Table
	supported []string
	logger    *zap.Logger
	metrics   *metrics.ExchangeMetrics
	now       func() time.Time
	flight    singleflight.Group
}

func NewExchangeService(st store.SnapshotStore, fetcher Fetcher, fb *fallback.Table, supported []string, logger *zap.Logger, m *metrics.ExchangeMetrics) *ExchangeService {
	return &ExchangeService{
		store:     st,
		fetcher:   fetcher,
		fallback:  fb,
		supported: supported,
		logger:    logger,
		metrics:   m,
		now:       time.Now,
	}
}

// GetRate converts amount from base to target. The result is always usable
// for valid input; its SourceTier records whether it came from the day's
// cached snapshot, a fresh upstream fetch, or the static fallback table.
func (s *ExchangeService) GetRate(ctx context.Context, base, target string, amount float64) (*models.ConversionResult, error) {
	if err := s.checkSupported(base, target); err != nil {
		return nil, err
	}

	snap, tier := s.resolveSnapshot(ctx)
	result, err := rates.Convert(snap, base, target, amount, tier)
	if err != nil {
		return nil, err
	}

	s.recordConversion(tier)
	return result, nil
}

// GetCacheStatus reports the state of the snapshot slot. It performs only a
// store read and never triggers upstream calls.
func (s *ExchangeService) GetCacheStatus(ctx context.Context) *models.CacheStatus {
	snap, err := s.store.Read(ctx)
	if err != nil {
		return &models.CacheStatus{}
	}

	now := s.now().UTC()
	return &models.CacheStatus{
		Exists:      true,
		Fresh:       snap.FreshAt(now),
		CalendarDay: snap.CalendarDay,
		AgeHours:    now.Sub(snap.FetchedAtTime()).Hours(),
	}
}

// SupportedCurrencies returns the configured currency set.
func (s *ExchangeService) SupportedCurrencies() []string {
	out := make([]string, len(s.supported))
	copy(out, s.supported)
	return out
}

// resolveSnapshot walks the per-request state machine: fresh cached
// snapshot, else upstream fetch, else fallback table. It never fails; total
// upstream failure degrades to the static table.
func (s *ExchangeService) resolveSnapshot(ctx context.Context) (*models.RateSnapshot, models.SourceTier) {
	now := s.now().UTC()

	if snap, err := s.store.Read(ctx); err == nil && snap.FreshAt(now) {
		return snap, models.TierCacheHit
	} else if err != nil && !errors.Is(err, store.ErrSnapshotNotFound) {
		s.logger.Warn("snapshot store read failed", zap.Error(err))
	}

	snap, err := s.fetchShared(ctx, now)
	if err != nil {
		var unavailable *provider.UpstreamUnavailableError
		if errors.As(err, &unavailable) {
			for _, f := range unavailable.Failures {
				s.recordProviderFailure(f.Provider)
			}
		}
		s.logger.Warn("all rate providers failed, using static fallback", zap.Error(err))
		return s.fallback.Snapshot(now), models.TierDegradedFallback
	}

	s.persistAsync(snap)
	return snap, models.TierFreshFetch
}

// fetchShared collapses concurrent cache misses into one upstream call per
// calendar day; every waiter receives the same snapshot.
func (s *ExchangeService) fetchShared(ctx context.Context, now time.Time) (*models.RateSnapshot, error) {
	key := now.Format(models.DayFormat)

	v, err, _ := s.flight.Do(key, func() (interface{}, error) {
		start := s.now()
		snap, err := s.fetcher.Fetch(ctx, s.supported)
		s.recordFetchDuration(s.now().Sub(start).Seconds())
		if err != nil {
			return nil, err
		}
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.RateSnapshot), nil
}

// persistAsync writes the snapshot without blocking the response path.
// Caching is an optimization; write failures are logged and swallowed.
func (s *ExchangeService) persistAsync(snap *models.RateSnapshot) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.store.Write(ctx, snap); err != nil {
			s.logger.Warn("failed to persist rate snapshot", zap.Error(err))
			if s.metrics != nil {
				s.metrics.RecordCacheWriteError()
			}
		}
	}()
}

func (s *ExchangeService) checkSupported(codes ...string) error {
	for _, code := range codes {
		found := false
		for _, supported := range s.supported {
			if code == supported {
				found = true
				break
			}
		}
		if !found {
			return &models.UnsupportedCurrencyError{Code: code}
		}
	}
	return nil
}

func (s *ExchangeService) recordConversion(tier models.SourceTier) {
	if s.metrics != nil {
		s.metrics.RecordConversion(string(tier))
	}
}

func (s *ExchangeService) recordProviderFailure(name string) {
	if s.metrics != nil {
		s.metrics.RecordProviderFailure(name)
	}
}

func (s *ExchangeService) recordFetchDuration(seconds float64) {
	if s.metrics != nil {
		s.metrics.RecordFetchDuration(seconds)
	}
}
