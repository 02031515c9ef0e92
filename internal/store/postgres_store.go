package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/geekskai/exchange-rate-service/internal/models"
)

// PostgresStore keeps the snapshot as a single upserted row. The rates map
// is stored as JSON so the row round-trips the snapshot exactly.
type PostgresStore struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresStore(connectionString string, logger *zap.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PostgresStore{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS rate_snapshots (
			id              INT PRIMARY KEY,
			fetched_at      BIGINT NOT NULL,
			calendar_day    TEXT NOT NULL,
			bridge_currency TEXT NOT NULL,
			rates           TEXT NOT NULL,
			provider        TEXT NOT NULL
		)
	`
	_, err := s.db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create rate_snapshots table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Read(ctx context.Context) (*models.RateSnapshot, error) {
	query := `
		SELECT fetched_at, calendar_day, bridge_currency, rates, provider
		FROM rate_snapshots
		WHERE id = 1
	`

	snap := &models.RateSnapshot{}
	var ratesJSON string
	err := s.db.QueryRowContext(ctx, query).Scan(
		&snap.FetchedAt,
		&snap.CalendarDay,
		&snap.BridgeCurrency,
		&ratesJSON,
		&snap.Provider,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		s.logger.Warn("snapshot row read failed, treating as cache miss", zap.Error(err))
		return nil, ErrSnapshotNotFound
	}

	if err := json.Unmarshal([]byte(ratesJSON), &snap.Rates); err != nil {
		s.logger.Warn("snapshot row corrupt, treating as cache miss", zap.Error(err))
		return nil, ErrSnapshotNotFound
	}

	if err := snap.Validate(nil); err != nil {
		s.logger.Warn("snapshot row invalid, treating as cache miss", zap.Error(err))
		return nil, ErrSnapshotNotFound
	}

	return snap, nil
}

func (s *PostgresStore) Write(ctx context.Context, snap *models.RateSnapshot) error {
	ratesJSON, err := json.Marshal(snap.Rates)
	if err != nil {
		return fmt.Errorf("failed to marshal rates: %w", err)
	}

	query := `
		INSERT INTO rate_snapshots (id, fetched_at, calendar_day, bridge_currency, rates, provider)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			fetched_at      = EXCLUDED.fetched_at,
			calendar_day    = EXCLUDED.calendar_day,
			bridge_currency = EXCLUDED.bridge_currency,
			rates           = EXCLUDED.rates,
			provider        = EXCLUDED.provider
	`
	_, err = s.db.ExecContext(ctx, query,
		snap.FetchedAt,
		snap.CalendarDay,
		snap.BridgeCurrency,
		string(ratesJSON),
		snap.Provider,
	)
	return err
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
