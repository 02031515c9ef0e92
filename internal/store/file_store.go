package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/geekskai/exchange-rate-service/internal/models"
)

// FileStore persists the snapshot as one human-inspectable JSON file at a
// well-known path. This is the default backend.
type FileStore struct {
	path   string
	logger *zap.Logger
}

func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

func (s *FileStore) Read(ctx context.Context) (*models.RateSnapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrSnapshotNotFound
		}
		s.logger.Warn("snapshot file unreadable, treating as cache miss",
			zap.String("path", s.path),
			zap.Error(err))
		return nil, ErrSnapshotNotFound
	}

	var snap models.RateSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warn("snapshot file corrupt, treating as cache miss",
			zap.String("path", s.path),
			zap.Error(err))
		return nil, ErrSnapshotNotFound
	}

	if err := snap.Validate(nil); err != nil {
		s.logger.Warn("snapshot file invalid, treating as cache miss",
			zap.String("path", s.path),
			zap.Error(err))
		return nil, ErrSnapshotNotFound
	}

	return &snap, nil
}

// Write replaces the file atomically: the snapshot is written to a temp file
// in the same directory and renamed over the slot, so a concurrent Read
// always sees some complete snapshot.
func (s *FileStore) Write(ctx context.Context, snap *models.RateSnapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "snapshot-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp snapshot: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace snapshot file: %w", err)
	}

	return nil
}
