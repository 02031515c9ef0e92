package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/geekskai/exchange-rate-service/internal/models"
)

func sampleSnapshot(day string) *models.RateSnapshot {
	return &models.RateSnapshot{
		FetchedAt:      time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC).UnixMilli(),
		CalendarDay:    day,
		BridgeCurrency: "USD",
		Rates: map[string]float64{
			"USD": 1,
			"GBP": 0.740302,
			"NOK": 10.04675,
		},
		Provider: "test",
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	s := NewFileStore(path, zap.NewNop())
	ctx := context.Background()

	want := sampleSnapshot("2025-03-10")
	if err := s.Write(ctx, want); err != nil {
		t.Fatalf("Write() returned error: %v", err)
	}

	got, err := s.Read(ctx)
	if err != nil {
		t.Fatalf("Read() returned error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Read() = %+v, want %+v", got, want)
	}
}

func TestFileStoreMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.json")
	s := NewFileStore(path, zap.NewNop())

	_, err := s.Read(context.Background())
	if !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("Read() error = %v, want ErrSnapshotNotFound", err)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "{{{"},
		{name: "empty file", content: ""},
		{name: "missing bridge self-rate", content: `{"calendar_day":"2025-03-10","bridge_currency":"USD","rates":{"GBP":0.74}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "snapshot.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			s := NewFileStore(path, zap.NewNop())
			_, err := s.Read(context.Background())
			if !errors.Is(err, ErrSnapshotNotFound) {
				t.Errorf("Read() error = %v, want ErrSnapshotNotFound", err)
			}
		})
	}
}

func TestFileStoreOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	s := NewFileStore(path, zap.NewNop())
	ctx := context.Background()

	if err := s.Write(ctx, sampleSnapshot("2025-03-09")); err != nil {
		t.Fatalf("first Write() returned error: %v", err)
	}
	if err := s.Write(ctx, sampleSnapshot("2025-03-10")); err != nil {
		t.Fatalf("second Write() returned error: %v", err)
	}

	got, err := s.Read(ctx)
	if err != nil {
		t.Fatalf("Read() returned error: %v", err)
	}
	if got.CalendarDay != "2025-03-10" {
		t.Errorf("calendar day = %s, want 2025-03-10 (last write wins)", got.CalendarDay)
	}
}

func TestFileStoreCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "snapshot.json")
	s := NewFileStore(path, zap.NewNop())

	if err := s.Write(context.Background(), sampleSnapshot("2025-03-10")); err != nil {
		t.Fatalf("Write() returned error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("snapshot file missing after write: %v", err)
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.Read(ctx); !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("empty Read() error = %v, want ErrSnapshotNotFound", err)
	}

	want := sampleSnapshot("2025-03-10")
	if err := s.Write(ctx, want); err != nil {
		t.Fatalf("Write() returned error: %v", err)
	}

	got, err := s.Read(ctx)
	if err != nil {
		t.Fatalf("Read() returned error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Read() = %+v, want %+v", got, want)
	}
}
