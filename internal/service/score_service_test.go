package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/blaisecz/vitality-tracker/internal/config"
	"github.com/blaisecz/vitality-tracker/internal/domain"
	"github.com/google/uuid"
)

func newTestScoreService(samples *MockSampleRepository, store *MockScoreRecordRepository) ScoreService {
	cfg := config.DefaultScoring()
	baselines := NewBaselineEngine(samples, cfg.Baseline)
	return NewScoreService(
		NewSessionDetector(samples),
		NewMetricWindowExtractor(samples),
		NewSleepScoreEngine(baselines, cfg.Sleep),
		NewRecoveryScoreEngine(baselines, cfg.Recovery),
		store,
		newTestPipeline(),
	)
}

func TestGetScore_ComputesOnceThenServesStored(t *testing.T) {
	samples := NewMockSampleRepository()
	store := NewMockScoreRecordRepository()
	wakeDate := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	addNight(samples, wakeDate)

	svc := newTestScoreService(samples, store)

	first, err := svc.GetScore(context.Background(), "2024-03-10", domain.ScoreKindSleep)
	if err != nil {
		t.Fatalf("GetScore() error = %v", err)
	}
	if store.Upserts() != 2 {
		t.Fatalf("first read persisted %d records, want 2 (sleep and recovery)", store.Upserts())
	}

	// New samples must not shift an already stored score on read.
	samples.Add(pointSample(domain.MetricHRV, wakeDate.Add(3*time.Hour), 80))

	second, err := svc.GetScore(context.Background(), "2024-03-10", domain.ScoreKindSleep)
	if err != nil {
		t.Fatalf("GetScore() second read error = %v", err)
	}
	if store.Upserts() != 2 {
		t.Errorf("second read ran the pipeline again: %d upserts", store.Upserts())
	}
	if second.FinalScore != first.FinalScore || !second.ComputedAt.Equal(first.ComputedAt) {
		t.Errorf("second read = (%d, %v), want the stored (%d, %v)",
			second.FinalScore, second.ComputedAt, first.FinalScore, first.ComputedAt)
	}
}

func TestGetScore_PersistsBothKindsTogether(t *testing.T) {
	samples := NewMockSampleRepository()
	store := NewMockScoreRecordRepository()
	addNight(samples, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))

	svc := newTestScoreService(samples, store)
	if _, err := svc.GetScore(context.Background(), "2024-03-10", domain.ScoreKindRecovery); err != nil {
		t.Fatalf("GetScore() error = %v", err)
	}

	for _, kind := range []domain.ScoreKind{domain.ScoreKindSleep, domain.ScoreKindRecovery} {
		if _, err := store.GetByDateKind(context.Background(), "2024-03-10", kind); err != nil {
			t.Errorf("record for %s not persisted: %v", kind, err)
		}
	}
}

func TestGetScore_InvalidInput(t *testing.T) {
	svc := newTestScoreService(NewMockSampleRepository(), NewMockScoreRecordRepository())

	if _, err := svc.GetScore(context.Background(), "10-03-2024", domain.ScoreKindSleep); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("bad date: error = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.GetScore(context.Background(), "2024-03-10", domain.ScoreKind("MOOD")); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("bad kind: error = %v, want ErrInvalidInput", err)
	}
}

func TestGetScore_NotYetAvailableWithoutSession(t *testing.T) {
	svc := newTestScoreService(NewMockSampleRepository(), NewMockScoreRecordRepository())

	_, err := svc.GetScore(context.Background(), "2024-03-10", domain.ScoreKindSleep)
	if !errors.Is(err, domain.ErrScoreNotYetAvailable) {
		t.Fatalf("error = %v, want ErrScoreNotYetAvailable", err)
	}
}

func TestGetScore_SingleFlightUnderConcurrency(t *testing.T) {
	samples := NewMockSampleRepository()
	store := NewMockScoreRecordRepository()
	addNight(samples, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))

	svc := newTestScoreService(samples, store)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.GetScore(context.Background(), "2024-03-10", domain.ScoreKindSleep); err != nil {
				t.Errorf("GetScore() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if store.Upserts() != 2 {
		t.Errorf("%d upserts under concurrent reads, want 2 (one computation)", store.Upserts())
	}
}

func TestRecompute_ReplacesStoredRecords(t *testing.T) {
	samples := NewMockSampleRepository()
	store := NewMockScoreRecordRepository()
	wakeDate := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	addNight(samples, wakeDate)

	svc := newTestScoreService(samples, store)
	first, err := svc.GetScore(context.Background(), "2024-03-10", domain.ScoreKindRecovery)
	if err != nil {
		t.Fatalf("GetScore() error = %v", err)
	}

	// Overnight HRV arrives late, well above any baseline.
	bed := wakeDate.AddDate(0, 0, -1).Add(23 * time.Hour)
	samples.Add(pointSample(domain.MetricHRV, bed.Add(2*time.Hour), 90))
	for i := 1; i <= 4; i++ {
		samples.Add(pointSample(domain.MetricHRV, wakeDate.AddDate(0, 0, -i), 45))
	}

	records, err := svc.Recompute(context.Background(), "2024-03-10")
	if err != nil {
		t.Fatalf("Recompute() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Recompute() returned %d records, want 2", len(records))
	}

	updated, err := svc.GetScore(context.Background(), "2024-03-10", domain.ScoreKindRecovery)
	if err != nil {
		t.Fatalf("GetScore() after recompute error = %v", err)
	}
	if updated.ComputedAt.Before(first.ComputedAt) {
		t.Error("recompute did not replace the stored record")
	}
	if updated.FinalScore <= first.FinalScore {
		t.Errorf("recovery after strong HRV data = %d, want above the neutral %d", updated.FinalScore, first.FinalScore)
	}
}

func TestRecompute_RemovesRecordsWhenSessionDisappears(t *testing.T) {
	samples := NewMockSampleRepository()
	store := NewMockScoreRecordRepository()

	// Stale records exist but the underlying stage data does not.
	for _, kind := range []domain.ScoreKind{domain.ScoreKindSleep, domain.ScoreKindRecovery} {
		record := domain.ScoreRecord{
			ID:         uuid.New(),
			Date:       "2024-03-10",
			Kind:       kind,
			FinalScore: 77,
			ComputedAt: time.Now().UTC(),
		}
		if err := store.Upsert(context.Background(), &record); err != nil {
			t.Fatalf("seeding store: %v", err)
		}
	}

	svc := newTestScoreService(samples, store)
	_, err := svc.Recompute(context.Background(), "2024-03-10")
	if !errors.Is(err, domain.ErrScoreNotYetAvailable) {
		t.Fatalf("Recompute() error = %v, want ErrScoreNotYetAvailable", err)
	}

	for _, kind := range []domain.ScoreKind{domain.ScoreKindSleep, domain.ScoreKindRecovery} {
		if _, err := store.GetByDateKind(context.Background(), "2024-03-10", kind); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("stale %s record survived: err = %v", kind, err)
		}
	}
}

func TestListRange_NeverComputes(t *testing.T) {
	samples := NewMockSampleRepository()
	store := NewMockScoreRecordRepository()
	addNight(samples, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))

	svc := newTestScoreService(samples, store)
	records, err := svc.ListRange(context.Background(), "2024-03-01", "2024-03-31", nil)
	if err != nil {
		t.Fatalf("ListRange() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("ListRange() returned %d records from an empty store", len(records))
	}
	if store.Upserts() != 0 {
		t.Errorf("ListRange() triggered %d upserts, want 0", store.Upserts())
	}
}

func TestListRange_FiltersByKind(t *testing.T) {
	store := NewMockScoreRecordRepository()
	for _, kind := range []domain.ScoreKind{domain.ScoreKindSleep, domain.ScoreKindRecovery} {
		record := domain.ScoreRecord{ID: uuid.New(), Date: "2024-03-10", Kind: kind, FinalScore: 80, ComputedAt: time.Now().UTC()}
		if err := store.Upsert(context.Background(), &record); err != nil {
			t.Fatalf("seeding store: %v", err)
		}
	}

	svc := newTestScoreService(NewMockSampleRepository(), store)
	kind := domain.ScoreKindSleep
	records, err := svc.ListRange(context.Background(), "2024-03-01", "2024-03-31", &kind)
	if err != nil {
		t.Fatalf("ListRange() error = %v", err)
	}
	if len(records) != 1 || records[0].Kind != domain.ScoreKindSleep {
		t.Errorf("ListRange(kind=SLEEP) = %v, want the single sleep record", records)
	}
}
