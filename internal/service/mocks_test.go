package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/blaisecz/vitality-tracker/internal/domain"
	"github.com/blaisecz/vitality-tracker/internal/metrics"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// MockSampleRepository is a mock implementation of repository.SampleRepository
type MockSampleRepository struct {
	mu      sync.Mutex
	samples []domain.Sample
	err     error
}

func NewMockSampleRepository() *MockSampleRepository {
	return &MockSampleRepository{}
}

func (m *MockSampleRepository) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockSampleRepository) Add(samples ...domain.Sample) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range samples {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		m.samples = append(m.samples, s)
	}
}

func (m *MockSampleRepository) CreateBatch(ctx context.Context, samples []*domain.Sample) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, s := range samples {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		m.samples = append(m.samples, *s)
	}
	return nil
}

func (m *MockSampleRepository) QueryRange(ctx context.Context, metric domain.MetricType, from, to time.Time) ([]domain.Sample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var result []domain.Sample
	for _, s := range m.samples {
		if s.MetricType == metric && !s.StartAt.Before(from) && s.StartAt.Before(to) {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartAt.Before(result[j].StartAt)
	})
	return result, nil
}

func (m *MockSampleRepository) List(ctx context.Context, filter domain.SampleFilter) ([]domain.Sample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	result := make([]domain.Sample, len(m.samples))
	copy(result, m.samples)
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartAt.After(result[j].StartAt)
	})
	return result, nil
}

// MockScoreRecordRepository is a mock implementation of
// repository.ScoreRecordRepository
type MockScoreRecordRepository struct {
	mu      sync.Mutex
	records map[string]domain.ScoreRecord
	upserts int
	err     error
}

func NewMockScoreRecordRepository() *MockScoreRecordRepository {
	return &MockScoreRecordRepository{
		records: make(map[string]domain.ScoreRecord),
	}
}

func recordKey(date string, kind domain.ScoreKind) string {
	return date + "|" + string(kind)
}

func (m *MockScoreRecordRepository) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockScoreRecordRepository) Upserts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upserts
}

func (m *MockScoreRecordRepository) GetByDateKind(ctx context.Context, date string, kind domain.ScoreKind) (*domain.ScoreRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	record, ok := m.records[recordKey(date, kind)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := record
	return &copied, nil
}

func (m *MockScoreRecordRepository) Upsert(ctx context.Context, record *domain.ScoreRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	m.upserts++
	m.records[recordKey(record.Date, record.Kind)] = *record
	return nil
}

func (m *MockScoreRecordRepository) ListRange(ctx context.Context, from, to string, kind *domain.ScoreKind) ([]domain.ScoreRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var result []domain.ScoreRecord
	for _, r := range m.records {
		if r.Date < from || r.Date > to {
			continue
		}
		if kind != nil && r.Kind != *kind {
			continue
		}
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date < result[j].Date
		}
		return result[i].Kind < result[j].Kind
	})
	return result, nil
}

func (m *MockScoreRecordRepository) DeleteByDateKind(ctx context.Context, date string, kind domain.ScoreKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.records, recordKey(date, kind))
	return nil
}

// Helpers

func newTestPipeline() *metrics.Pipeline {
	return metrics.NewPipeline(prometheus.NewRegistry())
}

// stageSample builds one sleep stage interval sample.
func stageSample(stage domain.SleepStage, start time.Time, d time.Duration) domain.Sample {
	return domain.Sample{
		ID:         uuid.New(),
		MetricType: domain.MetricSleepStage,
		StartAt:    start,
		EndAt:      start.Add(d),
		Stage:      stage,
	}
}

// pointSample builds one point-in-time numeric sample.
func pointSample(metric domain.MetricType, at time.Time, value float64) domain.Sample {
	return domain.Sample{
		ID:         uuid.New(),
		MetricType: metric,
		StartAt:    at,
		EndAt:      at,
		Value:      value,
	}
}

// addNight writes a healthy night of stage samples ending on wakeDate
// morning: bed at 23:00, wake at 07:10, with 16% deep and 22% REM of the
// asleep time and a short awake interval.
func addNight(repo *MockSampleRepository, wakeDate time.Time) (bed, wake time.Time) {
	day := time.Date(wakeDate.Year(), wakeDate.Month(), wakeDate.Day(), 0, 0, 0, 0, time.UTC)
	bed = day.AddDate(0, 0, -1).Add(23 * time.Hour)

	// 8h10m in bed, 20m awake => 7h50m asleep
	asleep := 7*time.Hour + 50*time.Minute
	deep := time.Duration(float64(asleep) * 0.16)
	rem := time.Duration(float64(asleep) * 0.22)
	core := asleep - deep - rem

	cursor := bed
	for _, block := range []struct {
		stage domain.SleepStage
		d     time.Duration
	}{
		{domain.StageCore, core / 2},
		{domain.StageDeep, deep},
		{domain.StageAwake, 20 * time.Minute},
		{domain.StageREM, rem},
		{domain.StageCore, core - core/2},
	} {
		repo.Add(stageSample(block.stage, cursor, block.d))
		cursor = cursor.Add(block.d)
	}
	return bed, cursor
}
