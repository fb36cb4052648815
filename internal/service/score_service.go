package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/blaisecz/vitality-tracker/internal/domain"
	"github.com/blaisecz/vitality-tracker/internal/metrics"
	"github.com/blaisecz/vitality-tracker/internal/repository"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ScoreService is the consumer-facing read API and the pipeline driver. A
// score is computed once per (date, kind) and served from storage on every
// later read; that stability is the product contract, not a cache
// optimization.
type ScoreService interface {
	// GetScore returns the stored record for (date, kind), computing and
	// persisting it first when absent. Returns domain.ErrScoreNotYetAvailable
	// when the date's sleep session cannot be detected yet.
	GetScore(ctx context.Context, date string, kind domain.ScoreKind) (*domain.ScoreRecord, error)

	// ListRange returns stored records only; it never triggers computation.
	ListRange(ctx context.Context, from, to string, kind *domain.ScoreKind) ([]domain.ScoreRecord, error)

	// Recompute re-runs the whole pipeline for a date and atomically
	// replaces both records. When the session has disappeared (late data
	// contradicting an earlier detection) the records are removed, restoring
	// the "not yet available" state.
	Recompute(ctx context.Context, date string) ([]domain.ScoreRecord, error)
}

type scoreService struct {
	detector       SessionDetector
	extractor      MetricWindowExtractor
	sleepEngine    SleepScoreEngine
	recoveryEngine RecoveryScoreEngine
	store          repository.ScoreRecordRepository
	pipeline       *metrics.Pipeline

	// one lock per date keeps recomputation single-flight; both kinds of a
	// date are always computed together under the same lock
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewScoreService creates a new ScoreService.
func NewScoreService(
	detector SessionDetector,
	extractor MetricWindowExtractor,
	sleepEngine SleepScoreEngine,
	recoveryEngine RecoveryScoreEngine,
	store repository.ScoreRecordRepository,
	pipeline *metrics.Pipeline,
) ScoreService {
	return &scoreService{
		detector:       detector,
		extractor:      extractor,
		sleepEngine:    sleepEngine,
		recoveryEngine: recoveryEngine,
		store:          store,
		pipeline:       pipeline,
		locks:          make(map[string]*sync.Mutex),
	}
}

func (s *scoreService) GetScore(ctx context.Context, date string, kind domain.ScoreKind) (*domain.ScoreRecord, error) {
	if _, err := time.Parse(domain.ScoreDateLayout, date); err != nil {
		return nil, domain.ErrInvalidInput
	}
	if kind != domain.ScoreKindSleep && kind != domain.ScoreKindRecovery {
		return nil, domain.ErrInvalidInput
	}

	record, err := s.store.GetByDateKind(ctx, date, kind)
	if err == nil {
		s.pipeline.ScoreServesTotal.WithLabelValues(metrics.SourceStored).Inc()
		return record, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	lock := s.dateLock(date)
	lock.Lock()
	defer lock.Unlock()

	// Another request may have computed while we waited for the lock.
	record, err = s.store.GetByDateKind(ctx, date, kind)
	if err == nil {
		s.pipeline.ScoreServesTotal.WithLabelValues(metrics.SourceStored).Inc()
		return record, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	records, err := s.compute(ctx, date)
	if err != nil {
		if errors.Is(err, domain.ErrNoSession) {
			return nil, domain.ErrScoreNotYetAvailable
		}
		return nil, err
	}

	for i := range records {
		if err := s.store.Upsert(ctx, &records[i]); err != nil {
			return nil, err
		}
	}

	s.pipeline.ScoreServesTotal.WithLabelValues(metrics.SourceComputed).Inc()
	for i := range records {
		if records[i].Kind == kind {
			return &records[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *scoreService) ListRange(ctx context.Context, from, to string, kind *domain.ScoreKind) ([]domain.ScoreRecord, error) {
	if _, err := time.Parse(domain.ScoreDateLayout, from); err != nil {
		return nil, domain.ErrInvalidInput
	}
	if _, err := time.Parse(domain.ScoreDateLayout, to); err != nil {
		return nil, domain.ErrInvalidInput
	}
	return s.store.ListRange(ctx, from, to, kind)
}

func (s *scoreService) Recompute(ctx context.Context, date string) ([]domain.ScoreRecord, error) {
	if _, err := time.Parse(domain.ScoreDateLayout, date); err != nil {
		return nil, domain.ErrInvalidInput
	}

	lock := s.dateLock(date)
	lock.Lock()
	defer lock.Unlock()

	records, err := s.compute(ctx, date)
	if err != nil {
		if errors.Is(err, domain.ErrNoSession) {
			// Late data invalidated the session itself; drop stale records
			// so readers see "not yet available" rather than scores built on
			// inputs that no longer exist.
			for _, kind := range []domain.ScoreKind{domain.ScoreKindSleep, domain.ScoreKindRecovery} {
				if delErr := s.store.DeleteByDateKind(ctx, date, kind); delErr != nil {
					return nil, delErr
				}
			}
			return nil, domain.ErrScoreNotYetAvailable
		}
		return nil, err
	}

	// Upsert is the invalidate+replace: one statement per record, so readers
	// see either the old record or the new one, never a blend.
	for i := range records {
		if err := s.store.Upsert(ctx, &records[i]); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// compute runs the full pipeline for one wake date: detect session, extract
// windowed metrics, score sleep, score recovery.
func (s *scoreService) compute(ctx context.Context, date string) ([]domain.ScoreRecord, error) {
	tracer := otel.Tracer("vitality-tracker/scoring")
	ctx, span := tracer.Start(ctx, "ScoreService.compute",
		trace.WithAttributes(attribute.String("score.date", date)),
	)
	defer span.End()

	wakeDate, err := time.Parse(domain.ScoreDateLayout, date)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	session, err := s.detector.DetectPrimarySession(ctx, wakeDate)
	if err != nil {
		return nil, err
	}

	metricValues, err := s.extractor.ExtractAll(ctx, domain.RecoveryMetrics, session.StartAt, session.EndAt)
	if err != nil {
		return nil, err
	}

	sleepResult, err := s.sleepEngine.Score(ctx, session)
	if err != nil {
		return nil, err
	}

	recoveryResult, err := s.recoveryEngine.Score(ctx, &RecoveryInputs{
		Session:    session,
		Metrics:    metricValues,
		SleepScore: sleepResult.Score,
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("score.sleep", sleepResult.Score),
		attribute.Int("score.recovery", recoveryResult.Score),
	)

	computedAt := time.Now().UTC()
	return []domain.ScoreRecord{
		{
			Date:           date,
			Kind:           domain.ScoreKindSleep,
			FinalScore:     sleepResult.Score,
			Components:     sleepResult.Components,
			SessionStartAt: session.StartAt,
			SessionEndAt:   session.EndAt,
			ComputedAt:     computedAt,
		},
		{
			Date:           date,
			Kind:           domain.ScoreKindRecovery,
			FinalScore:     recoveryResult.Score,
			Components:     recoveryResult.Components,
			SessionStartAt: session.StartAt,
			SessionEndAt:   session.EndAt,
			ComputedAt:     computedAt,
		},
	}, nil
}

func (s *scoreService) dateLock(date string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[date]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[date] = lock
	}
	return lock
}
