package service

import (
	"context"
	"time"

	"github.com/blaisecz/vitality-tracker/internal/domain"
	"github.com/blaisecz/vitality-tracker/internal/repository"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// MaxStageGap is the largest gap between consecutive stage samples that
	// still belongs to the same session.
	MaxStageGap = 5 * time.Minute

	// lookBackStartHour anchors the detection window at noon: the query runs
	// from noon of the previous day to noon of the wake date, wide enough
	// for any overnight sleep while bounding the scan.
	lookBackStartHour = 12
)

// SessionDetector finds the primary overnight sleep session for a wake date.
type SessionDetector interface {
	// DetectPrimarySession returns the session with the greatest total time
	// asleep in the look-back window, or domain.ErrNoSession when no stage
	// samples exist there. ErrNoSession is a normal outcome, not a failure.
	DetectPrimarySession(ctx context.Context, wakeDate time.Time) (*domain.SleepSession, error)
}

type sessionDetector struct {
	samples repository.SampleRepository
}

// NewSessionDetector creates a new SessionDetector.
func NewSessionDetector(samples repository.SampleRepository) SessionDetector {
	return &sessionDetector{samples: samples}
}

func (d *sessionDetector) DetectPrimarySession(ctx context.Context, wakeDate time.Time) (*domain.SleepSession, error) {
	tracer := otel.Tracer("vitality-tracker/session-detector")
	ctx, span := tracer.Start(ctx, "SessionDetector.DetectPrimarySession",
		trace.WithAttributes(
			attribute.String("wake.date", wakeDate.UTC().Format(domain.ScoreDateLayout)),
		),
	)
	defer span.End()

	day := truncateToDay(wakeDate)
	windowEnd := day.Add(lookBackStartHour * time.Hour)
	windowStart := windowEnd.AddDate(0, 0, -1)

	stages, err := d.samples.QueryRange(ctx, domain.MetricSleepStage, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	if len(stages) == 0 {
		return nil, domain.ErrNoSession
	}

	candidates := groupIntoCandidates(stages)

	var primary *domain.SleepSession
	var primaryAsleep time.Duration
	for _, c := range candidates {
		if asleep := c.TimeAsleep(); primary == nil || asleep > primaryAsleep {
			primary = c
			primaryAsleep = asleep
		}
	}
	if primary == nil || primaryAsleep <= 0 {
		return nil, domain.ErrNoSession
	}

	span.SetAttributes(
		attribute.Int("session.candidates", len(candidates)),
		attribute.String("session.start", primary.StartAt.Format(time.RFC3339)),
		attribute.String("session.end", primary.EndAt.Format(time.RFC3339)),
	)

	return primary, nil
}

// groupIntoCandidates merges ordered stage samples into candidate sessions.
// A gap above MaxStageGap between consecutive samples starts a new candidate;
// adjacent intervals of the same stage are merged.
func groupIntoCandidates(stages []domain.Sample) []*domain.SleepSession {
	var candidates []*domain.SleepSession
	var current *domain.SleepSession

	for _, s := range stages {
		if current == nil || s.StartAt.Sub(current.EndAt) > MaxStageGap {
			current = &domain.SleepSession{
				ID:      uuid.New(),
				StartAt: s.StartAt,
				EndAt:   s.EndAt,
			}
			candidates = append(candidates, current)
		}

		last := len(current.Stages) - 1
		if last >= 0 && current.Stages[last].Stage == s.Stage && !s.StartAt.After(current.Stages[last].EndAt.Add(MaxStageGap)) {
			// Extend the trailing run of the same stage
			if s.EndAt.After(current.Stages[last].EndAt) {
				current.Stages[last].EndAt = s.EndAt
			}
		} else {
			current.Stages = append(current.Stages, domain.StageInterval{
				Stage:   s.Stage,
				StartAt: s.StartAt,
				EndAt:   s.EndAt,
			})
		}

		if s.EndAt.After(current.EndAt) {
			current.EndAt = s.EndAt
		}
	}

	return candidates
}

// truncateToDay drops the time-of-day component, keeping UTC calendar
// semantics.
func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
