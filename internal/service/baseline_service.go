package service

import (
	"context"
	"time"

	"github.com/blaisecz/vitality-tracker/internal/config"
	"github.com/blaisecz/vitality-tracker/internal/domain"
	"github.com/blaisecz/vitality-tracker/internal/repository"
)

// BaselineEngine maintains rolling personal baselines. Values are recomputed
// from the sample store on every read, so a late-arriving sample for a past
// day inside the window shifts the baseline on the next computation.
type BaselineEngine interface {
	// Baseline is the rolling mean of per-day values over the trailing
	// windowDays calendar days, excluding asOf's own day. Returns
	// domain.ErrBaselineUnavailable when fewer than the configured minimum
	// number of days have data; callers substitute a neutral score.
	Baseline(ctx context.Context, metric domain.MetricType, windowDays int, asOf time.Time) (float64, error)

	// BedtimeBaseline is the average bedtime over the short window, in
	// minutes after noon. Measuring from noon keeps bedtimes on both sides
	// of midnight on one continuous axis, so 23:30 and 00:30 average to
	// midnight rather than to noon.
	BedtimeBaseline(ctx context.Context, asOf time.Time) (float64, error)

	// WakeBaseline is the average wake time over the short window, in
	// minutes after midnight.
	WakeBaseline(ctx context.Context, asOf time.Time) (float64, error)

	// WindowFor maps a metric to its configured window length: long for HRV
	// and resting heart rate, short for the rest.
	WindowFor(metric domain.MetricType) int
}

type baselineEngine struct {
	samples repository.SampleRepository
	windows config.BaselineWindows
}

// NewBaselineEngine creates a new BaselineEngine.
func NewBaselineEngine(samples repository.SampleRepository, windows config.BaselineWindows) BaselineEngine {
	return &baselineEngine{
		samples: samples,
		windows: windows,
	}
}

func (b *baselineEngine) WindowFor(metric domain.MetricType) int {
	switch metric {
	case domain.MetricHRV, domain.MetricRestingHeartRate:
		return b.windows.LongWindowDays
	default:
		return b.windows.ShortWindowDays
	}
}

func (b *baselineEngine) Baseline(ctx context.Context, metric domain.MetricType, windowDays int, asOf time.Time) (float64, error) {
	day := truncateToDay(asOf)
	from := day.AddDate(0, 0, -windowDays)
	samples, err := b.samples.QueryRange(ctx, metric, from, day)
	if err != nil {
		return 0, err
	}

	daily := bucketByDay(samples)
	if len(daily) < b.windows.MinDays {
		return 0, domain.ErrBaselineUnavailable
	}

	sum := 0.0
	for _, daySamples := range daily {
		sum += reduce(metric, daySamples)
	}
	return sum / float64(len(daily)), nil
}

func (b *baselineEngine) BedtimeBaseline(ctx context.Context, asOf time.Time) (float64, error) {
	nights, err := b.recentNights(ctx, asOf)
	if err != nil {
		return 0, err
	}
	if len(nights) < b.windows.MinDays {
		return 0, domain.ErrBaselineUnavailable
	}

	sum := 0.0
	for _, n := range nights {
		sum += minutesAfterNoon(n.bedtime)
	}
	return sum / float64(len(nights)), nil
}

func (b *baselineEngine) WakeBaseline(ctx context.Context, asOf time.Time) (float64, error) {
	nights, err := b.recentNights(ctx, asOf)
	if err != nil {
		return 0, err
	}
	if len(nights) < b.windows.MinDays {
		return 0, domain.ErrBaselineUnavailable
	}

	sum := 0.0
	for _, n := range nights {
		sum += minutesAfterMidnight(n.wake)
	}
	return sum / float64(len(nights)), nil
}

// night holds the observed bed and wake instants of one night.
type night struct {
	bedtime time.Time
	wake    time.Time
}

// recentNights scans the short window of stage samples before asOf's day and
// derives one bedtime/wake pair per night. Nights are keyed by shifting
// timestamps back twelve hours, so everything between one noon and the next
// lands on the same key.
func (b *baselineEngine) recentNights(ctx context.Context, asOf time.Time) ([]night, error) {
	day := truncateToDay(asOf)
	windowEnd := day.Add(lookBackStartHour * time.Hour).AddDate(0, 0, -1)
	windowStart := windowEnd.AddDate(0, 0, -b.windows.ShortWindowDays)

	stages, err := b.samples.QueryRange(ctx, domain.MetricSleepStage, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	byNight := make(map[string]*night)
	for _, s := range stages {
		key := s.StartAt.Add(-lookBackStartHour * time.Hour).UTC().Format(domain.ScoreDateLayout)
		n, ok := byNight[key]
		if !ok {
			byNight[key] = &night{bedtime: s.StartAt, wake: s.EndAt}
			continue
		}
		if s.StartAt.Before(n.bedtime) {
			n.bedtime = s.StartAt
		}
		if s.EndAt.After(n.wake) {
			n.wake = s.EndAt
		}
	}

	nights := make([]night, 0, len(byNight))
	for _, n := range byNight {
		nights = append(nights, *n)
	}
	return nights, nil
}

// bucketByDay groups samples by UTC calendar day.
func bucketByDay(samples []domain.Sample) map[string][]domain.Sample {
	daily := make(map[string][]domain.Sample)
	for _, s := range samples {
		key := s.StartAt.UTC().Format(domain.ScoreDateLayout)
		daily[key] = append(daily[key], s)
	}
	return daily
}

// minutesAfterNoon maps an instant to minutes past the most recent noon,
// in [0, 1440).
func minutesAfterNoon(t time.Time) float64 {
	shifted := t.UTC().Add(-lookBackStartHour * time.Hour)
	return float64(shifted.Hour()*60 + shifted.Minute())
}

// minutesAfterMidnight maps an instant to its time-of-day in minutes.
func minutesAfterMidnight(t time.Time) float64 {
	t = t.UTC()
	return float64(t.Hour()*60 + t.Minute())
}
