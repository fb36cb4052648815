package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/blaisecz/vitality-tracker/internal/domain"
	"github.com/blaisecz/vitality-tracker/internal/repository"
	"golang.org/x/sync/errgroup"
)

// MetricValue is one metric reduced to a single value for a window.
// Fallback marks values derived from the whole calendar day because the
// strict interval held no samples; descriptions downstream mention it.
type MetricValue struct {
	Value    float64
	Fallback bool
}

// MetricWindowExtractor reduces a metric's samples inside a window to one
// value. Reduction is metric-specific: minimum for resting heart rate (the
// lowest overnight HR approximates the best recovery state), mean for
// everything else.
type MetricWindowExtractor interface {
	// Extract returns the reduced value for [from, to), falling back to the
	// wake date's whole calendar day when the interval is empty. Returns
	// domain.ErrMetricUnavailable when both are empty.
	Extract(ctx context.Context, metric domain.MetricType, from, to time.Time) (*MetricValue, error)

	// ExtractAll fetches several metrics concurrently. Metrics that turn out
	// unavailable are simply absent from the result map; only transport or
	// storage errors fail the call.
	ExtractAll(ctx context.Context, metrics []domain.MetricType, from, to time.Time) (map[domain.MetricType]*MetricValue, error)
}

type metricWindowExtractor struct {
	samples repository.SampleRepository
}

// NewMetricWindowExtractor creates a new MetricWindowExtractor.
func NewMetricWindowExtractor(samples repository.SampleRepository) MetricWindowExtractor {
	return &metricWindowExtractor{samples: samples}
}

func (e *metricWindowExtractor) Extract(ctx context.Context, metric domain.MetricType, from, to time.Time) (*MetricValue, error) {
	inWindow, err := e.samples.QueryRange(ctx, metric, from, to)
	if err != nil {
		return nil, err
	}
	if len(inWindow) > 0 {
		return &MetricValue{Value: reduce(metric, inWindow)}, nil
	}

	// Same-day fallback: many metrics are not sampled continuously, so an
	// empty session interval is common. Re-query the wake date as a whole.
	dayStart := truncateToDay(to)
	dayEnd := dayStart.AddDate(0, 0, 1)
	inDay, err := e.samples.QueryRange(ctx, metric, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	if len(inDay) == 0 {
		return nil, domain.ErrMetricUnavailable
	}

	return &MetricValue{Value: reduce(metric, inDay), Fallback: true}, nil
}

func (e *metricWindowExtractor) ExtractAll(ctx context.Context, metrics []domain.MetricType, from, to time.Time) (map[domain.MetricType]*MetricValue, error) {
	var mu sync.Mutex
	result := make(map[domain.MetricType]*MetricValue, len(metrics))

	g, ctx := errgroup.WithContext(ctx)
	for _, metric := range metrics {
		metric := metric
		g.Go(func() error {
			value, err := e.Extract(ctx, metric, from, to)
			if err != nil {
				if errors.Is(err, domain.ErrMetricUnavailable) {
					return nil
				}
				return err
			}
			mu.Lock()
			result[metric] = value
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// reduce applies the metric-specific reduction. Never substitutes one metric
// for another.
func reduce(metric domain.MetricType, samples []domain.Sample) float64 {
	switch metric {
	case domain.MetricRestingHeartRate:
		minVal := samples[0].Value
		for _, s := range samples[1:] {
			if s.Value < minVal {
				minVal = s.Value
			}
		}
		return minVal
	default:
		sum := 0.0
		for _, s := range samples {
			sum += s.Value
		}
		return sum / float64(len(samples))
	}
}
