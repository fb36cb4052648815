package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/blaisecz/vitality-tracker/internal/config"
	"github.com/blaisecz/vitality-tracker/internal/domain"
)

// RecoveryInputs carries everything one recovery computation needs.
type RecoveryInputs struct {
	Session    *domain.SleepSession
	Metrics    map[domain.MetricType]*MetricValue
	SleepScore int
}

// RecoveryScoreResult is one day's recovery score with its breakdown.
type RecoveryScoreResult struct {
	Score      int
	Components []domain.Component
}

// RecoveryScoreEngine computes the 0-100 recovery score from overnight
// physiology relative to personal baselines.
type RecoveryScoreEngine interface {
	Score(ctx context.Context, in *RecoveryInputs) (*RecoveryScoreResult, error)
}

type recoveryScoreEngine struct {
	baselines BaselineEngine
	weights   config.RecoveryWeights
}

// NewRecoveryScoreEngine creates a new RecoveryScoreEngine.
func NewRecoveryScoreEngine(baselines BaselineEngine, weights config.RecoveryWeights) RecoveryScoreEngine {
	return &recoveryScoreEngine{
		baselines: baselines,
		weights:   weights,
	}
}

func (e *recoveryScoreEngine) Score(ctx context.Context, in *RecoveryInputs) (*RecoveryScoreResult, error) {
	asOf := in.Session.EndAt

	hrv, err := e.ratioComponent(ctx, in, "hrv", domain.MetricHRV, e.weights.HRVWeight, false, asOf)
	if err != nil {
		return nil, err
	}
	rhr, err := e.ratioComponent(ctx, in, "rhr", domain.MetricRestingHeartRate, e.weights.RHRWeight, true, asOf)
	if err != nil {
		return nil, err
	}
	stress, err := e.stressComponent(ctx, in, asOf)
	if err != nil {
		return nil, err
	}

	components := []domain.Component{
		hrv,
		rhr,
		{
			Name:        "sleep",
			Score:       domain.ClampScore(float64(in.SleepScore)),
			Weight:      e.weights.SleepWeight,
			Description: fmt.Sprintf("last night's sleep score: %d/100", in.SleepScore),
		},
		stress,
	}

	return &RecoveryScoreResult{
		Score:      domain.WeightedScore(components),
		Components: components,
	}, nil
}

// ratioComponent scores a metric against its baseline ratio. inverted flips
// the ratio for metrics where lower is better (resting heart rate). A
// missing reading or baseline yields a neutral component marked "data
// unavailable" instead of failing the computation.
func (e *recoveryScoreEngine) ratioComponent(ctx context.Context, in *RecoveryInputs, name string, metric domain.MetricType, weight float64, inverted bool, asOf time.Time) (domain.Component, error) {
	neutral := func(reason string) domain.Component {
		return domain.Component{
			Name:        name,
			Score:       50,
			Weight:      weight,
			Description: fmt.Sprintf("%s data unavailable (%s): neutral 50/100", name, reason),
		}
	}

	today, ok := in.Metrics[metric]
	if !ok {
		return neutral("no overnight reading"), nil
	}

	baseline, err := e.baselines.Baseline(ctx, metric, e.baselines.WindowFor(metric), asOf)
	if err != nil {
		if errors.Is(err, domain.ErrBaselineUnavailable) {
			return neutral("baseline needs more days of data"), nil
		}
		return domain.Component{}, err
	}
	if baseline <= 0 || today.Value <= 0 {
		return neutral("reading out of range"), nil
	}

	ratio := today.Value / baseline
	if inverted {
		ratio = baseline / today.Value
	}

	score := e.ratioScore(ratio)

	suffix := ""
	if today.Fallback {
		suffix = ", from daytime readings"
	}
	return domain.Component{
		Name:   name,
		Score:  score,
		Weight: weight,
		Description: fmt.Sprintf("%.1f vs your %.1f baseline%s: %.0f/100",
			today.Value, baseline, suffix, score),
	}, nil
}

// ratioScore maps a baseline ratio to points asymmetrically: sitting exactly
// at baseline earns the configured target (about 75), gains above baseline
// are rewarded logarithmically, drops below are penalized cubically so a
// decline hurts faster than an equal gain helps.
func (e *recoveryScoreEngine) ratioScore(ratio float64) float64 {
	target := e.weights.BaselineRatioScore
	if ratio >= 1 {
		// log growth: ratio 1.5 reaches the maximum
		gain := math.Log(ratio) / math.Log(1.5)
		return domain.ClampScore(target + (100-target)*math.Min(1, gain))
	}
	return domain.ClampScore(target * math.Pow(ratio, 3))
}

// stressComponent scores the day's physiological strain from percentage
// deviations off baseline for walking heart rate, respiratory rate and
// oxygen saturation. Oxygen carries the largest weight because small
// deviations there are the most significant, and readings under the hard
// floor take an extra penalty regardless of baseline.
func (e *recoveryScoreEngine) stressComponent(ctx context.Context, in *RecoveryInputs, asOf time.Time) (domain.Component, error) {
	type stressMetric struct {
		metric domain.MetricType
		weight float64
		label  string
	}
	metricsToCheck := []stressMetric{
		{domain.MetricWalkingHeartRate, e.weights.StressWalkingHRWeight, "walking HR"},
		{domain.MetricRespiratoryRate, e.weights.StressRespiratoryWeight, "respiratory rate"},
		{domain.MetricOxygenSaturation, e.weights.StressOxygenWeight, "oxygen"},
	}

	var weightedSum, weightTotal float64
	var parts []string
	for _, m := range metricsToCheck {
		today, ok := in.Metrics[m.metric]
		if !ok {
			continue
		}
		baseline, err := e.baselines.Baseline(ctx, m.metric, e.baselines.WindowFor(m.metric), asOf)
		if err != nil {
			if errors.Is(err, domain.ErrBaselineUnavailable) {
				continue
			}
			return domain.Component{}, err
		}
		if baseline <= 0 {
			continue
		}

		deviation := math.Abs(today.Value-baseline) / baseline * 100
		score := 100.0
		if deviation > 5 {
			score = domain.ClampScore(100 - (deviation-5)*8)
		}
		weightedSum += score * m.weight
		weightTotal += m.weight
		parts = append(parts, fmt.Sprintf("%s %.1f%% off baseline", m.label, deviation))
	}

	score := 50.0
	if weightTotal > 0 {
		score = weightedSum / weightTotal
	} else {
		parts = append(parts, "no baseline comparisons available, neutral 50")
	}

	// The floor penalty applies even when no baseline comparison was possible.
	if spo2, ok := in.Metrics[domain.MetricOxygenSaturation]; ok && spo2.Value < e.weights.OxygenFloor {
		score -= e.weights.OxygenFloorPenalty
		parts = append(parts, fmt.Sprintf("oxygen %.1f%% below the %.0f%% floor", spo2.Value, e.weights.OxygenFloor))
	}
	score = domain.ClampScore(score)

	description := fmt.Sprintf("%.0f/100", score)
	if len(parts) > 0 {
		description = fmt.Sprintf("%s: %.0f/100", joinParts(parts), score)
	}

	return domain.Component{
		Name:        "stress",
		Score:       score,
		Weight:      e.weights.StressWeight,
		Description: description,
	}, nil
}

func joinParts(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}
