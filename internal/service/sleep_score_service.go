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

// SleepScoreResult is one night's sleep score with its component breakdown.
type SleepScoreResult struct {
	Score      int
	Components []domain.Component
}

// SleepScoreEngine computes the 0-100 sleep score from a detected session.
type SleepScoreEngine interface {
	Score(ctx context.Context, session *domain.SleepSession) (*SleepScoreResult, error)
}

type sleepScoreEngine struct {
	baselines BaselineEngine
	weights   config.SleepWeights
}

// NewSleepScoreEngine creates a new SleepScoreEngine.
func NewSleepScoreEngine(baselines BaselineEngine, weights config.SleepWeights) SleepScoreEngine {
	return &sleepScoreEngine{
		baselines: baselines,
		weights:   weights,
	}
}

func (e *sleepScoreEngine) Score(ctx context.Context, session *domain.SleepSession) (*SleepScoreResult, error) {
	components := []domain.Component{
		e.durationComponent(session),
		e.stageComponent("deep_sleep", session.StageFraction(domain.StageDeep), e.weights.DeepWeight, e.weights.DeepBandLow, e.weights.DeepBandHigh),
		e.stageComponent("rem_sleep", session.StageFraction(domain.StageREM), e.weights.REMWeight, e.weights.REMBandLow, e.weights.REMBandHigh),
		e.efficiencyComponent(session),
	}

	consistency, err := e.consistencyComponent(ctx, session)
	if err != nil {
		return nil, err
	}
	components = append(components, consistency)

	return &SleepScoreResult{
		Score:      domain.WeightedScore(components),
		Components: components,
	}, nil
}

// durationComponent maps total time asleep to points: plateau at maximum for
// 8-9h, gentle slope between 6h and 8h, steep penalty below 6h, mild penalty
// above 9h.
func (e *sleepScoreEngine) durationComponent(session *domain.SleepSession) domain.Component {
	hours := session.TimeAsleep().Hours()

	var score float64
	switch {
	case hours >= 8 && hours <= 9:
		score = 100
	case hours > 9:
		score = 100 - (hours-9)*10
	case hours >= 6:
		score = 60 + (hours-6)*20
	default:
		score = 60 - (6-hours)*25
	}
	score = domain.ClampScore(score)

	return domain.Component{
		Name:   "duration",
		Score:  score,
		Weight: e.weights.DurationWeight,
		Description: fmt.Sprintf("slept %s against an 8h target: %.0f/100",
			formatDuration(session.TimeAsleep()), score),
	}
}

// stageComponent scores a stage's share of time asleep against its optimal
// band: near-maximum inside the band, proportional below, gentle taper above.
func (e *sleepScoreEngine) stageComponent(name string, fraction float64, weight, bandLow, bandHigh float64) domain.Component {
	pct := fraction * 100

	var score float64
	switch {
	case pct >= bandLow && pct <= bandHigh:
		score = 100
	case pct < bandLow:
		if bandLow > 0 {
			score = 100 * pct / bandLow
		}
	default:
		score = 100 - (pct-bandHigh)*2.5
	}
	score = domain.ClampScore(score)

	return domain.Component{
		Name:   name,
		Score:  score,
		Weight: weight,
		Description: fmt.Sprintf("%.0f%% of sleep (optimal %.0f-%.0f%%): %.0f/100",
			pct, bandLow, bandHigh, score),
	}
}

// efficiencyComponent scores time asleep over time in bed with a high bar:
// 95% and above is a full score, under 85% scores zero.
func (e *sleepScoreEngine) efficiencyComponent(session *domain.SleepSession) domain.Component {
	pct := session.Efficiency() * 100

	var score float64
	switch {
	case pct >= 95:
		score = 100
	case pct >= 90:
		score = 75
	case pct >= 85:
		score = 40
	default:
		score = 0
	}

	return domain.Component{
		Name:   "efficiency",
		Score:  score,
		Weight: e.weights.EfficiencyWeight,
		Description: fmt.Sprintf("%.0f%% of time in bed asleep (95%%+ for full marks): %.0f/100",
			pct, score),
	}
}

// consistencyComponent scores the bedtime's deviation from the circadian
// baseline. Both sides are compared as time-of-day minutes, never as raw
// timestamp differences, so a bedtime drifting across midnight stays a
// small deviation.
func (e *sleepScoreEngine) consistencyComponent(ctx context.Context, session *domain.SleepSession) (domain.Component, error) {
	baseline, err := e.baselines.BedtimeBaseline(ctx, session.EndAt)
	if err != nil {
		if errors.Is(err, domain.ErrBaselineUnavailable) {
			return domain.Component{
				Name:        "consistency",
				Score:       50,
				Weight:      e.weights.ConsistencyWeight,
				Description: "bedtime baseline unavailable (needs more days of data): neutral 50/100",
			}, nil
		}
		return domain.Component{}, err
	}

	deviation := timeOfDayDeviation(minutesAfterNoon(session.StartAt), baseline)

	var score float64
	switch {
	case deviation <= 15:
		score = 100
	case deviation <= 30:
		score = 75
	case deviation <= 45:
		score = 50
	case deviation <= 60:
		score = 25
	default:
		score = 0
	}

	return domain.Component{
		Name:   "consistency",
		Score:  score,
		Weight: e.weights.ConsistencyWeight,
		Description: fmt.Sprintf("bedtime %.0f minutes from your usual %s: %.0f/100",
			deviation, formatMinutesAfterNoon(baseline), score),
	}, nil
}

// timeOfDayDeviation is the distance between two time-of-day values on the
// same circular axis, in minutes.
func timeOfDayDeviation(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > 720 {
		d = 1440 - d
	}
	return d
}

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}

// formatMinutesAfterNoon renders a minutes-after-noon value as HH:MM.
func formatMinutesAfterNoon(minutes float64) string {
	total := (int(math.Round(minutes)) + 12*60) % 1440
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
