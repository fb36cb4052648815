package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// ScoringConfig holds every tunable weight and threshold of the two score
// formulas. The defaults are the final documented calibration; deployments
// can override any field from a YAML file because the calibration was tuned
// empirically and may move again.
type ScoringConfig struct {
	Sleep    SleepWeights    `yaml:"sleep"`
	Recovery RecoveryWeights `yaml:"recovery"`
	Baseline BaselineWindows `yaml:"baseline"`
}

// SleepWeights configures the sleep score components. Weights must sum to 1.
type SleepWeights struct {
	DurationWeight    float64 `yaml:"duration_weight"`
	DeepWeight        float64 `yaml:"deep_weight"`
	REMWeight         float64 `yaml:"rem_weight"`
	EfficiencyWeight  float64 `yaml:"efficiency_weight"`
	ConsistencyWeight float64 `yaml:"consistency_weight"`

	// Optimal stage bands, as percent of time asleep
	DeepBandLow  float64 `yaml:"deep_band_low"`
	DeepBandHigh float64 `yaml:"deep_band_high"`
	REMBandLow   float64 `yaml:"rem_band_low"`
	REMBandHigh  float64 `yaml:"rem_band_high"`
}

// RecoveryWeights configures the recovery score components. The four top
// weights must sum to 1, as must the three stress metric weights.
type RecoveryWeights struct {
	HRVWeight    float64 `yaml:"hrv_weight"`
	RHRWeight    float64 `yaml:"rhr_weight"`
	SleepWeight  float64 `yaml:"sleep_weight"`
	StressWeight float64 `yaml:"stress_weight"`

	// Score awarded when today's reading sits exactly at baseline (ratio 1.0)
	BaselineRatioScore float64 `yaml:"baseline_ratio_score"`

	// Stress sub-score metric weights
	StressWalkingHRWeight   float64 `yaml:"stress_walking_hr_weight"`
	StressRespiratoryWeight float64 `yaml:"stress_respiratory_weight"`
	StressOxygenWeight      float64 `yaml:"stress_oxygen_weight"`

	// Hard floor for oxygen saturation (percent); readings below it take an
	// additional penalty regardless of baseline comparison
	OxygenFloor        float64 `yaml:"oxygen_floor"`
	OxygenFloorPenalty float64 `yaml:"oxygen_floor_penalty"`
}

// BaselineWindows configures the rolling baseline windows.
type BaselineWindows struct {
	LongWindowDays  int `yaml:"long_window_days"`
	ShortWindowDays int `yaml:"short_window_days"`
	MinDays         int `yaml:"min_days"`
}

// DefaultScoring returns the documented calibration.
func DefaultScoring() ScoringConfig {
	return ScoringConfig{
		Sleep: SleepWeights{
			DurationWeight:    0.30,
			DeepWeight:        0.25,
			REMWeight:         0.20,
			EfficiencyWeight:  0.15,
			ConsistencyWeight: 0.10,
			DeepBandLow:       13,
			DeepBandHigh:      23,
			REMBandLow:        20,
			REMBandHigh:       25,
		},
		Recovery: RecoveryWeights{
			HRVWeight:               0.50,
			RHRWeight:               0.25,
			SleepWeight:             0.15,
			StressWeight:            0.10,
			BaselineRatioScore:      75,
			StressWalkingHRWeight:   0.30,
			StressRespiratoryWeight: 0.30,
			StressOxygenWeight:      0.40,
			OxygenFloor:             95,
			OxygenFloorPenalty:      30,
		},
		Baseline: BaselineWindows{
			LongWindowDays:  60,
			ShortWindowDays: 14,
			MinDays:         3,
		},
	}
}

// LoadScoring returns the default calibration, overridden by the YAML file
// at path when one is given.
func LoadScoring(path string) (ScoringConfig, error) {
	cfg := DefaultScoring()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read scoring config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse scoring config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

const weightEpsilon = 1e-6

// Validate checks that each weight set sums to 1.
func (c ScoringConfig) Validate() error {
	sleepSum := c.Sleep.DurationWeight + c.Sleep.DeepWeight + c.Sleep.REMWeight +
		c.Sleep.EfficiencyWeight + c.Sleep.ConsistencyWeight
	if math.Abs(sleepSum-1) > weightEpsilon {
		return fmt.Errorf("sleep component weights sum to %v, want 1.0", sleepSum)
	}

	recoverySum := c.Recovery.HRVWeight + c.Recovery.RHRWeight +
		c.Recovery.SleepWeight + c.Recovery.StressWeight
	if math.Abs(recoverySum-1) > weightEpsilon {
		return fmt.Errorf("recovery component weights sum to %v, want 1.0", recoverySum)
	}

	stressSum := c.Recovery.StressWalkingHRWeight + c.Recovery.StressRespiratoryWeight +
		c.Recovery.StressOxygenWeight
	if math.Abs(stressSum-1) > weightEpsilon {
		return fmt.Errorf("stress metric weights sum to %v, want 1.0", stressSum)
	}

	return nil
}
