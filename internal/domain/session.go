package domain

import (
	"time"

	"github.com/google/uuid"
)

// StageInterval is one contiguous run of a single sleep stage.
type StageInterval struct {
	Stage   SleepStage `json:"stage"`
	StartAt time.Time  `json:"start_at"`
	EndAt   time.Time  `json:"end_at"`
}

// Duration returns the interval length.
func (si StageInterval) Duration() time.Duration {
	return si.EndAt.Sub(si.StartAt)
}

// SleepSession is one night's primary sleep, derived from raw stage samples.
// It is a value object recomputed per request and never persisted on its own;
// score records keep the session's start/end for traceability.
type SleepSession struct {
	ID      uuid.UUID       `json:"id"`
	StartAt time.Time       `json:"start_at"`
	EndAt   time.Time       `json:"end_at"`
	Stages  []StageInterval `json:"stages"`
}

// TimeInBed is the full span from session start to session end.
func (s *SleepSession) TimeInBed() time.Duration {
	return s.EndAt.Sub(s.StartAt)
}

// TimeAsleep is the total duration of non-awake stages.
func (s *SleepSession) TimeAsleep() time.Duration {
	var total time.Duration
	for _, si := range s.Stages {
		if si.Stage.Asleep() {
			total += si.Duration()
		}
	}
	return total
}

// StageDuration is the total duration spent in one stage.
func (s *SleepSession) StageDuration(stage SleepStage) time.Duration {
	var total time.Duration
	for _, si := range s.Stages {
		if si.Stage == stage {
			total += si.Duration()
		}
	}
	return total
}

// Efficiency is time asleep over time in bed, in [0,1].
func (s *SleepSession) Efficiency() float64 {
	inBed := s.TimeInBed()
	if inBed <= 0 {
		return 0
	}
	return s.TimeAsleep().Seconds() / inBed.Seconds()
}

// StageFraction is the share of time asleep spent in one stage, in [0,1].
func (s *SleepSession) StageFraction(stage SleepStage) float64 {
	asleep := s.TimeAsleep()
	if asleep <= 0 {
		return 0
	}
	return s.StageDuration(stage).Seconds() / asleep.Seconds()
}
