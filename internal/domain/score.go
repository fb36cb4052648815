package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// ScoreKind distinguishes the two daily composite scores.
// @Description Score kind: SLEEP or RECOVERY.
type ScoreKind string

const (
	ScoreKindSleep    ScoreKind = "SLEEP"
	ScoreKindRecovery ScoreKind = "RECOVERY"
)

// ScoreDateLayout is the calendar-day key format for score records.
const ScoreDateLayout = "2006-01-02"

// Component is one weighted sub-score of a composite score. The description
// explains the value, the reference it was compared against, and the points
// awarded; it is consumer-facing output, not debug text.
type Component struct {
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	Weight      float64 `json:"weight"`
	Description string  `json:"description"`
}

// ScoreRecord is the persisted result of one day's score computation.
// Exactly one record exists per (date, kind); recomputation replaces the
// record atomically, it never appends.
type ScoreRecord struct {
	ID             uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Date           string      `gorm:"type:varchar(10);not null;uniqueIndex:idx_score_records_date_kind" json:"date"`
	Kind           ScoreKind   `gorm:"type:varchar(10);not null;uniqueIndex:idx_score_records_date_kind" json:"kind"`
	FinalScore     int         `gorm:"type:smallint;not null" json:"final_score"`
	Components     []Component `gorm:"serializer:json" json:"components"`
	SessionStartAt time.Time   `gorm:"not null" json:"session_start_at"`
	SessionEndAt   time.Time   `gorm:"not null" json:"session_end_at"`
	ComputedAt     time.Time   `gorm:"not null" json:"computed_at"`
}

func (ScoreRecord) TableName() string {
	return "score_records"
}

// ScoreListResponse is the response body for listing score records.
// @Description Score records in a date range, ordered by date ascending.
type ScoreListResponse struct {
	Data []ScoreRecord `json:"data"`
}

// ClampScore bounds a component or final score to [0,100]. Every scoring
// boundary clamps; consumers never see a value outside the range.
func ClampScore(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}

// WeightedScore folds components into a rounded final score in [0,100].
func WeightedScore(components []Component) int {
	var sum float64
	for _, c := range components {
		sum += ClampScore(c.Score) * c.Weight
	}
	return int(math.Round(ClampScore(sum)))
}
