package domain

import (
	"time"

	"github.com/google/uuid"
)

// MetricType identifies a physiological time series.
// @Description Physiological metric type.
type MetricType string

const (
	// MetricSleepStage carries sleep stage intervals rather than numeric values
	MetricSleepStage MetricType = "SLEEP_STAGE"
	// MetricHRV is heart-rate variability (SDNN, milliseconds)
	MetricHRV MetricType = "HRV"
	// MetricRestingHeartRate is resting heart rate (bpm)
	MetricRestingHeartRate MetricType = "RESTING_HEART_RATE"
	// MetricWalkingHeartRate is average walking heart rate (bpm)
	MetricWalkingHeartRate MetricType = "WALKING_HEART_RATE"
	// MetricRespiratoryRate is breaths per minute
	MetricRespiratoryRate MetricType = "RESPIRATORY_RATE"
	// MetricOxygenSaturation is blood oxygen saturation (percent)
	MetricOxygenSaturation MetricType = "OXYGEN_SATURATION"
)

// RecoveryMetrics are the numeric metrics extracted for one scoring request.
var RecoveryMetrics = []MetricType{
	MetricHRV,
	MetricRestingHeartRate,
	MetricWalkingHeartRate,
	MetricRespiratoryRate,
	MetricOxygenSaturation,
}

// SleepStage is the stage recorded by a SLEEP_STAGE sample.
type SleepStage string

const (
	StageAwake SleepStage = "AWAKE"
	StageCore  SleepStage = "CORE"
	StageDeep  SleepStage = "DEEP"
	StageREM   SleepStage = "REM"
)

// Asleep reports whether the stage counts as time asleep.
func (s SleepStage) Asleep() bool {
	return s == StageCore || s == StageDeep || s == StageREM
}

// Sample is one raw reading from the data platform. Point-in-time metrics
// have EndAt equal to StartAt; interval metrics (sleep stages) span a range.
// Samples are immutable once ingested.
type Sample struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	MetricType MetricType `gorm:"type:varchar(32);not null;index:idx_samples_metric_start" json:"metric_type"`
	StartAt    time.Time  `gorm:"not null;index:idx_samples_metric_start,sort:asc" json:"start_at"`
	EndAt      time.Time  `gorm:"not null" json:"end_at"`
	Value      float64    `gorm:"not null" json:"value"`
	Stage      SleepStage `gorm:"type:varchar(16)" json:"stage,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (Sample) TableName() string {
	return "samples"
}

// IngestSampleRequest is one sample in an ingest batch.
// @Description One raw sample. Numeric metrics require value; SLEEP_STAGE requires stage and an interval.
type IngestSampleRequest struct {
	// Metric type
	MetricType MetricType `json:"metric_type" validate:"required,oneof=SLEEP_STAGE HRV RESTING_HEART_RATE WALKING_HEART_RATE RESPIRATORY_RATE OXYGEN_SATURATION" example:"HRV"`
	// Sample start (RFC3339)
	StartAt time.Time `json:"start_at" validate:"required" example:"2024-03-10T02:15:00Z"`
	// Sample end; omit for point-in-time readings
	EndAt *time.Time `json:"end_at,omitempty" validate:"omitempty,gtfield=StartAt" example:"2024-03-10T02:45:00Z"`
	// Numeric reading; ignored for SLEEP_STAGE
	Value float64 `json:"value,omitempty" example:"48.5"`
	// Sleep stage; required for SLEEP_STAGE
	Stage *SleepStage `json:"stage,omitempty" validate:"omitempty,oneof=AWAKE CORE DEEP REM" example:"DEEP"`
}

// IngestRequest is the request body for batch sample ingest.
// @Description Batch of raw samples from a device integration.
type IngestRequest struct {
	Samples []IngestSampleRequest `json:"samples" validate:"required,min=1,max=1000,dive"`
}

// ToSample converts an ingest item to the stored model.
func (r *IngestSampleRequest) ToSample() *Sample {
	end := r.StartAt
	if r.EndAt != nil {
		end = *r.EndAt
	}
	s := &Sample{
		MetricType: r.MetricType,
		StartAt:    r.StartAt.UTC(),
		EndAt:      end.UTC(),
		Value:      r.Value,
	}
	if r.Stage != nil {
		s.Stage = *r.Stage
	}
	return s
}

// IngestResponse is the response body for batch sample ingest.
// @Description Result of a batch ingest.
type IngestResponse struct {
	// Number of samples accepted
	Ingested int `json:"ingested" example:"42"`
}

// SampleFilter contains filter parameters for listing samples.
type SampleFilter struct {
	MetricType *MetricType
	From       *time.Time
	To         *time.Time
	Limit      int
	Cursor     string
}

// SampleListResponse is the response body for listing samples.
// @Description Paginated list of raw samples.
type SampleListResponse struct {
	// Array of samples
	Data []Sample `json:"data"`
	// Pagination metadata
	Pagination PaginationResponse `json:"pagination"`
}

// PaginationResponse contains pagination metadata.
// @Description Cursor-based pagination info.
type PaginationResponse struct {
	// Cursor for fetching the next page (empty if no more pages)
	NextCursor string `json:"next_cursor,omitempty"`
	// True if more results are available
	HasMore bool `json:"has_more" example:"true"`
}
