package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/blaisecz/vitality-tracker/internal/domain"
	"gorm.io/gorm"
)

// seededDays comfortably covers the long baseline window plus slack.
const seededDays = 70

// Run seeds the database with demo sample history: one night of sleep stages
// per day plus overnight and daytime vitals. Safe to call multiple times; a
// non-empty samples table is left untouched.
func Run(db *gorm.DB) error {
	var count int64
	if err := db.Model(&domain.Sample{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count samples: %w", err)
	}
	if count > 0 {
		log.Println("Seed skipped: samples already present")
		return nil
	}

	rng := rand.New(rand.NewSource(42))
	now := time.Now().UTC()

	var samples []domain.Sample
	for i := seededDays; i >= 1; i-- {
		day := now.AddDate(0, 0, -i)
		samples = append(samples, seedNight(day, rng)...)
		samples = append(samples, seedVitals(day, rng)...)
	}

	if err := db.CreateInBatches(samples, 500).Error; err != nil {
		return fmt.Errorf("failed to seed samples: %w", err)
	}

	log.Printf("Seed completed: %d samples over %d days", len(samples), seededDays)
	return nil
}

// seedNight generates the stage intervals of the night ending on the morning
// after day: bed between 22:30 and 23:59, roughly 90-minute cycles of core,
// deep and REM with brief awakenings.
func seedNight(day time.Time, rng *rand.Rand) []domain.Sample {
	bed := time.Date(day.Year(), day.Month(), day.Day(), 22, 30+rng.Intn(90), 0, 0, time.UTC)
	inBed := time.Duration(7*60+rng.Intn(90)) * time.Minute

	var samples []domain.Sample
	cursor := bed
	end := bed.Add(inBed)
	for cursor.Before(end) {
		for _, block := range []struct {
			stage   domain.SleepStage
			minutes int
		}{
			{domain.StageCore, 40 + rng.Intn(20)},
			{domain.StageDeep, 10 + rng.Intn(15)},
			{domain.StageCore, 10 + rng.Intn(10)},
			{domain.StageREM, 15 + rng.Intn(15)},
		} {
			d := time.Duration(block.minutes) * time.Minute
			if cursor.Add(d).After(end) {
				d = end.Sub(cursor)
			}
			if d <= 0 {
				break
			}
			samples = append(samples, stageSample(block.stage, cursor, d))
			cursor = cursor.Add(d)
		}
		// Occasional brief awakening between cycles.
		if rng.Float32() < 0.4 && cursor.Add(5*time.Minute).Before(end) {
			d := time.Duration(2+rng.Intn(4)) * time.Minute
			samples = append(samples, stageSample(domain.StageAwake, cursor, d))
			cursor = cursor.Add(d)
		}
	}
	return samples
}

// seedVitals generates the vitals measured during and around the night that
// started on day: overnight HRV, heart rate, respiratory rate and oxygen
// readings in the small hours of the next morning, daytime walking heart
// rate that afternoon.
func seedVitals(day time.Time, rng *rand.Rand) []domain.Sample {
	morning := day.AddDate(0, 0, 1)

	var samples []domain.Sample
	for hour := 1; hour <= 5; hour++ {
		at := time.Date(morning.Year(), morning.Month(), morning.Day(), hour, rng.Intn(60), 0, 0, time.UTC)
		samples = append(samples,
			pointSample(domain.MetricHRV, at, 45+rng.Float64()*12-6),
			pointSample(domain.MetricRestingHeartRate, at.Add(5*time.Minute), 58+rng.Float64()*8-4),
		)
	}

	night := time.Date(morning.Year(), morning.Month(), morning.Day(), 3, rng.Intn(60), 0, 0, time.UTC)
	samples = append(samples,
		pointSample(domain.MetricRespiratoryRate, night, 14.5+rng.Float64()*2-1),
		pointSample(domain.MetricOxygenSaturation, night.Add(10*time.Minute), 96.5+rng.Float64()*2),
	)

	afternoon := time.Date(morning.Year(), morning.Month(), morning.Day(), 13+rng.Intn(5), rng.Intn(60), 0, 0, time.UTC)
	samples = append(samples, pointSample(domain.MetricWalkingHeartRate, afternoon, 102+rng.Float64()*16-8))

	return samples
}

func stageSample(stage domain.SleepStage, start time.Time, d time.Duration) domain.Sample {
	return domain.Sample{
		MetricType: domain.MetricSleepStage,
		StartAt:    start,
		EndAt:      start.Add(d),
		Stage:      stage,
	}
}

func pointSample(metric domain.MetricType, at time.Time, value float64) domain.Sample {
	return domain.Sample{
		MetricType: metric,
		StartAt:    at,
		EndAt:      at,
		Value:      value,
	}
}
