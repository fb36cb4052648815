package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/blaisecz/vitality-tracker/internal/domain"
	"github.com/blaisecz/vitality-tracker/internal/events"
	"github.com/blaisecz/vitality-tracker/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestController(samples *MockSampleRepository, store *MockScoreRecordRepository, debounce time.Duration) (*RecalcController, *events.Bus, *metrics.Pipeline) {
	bus := events.NewBus()
	pipeline := metrics.NewPipeline(prometheus.NewRegistry())
	svc := newTestScoreService(samples, store)
	controller := NewRecalcController(bus, svc, pipeline)
	controller.debounce = debounce
	return controller, bus, pipeline
}

func TestRecalcController_NotifyComputesAndPublishes(t *testing.T) {
	samples := NewMockSampleRepository()
	store := NewMockScoreRecordRepository()
	addNight(samples, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))

	controller, bus, pipeline := newTestController(samples, store, 5*time.Millisecond)
	updates := bus.SubscribeScoreUpdates(8)

	controller.Notify(context.Background(), "2024-03-10")
	controller.Wait()

	if store.Upserts() != 2 {
		t.Fatalf("recomputation persisted %d records, want 2", store.Upserts())
	}
	if got := testutil.ToFloat64(pipeline.RecomputationsTotal.WithLabelValues(metrics.OutcomeOK)); got != 1 {
		t.Errorf("ok recomputations = %v, want 1", got)
	}

	kinds := make(map[domain.ScoreKind]bool)
	for i := 0; i < 2; i++ {
		select {
		case ev := <-updates:
			kinds[ev.Kind] = true
		default:
			t.Fatal("missing score-updated event")
		}
	}
	if !kinds[domain.ScoreKindSleep] || !kinds[domain.ScoreKindRecovery] {
		t.Errorf("published kinds = %v, want both SLEEP and RECOVERY", kinds)
	}
}

func TestRecalcController_CoalescesBurst(t *testing.T) {
	samples := NewMockSampleRepository()
	store := NewMockScoreRecordRepository()
	addNight(samples, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))

	controller, _, pipeline := newTestController(samples, store, 50*time.Millisecond)

	// A burst of notifications inside the debounce window runs once.
	for i := 0; i < 5; i++ {
		controller.Notify(context.Background(), "2024-03-10")
	}
	controller.Wait()

	if store.Upserts() != 2 {
		t.Errorf("burst caused %d upserts, want 2 (one recomputation)", store.Upserts())
	}
	if got := testutil.ToFloat64(pipeline.CoalescedTotal); got != 4 {
		t.Errorf("coalesced notifications = %v, want 4", got)
	}
	if got := testutil.ToFloat64(pipeline.RecomputationsTotal.WithLabelValues(metrics.OutcomeOK)); got != 1 {
		t.Errorf("ok recomputations = %v, want 1", got)
	}
}

func TestRecalcController_NoSessionIsNotAnError(t *testing.T) {
	controller, _, pipeline := newTestController(NewMockSampleRepository(), NewMockScoreRecordRepository(), 5*time.Millisecond)

	controller.Notify(context.Background(), "2024-03-10")
	controller.Wait()

	if got := testutil.ToFloat64(pipeline.RecomputationsTotal.WithLabelValues(metrics.OutcomeNoSession)); got != 1 {
		t.Errorf("no-session recomputations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(pipeline.RecomputationsTotal.WithLabelValues(metrics.OutcomeError)); got != 0 {
		t.Errorf("error recomputations = %v, want 0", got)
	}
}

func TestRecalcController_StartConsumesSampleEvents(t *testing.T) {
	samples := NewMockSampleRepository()
	store := NewMockScoreRecordRepository()
	wakeDate := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	bed, _ := addNight(samples, wakeDate)

	controller, bus, _ := newTestController(samples, store, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	controller.Start(ctx)

	// A late overnight sample lands after 23:00, so the following morning's
	// wake date must recompute.
	bus.PublishSample(events.SampleEvent{
		MetricType: domain.MetricSleepStage,
		Timestamp:  bed.Add(time.Hour),
	})

	deadline := time.Now().Add(2 * time.Second)
	for {
		_, err := store.GetByDateKind(ctx, "2024-03-10", domain.ScoreKindSleep)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("GetByDateKind() error = %v", err)
		}
		if time.Now().After(deadline) {
			t.Fatal("score for 2024-03-10 never computed from the bus event")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	controller.Wait()
}

func TestAffectedDates(t *testing.T) {
	tests := []struct {
		name string
		ts   time.Time
		want []string
	}{
		{
			name: "morning sample touches its own day only",
			ts:   time.Date(2024, 3, 10, 3, 30, 0, 0, time.UTC),
			want: []string{"2024-03-10"},
		},
		{
			name: "evening sample also touches the next morning",
			ts:   time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC),
			want: []string{"2024-03-09", "2024-03-10"},
		},
		{
			name: "noon is the boundary",
			ts:   time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC),
			want: []string{"2024-03-09", "2024-03-10"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := affectedDates(tt.ts)
			if len(got) != len(tt.want) {
				t.Fatalf("affectedDates(%v) = %v, want %v", tt.ts, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("affectedDates(%v)[%d] = %s, want %s", tt.ts, i, got[i], tt.want[i])
				}
			}
		})
	}
}
