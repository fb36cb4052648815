package events

import (
	"log"
	"sync"
	"time"

	"github.com/blaisecz/vitality-tracker/internal/domain"
)

// SampleEvent announces that a new sample of one metric arrived. Delivery is
// at-least-once; consumers must tolerate duplicates and out-of-order events.
type SampleEvent struct {
	MetricType domain.MetricType
	Timestamp  time.Time
}

// ScoreUpdatedEvent announces that a score record was (re)computed.
type ScoreUpdatedEvent struct {
	Date string
	Kind domain.ScoreKind
}

// Bus is the in-process event channel between the ingest edges and the
// recalculation controller. Publishing never blocks: a subscriber that has
// fallen behind loses events rather than stalling ingest, which is safe
// because notifications are only recompute hints.
type Bus struct {
	mu         sync.Mutex
	sampleSubs []chan SampleEvent
	scoreSubs  []chan ScoreUpdatedEvent
}

func NewBus() *Bus {
	return &Bus{}
}

// SubscribeSamples returns a channel receiving sample-arrival events.
func (b *Bus) SubscribeSamples(buffer int) <-chan SampleEvent {
	if buffer <= 0 {
		buffer = 64
	}
	ch := make(chan SampleEvent, buffer)
	b.mu.Lock()
	b.sampleSubs = append(b.sampleSubs, ch)
	b.mu.Unlock()
	return ch
}

// SubscribeScoreUpdates returns a channel receiving score-updated events.
func (b *Bus) SubscribeScoreUpdates(buffer int) <-chan ScoreUpdatedEvent {
	if buffer <= 0 {
		buffer = 64
	}
	ch := make(chan ScoreUpdatedEvent, buffer)
	b.mu.Lock()
	b.scoreSubs = append(b.scoreSubs, ch)
	b.mu.Unlock()
	return ch
}

// PublishSample fans a sample-arrival event out to all subscribers.
func (b *Bus) PublishSample(ev SampleEvent) {
	b.mu.Lock()
	subs := make([]chan SampleEvent, len(b.sampleSubs))
	copy(subs, b.sampleSubs)
	b.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- ev:
		default:
			log.Printf("events: dropping sample event for slow subscriber (metric=%s)", ev.MetricType)
		}
	}
}

// PublishScoreUpdated fans a score-updated event out to all subscribers.
func (b *Bus) PublishScoreUpdated(ev ScoreUpdatedEvent) {
	b.mu.Lock()
	subs := make([]chan ScoreUpdatedEvent, len(b.scoreSubs))
	copy(subs, b.scoreSubs)
	b.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- ev:
		default:
			log.Printf("events: dropping score event for slow subscriber (date=%s kind=%s)", ev.Date, ev.Kind)
		}
	}
}
