package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/blaisecz/vitality-tracker/internal/domain"
	"github.com/blaisecz/vitality-tracker/internal/events"
	"github.com/blaisecz/vitality-tracker/internal/metrics"
)

// DefaultDebounce is how long the controller waits after a notification
// before recomputing, so a burst of samples from one sync lands in a single
// recomputation.
const DefaultDebounce = 2 * time.Second

// RecalcController watches sample-arrival events and re-drives the scoring
// pipeline for the affected dates. Per date it is single-flight: further
// notifications during a recomputation coalesce into one follow-up run.
type RecalcController struct {
	bus      *events.Bus
	scores   ScoreService
	pipeline *metrics.Pipeline
	debounce time.Duration

	mu     sync.Mutex
	states map[string]*recalcState
	wg     sync.WaitGroup
}

// recalcState tracks one date through Idle -> Pending -> Recalculating.
// A missing entry is Idle; pending set while running means "run again after
// this pass".
type recalcState struct {
	pending bool
}

// NewRecalcController creates a new RecalcController.
func NewRecalcController(bus *events.Bus, scores ScoreService, pipeline *metrics.Pipeline) *RecalcController {
	return &RecalcController{
		bus:      bus,
		scores:   scores,
		pipeline: pipeline,
		debounce: DefaultDebounce,
		states:   make(map[string]*recalcState),
	}
}

// Start subscribes to the bus and consumes until ctx is cancelled.
func (c *RecalcController) Start(ctx context.Context) {
	sub := c.bus.SubscribeSamples(256)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-sub:
				for _, date := range affectedDates(ev.Timestamp) {
					c.Notify(ctx, date)
				}
			}
		}
	}()
}

// Wait blocks until all in-flight recomputations finish. In-flight work is
// allowed to complete and persist even when no consumer is waiting for it,
// because a later consumer will read the stored result.
func (c *RecalcController) Wait() {
	c.wg.Wait()
}

// Notify marks a date as needing recomputation. Duplicate and out-of-order
// notifications are safe: they either start one worker or set the pending
// flag on an existing one.
func (c *RecalcController) Notify(ctx context.Context, date string) {
	c.mu.Lock()
	if st, ok := c.states[date]; ok {
		st.pending = true
		c.mu.Unlock()
		c.pipeline.CoalescedTotal.Inc()
		return
	}
	st := &recalcState{pending: true}
	c.states[date] = st
	c.wg.Add(1)
	c.mu.Unlock()

	go c.run(ctx, date, st)
}

func (c *RecalcController) run(ctx context.Context, date string, st *recalcState) {
	defer c.wg.Done()

	for {
		select {
		case <-ctx.Done():
			c.mu.Lock()
			delete(c.states, date)
			c.mu.Unlock()
			return
		case <-time.After(c.debounce):
		}

		c.mu.Lock()
		st.pending = false
		c.mu.Unlock()

		c.recompute(ctx, date)

		c.mu.Lock()
		if st.pending {
			// More samples arrived while recomputing; go around again.
			c.mu.Unlock()
			continue
		}
		delete(c.states, date)
		c.mu.Unlock()
		return
	}
}

func (c *RecalcController) recompute(ctx context.Context, date string) {
	records, err := c.scores.Recompute(ctx, date)
	switch {
	case err == nil:
		c.pipeline.RecomputationsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
		for _, r := range records {
			c.bus.PublishScoreUpdated(events.ScoreUpdatedEvent{Date: r.Date, Kind: r.Kind})
		}
	case errors.Is(err, domain.ErrScoreNotYetAvailable):
		// No session for this date (yet); nothing to score.
		c.pipeline.RecomputationsTotal.WithLabelValues(metrics.OutcomeNoSession).Inc()
	default:
		c.pipeline.RecomputationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		log.Printf("recalc: recompute for %s failed: %v", date, err)
	}
}

// affectedDates maps a sample timestamp to the wake dates whose session or
// same-day windows could include it: the timestamp's own day, plus the next
// day when the sample falls after noon (it then sits in the following
// morning's look-back window).
func affectedDates(ts time.Time) []string {
	day := truncateToDay(ts)
	dates := []string{day.Format(domain.ScoreDateLayout)}
	if ts.UTC().Hour() >= lookBackStartHour {
		dates = append(dates, day.AddDate(0, 0, 1).Format(domain.ScoreDateLayout))
	}
	return dates
}
