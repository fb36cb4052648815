package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline instruments the scoring pipeline. One instance is created at
// startup and shared by reference.
type Pipeline struct {
	RecomputationsTotal *prometheus.CounterVec
	CoalescedTotal      prometheus.Counter
	ScoreServesTotal    *prometheus.CounterVec
	IngestedSamples     *prometheus.CounterVec
}

// NewPipeline registers the pipeline collectors on reg.
func NewPipeline(reg prometheus.Registerer) *Pipeline {
	factory := promauto.With(reg)

	return &Pipeline{
		RecomputationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vitality",
			Name:      "recomputations_total",
			Help:      "Score recomputations driven by sample notifications, by outcome.",
		}, []string{"outcome"}),
		CoalescedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "vitality",
			Name:      "notifications_coalesced_total",
			Help:      "Sample notifications merged into an already pending recomputation.",
		}),
		ScoreServesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vitality",
			Name:      "score_serves_total",
			Help:      "Score reads, by whether they were served from storage or freshly computed.",
		}, []string{"source"}),
		IngestedSamples: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vitality",
			Name:      "ingested_samples_total",
			Help:      "Raw samples accepted, by metric type.",
		}, []string{"metric_type"}),
	}
}

// Outcome and source label values.
const (
	OutcomeOK        = "ok"
	OutcomeNoSession = "no_session"
	OutcomeError     = "error"

	SourceStored   = "stored"
	SourceComputed = "computed"
)
