package domain

// InsightsContext is the aggregated score history handed to the LLM.
type InsightsContext struct {
	// Latest records, one per kind, for "how am I today"
	Latest map[ScoreKind]*ScoreRecord `json:"latest"`
	// Trailing records for trend context, ordered by date ascending
	Recent []ScoreRecord `json:"recent"`
	// Number of days the recent window covers
	WindowDays int `json:"window_days"`
}

// LLMInsightsOutput is the structured response expected from the LLM.
// @Description Natural-language, non-medical reading of recent scores.
type LLMInsightsOutput struct {
	// Short narrative summary of the recent scores
	Summary string `json:"summary"`
	// Bullet-point observations about trends and components
	Observations []string `json:"observations"`
	// Concrete behavioral suggestions
	Guidance []string `json:"guidance"`
}

// InsightsResponse is the response body for the insights endpoint.
// @Description LLM-generated insights with the score data they are based on.
type InsightsResponse struct {
	Insights LLMInsightsOutput `json:"insights"`
	Scores   []ScoreRecord     `json:"scores"`
	// Trace ID of the generation, for correlating observability data
	TraceID string `json:"trace_id,omitempty"`
}
