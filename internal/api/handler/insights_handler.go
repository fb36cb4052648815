package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/blaisecz/vitality-tracker/internal/domain"
	"github.com/blaisecz/vitality-tracker/internal/llm"
	"github.com/blaisecz/vitality-tracker/internal/service"
	"github.com/blaisecz/vitality-tracker/pkg/problem"
	"go.opentelemetry.io/otel/trace"
)

// InsightsHandler handles the LLM insights endpoint.
type InsightsHandler struct {
	service service.InsightsService
}

// NewInsightsHandler creates a new InsightsHandler.
func NewInsightsHandler(service service.InsightsService) *InsightsHandler {
	return &InsightsHandler{service: service}
}

// Get handles GET /v1/insights
// @Summary Get LLM-powered score insights
// @Description Generate a natural-language reading of the recent sleep and recovery scores.
// @Tags insights
// @Produce json
// @Success 200 {object} domain.InsightsResponse "Insights with the scores they are based on"
// @Failure 404 {object} problem.Problem "No scores computed yet"
// @Failure 500 {object} problem.Problem "Server error"
// @Failure 502 {object} problem.Problem "LLM request failed"
// @Failure 503 {object} problem.Problem "LLM service not configured"
// @Router /insights [get]
func (h *InsightsHandler) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Generate(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrScoreNotYetAvailable) {
			problem.NotYetAvailable("No scores computed in the recent window yet").Write(w)
			return
		}
		if errors.Is(err, llm.ErrOpenAIUnavailable) {
			problem.ServiceUnavailable("OpenAI service is not configured").Write(w)
			return
		}
		if errors.Is(err, llm.ErrOpenAIRequest) || errors.Is(err, llm.ErrOpenAIResponse) {
			problem.New(http.StatusBadGateway, "llm-error", "LLM Error", "Failed to generate insights from LLM").Write(w)
			return
		}
		if errors.Is(err, domain.ErrPersistence) {
			problem.ServiceUnavailable("Storage is temporarily unavailable; retry the request").Write(w)
			return
		}
		problem.InternalError("Failed to generate insights").Write(w)
		return
	}

	// Attach OTEL trace ID (if present) to response for feedback linking
	span := trace.SpanFromContext(r.Context())
	if span.SpanContext().IsValid() {
		result.TraceID = span.SpanContext().TraceID().String()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
