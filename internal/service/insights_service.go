package service

import (
	"context"
	"time"

	"github.com/blaisecz/vitality-tracker/internal/domain"
	"github.com/blaisecz/vitality-tracker/internal/llm"
)

// InsightsWindowDays is how far back the insights context reaches.
const InsightsWindowDays = 14

// InsightsService renders recent score records into natural-language
// insights via the LLM.
type InsightsService interface {
	Generate(ctx context.Context) (*domain.InsightsResponse, error)
}

type insightsService struct {
	scores    ScoreService
	llmClient llm.InsightsLLM
}

// NewInsightsService creates a new InsightsService.
func NewInsightsService(scores ScoreService, llmClient llm.InsightsLLM) InsightsService {
	return &insightsService{
		scores:    scores,
		llmClient: llmClient,
	}
}

func (s *insightsService) Generate(ctx context.Context) (*domain.InsightsResponse, error) {
	now := time.Now().UTC()
	to := now.Format(domain.ScoreDateLayout)
	from := now.AddDate(0, 0, -InsightsWindowDays).Format(domain.ScoreDateLayout)

	records, err := s.scores.ListRange(ctx, from, to, nil)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrScoreNotYetAvailable
	}

	latest := make(map[domain.ScoreKind]*domain.ScoreRecord, 2)
	for i := range records {
		r := &records[i]
		if cur, ok := latest[r.Kind]; !ok || r.Date > cur.Date {
			latest[r.Kind] = r
		}
	}

	insightsCtx := &domain.InsightsContext{
		Latest:     latest,
		Recent:     records,
		WindowDays: InsightsWindowDays,
	}

	output, err := s.llmClient.GenerateInsights(ctx, insightsCtx)
	if err != nil {
		return nil, err
	}

	return &domain.InsightsResponse{
		Insights: *output,
		Scores:   records,
	}, nil
}
