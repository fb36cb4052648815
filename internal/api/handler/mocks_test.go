package handler

import (
	"context"

	"github.com/blaisecz/vitality-tracker/internal/domain"
)

// MockSampleService is a mock implementation of service.SampleService
type MockSampleService struct {
	ingestFunc func(ctx context.Context, req *domain.IngestRequest) (*domain.IngestResponse, error)
	listFunc   func(ctx context.Context, filter domain.SampleFilter) (*domain.SampleListResponse, error)
}

func (m *MockSampleService) Ingest(ctx context.Context, req *domain.IngestRequest) (*domain.IngestResponse, error) {
	if m.ingestFunc != nil {
		return m.ingestFunc(ctx, req)
	}
	return &domain.IngestResponse{Ingested: len(req.Samples)}, nil
}

func (m *MockSampleService) List(ctx context.Context, filter domain.SampleFilter) (*domain.SampleListResponse, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return &domain.SampleListResponse{
		Data:       []domain.Sample{},
		Pagination: domain.PaginationResponse{HasMore: false},
	}, nil
}

// MockScoreService is a mock implementation of service.ScoreService
type MockScoreService struct {
	getFunc       func(ctx context.Context, date string, kind domain.ScoreKind) (*domain.ScoreRecord, error)
	listFunc      func(ctx context.Context, from, to string, kind *domain.ScoreKind) ([]domain.ScoreRecord, error)
	recomputeFunc func(ctx context.Context, date string) ([]domain.ScoreRecord, error)
}

func (m *MockScoreService) GetScore(ctx context.Context, date string, kind domain.ScoreKind) (*domain.ScoreRecord, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, date, kind)
	}
	return &domain.ScoreRecord{Date: date, Kind: kind, FinalScore: 80}, nil
}

func (m *MockScoreService) ListRange(ctx context.Context, from, to string, kind *domain.ScoreKind) ([]domain.ScoreRecord, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, from, to, kind)
	}
	return nil, nil
}

func (m *MockScoreService) Recompute(ctx context.Context, date string) ([]domain.ScoreRecord, error) {
	if m.recomputeFunc != nil {
		return m.recomputeFunc(ctx, date)
	}
	return nil, nil
}

// MockInsightsService is a mock implementation of service.InsightsService
type MockInsightsService struct {
	generateFunc func(ctx context.Context) (*domain.InsightsResponse, error)
}

func (m *MockInsightsService) Generate(ctx context.Context) (*domain.InsightsResponse, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx)
	}
	return &domain.InsightsResponse{
		Insights: domain.LLMInsightsOutput{Summary: "steady week"},
		Scores:   []domain.ScoreRecord{},
	}, nil
}
