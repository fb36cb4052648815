package service

import (
	"context"

	"github.com/blaisecz/vitality-tracker/internal/domain"
	"github.com/blaisecz/vitality-tracker/internal/events"
	"github.com/blaisecz/vitality-tracker/internal/metrics"
	"github.com/blaisecz/vitality-tracker/internal/repository"
	"github.com/blaisecz/vitality-tracker/pkg/pagination"
)

// SampleService is the ingest edge: it persists raw sample batches and
// announces their arrival on the bus so scoring reacts.
type SampleService interface {
	Ingest(ctx context.Context, req *domain.IngestRequest) (*domain.IngestResponse, error)
	List(ctx context.Context, filter domain.SampleFilter) (*domain.SampleListResponse, error)
}

type sampleService struct {
	repo     repository.SampleRepository
	bus      *events.Bus
	pipeline *metrics.Pipeline
}

// NewSampleService creates a new SampleService.
func NewSampleService(repo repository.SampleRepository, bus *events.Bus, pipeline *metrics.Pipeline) SampleService {
	return &sampleService{
		repo:     repo,
		bus:      bus,
		pipeline: pipeline,
	}
}

func (s *sampleService) Ingest(ctx context.Context, req *domain.IngestRequest) (*domain.IngestResponse, error) {
	samples := make([]*domain.Sample, 0, len(req.Samples))
	for i := range req.Samples {
		item := &req.Samples[i]
		if err := validateSemantics(item); err != nil {
			return nil, err
		}
		samples = append(samples, item.ToSample())
	}

	if err := s.repo.CreateBatch(ctx, samples); err != nil {
		return nil, err
	}

	// Persist first, then announce: a notification for a sample that is not
	// yet visible would recompute against stale data.
	for _, sample := range samples {
		s.pipeline.IngestedSamples.WithLabelValues(string(sample.MetricType)).Inc()
		s.bus.PublishSample(events.SampleEvent{
			MetricType: sample.MetricType,
			Timestamp:  sample.StartAt,
		})
	}

	return &domain.IngestResponse{Ingested: len(samples)}, nil
}

// validateSemantics covers the cross-field rules struct tags cannot express:
// stage samples need a stage and a real interval, numeric samples need a
// positive reading and no stage.
func validateSemantics(item *domain.IngestSampleRequest) error {
	if item.MetricType == domain.MetricSleepStage {
		if item.Stage == nil || item.EndAt == nil {
			return domain.ErrInvalidInput
		}
		return nil
	}
	if item.Stage != nil {
		return domain.ErrInvalidInput
	}
	if item.Value <= 0 {
		return domain.ErrInvalidInput
	}
	return nil
}

func (s *sampleService) List(ctx context.Context, filter domain.SampleFilter) (*domain.SampleListResponse, error) {
	samples, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	limit := pagination.NormalizeLimit(filter.Limit)
	hasMore := len(samples) > limit

	// Trim to actual limit
	if hasMore {
		samples = samples[:limit]
	}
	if samples == nil {
		samples = []domain.Sample{}
	}

	response := &domain.SampleListResponse{
		Data: samples,
		Pagination: domain.PaginationResponse{
			HasMore: hasMore,
		},
	}

	// Set next cursor if there are more results
	if hasMore && len(samples) > 0 {
		last := samples[len(samples)-1]
		cursor := &pagination.Cursor{
			ID:      last.ID,
			StartAt: last.StartAt,
		}
		response.Pagination.NextCursor = cursor.Encode()
	}

	return response, nil
}
