package repository

import (
	"context"
	"time"

	"github.com/blaisecz/vitality-tracker/internal/domain"
	"github.com/blaisecz/vitality-tracker/pkg/pagination"
	"gorm.io/gorm"
)

// SampleRepository is the query surface the scoring core consumes. The core
// only ever reads samples; writes happen at the ingest edges.
type SampleRepository interface {
	CreateBatch(ctx context.Context, samples []*domain.Sample) error
	// QueryRange returns samples of one metric with StartAt in [from, to),
	// ordered by StartAt ascending.
	QueryRange(ctx context.Context, metric domain.MetricType, from, to time.Time) ([]domain.Sample, error)
	List(ctx context.Context, filter domain.SampleFilter) ([]domain.Sample, error)
}

type sampleRepository struct {
	db *gorm.DB
}

func NewSampleRepository(db *gorm.DB) SampleRepository {
	return &sampleRepository{db: db}
}

func (r *sampleRepository) CreateBatch(ctx context.Context, samples []*domain.Sample) error {
	if len(samples) == 0 {
		return nil
	}
	return wrapStorageErr(r.db.WithContext(ctx).Create(samples).Error)
}

func (r *sampleRepository) QueryRange(ctx context.Context, metric domain.MetricType, from, to time.Time) ([]domain.Sample, error) {
	var samples []domain.Sample
	err := r.db.WithContext(ctx).
		Where("metric_type = ?", metric).
		Where("start_at >= ? AND start_at < ?", from, to).
		Order("start_at ASC").
		Find(&samples).Error
	if err != nil {
		return nil, wrapStorageErr(err)
	}
	return samples, nil
}

func (r *sampleRepository) List(ctx context.Context, filter domain.SampleFilter) ([]domain.Sample, error) {
	query := r.db.WithContext(ctx).Order("start_at DESC")

	if filter.MetricType != nil {
		query = query.Where("metric_type = ?", *filter.MetricType)
	}
	if filter.From != nil {
		query = query.Where("start_at >= ?", filter.From)
	}
	if filter.To != nil {
		query = query.Where("start_at <= ?", filter.To)
	}

	// Apply cursor pagination
	if filter.Cursor != "" {
		cursor, err := pagination.DecodeCursor(filter.Cursor)
		if err == nil && cursor != nil {
			// For DESC order: get records with start_at < cursor.StartAt
			// or same start_at but id < cursor.ID
			query = query.Where(
				"(start_at < ?) OR (start_at = ? AND id < ?)",
				cursor.StartAt, cursor.StartAt, cursor.ID,
			)
		}
	}

	// Fetch one extra to determine if there are more results
	limit := pagination.NormalizeLimit(filter.Limit)
	query = query.Limit(limit + 1)

	var samples []domain.Sample
	if err := query.Find(&samples).Error; err != nil {
		return nil, wrapStorageErr(err)
	}

	return samples, nil
}
