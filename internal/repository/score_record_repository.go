package repository

import (
	"context"

	"github.com/blaisecz/vitality-tracker/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScoreRecordRepository persists one score record per (date, kind).
// Upsert replaces the whole row in one statement, so a reader never sees a
// mix of old and new component data.
type ScoreRecordRepository interface {
	GetByDateKind(ctx context.Context, date string, kind domain.ScoreKind) (*domain.ScoreRecord, error)
	Upsert(ctx context.Context, record *domain.ScoreRecord) error
	ListRange(ctx context.Context, from, to string, kind *domain.ScoreKind) ([]domain.ScoreRecord, error)
	DeleteByDateKind(ctx context.Context, date string, kind domain.ScoreKind) error
}

type scoreRecordRepository struct {
	db *gorm.DB
}

func NewScoreRecordRepository(db *gorm.DB) ScoreRecordRepository {
	return &scoreRecordRepository{db: db}
}

func (r *scoreRecordRepository) GetByDateKind(ctx context.Context, date string, kind domain.ScoreKind) (*domain.ScoreRecord, error) {
	var record domain.ScoreRecord
	err := r.db.WithContext(ctx).
		Where("date = ? AND kind = ?", date, kind).
		First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, wrapStorageErr(err)
	}
	return &record, nil
}

func (r *scoreRecordRepository) Upsert(ctx context.Context, record *domain.ScoreRecord) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}, {Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"final_score", "components", "session_start_at", "session_end_at", "computed_at",
		}),
	}).Create(record).Error
	return wrapStorageErr(err)
}

func (r *scoreRecordRepository) ListRange(ctx context.Context, from, to string, kind *domain.ScoreKind) ([]domain.ScoreRecord, error) {
	query := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("date ASC, kind ASC")

	if kind != nil {
		query = query.Where("kind = ?", *kind)
	}

	var records []domain.ScoreRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, wrapStorageErr(err)
	}
	return records, nil
}

func (r *scoreRecordRepository) DeleteByDateKind(ctx context.Context, date string, kind domain.ScoreKind) error {
	err := r.db.WithContext(ctx).
		Where("date = ? AND kind = ?", date, kind).
		Delete(&domain.ScoreRecord{}).Error
	return wrapStorageErr(err)
}
