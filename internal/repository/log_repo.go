package repository

import (
	"context"

	"cityhub/internal/domain"
	"cityhub/internal/pkg/pagination"

	"gorm.io/gorm"
)

type LogRepository struct {
	db *gorm.DB
}

func NewLogRepository(db *gorm.DB) *LogRepository {
	return &LogRepository{db: db}
}

type LogFilter struct {
	Level  string
	Source string
	Status int
}

func (r *LogRepository) Create(ctx context.Context, e *domain.LogEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *LogRepository) List(ctx context.Context, filter LogFilter, p pagination.Params) ([]domain.LogEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.LogEntry{})
	if filter.Level != "" {
		query = query.Where("level = ?", filter.Level)
	}
	if filter.Source != "" {
		query = query.Where("source = ?", filter.Source)
	}
	if filter.Status != 0 {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []domain.LogEntry
	err := query.
		Order(p.Order()).
		Offset(p.Offset()).
		Limit(p.PageSize).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
