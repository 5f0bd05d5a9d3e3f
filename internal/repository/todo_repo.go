package repository

import (
	"context"
	"strings"

	"cityhub/internal/domain"
	"cityhub/internal/pkg/pagination"

	"gorm.io/gorm"
)

type TodoRepository struct {
	db *gorm.DB
}

func NewTodoRepository(db *gorm.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

// TodoFilter narrows the list query. Nil fields are ignored.
type TodoFilter struct {
	Completed *bool
	Title     string
}

func (r *TodoRepository) Create(ctx context.Context, t *domain.Todo) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TodoRepository) GetByID(ctx context.Context, id int64) (*domain.Todo, error) {
	var t domain.Todo
	tx := r.db.WithContext(ctx).First(&t, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &t, nil
}

func (r *TodoRepository) Update(ctx context.Context, t *domain.Todo) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *TodoRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Todo{}, id).Error
}

func (r *TodoRepository) List(ctx context.Context, filter TodoFilter, p pagination.Params) ([]domain.Todo, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Todo{})
	if filter.Completed != nil {
		query = query.Where("completed = ?", *filter.Completed)
	}
	if filter.Title != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(filter.Title)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var todos []domain.Todo
	err := query.
		Order(p.Order()).
		Offset(p.Offset()).
		Limit(p.PageSize).
		Find(&todos).Error
	if err != nil {
		return nil, 0, err
	}
	return todos, total, nil
}
