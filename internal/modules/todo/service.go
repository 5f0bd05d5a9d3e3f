package todo

import (
	"context"
	"errors"
	"strings"

	"cityhub/internal/domain"
	"cityhub/internal/pkg/pagination"
	"cityhub/internal/repository"

	"gorm.io/gorm"
)

var ErrTodoNotFound = errors.New("todo not found")

// ValidSortFields are the columns list queries may be ordered by.
var ValidSortFields = []string{"title", "created_at", "completed"}

type Service struct {
	todos *repository.TodoRepository
}

func NewService(todos *repository.TodoRepository) *Service {
	return &Service{todos: todos}
}

func (s *Service) Create(ctx context.Context, req CreateTodoRequest) (*domain.Todo, error) {
	t := &domain.Todo{
		Title:     strings.TrimSpace(req.Title),
		Completed: req.Completed,
	}
	if err := s.todos.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Todo, error) {
	t, err := s.todos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateTodoRequest) (*domain.Todo, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		t.Title = strings.TrimSpace(*req.Title)
	}
	if req.Completed != nil {
		t.Completed = *req.Completed
	}

	if err := s.todos.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.todos.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, filter repository.TodoFilter, p pagination.Params) ([]domain.Todo, int64, error) {
	return s.todos.List(ctx, filter, p)
}
