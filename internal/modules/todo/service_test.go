package todo

import (
	"context"
	"testing"

	"cityhub/internal/database"
	"cityhub/internal/pkg/pagination"
	"cityhub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return NewService(repository.NewTodoRepository(db))
}

func TestCreateAndGet(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(context.Background(), CreateTodoRequest{Title: "  buy milk  "})
	require.NoError(t, err)
	assert.Equal(t, "buy milk", created.Title)
	assert.False(t, created.Completed)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.Get(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrTodoNotFound)
}

func TestUpdatePartial(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(context.Background(), CreateTodoRequest{Title: "task"})
	require.NoError(t, err)

	done := true
	updated, err := svc.Update(context.Background(), created.ID, UpdateTodoRequest{Completed: &done})
	require.NoError(t, err)
	assert.Equal(t, "task", updated.Title, "title must survive a completed-only update")
	assert.True(t, updated.Completed)
}

func TestListFilters(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateTodoRequest{Title: "Buy groceries"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateTodoRequest{Title: "Walk the dog", Completed: true})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateTodoRequest{Title: "Buy tickets", Completed: true})
	require.NoError(t, err)

	p := pagination.Params{Page: 1, PageSize: 20, SortBy: "created_at", SortOrder: "desc"}

	completed := true
	todos, total, err := svc.List(ctx, repository.TodoFilter{Completed: &completed}, p)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, todos, 2)

	todos, total, err = svc.List(ctx, repository.TodoFilter{Title: "buy"}, p)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, item := range todos {
		assert.Contains(t, item.Title, "Buy")
	}

	todos, total, err = svc.List(ctx, repository.TodoFilter{Title: "buy", Completed: &completed}, p)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Buy tickets", todos[0].Title)
}

func TestListPagination(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, CreateTodoRequest{Title: "task"})
		require.NoError(t, err)
	}

	p := pagination.Params{Page: 2, PageSize: 2, SortBy: "created_at", SortOrder: "desc"}
	todos, total, err := svc.List(ctx, repository.TodoFilter{}, p)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, todos, 2)
	assert.Equal(t, 3, pagination.NewMeta(total, p).TotalPages)
}
