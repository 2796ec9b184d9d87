package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dom "github.com/marianahernandez1510202/todo-api-devops-project/internal/domain"
	"github.com/marianahernandez1510202/todo-api-devops-project/internal/repo"
	"github.com/marianahernandez1510202/todo-api-devops-project/internal/service"
)

type recordingNotifier struct {
	created []dom.Todo
	err     error
}

func (n *recordingNotifier) TodoCreated(_ context.Context, t dom.Todo) error {
	n.created = append(n.created, t)
	return n.err
}

func TestCreateTrimsAndDefaults(t *testing.T) {
	svc := service.NewTodoService(repo.NewMemoryTodoRepo(), nil)

	created, err := svc.Create(context.Background(), "  padded \n", "  desc ", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "padded", created.Title)
	assert.Equal(t, "desc", created.Description)
	assert.Equal(t, dom.PriorityMedium, created.Priority)
	assert.False(t, created.Completed)
}

func TestBlankTitleRejected(t *testing.T) {
	svc := service.NewTodoService(repo.NewMemoryTodoRepo(), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, "   \t\n", "", "", nil)
	assert.ErrorIs(t, err, service.ErrBlankTitle)

	created, err := svc.Create(ctx, "real", "", "", nil)
	require.NoError(t, err)

	blank := "  "
	_, err = svc.Update(ctx, created.ID, repo.TodoPatch{Title: &blank})
	assert.ErrorIs(t, err, service.ErrBlankTitle)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "real", got.Title)
}

func TestCreateNotifies(t *testing.T) {
	n := &recordingNotifier{}
	svc := service.NewTodoService(repo.NewMemoryTodoRepo(), n)

	created, err := svc.Create(context.Background(), "notify me", "", dom.PriorityHigh, nil)
	require.NoError(t, err)
	require.Len(t, n.created, 1)
	assert.Equal(t, created.ID, n.created[0].ID)
}

func TestCreateNotifierFailureIsSwallowed(t *testing.T) {
	n := &recordingNotifier{err: context.DeadlineExceeded}
	svc := service.NewTodoService(repo.NewMemoryTodoRepo(), n)

	_, err := svc.Create(context.Background(), "still created", "", "", nil)
	require.NoError(t, err)
}

func TestErrorMapping(t *testing.T) {
	svc := service.NewTodoService(repo.NewMemoryTodoRepo(), nil)
	ctx := context.Background()

	_, err := svc.GetByID(ctx, 42)
	assert.ErrorIs(t, err, service.ErrNotFound)

	err = svc.Delete(ctx, 42)
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = svc.SetCompleted(ctx, 42, true)
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = svc.Update(ctx, 42, repo.TodoPatch{})
	assert.ErrorIs(t, err, service.ErrNoFields)

	title := "x"
	_, err = svc.Update(ctx, 42, repo.TodoPatch{Title: &title})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestUpdateTrimsPresentFields(t *testing.T) {
	svc := service.NewTodoService(repo.NewMemoryTodoRepo(), nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, "base", "", "", nil)
	require.NoError(t, err)

	title := "  renamed  "
	updated, err := svc.Update(ctx, created.ID, repo.TodoPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
}

func TestStats(t *testing.T) {
	svc := service.NewTodoService(repo.NewMemoryTodoRepo(), nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, "t", "", dom.PriorityLow, nil)
		require.NoError(t, err)
	}
	created, err := svc.Create(ctx, "done", "", dom.PriorityHigh, nil)
	require.NoError(t, err)
	_, err = svc.SetCompleted(ctx, created.ID, true)
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(1), stats.Completed)
	assert.Equal(t, int64(3), stats.Pending)
}
