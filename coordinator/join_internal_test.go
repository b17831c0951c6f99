package coordinator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rodneyosodo/fedmean/pkg/mqtt/mocks"
	"github.com/rodneyosodo/fedmean/pkg/storage"
	"github.com/rodneyosodo/fedmean/task"
)

func newJoinService(t *testing.T) *service {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, ok := NewService(
		storage.NewInMemoryStorage(),
		storage.NewInMemoryStorage(),
		new(mocks.PubSub),
		"channel-1",
		time.Minute,
		logger,
	).(*service)
	require.True(t, ok)

	return svc
}

func (svc *service) joinState(taskID string) (hasChan, hasReported bool) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	_, hasChan = svc.arrivals[taskID]
	_, hasReported = svc.reported[taskID]

	return hasChan, hasReported
}

func TestJoinStateReleasedOnFailure(t *testing.T) {
	svc := newJoinService(t)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, task.Task{
		Params: task.Params{ColumnName: "age"},
		OrgIDs: []string{"org-1"},
	})
	require.NoError(t, err)

	svc.arrivalChan(created.ID)
	require.True(t, svc.markReported(created.ID, "org-1"))

	svc.failTask(ctx, created.ID, errors.New("node gave up"))

	hasChan, hasReported := svc.joinState(created.ID)
	assert.False(t, hasChan)
	assert.False(t, hasReported)

	// A fresh join for the same task starts from a clean slate.
	assert.True(t, svc.markReported(created.ID, "org-1"))
}

func TestJoinStateReleasedOnDelete(t *testing.T) {
	svc := newJoinService(t)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, task.Task{
		Params: task.Params{ColumnName: "age"},
		OrgIDs: []string{"org-1"},
	})
	require.NoError(t, err)

	svc.arrivalChan(created.ID)
	require.True(t, svc.markReported(created.ID, "org-1"))

	require.NoError(t, svc.DeleteTask(ctx, created.ID))

	hasChan, hasReported := svc.joinState(created.ID)
	assert.False(t, hasChan)
	assert.False(t, hasReported)
}

func TestMarkReported(t *testing.T) {
	svc := newJoinService(t)

	assert.True(t, svc.markReported("task-1", "org-1"))
	assert.False(t, svc.markReported("task-1", "org-1"))
	assert.True(t, svc.markReported("task-1", "org-2"))
	assert.True(t, svc.markReported("task-2", "org-1"))
}
