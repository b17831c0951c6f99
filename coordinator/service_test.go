package coordinator_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rodneyosodo/fedmean/average"
	"github.com/rodneyosodo/fedmean/coordinator"
	pkgerrors "github.com/rodneyosodo/fedmean/pkg/errors"
	pkgmqtt "github.com/rodneyosodo/fedmean/pkg/mqtt"
	"github.com/rodneyosodo/fedmean/pkg/mqtt/mocks"
	"github.com/rodneyosodo/fedmean/pkg/storage"
	"github.com/rodneyosodo/fedmean/task"
)

const channelID = "channel-1"

var (
	subscribeTopic = "channels/" + channelID + "/messages/#"
	startTopic     = "channels/" + channelID + "/messages/control/coordinator/start"
	createTopic    = "channels/" + channelID + "/messages/control/organization/create"
	aliveTopic     = "channels/" + channelID + "/messages/control/organization/alive"
	resultsTopic   = "channels/" + channelID + "/messages/control/organization/results"
)

type harness struct {
	svc     coordinator.Service
	pubsub  *mocks.PubSub
	handler pkgmqtt.Handler
}

func newHarness(t *testing.T, waitTimeout time.Duration) *harness {
	t.Helper()

	h := &harness{pubsub: new(mocks.PubSub)}

	h.pubsub.On("Subscribe", mock.Anything, subscribeTopic, mock.Anything).
		Run(func(args mock.Arguments) {
			h.handler = args.Get(2).(pkgmqtt.Handler)
		}).
		Return(nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h.svc = coordinator.NewService(
		storage.NewInMemoryStorage(),
		storage.NewInMemoryStorage(),
		h.pubsub,
		channelID,
		waitTimeout,
		logger,
	)

	require.NoError(t, h.svc.Subscribe(context.Background()))
	require.NotNil(t, h.handler)

	return h
}

func (h *harness) registerOrganization(t *testing.T, orgID, name string) {
	t.Helper()

	err := h.handler(createTopic, map[string]any{
		"organization_id": orgID,
		"name":            name,
	})
	require.NoError(t, err)
}

func (h *harness) deliverResult(t *testing.T, taskID, orgID string, sum float64, count int64) {
	t.Helper()

	err := h.handler(resultsTopic, map[string]any{
		"task_id":         taskID,
		"organization_id": orgID,
		"sum":             sum,
		"count":           float64(count),
	})
	require.NoError(t, err)
}

func TestCreateTask(t *testing.T) {
	h := newHarness(t, 0)
	ctx := context.Background()

	cases := []struct {
		desc string
		task task.Task
		err  error
	}{
		{
			desc: "defaults fill method and name",
			task: task.Task{
				Params: task.Params{ColumnName: "age"},
				OrgIDs: []string{"org-1"},
			},
			err: nil,
		},
		{
			desc: "explicit partial average method",
			task: task.Task{
				Name:   "my-task",
				Method: task.MethodPartialAverage,
				Params: task.Params{ColumnName: "age"},
			},
			err: nil,
		},
		{
			desc: "unsupported method",
			task: task.Task{
				Method: "partial_median",
				Params: task.Params{ColumnName: "age"},
			},
			err: coordinator.ErrUnsupportedMethod,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			created, err := h.svc.CreateTask(ctx, tc.task)
			assert.Equal(t, tc.err, err)
			if err == nil {
				assert.NotEmpty(t, created.ID)
				assert.NotEmpty(t, created.Name)
				assert.Equal(t, task.MethodPartialAverage, created.Method)
				assert.Equal(t, task.Pending, created.State)

				stored, err := h.svc.GetTask(ctx, created.ID)
				require.NoError(t, err)
				assert.Equal(t, created.ID, stored.ID)
			}
		})
	}
}

func TestGetTaskMissing(t *testing.T) {
	h := newHarness(t, 0)

	_, err := h.svc.GetTask(context.Background(), "no-such-task")
	assert.ErrorIs(t, err, pkgerrors.ErrNotFound)
}

func TestStartTask(t *testing.T) {
	h := newHarness(t, 0)
	ctx := context.Background()

	h.registerOrganization(t, "org-1", "hospital-a")
	h.pubsub.On("Publish", mock.Anything, startTopic, mock.Anything).Return(nil)

	created, err := h.svc.CreateTask(ctx, task.Task{
		Params: task.Params{ColumnName: "age"},
		OrgIDs: []string{"org-1"},
	})
	require.NoError(t, err)

	require.NoError(t, h.svc.StartTask(ctx, created.ID))

	stored, err := h.svc.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Dispatched, stored.State)
	assert.False(t, stored.StartTime.IsZero())

	o, err := h.svc.GetOrganization(ctx, "org-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), o.TaskCount)

	h.pubsub.AssertCalled(t, "Publish", mock.Anything, startTopic, mock.Anything)
}

func TestStartTaskWithoutOrganizations(t *testing.T) {
	h := newHarness(t, 0)
	ctx := context.Background()

	created, err := h.svc.CreateTask(ctx, task.Task{
		Params: task.Params{ColumnName: "age"},
	})
	require.NoError(t, err)

	err = h.svc.StartTask(ctx, created.ID)
	assert.ErrorIs(t, err, coordinator.ErrNoOrganizations)
}

func TestAverage(t *testing.T) {
	h := newHarness(t, time.Minute)
	ctx := context.Background()

	h.registerOrganization(t, "org-1", "hospital-a")
	h.registerOrganization(t, "org-2", "hospital-b")
	h.registerOrganization(t, "org-3", "hospital-c")

	// Once the task is fanned out, answer as every organization.
	h.pubsub.On("Publish", mock.Anything, startTopic, mock.Anything).
		Run(func(args mock.Arguments) {
			dispatched := args.Get(2).(task.Task)
			require.Len(t, dispatched.OrgIDs, 3)
			h.deliverResult(t, dispatched.ID, "org-1", 10, 2)
			h.deliverResult(t, dispatched.ID, "org-2", 20, 3)
			h.deliverResult(t, dispatched.ID, "org-3", 12, 1)
		}).
		Return(nil)

	res, err := h.svc.Average(ctx, coordinator.AverageSpec{ColumnName: "age"})
	require.NoError(t, err)
	assert.InDelta(t, 7.0, res.Average, 1e-9)

	page, err := h.svc.ListTasks(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, page.Tasks, 1)
	assert.Equal(t, task.Completed, page.Tasks[0].State)
	assert.Len(t, page.Tasks[0].Results, 3)
}

func TestAverageExplicitOrganizations(t *testing.T) {
	h := newHarness(t, time.Minute)
	ctx := context.Background()

	h.registerOrganization(t, "org-1", "hospital-a")
	h.registerOrganization(t, "org-2", "hospital-b")
	h.registerOrganization(t, "org-3", "hospital-c")

	h.pubsub.On("Publish", mock.Anything, startTopic, mock.Anything).
		Run(func(args mock.Arguments) {
			dispatched := args.Get(2).(task.Task)
			require.Len(t, dispatched.OrgIDs, 1)
			h.deliverResult(t, dispatched.ID, dispatched.OrgIDs[0], 9, 3)
		}).
		Return(nil)

	res, err := h.svc.Average(ctx, coordinator.AverageSpec{
		ColumnName: "age",
		OrgIDs:     []string{"org-2"},
	})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, res.Average, 1e-9)
}

func TestAverageWithoutOrganizations(t *testing.T) {
	h := newHarness(t, time.Minute)

	_, err := h.svc.Average(context.Background(), coordinator.AverageSpec{ColumnName: "age"})
	assert.ErrorIs(t, err, coordinator.ErrNoOrganizations)
}

func TestAverageZeroCount(t *testing.T) {
	h := newHarness(t, time.Minute)
	ctx := context.Background()

	h.registerOrganization(t, "org-1", "hospital-a")
	h.registerOrganization(t, "org-2", "hospital-b")

	h.pubsub.On("Publish", mock.Anything, startTopic, mock.Anything).
		Run(func(args mock.Arguments) {
			dispatched := args.Get(2).(task.Task)
			h.deliverResult(t, dispatched.ID, "org-1", 0, 0)
			h.deliverResult(t, dispatched.ID, "org-2", 0, 0)
		}).
		Return(nil)

	_, err := h.svc.Average(ctx, coordinator.AverageSpec{ColumnName: "age", DropNA: true})
	assert.ErrorIs(t, err, average.ErrZeroCount)

	page, err := h.svc.ListTasks(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, page.Tasks, 1)
	assert.Equal(t, task.Failed, page.Tasks[0].State)
}

func TestAverageOrganizationFailure(t *testing.T) {
	h := newHarness(t, time.Minute)
	ctx := context.Background()

	h.registerOrganization(t, "org-1", "hospital-a")
	h.registerOrganization(t, "org-2", "hospital-b")

	h.pubsub.On("Publish", mock.Anything, startTopic, mock.Anything).
		Run(func(args mock.Arguments) {
			dispatched := args.Get(2).(task.Task)
			h.deliverResult(t, dispatched.ID, "org-1", 10, 2)
			err := h.handler(resultsTopic, map[string]any{
				"task_id":         dispatched.ID,
				"organization_id": "org-2",
				"error":           "column not found: age",
			})
			require.NoError(t, err)
		}).
		Return(nil)

	_, err := h.svc.Average(ctx, coordinator.AverageSpec{ColumnName: "age"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "org-2")
}

func TestAverageTimeout(t *testing.T) {
	h := newHarness(t, 50*time.Millisecond)
	ctx := context.Background()

	h.registerOrganization(t, "org-1", "hospital-a")
	h.pubsub.On("Publish", mock.Anything, startTopic, mock.Anything).Return(nil)

	_, err := h.svc.Average(ctx, coordinator.AverageSpec{ColumnName: "age"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAverageWaitsForEveryOrganization(t *testing.T) {
	h := newHarness(t, 100*time.Millisecond)
	ctx := context.Background()

	h.registerOrganization(t, "org-1", "hospital-a")
	h.registerOrganization(t, "org-2", "hospital-b")

	// org-1 answers twice and org-2 never; the duplicate must not stand
	// in for the missing organization.
	h.pubsub.On("Publish", mock.Anything, startTopic, mock.Anything).
		Run(func(args mock.Arguments) {
			dispatched := args.Get(2).(task.Task)
			h.deliverResult(t, dispatched.ID, "org-1", 10, 2)
			h.deliverResult(t, dispatched.ID, "org-1", 10, 2)
		}).
		Return(nil)

	_, err := h.svc.Average(ctx, coordinator.AverageSpec{ColumnName: "age"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHandleResultFiltersForeignAndDuplicate(t *testing.T) {
	h := newHarness(t, 0)
	ctx := context.Background()

	h.registerOrganization(t, "org-1", "hospital-a")
	h.pubsub.On("Publish", mock.Anything, startTopic, mock.Anything).Return(nil)

	created, err := h.svc.CreateTask(ctx, task.Task{
		Params: task.Params{ColumnName: "age"},
		OrgIDs: []string{"org-1"},
	})
	require.NoError(t, err)
	require.NoError(t, h.svc.StartTask(ctx, created.ID))

	h.deliverResult(t, created.ID, "org-9", 99, 9)
	h.deliverResult(t, created.ID, "org-1", 40, 2)
	h.deliverResult(t, created.ID, "org-1", 40, 2)

	results, err := h.svc.GetTaskResults(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, average.Partial{Sum: 40, Count: 2}, results[0])

	partials, err := h.svc.WaitForResults(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, partials, 1)
}

func TestWaitForResultsBufferedArrivals(t *testing.T) {
	h := newHarness(t, 0)
	ctx := context.Background()

	h.registerOrganization(t, "org-1", "hospital-a")
	h.pubsub.On("Publish", mock.Anything, startTopic, mock.Anything).Return(nil)

	created, err := h.svc.CreateTask(ctx, task.Task{
		Params: task.Params{ColumnName: "age"},
		OrgIDs: []string{"org-1"},
	})
	require.NoError(t, err)
	require.NoError(t, h.svc.StartTask(ctx, created.ID))

	// The result lands before anyone waits for it.
	h.deliverResult(t, created.ID, "org-1", 40, 2)

	partials, err := h.svc.WaitForResults(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, partials, 1)
	assert.Equal(t, average.Partial{Sum: 40, Count: 2}, partials[0])
}

func TestOrganizationLiveness(t *testing.T) {
	h := newHarness(t, 0)
	ctx := context.Background()

	h.registerOrganization(t, "org-1", "hospital-a")

	require.NoError(t, h.handler(aliveTopic, map[string]any{
		"organization_id": "org-1",
		"status":          "alive",
	}))

	o, err := h.svc.GetOrganization(ctx, "org-1")
	require.NoError(t, err)
	assert.True(t, o.Alive)
	assert.NotEmpty(t, o.AliveHistory)

	require.NoError(t, h.handler(aliveTopic, map[string]any{
		"organization_id": "org-1",
		"status":          "offline",
	}))

	o, err = h.svc.GetOrganization(ctx, "org-1")
	require.NoError(t, err)
	assert.False(t, o.Alive)
}

func TestDeleteOrganization(t *testing.T) {
	h := newHarness(t, 0)
	ctx := context.Background()

	h.registerOrganization(t, "org-1", "hospital-a")
	require.NoError(t, h.svc.DeleteOrganization(ctx, "org-1"))

	_, err := h.svc.GetOrganization(ctx, "org-1")
	assert.ErrorIs(t, err, pkgerrors.ErrNotFound)
}
