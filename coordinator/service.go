package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/0x6flab/namegenerator"
	"github.com/google/uuid"

	"github.com/rodneyosodo/fedmean/average"
	"github.com/rodneyosodo/fedmean/organization"
	pkgerrors "github.com/rodneyosodo/fedmean/pkg/errors"
	"github.com/rodneyosodo/fedmean/pkg/mqtt"
	"github.com/rodneyosodo/fedmean/pkg/storage"
	"github.com/rodneyosodo/fedmean/task"
)

const (
	defOffset = 0
	defLimit  = 100

	// arrivalBuffer keeps the MQTT handler from ever blocking on a
	// slow or absent waiter.
	arrivalBuffer = 1024
)

var (
	ErrNoOrganizations   = errors.New("no organizations in the collaboration")
	ErrUnsupportedMethod = errors.New("unsupported task method")
)

var namegen = namegenerator.NewGenerator()

type arrival struct {
	orgID   string
	partial average.Partial
	err     error
}

type service struct {
	tasksDB     storage.Storage
	orgsDB      storage.Storage
	publisher   mqtt.PubSub
	channelID   string
	waitTimeout time.Duration
	logger      *slog.Logger

	mu       sync.Mutex
	arrivals map[string]chan arrival
	reported map[string]map[string]struct{}
}

func NewService(tasksDB, orgsDB storage.Storage, publisher mqtt.PubSub, channelID string, waitTimeout time.Duration, logger *slog.Logger) Service {
	return &service{
		tasksDB:     tasksDB,
		orgsDB:      orgsDB,
		publisher:   publisher,
		channelID:   channelID,
		waitTimeout: waitTimeout,
		logger:      logger,
		arrivals:    make(map[string]chan arrival),
		reported:    make(map[string]map[string]struct{}),
	}
}

func (svc *service) GetOrganization(ctx context.Context, orgID string) (organization.Organization, error) {
	data, err := svc.orgsDB.Get(ctx, orgID)
	if err != nil {
		return organization.Organization{}, err
	}
	o, ok := data.(organization.Organization)
	if !ok {
		return organization.Organization{}, pkgerrors.ErrInvalidData
	}
	o.SetAlive()

	return o, nil
}

func (svc *service) ListOrganizations(ctx context.Context, offset, limit uint64) (organization.OrganizationPage, error) {
	data, total, err := svc.orgsDB.List(ctx, offset, limit)
	if err != nil {
		return organization.OrganizationPage{}, err
	}
	orgs := make([]organization.Organization, len(data))
	for i := range data {
		o, ok := data[i].(organization.Organization)
		if !ok {
			return organization.OrganizationPage{}, pkgerrors.ErrInvalidData
		}
		o.SetAlive()
		orgs[i] = o
	}

	return organization.OrganizationPage{
		Offset:        offset,
		Limit:         limit,
		Total:         total,
		Organizations: orgs,
	}, nil
}

func (svc *service) DeleteOrganization(ctx context.Context, orgID string) error {
	return svc.orgsDB.Delete(ctx, orgID)
}

func (svc *service) CreateTask(ctx context.Context, t task.Task) (task.Task, error) {
	if t.Method == "" {
		t.Method = task.MethodPartialAverage
	}
	if t.Method != task.MethodPartialAverage {
		return task.Task{}, ErrUnsupportedMethod
	}
	if t.Name == "" {
		t.Name = namegen.Generate()
	}
	t.ID = uuid.NewString()
	t.State = task.Pending
	t.CreatedAt = time.Now()

	if err := svc.tasksDB.Create(ctx, t.ID, t); err != nil {
		return task.Task{}, err
	}

	return t, nil
}

func (svc *service) GetTask(ctx context.Context, taskID string) (task.Task, error) {
	data, err := svc.tasksDB.Get(ctx, taskID)
	if err != nil {
		return task.Task{}, err
	}
	t, ok := data.(task.Task)
	if !ok {
		return task.Task{}, pkgerrors.ErrInvalidData
	}

	return t, nil
}

func (svc *service) ListTasks(ctx context.Context, offset, limit uint64) (task.TaskPage, error) {
	data, total, err := svc.tasksDB.List(ctx, offset, limit)
	if err != nil {
		return task.TaskPage{}, err
	}

	tasks := make([]task.Task, len(data))
	for i := range data {
		t, ok := data[i].(task.Task)
		if !ok {
			return task.TaskPage{}, pkgerrors.ErrInvalidData
		}

		tasks[i] = t
	}

	return task.TaskPage{
		Offset: offset,
		Limit:  limit,
		Total:  total,
		Tasks:  tasks,
	}, nil
}

func (svc *service) UpdateTask(ctx context.Context, t task.Task) (task.Task, error) {
	t.UpdatedAt = time.Now()
	if err := svc.tasksDB.Update(ctx, t.ID, t); err != nil {
		return task.Task{}, err
	}

	return t, nil
}

func (svc *service) DeleteTask(ctx context.Context, taskID string) error {
	svc.dropJoinState(taskID)

	return svc.tasksDB.Delete(ctx, taskID)
}

func (svc *service) StartTask(ctx context.Context, taskID string) error {
	t, err := svc.GetTask(ctx, taskID)
	if err != nil {
		return err
	}

	if len(t.OrgIDs) == 0 {
		return ErrNoOrganizations
	}

	topic := "channels/" + svc.channelID + "/messages/control/coordinator/start"
	if err := svc.publisher.Publish(ctx, topic, t); err != nil {
		return err
	}

	// A fast node can answer before the state write lands; re-read so
	// its stored result (or failure) is not overwritten.
	if t, err = svc.GetTask(ctx, t.ID); err != nil {
		return err
	}
	if t.State == task.Failed {
		return fmt.Errorf("task %s already failed: %s", taskID, t.Error)
	}
	t.State = task.Dispatched
	t.StartTime = time.Now()
	if _, err := svc.UpdateTask(ctx, t); err != nil {
		return err
	}

	for _, orgID := range t.OrgIDs {
		o, err := svc.GetOrganization(ctx, orgID)
		if err != nil {
			continue
		}
		o.TaskCount++
		if err := svc.orgsDB.Update(ctx, orgID, o); err != nil {
			return err
		}
	}

	return nil
}

func (svc *service) WaitForResults(ctx context.Context, taskID string) ([]average.Partial, error) {
	t, err := svc.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t.State == task.Failed {
		return nil, fmt.Errorf("task %s already failed: %s", taskID, t.Error)
	}

	expected := len(t.OrgIDs)
	if len(t.Results) >= expected {
		return t.Results[:expected], nil
	}

	// Arrivals are consumed from the channel alone: it buffers results
	// delivered before the wait started, so storage is not re-read.
	// handleResult admits one result per targeted organization, so
	// counting arrivals counts distinct organizations.
	partials := make([]average.Partial, 0, expected)
	ch := svc.arrivalChan(taskID)
	for len(partials) < expected {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for results of task %s: %w", taskID, ctx.Err())
		case a := <-ch:
			if a.err != nil {
				return nil, fmt.Errorf("organization %s failed: %w", a.orgID, a.err)
			}
			partials = append(partials, a.partial)
		}
	}

	return partials, nil
}

func (svc *service) GetTaskResults(ctx context.Context, taskID string) ([]average.Partial, error) {
	t, err := svc.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	return t.Results, nil
}

func (svc *service) Average(ctx context.Context, spec AverageSpec) (average.Result, error) {
	if svc.waitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, svc.waitTimeout)
		defer cancel()
	}

	orgIDs := spec.OrgIDs
	if len(orgIDs) == 0 {
		svc.logger.Info("Collecting participating organizations")
		page, err := svc.ListOrganizations(ctx, defOffset, defLimit)
		if err != nil {
			return average.Result{}, err
		}
		for _, o := range page.Organizations {
			orgIDs = append(orgIDs, o.ID)
		}
	}
	if len(orgIDs) == 0 {
		return average.Result{}, ErrNoOrganizations
	}

	t, err := svc.CreateTask(ctx, task.Task{
		Method: task.MethodPartialAverage,
		Params: task.Params{
			ColumnName: spec.ColumnName,
			DropNA:     spec.DropNA,
		},
		OrgIDs: orgIDs,
	})
	if err != nil {
		return average.Result{}, err
	}

	svc.logger.Info("Requesting partial computation",
		slog.String("task_id", t.ID),
		slog.String("column", spec.ColumnName),
		slog.Int("organizations", len(orgIDs)),
	)
	if err := svc.StartTask(ctx, t.ID); err != nil {
		return average.Result{}, err
	}

	svc.logger.Info("Waiting for results", slog.String("task_id", t.ID))
	partials, err := svc.WaitForResults(ctx, t.ID)
	if err != nil {
		svc.failTask(ctx, t.ID, err)

		return average.Result{}, err
	}
	svc.logger.Info("Partial results are in", slog.String("task_id", t.ID))

	svc.logger.Info("Computing global average", slog.String("task_id", t.ID))
	res, err := average.Reduce(partials)
	if err != nil {
		svc.failTask(ctx, t.ID, err)

		return average.Result{}, err
	}

	if t, err := svc.GetTask(ctx, t.ID); err == nil {
		t.State = task.Completed
		t.FinishTime = time.Now()
		_, _ = svc.UpdateTask(ctx, t)
	}
	svc.dropJoinState(t.ID)

	return res, nil
}

func (svc *service) failTask(ctx context.Context, taskID string, cause error) {
	t, err := svc.GetTask(ctx, taskID)
	if err != nil {
		return
	}
	t.State = task.Failed
	t.Error = cause.Error()
	t.FinishTime = time.Now()
	_, _ = svc.UpdateTask(ctx, t)
	svc.dropJoinState(taskID)
}

func (svc *service) arrivalChan(taskID string) chan arrival {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	ch, ok := svc.arrivals[taskID]
	if !ok {
		ch = make(chan arrival, arrivalBuffer)
		svc.arrivals[taskID] = ch
	}

	return ch
}

// markReported records that an organization has delivered its partial
// for a task. It returns false when the organization already reported.
func (svc *service) markReported(taskID, orgID string) bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	orgs, ok := svc.reported[taskID]
	if !ok {
		orgs = make(map[string]struct{})
		svc.reported[taskID] = orgs
	}
	if _, ok := orgs[orgID]; ok {
		return false
	}
	orgs[orgID] = struct{}{}

	return true
}

// dropJoinState releases the arrival channel and reported set once a
// task is terminal, so a long-running coordinator does not accumulate
// join state for finished tasks.
func (svc *service) dropJoinState(taskID string) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	delete(svc.arrivals, taskID)
	delete(svc.reported, taskID)
}
