package middleware

import (
	"context"
	"time"

	"github.com/go-kit/kit/metrics"

	"github.com/rodneyosodo/fedmean/average"
	"github.com/rodneyosodo/fedmean/coordinator"
	"github.com/rodneyosodo/fedmean/organization"
	"github.com/rodneyosodo/fedmean/task"
)

var _ coordinator.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     coordinator.Service
}

func Metrics(counter metrics.Counter, latency metrics.Histogram, svc coordinator.Service) coordinator.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (mm *metricsMiddleware) GetOrganization(ctx context.Context, orgID string) (organization.Organization, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "get-organization").Add(1)
		mm.latency.With("method", "get-organization").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.GetOrganization(ctx, orgID)
}

func (mm *metricsMiddleware) ListOrganizations(ctx context.Context, offset, limit uint64) (organization.OrganizationPage, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "list-organizations").Add(1)
		mm.latency.With("method", "list-organizations").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.ListOrganizations(ctx, offset, limit)
}

func (mm *metricsMiddleware) DeleteOrganization(ctx context.Context, orgID string) error {
	defer func(begin time.Time) {
		mm.counter.With("method", "delete-organization").Add(1)
		mm.latency.With("method", "delete-organization").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.DeleteOrganization(ctx, orgID)
}

func (mm *metricsMiddleware) CreateTask(ctx context.Context, t task.Task) (task.Task, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "create-task").Add(1)
		mm.latency.With("method", "create-task").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.CreateTask(ctx, t)
}

func (mm *metricsMiddleware) GetTask(ctx context.Context, taskID string) (task.Task, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "get-task").Add(1)
		mm.latency.With("method", "get-task").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.GetTask(ctx, taskID)
}

func (mm *metricsMiddleware) ListTasks(ctx context.Context, offset, limit uint64) (task.TaskPage, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "list-tasks").Add(1)
		mm.latency.With("method", "list-tasks").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.ListTasks(ctx, offset, limit)
}

func (mm *metricsMiddleware) UpdateTask(ctx context.Context, t task.Task) (task.Task, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "update-task").Add(1)
		mm.latency.With("method", "update-task").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.UpdateTask(ctx, t)
}

func (mm *metricsMiddleware) DeleteTask(ctx context.Context, taskID string) error {
	defer func(begin time.Time) {
		mm.counter.With("method", "delete-task").Add(1)
		mm.latency.With("method", "delete-task").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.DeleteTask(ctx, taskID)
}

func (mm *metricsMiddleware) StartTask(ctx context.Context, taskID string) error {
	defer func(begin time.Time) {
		mm.counter.With("method", "start-task").Add(1)
		mm.latency.With("method", "start-task").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.StartTask(ctx, taskID)
}

func (mm *metricsMiddleware) WaitForResults(ctx context.Context, taskID string) ([]average.Partial, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "wait-for-results").Add(1)
		mm.latency.With("method", "wait-for-results").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.WaitForResults(ctx, taskID)
}

func (mm *metricsMiddleware) GetTaskResults(ctx context.Context, taskID string) ([]average.Partial, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "get-task-results").Add(1)
		mm.latency.With("method", "get-task-results").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.GetTaskResults(ctx, taskID)
}

func (mm *metricsMiddleware) Average(ctx context.Context, spec coordinator.AverageSpec) (average.Result, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "average").Add(1)
		mm.latency.With("method", "average").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.Average(ctx, spec)
}

func (mm *metricsMiddleware) Subscribe(ctx context.Context) error {
	defer func(begin time.Time) {
		mm.counter.With("method", "subscribe").Add(1)
		mm.latency.With("method", "subscribe").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.Subscribe(ctx)
}
