package middleware

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/rodneyosodo/fedmean/average"
	"github.com/rodneyosodo/fedmean/coordinator"
	"github.com/rodneyosodo/fedmean/organization"
	"github.com/rodneyosodo/fedmean/task"
)

var _ coordinator.Service = (*tracing)(nil)

type tracing struct {
	tracer trace.Tracer
	svc    coordinator.Service
}

func Tracing(tracer trace.Tracer, svc coordinator.Service) coordinator.Service {
	return &tracing{tracer, svc}
}

func (tm *tracing) GetOrganization(ctx context.Context, orgID string) (organization.Organization, error) {
	ctx, span := tm.tracer.Start(ctx, "get-organization", trace.WithAttributes(
		attribute.String("id", orgID),
	))
	defer span.End()

	return tm.svc.GetOrganization(ctx, orgID)
}

func (tm *tracing) ListOrganizations(ctx context.Context, offset, limit uint64) (organization.OrganizationPage, error) {
	ctx, span := tm.tracer.Start(ctx, "list-organizations", trace.WithAttributes(
		attribute.Int64("offset", int64(offset)),
		attribute.Int64("limit", int64(limit)),
	))
	defer span.End()

	return tm.svc.ListOrganizations(ctx, offset, limit)
}

func (tm *tracing) DeleteOrganization(ctx context.Context, orgID string) error {
	ctx, span := tm.tracer.Start(ctx, "delete-organization", trace.WithAttributes(
		attribute.String("id", orgID),
	))
	defer span.End()

	return tm.svc.DeleteOrganization(ctx, orgID)
}

func (tm *tracing) CreateTask(ctx context.Context, t task.Task) (task.Task, error) {
	ctx, span := tm.tracer.Start(ctx, "create-task", trace.WithAttributes(
		attribute.String("name", t.Name),
		attribute.String("column", t.Params.ColumnName),
	))
	defer span.End()

	return tm.svc.CreateTask(ctx, t)
}

func (tm *tracing) GetTask(ctx context.Context, taskID string) (task.Task, error) {
	ctx, span := tm.tracer.Start(ctx, "get-task", trace.WithAttributes(
		attribute.String("id", taskID),
	))
	defer span.End()

	return tm.svc.GetTask(ctx, taskID)
}

func (tm *tracing) ListTasks(ctx context.Context, offset, limit uint64) (task.TaskPage, error) {
	ctx, span := tm.tracer.Start(ctx, "list-tasks", trace.WithAttributes(
		attribute.Int64("offset", int64(offset)),
		attribute.Int64("limit", int64(limit)),
	))
	defer span.End()

	return tm.svc.ListTasks(ctx, offset, limit)
}

func (tm *tracing) UpdateTask(ctx context.Context, t task.Task) (task.Task, error) {
	ctx, span := tm.tracer.Start(ctx, "update-task", trace.WithAttributes(
		attribute.String("id", t.ID),
	))
	defer span.End()

	return tm.svc.UpdateTask(ctx, t)
}

func (tm *tracing) DeleteTask(ctx context.Context, taskID string) error {
	ctx, span := tm.tracer.Start(ctx, "delete-task", trace.WithAttributes(
		attribute.String("id", taskID),
	))
	defer span.End()

	return tm.svc.DeleteTask(ctx, taskID)
}

func (tm *tracing) StartTask(ctx context.Context, taskID string) error {
	ctx, span := tm.tracer.Start(ctx, "start-task", trace.WithAttributes(
		attribute.String("id", taskID),
	))
	defer span.End()

	return tm.svc.StartTask(ctx, taskID)
}

func (tm *tracing) WaitForResults(ctx context.Context, taskID string) ([]average.Partial, error) {
	ctx, span := tm.tracer.Start(ctx, "wait-for-results", trace.WithAttributes(
		attribute.String("id", taskID),
	))
	defer span.End()

	return tm.svc.WaitForResults(ctx, taskID)
}

func (tm *tracing) GetTaskResults(ctx context.Context, taskID string) ([]average.Partial, error) {
	ctx, span := tm.tracer.Start(ctx, "get-task-results", trace.WithAttributes(
		attribute.String("id", taskID),
	))
	defer span.End()

	return tm.svc.GetTaskResults(ctx, taskID)
}

func (tm *tracing) Average(ctx context.Context, spec coordinator.AverageSpec) (average.Result, error) {
	ctx, span := tm.tracer.Start(ctx, "average", trace.WithAttributes(
		attribute.String("column", spec.ColumnName),
		attribute.Int("organizations", len(spec.OrgIDs)),
		attribute.Bool("drop_na", spec.DropNA),
	))
	defer span.End()

	return tm.svc.Average(ctx, spec)
}

func (tm *tracing) Subscribe(ctx context.Context) error {
	ctx, span := tm.tracer.Start(ctx, "subscribe")
	defer span.End()

	return tm.svc.Subscribe(ctx)
}
