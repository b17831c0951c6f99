package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/rodneyosodo/fedmean/average"
	"github.com/rodneyosodo/fedmean/coordinator"
	"github.com/rodneyosodo/fedmean/organization"
	"github.com/rodneyosodo/fedmean/task"
)

var _ coordinator.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger *slog.Logger
	svc    coordinator.Service
}

func Logging(logger *slog.Logger, svc coordinator.Service) coordinator.Service {
	return &loggingMiddleware{
		logger: logger,
		svc:    svc,
	}
}

func (lm *loggingMiddleware) GetOrganization(ctx context.Context, orgID string) (resp organization.Organization, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("organization",
				slog.String("id", orgID),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get organization failed", args...)

			return
		}
		lm.logger.Info("Get organization completed successfully", args...)
	}(time.Now())

	return lm.svc.GetOrganization(ctx, orgID)
}

func (lm *loggingMiddleware) ListOrganizations(ctx context.Context, offset, limit uint64) (resp organization.OrganizationPage, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Uint64("offset", offset),
			slog.Uint64("limit", limit),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("List organizations failed", args...)

			return
		}
		lm.logger.Info("List organizations completed successfully", args...)
	}(time.Now())

	return lm.svc.ListOrganizations(ctx, offset, limit)
}

func (lm *loggingMiddleware) DeleteOrganization(ctx context.Context, orgID string) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("organization",
				slog.String("id", orgID),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Delete organization failed", args...)

			return
		}
		lm.logger.Info("Delete organization completed successfully", args...)
	}(time.Now())

	return lm.svc.DeleteOrganization(ctx, orgID)
}

func (lm *loggingMiddleware) CreateTask(ctx context.Context, t task.Task) (resp task.Task, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("task",
				slog.String("name", t.Name),
				slog.String("column", t.Params.ColumnName),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Create task failed", args...)

			return
		}
		lm.logger.Info("Create task completed successfully", args...)
	}(time.Now())

	return lm.svc.CreateTask(ctx, t)
}

func (lm *loggingMiddleware) GetTask(ctx context.Context, taskID string) (resp task.Task, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("task",
				slog.String("id", taskID),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get task failed", args...)

			return
		}
		lm.logger.Info("Get task completed successfully", args...)
	}(time.Now())

	return lm.svc.GetTask(ctx, taskID)
}

func (lm *loggingMiddleware) ListTasks(ctx context.Context, offset, limit uint64) (resp task.TaskPage, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Uint64("offset", offset),
			slog.Uint64("limit", limit),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("List tasks failed", args...)

			return
		}
		lm.logger.Info("List tasks completed successfully", args...)
	}(time.Now())

	return lm.svc.ListTasks(ctx, offset, limit)
}

func (lm *loggingMiddleware) UpdateTask(ctx context.Context, t task.Task) (resp task.Task, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("task",
				slog.String("id", t.ID),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Update task failed", args...)

			return
		}
		lm.logger.Info("Update task completed successfully", args...)
	}(time.Now())

	return lm.svc.UpdateTask(ctx, t)
}

func (lm *loggingMiddleware) DeleteTask(ctx context.Context, taskID string) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("task",
				slog.String("id", taskID),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Delete task failed", args...)

			return
		}
		lm.logger.Info("Delete task completed successfully", args...)
	}(time.Now())

	return lm.svc.DeleteTask(ctx, taskID)
}

func (lm *loggingMiddleware) StartTask(ctx context.Context, taskID string) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("task",
				slog.String("id", taskID),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Start task failed", args...)

			return
		}
		lm.logger.Info("Start task completed successfully", args...)
	}(time.Now())

	return lm.svc.StartTask(ctx, taskID)
}

func (lm *loggingMiddleware) WaitForResults(ctx context.Context, taskID string) (resp []average.Partial, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("task",
				slog.String("id", taskID),
			),
			slog.Int("partials", len(resp)),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Wait for results failed", args...)

			return
		}
		lm.logger.Info("Wait for results completed successfully", args...)
	}(time.Now())

	return lm.svc.WaitForResults(ctx, taskID)
}

func (lm *loggingMiddleware) GetTaskResults(ctx context.Context, taskID string) (resp []average.Partial, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("task",
				slog.String("id", taskID),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get task results failed", args...)

			return
		}
		lm.logger.Info("Get task results completed successfully", args...)
	}(time.Now())

	return lm.svc.GetTaskResults(ctx, taskID)
}

func (lm *loggingMiddleware) Average(ctx context.Context, spec coordinator.AverageSpec) (resp average.Result, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("column", spec.ColumnName),
			slog.Int("organizations", len(spec.OrgIDs)),
			slog.Bool("drop_na", spec.DropNA),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Average failed", args...)

			return
		}
		lm.logger.Info("Average completed successfully", args...)
	}(time.Now())

	return lm.svc.Average(ctx, spec)
}

func (lm *loggingMiddleware) Subscribe(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Subscribe failed", args...)

			return
		}
		lm.logger.Info("Subscribe completed successfully", args...)
	}(time.Now())

	return lm.svc.Subscribe(ctx)
}
