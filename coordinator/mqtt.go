package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/rodneyosodo/fedmean/average"
	"github.com/rodneyosodo/fedmean/organization"
	"github.com/rodneyosodo/fedmean/task"
)

const aliveHistoryLimit = 10

func (svc *service) Subscribe(ctx context.Context) error {
	baseTopic := "channels/" + svc.channelID + "/messages"
	topic := baseTopic + "/#"

	return svc.publisher.Subscribe(ctx, topic, svc.handle(ctx, baseTopic))
}

func (svc *service) handle(ctx context.Context, baseTopic string) func(topic string, msg map[string]any) error {
	return func(topic string, msg map[string]any) error {
		switch topic {
		case baseTopic + "/control/organization/create":
			if err := svc.createOrganization(ctx, msg); err != nil {
				return err
			}

			svc.logger.InfoContext(ctx, "successfully registered organization")
		case baseTopic + "/control/organization/alive":
			return svc.updateLiveness(ctx, msg)
		case baseTopic + "/control/organization/results":
			return svc.handleResult(ctx, msg)
		}

		return nil
	}
}

func (svc *service) createOrganization(ctx context.Context, msg map[string]any) error {
	orgID, ok := msg["organization_id"].(string)
	if !ok {
		return errors.New("invalid organization_id")
	}
	if orgID == "" {
		return errors.New("organization id is empty")
	}
	name, ok := msg["name"].(string)
	if !ok {
		name = ""
	}

	o := organization.Organization{
		ID:   orgID,
		Name: name,
	}

	return svc.orgsDB.Create(ctx, o.ID, o)
}

func (svc *service) updateLiveness(ctx context.Context, msg map[string]any) error {
	orgID, ok := msg["organization_id"].(string)
	if !ok {
		return errors.New("invalid organization_id")
	}
	if orgID == "" {
		return errors.New("organization id is empty")
	}

	o, err := svc.GetOrganization(ctx, orgID)
	if err != nil {
		return err
	}

	if status, ok := msg["status"].(string); ok && status == "offline" {
		o.Alive = false
		// Liveness is derived from the history, so a stale entry would
		// resurrect the organization on the next read.
		o.AliveHistory = nil

		return svc.orgsDB.Update(ctx, orgID, o)
	}

	o.Alive = true
	o.AliveHistory = append(o.AliveHistory, time.Now())
	if len(o.AliveHistory) > aliveHistoryLimit {
		o.AliveHistory = o.AliveHistory[1:]
	}

	return svc.orgsDB.Update(ctx, orgID, o)
}

func (svc *service) handleResult(ctx context.Context, msg map[string]any) error {
	taskID, ok := msg["task_id"].(string)
	if !ok || taskID == "" {
		return errors.New("invalid task_id")
	}
	orgID, ok := msg["organization_id"].(string)
	if !ok || orgID == "" {
		return errors.New("invalid organization_id")
	}

	t, err := svc.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	if !slices.Contains(t.OrgIDs, orgID) {
		svc.logger.WarnContext(ctx, "Dropping result from organization outside the task",
			slog.String("task_id", taskID),
			slog.String("organization_id", orgID),
		)

		return nil
	}

	if cause, ok := msg["error"].(string); ok && cause != "" {
		svc.logger.WarnContext(ctx, "Organization reported failure",
			slog.String("task_id", taskID),
			slog.String("organization_id", orgID),
			slog.String("error", cause),
		)
		// failTask prunes the join state, so the channel is fetched
		// first to reach a waiter already blocked on it.
		ch := svc.arrivalChan(taskID)
		svc.failTask(ctx, taskID, fmt.Errorf("organization %s failed: %s", orgID, cause))
		ch <- arrival{orgID: orgID, err: errors.New(cause)}

		return nil
	}

	var sum float64
	switch v := msg["sum"].(type) {
	case float64:
		sum = v
	case string:
		if v != "NaN" {
			return errors.New("invalid sum")
		}
		sum = math.NaN()
	default:
		return errors.New("invalid sum")
	}
	count, ok := msg["count"].(float64)
	if !ok {
		return errors.New("invalid count")
	}
	p := average.Partial{Sum: sum, Count: int64(count)}

	if !svc.markReported(taskID, orgID) {
		svc.logger.WarnContext(ctx, "Dropping duplicate result",
			slog.String("task_id", taskID),
			slog.String("organization_id", orgID),
		)

		return nil
	}

	t.Results = append(t.Results, p)
	if t.State == task.Dispatched {
		t.State = task.Running
	}
	if _, err := svc.UpdateTask(ctx, t); err != nil {
		return err
	}

	svc.logger.InfoContext(ctx, "Partial result received",
		slog.String("task_id", taskID),
		slog.String("organization_id", orgID),
		slog.Int("received", len(t.Results)),
		slog.Int("expected", len(t.OrgIDs)),
	)

	svc.arrivalChan(taskID) <- arrival{orgID: orgID, partial: p}

	return nil
}
