// Package node runs at one organization and computes partials over
// that organization's local data. Raw rows never leave the node; only
// the {sum, count} partial is published back.
package node

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/rodneyosodo/fedmean/average"
	pkgmqtt "github.com/rodneyosodo/fedmean/pkg/mqtt"
	"github.com/rodneyosodo/fedmean/task"
)

var (
	discoveryTopicTemplate = "channels/%s/messages/control/organization/create"
	aliveTopicTemplate     = "channels/%s/messages/control/organization/alive"
	startTopicTemplate     = "channels/%s/messages/control/coordinator/start"
	resultsTopicTemplate   = "channels/%s/messages/control/organization/results"
)

var errMissingColumnName = errors.New("column_name is required")

type Service struct {
	channelID        string
	orgID            string
	orgName          string
	livenessInterval time.Duration
	pubsub           pkgmqtt.PubSub
	source           DataSource
	logger           *slog.Logger
}

func NewService(ctx context.Context, channelID, orgID, orgName string, livenessInterval time.Duration, pubsub pkgmqtt.PubSub, source DataSource, logger *slog.Logger) (*Service, error) {
	topic := fmt.Sprintf(discoveryTopicTemplate, channelID)
	payload := map[string]any{
		"organization_id": orgID,
		"name":            orgName,
	}
	if err := pubsub.Publish(ctx, topic, payload); err != nil {
		return nil, errors.Join(errors.New("failed to publish discovery"), err)
	}

	s := &Service{
		channelID:        channelID,
		orgID:            orgID,
		orgName:          orgName,
		livenessInterval: livenessInterval,
		pubsub:           pubsub,
		source:           source,
		logger:           logger,
	}

	go s.startLivenessUpdates(ctx)

	return s, nil
}

func (s *Service) startLivenessUpdates(ctx context.Context) {
	ticker := time.NewTicker(s.livenessInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("stopping liveness updates")

			return
		case <-ticker.C:
			topic := fmt.Sprintf(aliveTopicTemplate, s.channelID)
			payload := map[string]any{
				"status":          "alive",
				"organization_id": s.orgID,
			}

			if err := s.pubsub.Publish(ctx, topic, payload); err != nil {
				s.logger.Error("failed to publish liveness message", slog.Any("error", err))
			}

			s.logger.Debug("Published liveness message", slog.String("topic", topic))
		}
	}
}

func (s *Service) Run(ctx context.Context) error {
	topic := fmt.Sprintf(startTopicTemplate, s.channelID)
	if err := s.pubsub.Subscribe(ctx, topic, s.HandleStart(ctx)); err != nil {
		return fmt.Errorf("failed to subscribe to start topic: %w", err)
	}

	s.logger.Info("Node service is running",
		slog.String("organization_id", s.orgID),
	)
	<-ctx.Done()

	return nil
}

// HandleStart reacts to a task fanned out on the collaboration
// channel. Tasks not addressed to this organization are ignored;
// addressed ones are computed and answered on the results topic.
func (s *Service) HandleStart(ctx context.Context) pkgmqtt.Handler {
	return func(topic string, msg map[string]any) error {
		data, err := json.Marshal(msg)
		if err != nil {
			return err
		}

		var t task.Task
		if err := json.Unmarshal(data, &t); err != nil {
			return err
		}

		if !s.targeted(t) {
			s.logger.Debug("Ignoring task for other organizations",
				slog.String("task_id", t.ID),
			)

			return nil
		}

		partial, err := s.compute(ctx, t)
		if err != nil {
			s.logger.Error("Partial computation failed",
				slog.String("task_id", t.ID),
				slog.Any("error", err),
			)

			return s.publishError(ctx, t.ID, err)
		}

		return s.publishResult(ctx, t.ID, partial)
	}
}

func (s *Service) targeted(t task.Task) bool {
	for _, id := range t.OrgIDs {
		if id == s.orgID {
			return true
		}
	}

	return false
}

func (s *Service) compute(ctx context.Context, t task.Task) (average.Partial, error) {
	if t.Method != task.MethodPartialAverage {
		return average.Partial{}, fmt.Errorf("unknown method %q", t.Method)
	}
	if t.Params.ColumnName == "" {
		return average.Partial{}, errMissingColumnName
	}

	s.logger.Info("Loading local dataset", slog.String("task_id", t.ID))
	ds, err := s.source.Load(ctx)
	if err != nil {
		return average.Partial{}, err
	}

	s.logger.Info("Extracting column",
		slog.String("task_id", t.ID),
		slog.String("column", t.Params.ColumnName),
	)
	if t.Params.DropNA {
		s.logger.Info("Dropping missing values", slog.String("task_id", t.ID))
	}

	s.logger.Info("Computing partials", slog.String("task_id", t.ID))

	return average.Compute(ds, t.Params.ColumnName, t.Params.DropNA)
}

func (s *Service) publishResult(ctx context.Context, taskID string, p average.Partial) error {
	topic := fmt.Sprintf(resultsTopicTemplate, s.channelID)

	// JSON has no NaN literal; see the wire convention in package average.
	sum := any(p.Sum)
	if math.IsNaN(p.Sum) {
		sum = "NaN"
	}
	payload := map[string]any{
		"task_id":         taskID,
		"organization_id": s.orgID,
		"sum":             sum,
		"count":           p.Count,
	}

	return s.pubsub.Publish(ctx, topic, payload)
}

func (s *Service) publishError(ctx context.Context, taskID string, cause error) error {
	topic := fmt.Sprintf(resultsTopicTemplate, s.channelID)
	payload := map[string]any{
		"task_id":         taskID,
		"organization_id": s.orgID,
		"error":           cause.Error(),
	}

	return s.pubsub.Publish(ctx, topic, payload)
}
