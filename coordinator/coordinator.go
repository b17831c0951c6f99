package coordinator

import (
	"context"

	"github.com/rodneyosodo/fedmean/average"
	"github.com/rodneyosodo/fedmean/organization"
	"github.com/rodneyosodo/fedmean/task"
)

// AverageSpec is the invocation surface of the federated average. An
// empty OrgIDs targets every organization currently registered in the
// collaboration; a non-empty list is used verbatim.
type AverageSpec struct {
	ColumnName string   `json:"column_name"`
	OrgIDs     []string `json:"org_ids,omitempty"`
	DropNA     bool     `json:"drop_na"`
}

type Service interface {
	GetOrganization(ctx context.Context, orgID string) (organization.Organization, error)
	ListOrganizations(ctx context.Context, offset, limit uint64) (organization.OrganizationPage, error)
	DeleteOrganization(ctx context.Context, orgID string) error

	CreateTask(ctx context.Context, t task.Task) (task.Task, error)
	GetTask(ctx context.Context, taskID string) (task.Task, error)
	ListTasks(ctx context.Context, offset, limit uint64) (task.TaskPage, error)
	UpdateTask(ctx context.Context, t task.Task) (task.Task, error)
	DeleteTask(ctx context.Context, taskID string) error

	// StartTask fans the task out to all targeted organizations with a
	// single publish on the collaboration channel.
	StartTask(ctx context.Context, taskID string) error

	// WaitForResults blocks until every targeted organization has
	// reported its partial, a node reports a failure, or the context
	// is done.
	WaitForResults(ctx context.Context, taskID string) ([]average.Partial, error)

	GetTaskResults(ctx context.Context, taskID string) ([]average.Partial, error)

	// Average runs the whole pipeline: resolve participants, dispatch
	// one task, await all partials, reduce to the global average.
	Average(ctx context.Context, spec AverageSpec) (average.Result, error)

	// Subscribe attaches the coordinator to the collaboration channel
	// for organization discovery, liveness and result delivery.
	Subscribe(ctx context.Context) error
}
