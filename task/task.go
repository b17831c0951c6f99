package task

import (
	"time"

	"github.com/rodneyosodo/fedmean/average"
)

type State uint8

const (
	Pending State = iota
	Dispatched
	Running
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Dispatched:
		return "Dispatched"
	case Running:
		return "Running"
	case Completed:
		return "Completed"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// MethodPartialAverage is the only operation nodes currently implement.
const MethodPartialAverage = "partial_average"

// Params are the keyword parameters carried to every targeted
// organization in a single fan-out.
type Params struct {
	ColumnName string `json:"column_name"`
	DropNA     bool   `json:"drop_na"`
}

type Task struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Method     string            `json:"method"`
	Params     Params            `json:"params"`
	OrgIDs     []string          `json:"org_ids,omitempty"`
	State      State             `json:"state"`
	Results    []average.Partial `json:"results,omitempty"`
	Error      string            `json:"error,omitempty"`
	StartTime  time.Time         `json:"start_time"`
	FinishTime time.Time         `json:"finish_time"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

type TaskPage struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
	Total  uint64 `json:"total"`
	Tasks  []Task `json:"tasks"`
}
