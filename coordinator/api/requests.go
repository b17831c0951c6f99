package api

import (
	apiutil "github.com/absmach/supermq/api/http/util"

	"github.com/rodneyosodo/fedmean/coordinator"
	"github.com/rodneyosodo/fedmean/task"
)

type taskReq struct {
	task.Task `json:",inline"`
}

func (t *taskReq) validate() error {
	if t.Params.ColumnName == "" {
		return apiutil.ErrMissingName
	}

	return nil
}

type entityReq struct {
	id string
}

func (e *entityReq) validate() error {
	if e.id == "" {
		return apiutil.ErrMissingID
	}

	return nil
}

type listEntityReq struct {
	offset, limit uint64
}

func (e *listEntityReq) validate() error {
	return nil
}

type averageReq struct {
	coordinator.AverageSpec `json:",inline"`
}

func (a *averageReq) validate() error {
	if a.ColumnName == "" {
		return apiutil.ErrMissingName
	}

	return nil
}
